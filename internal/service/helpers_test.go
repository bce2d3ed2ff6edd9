package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/repository/sqlite"
	"github.com/msomdec/skill-swap/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

type testEnv struct {
	db       *sqlite.DB
	users    *service.UserService
	notes    *service.NotificationService
	swaps    *service.SwapService
	sessions *service.SessionService
	auth     *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	notes := service.NewNotificationService(db.Notifications(), db.Users())
	sessions := service.NewSessionService(db.Sessions(), service.DefaultSessionTTL)
	return &testEnv{
		db:       db,
		users:    service.NewUserService(db.Users()),
		notes:    notes,
		swaps:    service.NewSwapService(db.Swaps(), db.Users(), notes),
		sessions: sessions,
		// Use cost 4 for fast tests.
		auth: service.NewAuthService(db.Users(), sessions, testJWTSecret, 4),
	}
}

func createMember(t *testing.T, env *testEnv, email, name string, offered, wanted []string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:         email,
		Name:          name,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
		IsPublic:      true,
		Role:          domain.RoleUser,
		Rating:        domain.DefaultRating,
	}
	if err := env.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u
}

func createAdmin(t *testing.T, env *testEnv) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:  "admin@example.com",
		Name:   "Admin",
		Role:   domain.RoleAdmin,
		Rating: domain.DefaultRating,
	}
	if err := env.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return u
}
