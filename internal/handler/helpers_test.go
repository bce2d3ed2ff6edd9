package handler_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/handler"
	"github.com/msomdec/skill-swap/internal/repository/memory"
	"github.com/msomdec/skill-swap/internal/repository/sqlite"
	"github.com/msomdec/skill-swap/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

const testPassword = "Secret123"

func newServices(db domain.Database) handler.Services {
	notes := service.NewNotificationService(db.Notifications(), db.Users())
	sessions := service.NewSessionService(db.Sessions(), service.DefaultSessionTTL)
	return handler.Services{
		Auth:          service.NewAuthService(db.Users(), sessions, testJWTSecret, 4),
		Users:         service.NewUserService(db.Users()),
		Swaps:         service.NewSwapService(db.Swaps(), db.Users(), notes),
		Notifications: notes,
	}
}

// newTestServices wires services over a temp-file SQLite database.
func newTestServices(t *testing.T) handler.Services {
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
	return newServices(db)
}

// newMemoryServices wires services over the in-memory backend.
func newMemoryServices(t *testing.T) handler.Services {
	t.Helper()
	return newServices(memory.New())
}

// registerAndLogin creates a member and returns a session token for them.
func registerAndLogin(t *testing.T, svc handler.Services, email, name string) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	user, err := svc.Auth.Register(ctx, service.RegisterInput{
		Email: email, Name: name, Password: testPassword, ConfirmPassword: testPassword,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Auth.Login(ctx, email, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return user, token
}
