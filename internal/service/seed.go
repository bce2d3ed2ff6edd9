package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/skill-swap/internal/domain"
)

// DemoPassword is the password shared by every seeded demo account.
const DemoPassword = "Demo123"

type demoAccount struct {
	email, name, location string
	role                  domain.Role
	offered, wanted       []string
	availability          []string
}

var demoAccounts = []demoAccount{
	{
		email: "admin@skillswap.local", name: "Site Admin", location: "Remote",
		role: domain.RoleAdmin,
	},
	{
		email: "alice@skillswap.local", name: "Alice Moreno", location: "Seattle, WA",
		role:         domain.RoleUser,
		offered:      []string{"Guitar", "Photography"},
		wanted:       []string{"Spanish", "Cooking"},
		availability: []string{"Weekends", "Evenings"},
	},
	{
		email: "bruno@skillswap.local", name: "Bruno Costa", location: "Austin, TX",
		role:         domain.RoleUser,
		offered:      []string{"Spanish", "Cooking"},
		wanted:       []string{"Guitar"},
		availability: []string{"Weekday mornings"},
	},
	{
		email: "chen@skillswap.local", name: "Chen Wei", location: "Toronto, ON",
		role:         domain.RoleUser,
		offered:      []string{"Python", "Data Analysis"},
		wanted:       []string{"Photography"},
		availability: []string{"Evenings"},
	},
}

// SeedDemo creates the demo accounts that do not exist yet and returns how
// many were added. Running it again is a no-op.
func (s *AuthService) SeedDemo(ctx context.Context) (int, error) {
	created := 0
	for _, acct := range demoAccounts {
		_, err := s.users.GetByEmail(ctx, acct.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("check demo user %s: %w", acct.email, err)
		}

		user, err := s.Register(ctx, RegisterInput{
			Email:           acct.email,
			Name:            acct.name,
			Password:        DemoPassword,
			ConfirmPassword: DemoPassword,
			Location:        acct.location,
		})
		if err != nil {
			return created, fmt.Errorf("seed demo user %s: %w", acct.email, err)
		}

		user.Role = acct.role
		user.SkillsOffered = acct.offered
		user.SkillsWanted = acct.wanted
		user.Availability = acct.availability
		if err := s.users.Update(ctx, user); err != nil {
			return created, fmt.Errorf("seed demo profile %s: %w", acct.email, err)
		}
		created++
	}
	if created > 0 {
		slog.Info("seeded demo accounts", "count", created)
	}
	return created, nil
}
