package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/msomdec/skill-swap/internal/domain"
)

// UserService is the user registry: lookup, profile edits, moderation and browsing.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create adds a user. Fails with domain.ErrDuplicateEmail if the email is taken.
func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// Update replaces the stored record with the same ID.
func (s *UserService) Update(ctx context.Context, user *domain.User) error {
	return s.users.Update(ctx, user)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// SetBanned bans or unbans a user. Administrators cannot be banned.
func (s *UserService) SetBanned(ctx context.Context, userID string, banned bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if banned && user.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators cannot be banned", domain.ErrInvalidInput)
	}
	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		return nil, fmt.Errorf("set banned: %w", err)
	}
	return s.users.GetByID(ctx, userID)
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name          string
	Location      string
	PhotoURL      string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  []string
	IsPublic      bool
}

// UpdateProfile sanitizes and applies a profile edit.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	name := sanitizeText(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	profile := domain.Profile{
		Name:          name,
		Location:      sanitizeText(in.Location),
		PhotoURL:      strings.TrimSpace(in.PhotoURL),
		SkillsOffered: sanitizeList(in.SkillsOffered),
		SkillsWanted:  sanitizeList(in.SkillsWanted),
		Availability:  sanitizeList(in.Availability),
		IsPublic:      in.IsPublic,
	}
	if err := s.users.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.users.GetByID(ctx, userID)
}

// BrowseQuery filters the public directory.
type BrowseQuery struct {
	Search string // Case-insensitive match on name, skills or location.
	Skill  string // Exact offered or wanted skill.
}

// Browse lists public, non-banned users other than the viewer.
func (s *UserService) Browse(ctx context.Context, viewerID string, q BrowseQuery) ([]domain.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	var out []domain.User
	for _, u := range all {
		if u.ID == viewerID || !u.Browseable() {
			continue
		}
		if q.Skill != "" && !slices.Contains(u.SkillsOffered, q.Skill) && !slices.Contains(u.SkillsWanted, q.Skill) {
			continue
		}
		if term != "" && !matchesSearch(&u, term) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// AllSkills returns the sorted set of skills listed by browseable users.
func (s *UserService) AllSkills(ctx context.Context) ([]string, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	seen := make(map[string]bool)
	var skills []string
	for _, u := range all {
		if !u.Browseable() {
			continue
		}
		for _, skill := range slices.Concat(u.SkillsOffered, u.SkillsWanted) {
			if !seen[skill] {
				seen[skill] = true
				skills = append(skills, skill)
			}
		}
	}
	slices.Sort(skills)
	return skills, nil
}

func matchesSearch(u *domain.User, term string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
	if contains(u.Name) || contains(u.Location) {
		return true
	}
	return slices.ContainsFunc(u.SkillsOffered, contains) || slices.ContainsFunc(u.SkillsWanted, contains)
}
