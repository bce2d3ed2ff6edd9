package domain

import (
	"context"
	"slices"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultRating is the reputation a user starts with before receiving any ratings.
const DefaultRating = 5.0

// User represents a registered member of the marketplace.
type User struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string
	Location       string
	PhotoURL       string
	SkillsOffered  []string
	SkillsWanted   []string
	Availability   []string
	IsPublic       bool
	Role           Role
	Rating         float64
	RatingCount    int // Number of ratings received; drives the running mean.
	CompletedSwaps int
	IsBanned       bool
	JoinedAt       time.Time
	UpdatedAt      time.Time
}

// Offers reports whether skill is one of the user's offered skills.
func (u *User) Offers(skill string) bool {
	return slices.Contains(u.SkillsOffered, skill)
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Browseable reports whether the user may appear in public listings.
func (u *User) Browseable() bool {
	return u.IsPublic && !u.IsBanned
}

// AddRating folds a newly received rating into the running mean.
// The first rating replaces DefaultRating.
func (u *User) AddRating(rating int) {
	total := u.Rating*float64(u.RatingCount) + float64(rating)
	u.RatingCount++
	u.Rating = min(max(total/float64(u.RatingCount), 0), 5)
}

// Clone returns a deep copy so callers never share slice backing arrays with a store.
func (u *User) Clone() *User {
	c := *u
	c.SkillsOffered = slices.Clone(u.SkillsOffered)
	c.SkillsWanted = slices.Clone(u.SkillsWanted)
	c.Availability = slices.Clone(u.Availability)
	return &c
}

// Profile holds the fields a user edits on their own profile.
type Profile struct {
	Name          string
	Location      string
	PhotoURL      string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  []string
	IsPublic      bool
}

// Apply copies the profile fields onto u.
func (p Profile) Apply(u *User) {
	u.Name = p.Name
	u.Location = p.Location
	u.PhotoURL = p.PhotoURL
	u.SkillsOffered = slices.Clone(p.SkillsOffered)
	u.SkillsWanted = slices.Clone(p.SkillsWanted)
	u.Availability = slices.Clone(p.Availability)
	u.IsPublic = p.IsPublic
}

// Completion is the reputation change a completed swap applies: both
// participants gain a completed swap and the rated user receives Rating.
type Completion struct {
	RaterID string
	RatedID string
	Rating  int
}

// UserRepository defines persistence operations for users.
//
// Update replaces the whole record. SetBanned, UpdateProfile and
// RecordCompletion write only their own columns, atomically.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
	SetBanned(ctx context.Context, id string, banned bool) error
	UpdateProfile(ctx context.Context, id string, p Profile) error
	RecordCompletion(ctx context.Context, c Completion) error
}
