package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/skill-swap/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService handles registration, login and session tokens. A token is a
// signed JWT whose sid claim names the persisted session cell.
type AuthService struct {
	users      domain.UserRepository
	sessions   *SessionService
	jwtSecret  []byte
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, sessions *SessionService, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

// RegisterInput carries the fields of the sign-up form.
type RegisterInput struct {
	Email           string
	Name            string
	Password        string
	ConfirmPassword string
	Location        string
}

// Register creates a new public member account after validating inputs.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := sanitizeText(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email, name, and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Location:     sanitizeText(in.Location),
		IsPublic:     true,
		Role:         domain.RoleUser,
		Rating:       domain.DefaultRating,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials, persists a session cell and returns a signed
// token for it. Banned users are refused.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	if user.IsBanned {
		return "", nil, fmt.Errorf("%w: account is suspended", domain.ErrUnauthorized)
	}

	sid := uuid.NewString()
	if err := s.sessions.Save(ctx, sid, user); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.generateJWT(user, sid)
	if err != nil {
		return "", nil, fmt.Errorf("generate jwt: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}

// ValidateToken parses and validates a JWT token string.
// Returns the user ID from the sub claim and the session key from sid.
func (s *AuthService) ValidateToken(tokenString string) (userID, sid string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", domain.ErrUnauthorized
	}
	sid, _ = claims["sid"].(string)
	if sid == "" {
		return "", "", domain.ErrUnauthorized
	}

	return sub, sid, nil
}

// Authenticate resolves a token to the current user. The session cell must
// still be live and the user must not have been banned since logging in.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, sid, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	cached, err := s.sessions.Restore(ctx, sid)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if cached.ID != userID {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsBanned {
		if err := s.sessions.Clear(ctx, sid); err != nil {
			slog.Warn("clear banned session", "user_id", user.ID, "error", err)
		}
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Logout clears the session cell behind the token. Invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	_, sid, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil
	}
	return s.sessions.Clear(ctx, sid)
}

// CanAccessAdmin reports whether user may use the administration surface.
func CanAccessAdmin(user *domain.User) bool {
	return user != nil && user.IsAdmin() && !user.IsBanned
}

// SessionTTL is the lifetime of tokens and session cells.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func (s *AuthService) generateJWT(user *domain.User, sid string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"sid":  sid,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.sessions.TTL()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// checkPassword requires a minimum length plus a lower-case letter, an
// upper-case letter and a digit.
func checkPassword(pw string) error {
	if len(pw) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return fmt.Errorf("%w: password must contain upper-case, lower-case and a digit", domain.ErrInvalidInput)
	}
	return nil
}
