package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/skill-swap/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, email, name, password_hash, location, photo_url,
	skills_offered, skills_wanted, availability, is_public, role, rating,
	rating_count, completed_swaps, is_banned, joined_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = now
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	offered, wanted, availability, err := encodeLists(user)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Location, user.PhotoURL,
		offered, wanted, availability, user.IsPublic, user.Role, user.Rating,
		user.RatingCount, user.CompletedSwaps, user.IsBanned, user.JoinedAt.UTC(), now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	offered, wanted, availability, err := encodeLists(user)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, password_hash = ?, location = ?, photo_url = ?,
		 skills_offered = ?, skills_wanted = ?, availability = ?, is_public = ?, role = ?,
		 rating = ?, rating_count = ?, completed_swaps = ?, is_banned = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email, user.Name, user.PasswordHash, user.Location, user.PhotoURL,
		offered, wanted, availability, user.IsPublic, user.Role,
		user.Rating, user.RatingCount, user.CompletedSwaps, user.IsBanned, now,
		user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_banned = ?, updated_at = ? WHERE id = ?`,
		banned, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	var u domain.User
	p.Apply(&u)
	offered, wanted, availability, err := encodeLists(&u)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, location = ?, photo_url = ?, skills_offered = ?,
		 skills_wanted = ?, availability = ?, is_public = ?, updated_at = ?
		 WHERE id = ?`,
		u.Name, u.Location, u.PhotoURL, offered, wanted, availability, u.IsPublic,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(result)
}

// RecordCompletion bumps both participants' completed counts and folds the
// rating into the rated user's running mean in one transaction.
func (r *UserRepository) RecordCompletion(ctx context.Context, c domain.Completion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE users SET completed_swaps = completed_swaps + 1, updated_at = ?
		 WHERE id IN (?, ?)`,
		now, c.RaterID, c.RatedID)
	if err != nil {
		return fmt.Errorf("increment completed swaps: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows != 2 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET
		 rating = MIN(MAX((rating * rating_count + ?) / (rating_count + 1.0), 0), 5),
		 rating_count = rating_count + 1
		 WHERE id = ?`,
		c.Rating, c.RatedID); err != nil {
		return fmt.Errorf("apply rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit completion: %w", err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY joined_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                              domain.User
		offered, wanted, availability string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Location, &u.PhotoURL,
		&offered, &wanted, &availability, &u.IsPublic, &u.Role, &u.Rating,
		&u.RatingCount, &u.CompletedSwaps, &u.IsBanned, &u.JoinedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		raw string
		dst *[]string
	}{
		{offered, &u.SkillsOffered},
		{wanted, &u.SkillsWanted},
		{availability, &u.Availability},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decode list column: %w", err)
		}
	}
	return &u, nil
}

// encodeLists serializes the ordered string lists as JSON arrays.
func encodeLists(u *domain.User) (offered, wanted, availability string, err error) {
	enc := func(list []string) (string, error) {
		if list == nil {
			list = []string{}
		}
		b, err := json.Marshal(list)
		return string(b), err
	}
	if offered, err = enc(u.SkillsOffered); err != nil {
		return "", "", "", fmt.Errorf("encode skills offered: %w", err)
	}
	if wanted, err = enc(u.SkillsWanted); err != nil {
		return "", "", "", fmt.Errorf("encode skills wanted: %w", err)
	}
	if availability, err = enc(u.Availability); err != nil {
		return "", "", "", fmt.Errorf("encode availability: %w", err)
	}
	return offered, wanted, availability, nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
