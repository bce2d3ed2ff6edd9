package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/skill-swap/internal/domain"
)

type swapRepo struct {
	db *sql.DB
}

const swapColumns = `id, requester_id, recipient_id, offered_skill, requested_skill,
	message, status, created_at, updated_at, rating, feedback, rated_by`

func (r *swapRepo) Create(ctx context.Context, swap *domain.SwapRequest) error {
	if swap.ID == "" {
		swap.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO swap_requests (`+swapColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		swap.ID, swap.RequesterID, swap.RecipientID, swap.OfferedSkill, swap.RequestedSkill,
		swap.Message, swap.Status, swap.CreatedAt.UTC(), nullTime(swap), swap.Rating, swap.Feedback, swap.RatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

func (r *swapRepo) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	s, err := scanSwap(r.db.QueryRowContext(ctx,
		`SELECT `+swapColumns+` FROM swap_requests WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get swap request: %w", err)
	}
	return s, nil
}

func (r *swapRepo) Update(ctx context.Context, swap *domain.SwapRequest) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE swap_requests SET offered_skill = ?, requested_skill = ?, message = ?,
		 status = ?, updated_at = ?, rating = ?, feedback = ?, rated_by = ?
		 WHERE id = ?`,
		swap.OfferedSkill, swap.RequestedSkill, swap.Message,
		swap.Status, nullTime(swap), swap.Rating, swap.Feedback, swap.RatedBy,
		swap.ID,
	)
	if err != nil {
		return fmt.Errorf("update swap request: %w", err)
	}
	return expectOneRow(result)
}

func (r *swapRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM swap_requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	return expectOneRow(result)
}

func (r *swapRepo) List(ctx context.Context, filter domain.SwapFilter) ([]domain.SwapRequest, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.UserID != "" {
		switch filter.Direction {
		case domain.DirectionSent:
			where = append(where, "requester_id = ?")
			args = append(args, filter.UserID)
		case domain.DirectionReceived:
			where = append(where, "recipient_id = ?")
			args = append(args, filter.UserID)
		default:
			where = append(where, "(requester_id = ? OR recipient_id = ?)")
			args = append(args, filter.UserID, filter.UserID)
		}
	}

	query := `SELECT ` + swapColumns + ` FROM swap_requests`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	var swaps []domain.SwapRequest
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		swaps = append(swaps, *s)
	}
	return swaps, rows.Err()
}

func scanSwap(row rowScanner) (*domain.SwapRequest, error) {
	var (
		s         domain.SwapRequest
		updatedAt sql.NullTime
		rating    sql.NullInt64
		feedback  sql.NullString
	)
	err := row.Scan(&s.ID, &s.RequesterID, &s.RecipientID, &s.OfferedSkill, &s.RequestedSkill,
		&s.Message, &s.Status, &s.CreatedAt, &updatedAt, &rating, &feedback, &s.RatedBy)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		s.UpdatedAt = &t
	}
	if rating.Valid {
		v := int(rating.Int64)
		s.Rating = &v
	}
	if feedback.Valid {
		v := feedback.String
		s.Feedback = &v
	}
	return &s, nil
}

func nullTime(s *domain.SwapRequest) sql.NullTime {
	if s.UpdatedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: s.UpdatedAt.UTC(), Valid: true}
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
