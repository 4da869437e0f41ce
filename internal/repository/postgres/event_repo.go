package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventvite/internal/domain"
)

// eventRepository stores each Event aggregate as one JSONB document plus the
// projected columns used for lookups. There is no cross-aggregate transaction:
// Save touches exactly one row.
type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT doc
		FROM events
		WHERE id = $1
	`
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e := &domain.Event{}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	return e, nil
}

func (r *eventRepository) ListByAdminID(ctx context.Context, adminID string, from time.Time) ([]*domain.Event, error) {
	query := `
		SELECT doc
		FROM events
		WHERE admin_id = $1 AND date >= $2
		ORDER BY date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, adminID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		e := &domain.Event{}
		if err := json.Unmarshal(raw, e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Save(ctx context.Context, e *domain.Event) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	query := `
		INSERT INTO events (id, admin_id, date, doc, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET admin_id = EXCLUDED.admin_id, date = EXCLUDED.date, doc = EXCLUDED.doc
	`
	_, err = r.DB.ExecContext(ctx, query, e.ID, e.AdminID, e.Date, doc, e.CreatedAt)
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
