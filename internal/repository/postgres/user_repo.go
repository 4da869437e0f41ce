package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventvite/internal/domain"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// userRepository stores each User aggregate as one JSONB document plus the
// projected columns carrying the unique email and activation token
// constraints.
type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getByColumn(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByColumn(ctx, "email", email)
}

func (r *userRepository) GetByActivationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getByColumn(ctx, "activation_token", token)
}

func (r *userRepository) getByColumn(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT doc
		FROM users
		WHERE %s = $1
	`, column)
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, value).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u := &domain.User{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

func (r *userRepository) ListSummaries(ctx context.Context) ([]*domain.UserSummary, error) {
	query := `
		SELECT id, doc->>'firstname', doc->>'lastname'
		FROM users
		ORDER BY doc->>'lastname', doc->>'firstname'
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.UserSummary, 0)
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Save(ctx context.Context, u *domain.User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.ID, err)
	}
	query := `
		INSERT INTO users (id, email, activation_token, doc, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, activation_token = EXCLUDED.activation_token, doc = EXCLUDED.doc
	`
	if _, err := r.DB.ExecContext(ctx, query, u.ID, u.Email, u.ActivationToken, doc, u.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && strings.Contains(pqErr.Constraint, "email") {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}
