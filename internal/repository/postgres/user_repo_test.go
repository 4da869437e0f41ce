package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventvite/internal/domain"
)

func userDoc(t *testing.T, u *domain.User) []byte {
	t.Helper()
	doc, err := json.Marshal(u)
	require.NoError(t, err)
	return doc
}

func testStoredUser() *domain.User {
	return &domain.User{
		ID:              "user-1",
		Email:           "max@example.com",
		PasswordHash:    "hash",
		Salt:            "salt",
		FirstName:       "Max",
		LastName:        "Muster",
		ActivationToken: "tok-1",
		Active:          true,
		Invitations: []domain.Invitation{
			{EventID: "ev-1", Date: time.Date(2026, 11, 20, 19, 0, 0, 0, time.UTC), Status: domain.ResponseStatus{Answered: true}},
		},
		AdminEvents: []string{"ev-2"},
	}
}

func TestUserRepository_Get(t *testing.T) {
	ctx := context.Background()
	stored := testStoredUser()

	tests := []struct {
		name string
		arg  string
		call func(repo domain.UserRepository) (*domain.User, error)
	}{
		{
			name: "by id",
			arg:  "user-1",
			call: func(repo domain.UserRepository) (*domain.User, error) { return repo.GetByID(ctx, "user-1") },
		},
		{
			name: "by email",
			arg:  "max@example.com",
			call: func(repo domain.UserRepository) (*domain.User, error) {
				return repo.GetByEmail(ctx, "max@example.com")
			},
		},
		{
			name: "by activation token",
			arg:  "tok-1",
			call: func(repo domain.UserRepository) (*domain.User, error) {
				return repo.GetByActivationToken(ctx, "tok-1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT doc\s+FROM users`).
				WithArgs(tt.arg).
				WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(userDoc(t, stored)))

			repo := NewUserRepository(db)
			user, err := tt.call(repo)
			require.NoError(t, err)
			assert.Equal(t, stored, user)
			assert.Equal(t, domain.StateDeclined, user.Invitations[0].Status.State())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT doc\s+FROM users`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}))

		repo := NewUserRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_ListSummaries(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, doc->>'firstname', doc->>'lastname'\s+FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "firstname", "lastname"}).
			AddRow("u2", "Erika", "Beispiel").
			AddRow("u1", "Max", "Muster"))

	repo := NewUserRepository(db)
	users, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, &domain.UserSummary{ID: "u2", FirstName: "Erika", LastName: "Beispiel"}, users[0])
	assert.Equal(t, &domain.UserSummary{ID: "u1", FirstName: "Max", LastName: "Muster"}, users[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Save(t *testing.T) {
	ctx := context.Background()
	user := testStoredUser()
	user.CreatedAt = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "upserts the whole document",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("user-1", "max@example.com", "tok-1", userDoc(t, user), user.CreatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unique email violation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: domain.ErrDuplicateEmail,
		},
		{
			name: "other unique violation passes through",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_activation_token_key"})
			},
			wantErr: &pq.Error{Code: "23505", Constraint: "users_activation_token_key"},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewUserRepository(db)
			err = repo.Save(ctx, user)
			if tt.wantErr != nil {
				require.Error(t, err)
				if pqErr, ok := tt.wantErr.(*pq.Error); ok {
					var got *pq.Error
					require.ErrorAs(t, err, &got)
					assert.Equal(t, pqErr.Constraint, got.Constraint)
				} else {
					require.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
