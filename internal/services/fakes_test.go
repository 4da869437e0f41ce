package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"eventvite/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	saveErr   error // if set, Save returns this error
	getErr    error // if set, GetByID returns this error
	saveCalls int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByAdminID(ctx context.Context, adminID string, from time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.AdminID == adminID && !e.Date.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeEventRepo) Save(ctx context.Context, event *domain.Event) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.byID[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	saveErr   error // if set, Save returns this error
	saveCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByActivationToken(ctx context.Context, token string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.ActivationToken == token {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListSummaries(ctx context.Context) ([]*domain.UserSummary, error) {
	var out []*domain.UserSummary
	for _, u := range f.byID {
		out = append(out, &domain.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, u := range f.byID {
		if u.ID != user.ID && u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.byID[user.ID] = user
	return nil
}

// fakeEmailService records sent emails and optionally fails every send.
type fakeEmailService struct {
	activations  []*domain.ActivationEmailData
	invitations  []*domain.InvitationEmailData
	cancellation []*domain.CancellationEmailData
	responded    []*domain.GuestRespondedEmailData
	err          error // if set, every Send method returns this error
}

func (f *fakeEmailService) SendActivation(ctx context.Context, data *domain.ActivationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.activations = append(f.activations, data)
	return nil
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func (f *fakeEmailService) SendCancellation(ctx context.Context, data *domain.CancellationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.cancellation = append(f.cancellation, data)
	return nil
}

func (f *fakeEmailService) SendGuestResponded(ctx context.Context, data *domain.GuestRespondedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.responded = append(f.responded, data)
	return nil
}

// fakeHasher is a transparent PasswordHasher so tests can assert on stored values.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hashed:"+salt+":"+password {
		return errors.New("password mismatch")
	}
	return nil
}

// fakeFileStore records uploads in memory.
type fakeFileStore struct {
	uploads map[string][]byte
	err     error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploads: make(map[string][]byte)}
}

func (f *fakeFileStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.uploads[key] = data
	return key, "https://files.test/" + key, nil
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct {
	err error
}

func (f fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("token-%s", userID), nil
}

// activeUser returns a persisted, activated user for tests.
func activeUser(repo *fakeUserRepo, id, email string) *domain.User {
	return repo.add(&domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed:salt:password123",
		Salt:         "salt",
		FirstName:    "First-" + id,
		LastName:     "Last-" + id,
		Active:       true,
	})
}
