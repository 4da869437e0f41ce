package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventvite/internal/domain"
)

const minPasswordLen = 8

type userService struct {
	userRepo       domain.UserRepository
	eventRepo      domain.EventRepository
	sync           domain.GuestSynchronizer
	hasher         domain.PasswordHasher
	fileStore      domain.FileStore
	emailService   domain.EmailService
	baseURL        string
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repositories and ports.
func NewUserService(
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	sync domain.GuestSynchronizer,
	hasher domain.PasswordHasher,
	fileStore domain.FileStore,
	emailService domain.EmailService,
	baseURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		sync:           sync,
		hasher:         hasher,
		fileStore:      fileStore,
		emailService:   emailService,
		baseURL:        baseURL,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *userService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if password == "" {
		return nil, domain.NewValidationError("password", "Password is required.")
	}
	if len(password) < minPasswordLen {
		return nil, domain.NewValidationError("password", "Password is too short.")
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		Salt:            salt,
		FirstName:       strings.TrimSpace(firstName),
		LastName:        strings.TrimSpace(lastName),
		ActivationToken: uuid.NewString(),
		CreatedAt:       time.Now(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	// First creation only; a failed send never rolls back the registration.
	s.sendActivation(ctx, user)
	return user, nil
}

func (s *userService) sendActivation(ctx context.Context, user *domain.User) {
	data := &domain.ActivationEmailData{
		Email:          user.Email,
		FirstName:      user.FirstName,
		ActivationLink: s.baseURL + "/activate/" + user.ActivationToken,
	}
	if err := s.emailService.SendActivation(ctx, data); err != nil {
		s.logger.Warn("send activation email failed", "user_id", user.ID, "err", err)
	}
}

func (s *userService) Activate(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := s.userRepo.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("get user by activation token: %w", err)
	}
	if user.Active {
		return domain.ErrInvalidToken
	}
	user.Active = true
	user.ActivationToken = uuid.NewString()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}

	if upd.NewPassword != nil {
		if upd.CurrentPassword == nil {
			return nil, domain.NewValidationError("password", "Current password is required.")
		}
		if err := s.hasher.Compare(user.PasswordHash, user.Salt, *upd.CurrentPassword); err != nil {
			return nil, domain.NewValidationError("password", "Current password is invalid.")
		}
		if len(*upd.NewPassword) < minPasswordLen {
			return nil, domain.NewValidationError("password", "Password is too short.")
		}
		salt, err := s.hasher.GenerateSalt()
		if err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(salt, *upd.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Salt = salt
		user.PasswordHash = hash
	}

	if upd.Picture != nil {
		if !domain.ValidPictureMimeType(upd.Picture.MimeType) {
			return nil, domain.NewValidationError("picture", "Invalid file.")
		}
		path, url, err := s.fileStore.Upload(ctx, "picture/"+user.ID, upd.Picture.MimeType, upd.Picture.Data)
		if err != nil {
			return nil, fmt.Errorf("upload picture: %w", err)
		}
		user.Picture = &domain.Picture{
			Path: path,
			URL:  url,
			OriginalFile: domain.PictureFile{
				Name:     upd.Picture.Name,
				MimeType: upd.Picture.MimeType,
				Size:     int64(len(upd.Picture.Data)),
			},
		}
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *userService) Respond(ctx context.Context, userID, eventID string, action domain.ResponseAction) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	inv := user.FindInvitation(eventID)
	if inv == nil {
		return domain.ErrNotFound
	}
	if err := inv.Status.Apply(action); err != nil {
		// ErrAlreadyAnswered: the stored status is left unchanged.
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	// The user-side write is durable; copy the status onto the event's guest
	// entry and notify the admin.
	if err := s.sync.InvitationAnswered(ctx, user, inv); err != nil {
		return fmt.Errorf("mirror response for event %s: %w", eventID, err)
	}
	return nil
}

func (s *userService) ListDirectory(ctx context.Context) ([]*domain.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.UserSummary{}
	}
	return users, nil
}

func (s *userService) ListAdminEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByAdminID(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list admin events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
