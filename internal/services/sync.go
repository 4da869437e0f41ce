package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eventvite/internal/domain"
)

// guestSynchronizer maintains the bidirectional mirror between an Event's
// guest list and the referenced Users' invitation lists. Every method runs
// after the triggering aggregate write is durable; the propagated write
// touches exactly one other aggregate. A crash between the two writes leaves
// the mirror inconsistent, which is accepted rather than masked.
type guestSynchronizer struct {
	eventRepo    domain.EventRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
	baseURL      string
	logger       *slog.Logger
}

// NewGuestSynchronizer creates the synchronizer invoked by the event and user
// services after each successful aggregate write.
func NewGuestSynchronizer(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	baseURL string,
	logger *slog.Logger,
) domain.GuestSynchronizer {
	return &guestSynchronizer{
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		emailService: emailService,
		baseURL:      baseURL,
		logger:       logger,
	}
}

func (s *guestSynchronizer) GuestAdded(ctx context.Context, event *domain.Event, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// A guest naming an unknown user cannot be mirrored; the guest
			// entry stays, the invitation is simply never created.
			s.logger.Warn("guest references unknown user", "event_id", event.ID, "user_id", userID)
			return nil
		}
		return fmt.Errorf("get user %s: %w", userID, err)
	}
	inv := domain.Invitation{EventID: event.ID, Date: event.Date}
	if !user.AddInvitation(inv) {
		// Already mirrored; the keep-first dedup makes this a no-op.
		return nil
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user %s: %w", userID, err)
	}
	s.notifyInvited(ctx, user, event)
	return nil
}

func (s *guestSynchronizer) GuestRemoved(ctx context.Context, event *domain.Event, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("get user %s: %w", userID, err)
	}
	if !user.RemoveInvitation(event.ID) {
		// Idempotent: the mirror was already pruned.
		return nil
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("save user %s: %w", userID, err)
	}
	s.notifyCancelled(ctx, user, event)
	return nil
}

func (s *guestSynchronizer) InvitationAnswered(ctx context.Context, user *domain.User, inv *domain.Invitation) error {
	event, err := s.eventRepo.GetByID(ctx, inv.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The event is gone but the invitation survived: the mirror has
			// diverged. Left as-is; there is no reconciliation job.
			s.logger.Warn("invitation references missing event", "event_id", inv.EventID, "user_id", user.ID)
			return nil
		}
		return fmt.Errorf("get event %s: %w", inv.EventID, err)
	}
	guest := event.FindGuest(user.ID)
	if guest == nil {
		s.logger.Warn("no guest entry for answered invitation", "event_id", event.ID, "user_id", user.ID)
		return nil
	}
	guest.Status = inv.Status
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return fmt.Errorf("save event %s: %w", event.ID, err)
	}
	s.notifyAdmin(ctx, user, event, inv.Status.Attending)
	return nil
}

// notifyInvited dispatches the invitation email. Failures are logged, never
// propagated: a lost email must not roll back the state change.
func (s *guestSynchronizer) notifyInvited(ctx context.Context, user *domain.User, event *domain.Event) {
	data := &domain.InvitationEmailData{
		Email:      user.Email,
		FirstName:  user.FirstName,
		EventTitle: event.Title,
		AgendaLink: s.baseURL + "/agenda/",
	}
	if err := s.emailService.SendInvitation(ctx, data); err != nil {
		s.logger.Warn("send invitation email failed", "user_id", user.ID, "event_id", event.ID, "err", err)
	}
}

func (s *guestSynchronizer) notifyCancelled(ctx context.Context, user *domain.User, event *domain.Event) {
	data := &domain.CancellationEmailData{
		Email:      user.Email,
		FirstName:  user.FirstName,
		EventTitle: event.Title,
		AgendaLink: s.baseURL + "/agenda/",
	}
	if err := s.emailService.SendCancellation(ctx, data); err != nil {
		s.logger.Warn("send cancellation email failed", "user_id", user.ID, "event_id", event.ID, "err", err)
	}
}

func (s *guestSynchronizer) notifyAdmin(ctx context.Context, guest *domain.User, event *domain.Event, attending bool) {
	admin, err := s.userRepo.GetByID(ctx, event.AdminID)
	if err != nil {
		s.logger.Warn("load event admin failed", "event_id", event.ID, "admin_id", event.AdminID, "err", err)
		return
	}
	data := &domain.GuestRespondedEmailData{
		Email:      admin.Email,
		FirstName:  admin.FirstName,
		GuestName:  strings.TrimSpace(guest.FirstName + " " + guest.LastName),
		EventTitle: event.Title,
		Attending:  attending,
		EventsLink: s.baseURL + "/myevents/",
	}
	if err := s.emailService.SendGuestResponded(ctx, data); err != nil {
		s.logger.Warn("send guest-responded email failed", "event_id", event.ID, "admin_id", admin.ID, "err", err)
	}
}
