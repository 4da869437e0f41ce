package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventvite/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	sync           domain.GuestSynchronizer
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService wired to the given repositories and
// guest synchronizer.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	sync domain.GuestSynchronizer,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		sync:           sync,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, title, description string, date time.Time, guestIDs []string, adminID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event := domain.NewEvent(title, description, date, adminID, time.Now())
	for _, id := range guestIDs {
		event.AddGuest(id)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.ID = uuid.NewString()

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	s.recordAdminEvent(ctx, adminID, event.ID, true)

	// The event write is durable; mirror an invitation into each guest.
	for _, g := range event.Guests {
		if err := s.sync.GuestAdded(ctx, event, g.UserID); err != nil {
			return nil, fmt.Errorf("mirror invitation for %s: %w", g.UserID, err)
		}
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.AdminID != callerID {
		return nil, domain.ErrForbidden
	}
	if upd.Date != nil {
		return nil, domain.NewValidationError("date", "Date cannot be changed.")
	}
	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}

	var added, removed []string
	if upd.GuestIDs != nil {
		added, removed = diffGuests(event, upd.GuestIDs)
		for _, userID := range removed {
			event.RemoveGuest(userID)
		}
		for _, userID := range added {
			event.AddGuest(userID)
		}
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	// Propagate to the user side only after the event write committed.
	for _, userID := range removed {
		if err := s.sync.GuestRemoved(ctx, event, userID); err != nil {
			return nil, fmt.Errorf("prune invitation for %s: %w", userID, err)
		}
	}
	for _, userID := range added {
		if err := s.sync.GuestAdded(ctx, event, userID); err != nil {
			return nil, fmt.Errorf("mirror invitation for %s: %w", userID, err)
		}
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.AdminID != callerID {
		return domain.ErrForbidden
	}

	// Removing the event row drops the embedded guests without firing any
	// per-guest logic, so each guest is removed individually first to prune
	// the mirrored invitations and notify the guests.
	for _, userID := range event.GuestUserIDs() {
		event.RemoveGuest(userID)
		if err := s.sync.GuestRemoved(ctx, event, userID); err != nil {
			return fmt.Errorf("prune invitation for %s: %w", userID, err)
		}
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.recordAdminEvent(ctx, callerID, eventID, false)
	return nil
}

// diffGuests reconciles the event's guest list against the proposed user
// references by set difference. Duplicates in the proposal are dropped,
// first occurrence wins. Guests present in both lists are left untouched so
// their response status survives the update.
func diffGuests(event *domain.Event, proposedIDs []string) (added, removed []string) {
	proposed := make(map[string]struct{}, len(proposedIDs))
	order := make([]string, 0, len(proposedIDs))
	for _, id := range proposedIDs {
		if _, ok := proposed[id]; ok || id == "" {
			continue
		}
		proposed[id] = struct{}{}
		order = append(order, id)
	}
	for _, g := range event.Guests {
		if _, ok := proposed[g.UserID]; !ok {
			removed = append(removed, g.UserID)
		}
	}
	for _, id := range order {
		if event.FindGuest(id) == nil {
			added = append(added, id)
		}
	}
	return added, removed
}

// recordAdminEvent keeps the admin's admin_events projection in step with the
// events table. The projection is bookkeeping on top of the authoritative
// admin_id column, so failures are logged rather than surfaced.
func (s *eventService) recordAdminEvent(ctx context.Context, adminID, eventID string, add bool) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		s.logger.Warn("load admin for admin_events update failed", "admin_id", adminID, "event_id", eventID, "err", err)
		return
	}
	if add {
		admin.AddAdminEvent(eventID)
	} else {
		admin.RemoveAdminEvent(eventID)
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		s.logger.Warn("save admin_events update failed", "admin_id", adminID, "event_id", eventID, "err", err)
	}
}
