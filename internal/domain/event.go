package domain

import (
	"context"
	"strings"
	"time"
)

// Guest is an event-owned record for one invited user and their response.
type Guest struct {
	UserID string         `json:"user_id"`
	Status ResponseStatus `json:"status"`
}

// Event is the aggregate owning event metadata and the authoritative guest
// list. It is saved and loaded as one document; guests are embedded.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	AdminID     string    `json:"admin_id"`
	Guests      []Guest   `json:"guests"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns an Event with the given fields. ID is assigned by the
// service before the first save.
func NewEvent(title, description string, date time.Time, adminID string, createdAt time.Time) *Event {
	return &Event{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Date:        date,
		AdminID:     adminID,
		CreatedAt:   createdAt,
	}
}

// Validate checks field-level constraints and returns a ValidationError
// listing every violated field, or nil. It also collapses duplicate guests.
func (e *Event) Validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(e.Title) == "" {
		ve.Add("title", "Title is required.")
	}
	if strings.TrimSpace(e.Description) == "" {
		ve.Add("description", "Description is required.")
	}
	if e.Date.IsZero() {
		ve.Add("date", "Date and time are required.")
	}
	if e.AdminID == "" {
		ve.Add("admin", "Admin user is required.")
	}
	for _, g := range e.Guests {
		if g.UserID == "" {
			ve.Add("guests", "Guest must have an associated user.")
			break
		}
	}
	e.DedupGuests()
	if ve.Empty() {
		return nil
	}
	return ve
}

// DedupGuests silently drops guests whose user reference already appeared
// earlier in the list. The first occurrence wins.
func (e *Event) DedupGuests() {
	seen := make(map[string]struct{}, len(e.Guests))
	kept := e.Guests[:0]
	for _, g := range e.Guests {
		if _, ok := seen[g.UserID]; ok {
			continue
		}
		seen[g.UserID] = struct{}{}
		kept = append(kept, g)
	}
	e.Guests = kept
}

// AddGuest appends a pending guest for userID. Returns false without
// modification if the user is already on the guest list.
func (e *Event) AddGuest(userID string) bool {
	if e.FindGuest(userID) != nil {
		return false
	}
	e.Guests = append(e.Guests, Guest{UserID: userID})
	return true
}

// RemoveGuest deletes the guest entry for userID. Removing an absent guest
// is a no-op and returns false.
func (e *Event) RemoveGuest(userID string) bool {
	for i, g := range e.Guests {
		if g.UserID == userID {
			e.Guests = append(e.Guests[:i], e.Guests[i+1:]...)
			return true
		}
	}
	return false
}

// FindGuest returns the guest entry for userID, or nil.
func (e *Event) FindGuest(userID string) *Guest {
	for i := range e.Guests {
		if e.Guests[i].UserID == userID {
			return &e.Guests[i]
		}
	}
	return nil
}

// GuestUserIDs returns the user references of the current guest list in order.
func (e *Event) GuestUserIDs() []string {
	ids := make([]string, len(e.Guests))
	for i, g := range e.Guests {
		ids[i] = g.UserID
	}
	return ids
}

// EventRepository persists Event aggregates one at a time. Save is an
// insert-or-update of the whole document; no cross-aggregate transaction is
// available.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByAdminID(ctx context.Context, adminID string, from time.Time) ([]*Event, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventUpdate carries the caller-supplied changes for an event update.
// Nil fields are left unchanged. GuestIDs, when non-nil, is the proposed
// replacement guest list reconciled by diff (see EventService.Update).
// Date is accepted only to be rejected: the event date is immutable.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	GuestIDs    []string
}

// EventService is the business surface for the event aggregate.
type EventService interface {
	// Create validates and persists a new event, assigns the caller as admin,
	// records the event in the admin's admin_events, and mirrors an invitation
	// into every guest's user aggregate after the event write is durable.
	Create(ctx context.Context, title, description string, date time.Time, guestIDs []string, adminID string) (*Event, error)
	// GetByID returns the event with its guest list. No ownership required.
	GetByID(ctx context.Context, id string) (*Event, error)
	// Update applies upd after verifying callerID is the event admin. A
	// non-nil Date fails validation. A non-nil guest list is reconciled by
	// set difference: dropped guests are removed (mirrored invitations
	// pruned), new guests added (invitations created), and guests present in
	// both keep their response status.
	Update(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	// Delete removes the event after verifying callerID is the admin. Every
	// guest is removed individually first so each mirrored invitation is
	// pruned and each guest notified.
	Delete(ctx context.Context, eventID, callerID string) error
}
