package domain

import "context"

// GuestSynchronizer keeps the Guest entries of an Event and the Invitation
// entries of the referenced Users mutually consistent. The storage layer has
// no cross-aggregate transaction, so every method is called strictly after
// the triggering aggregate write is durable; a crash between the two writes
// leaves the mirror inconsistent, which is an accepted limitation.
//
// All methods are idempotent with respect to the mirrored side, and all
// outbound notifications they trigger are best-effort: a notification
// failure is logged and never surfaced.
type GuestSynchronizer interface {
	// GuestAdded upserts the mirrored Invitation into the guest's user
	// aggregate and notifies the guest. A missing user is a logged no-op.
	GuestAdded(ctx context.Context, event *Event, userID string) error
	// GuestRemoved prunes the mirrored Invitation from the guest's user
	// aggregate and notifies the guest. An absent invitation is a no-op.
	GuestRemoved(ctx context.Context, event *Event, userID string) error
	// InvitationAnswered copies the answered status from the user's
	// Invitation onto the paired Guest entry of the event and notifies the
	// event admin. Called after the user-side write is durable.
	InvitationAnswered(ctx context.Context, user *User, inv *Invitation) error
}
