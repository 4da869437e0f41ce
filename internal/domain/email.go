package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ActivationEmailData holds data for the account activation email.
type ActivationEmailData struct {
	Email          string
	FirstName      string
	ActivationLink string
}

// InvitationEmailData holds data for the new-invitation email sent to a guest.
type InvitationEmailData struct {
	Email      string
	FirstName  string
	EventTitle string
	AgendaLink string
}

// CancellationEmailData holds data for the email sent when a guest is removed
// or the event is deleted.
type CancellationEmailData struct {
	Email      string
	FirstName  string
	EventTitle string
	AgendaLink string
}

// GuestRespondedEmailData holds data for the email sent to the event admin
// when a guest answers.
type GuestRespondedEmailData struct {
	Email      string
	FirstName  string
	GuestName  string
	EventTitle string
	Attending  bool
	EventsLink string
}

// EmailService defines the contract for sending domain-level emails. All
// sends are best-effort from the caller's perspective: a failed send must
// never roll back the state change that triggered it.
type EmailService interface {
	SendActivation(ctx context.Context, data *ActivationEmailData) error
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	SendCancellation(ctx context.Context, data *CancellationEmailData) error
	SendGuestResponded(ctx context.Context, data *GuestRespondedEmailData) error
}
