package services

import (
	"context"
	"fmt"
	"log"

	"eventvite/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendActivation sends the account activation email using the "activation" template.
func (s *emailService) SendActivation(ctx context.Context, data *domain.ActivationEmailData) error {
	if data == nil {
		return fmt.Errorf("activation email data is nil")
	}
	if err := s.send("activation", data.Email, data); err != nil {
		return err
	}
	log.Printf("[EMAIL] Activation email sent to %s", data.Email)
	return nil
}

// SendInvitation sends the new-invitation email using the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	if err := s.send("invitation", data.Email, data); err != nil {
		return err
	}
	log.Printf("[EMAIL] Invitation email sent to %s", data.Email)
	return nil
}

// SendCancellation sends the guest-removed/event-deleted email using the "cancellation" template.
func (s *emailService) SendCancellation(ctx context.Context, data *domain.CancellationEmailData) error {
	if data == nil {
		return fmt.Errorf("cancellation email data is nil")
	}
	if err := s.send("cancellation", data.Email, data); err != nil {
		return err
	}
	log.Printf("[EMAIL] Cancellation email sent to %s", data.Email)
	return nil
}

// SendGuestResponded sends the guest-answered email to the event admin using
// the "guest_responded" template.
func (s *emailService) SendGuestResponded(ctx context.Context, data *domain.GuestRespondedEmailData) error {
	if data == nil {
		return fmt.Errorf("guest responded email data is nil")
	}
	if err := s.send("guest_responded", data.Email, data); err != nil {
		return err
	}
	log.Printf("[EMAIL] Guest-responded email sent to %s", data.Email)
	return nil
}

func (s *emailService) send(templateName, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", templateName, err)
	}
	return nil
}
