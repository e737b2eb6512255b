// Package mailer delivers the lifecycle emails: account verification and
// password reset. Bodies are rendered from embedded templates; delivery
// goes through a pluggable Mailer so tests and local runs can swap the
// transactional provider for a logger.
package mailer

import (
	"context"
	"errors"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages. Implementations must honor the context
// deadline as the delivery budget.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

const (
	subjectVerifyEmail   = "DermMate - Verify your email"
	subjectPasswordReset = "DermMate - Password Reset"
)

// Service renders and sends the lifecycle emails. It satisfies the
// dispatcher seam the auth package expects.
type Service struct {
	mailer    Mailer
	templates *Templates
}

func NewService(m Mailer) (*Service, error) {
	if m == nil {
		return nil, errors.New("mailer: a Mailer implementation is required")
	}

	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	return &Service{mailer: m, templates: templates}, nil
}

func (s *Service) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	html, err := s.templates.Render("emails/verify_email", map[string]any{
		"name": name,
		"link": link,
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, Message{
		To:      to,
		Subject: subjectVerifyEmail,
		HTML:    html,
	})
}

func (s *Service) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	html, err := s.templates.Render("emails/reset_password", map[string]any{
		"name": name,
		"link": link,
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, Message{
		To:      to,
		Subject: subjectPasswordReset,
		HTML:    html,
	})
}
