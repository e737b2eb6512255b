package mailer

import (
	"context"
	"log"
	"sync"
)

// LogMailer records messages instead of delivering them. It stands in for
// a real provider in local development and tests.
type LogMailer struct {
	mu   sync.Mutex
	sent []Message

	// Fail makes every Send return this error, to exercise dispatch
	// failure paths.
	Fail error
	// Quiet suppresses log output.
	Quiet bool
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if m.Fail != nil {
		return m.Fail
	}

	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	if !m.Quiet {
		log.Printf("[mail] to=%s subject=%q", msg.To, msg.Subject)
	}
	return nil
}

// Sent returns a copy of the delivered messages.
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
