package auth

import (
	"context"
	"time"
)

// ActivityType tags the lifecycle transitions worth auditing.
type ActivityType string

const (
	ActivityUserRegistered         ActivityType = "user.registered"
	ActivityEmailVerified          ActivityType = "user.email_verified"
	ActivityLoginSucceeded         ActivityType = "user.login_succeeded"
	ActivityLoginFailed            ActivityType = "user.login_failed"
	ActivityPasswordResetRequested ActivityType = "user.password_reset_requested"
	ActivityPasswordResetCompleted ActivityType = "user.password_reset_completed"
	ActivityProfileUpdated         ActivityType = "user.profile_updated"
)

// ActivityEvent is an audit record for one lifecycle transition.
type ActivityEvent struct {
	Type     ActivityType   `json:"type"`
	UserID   string         `json:"user_id,omitempty"`
	Email    string         `json:"email,omitempty"`
	At       time.Time      `json:"at"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ActivitySink receives audit events. Sinks must not block; delivery is
// best effort and never fails the operation being audited.
type ActivitySink interface {
	RecordActivity(ctx context.Context, event ActivityEvent)
}

type noopActivitySink struct{}

func (noopActivitySink) RecordActivity(context.Context, ActivityEvent) {}

func normalizeActivitySink(sink ActivitySink) ActivitySink {
	if sink == nil {
		return noopActivitySink{}
	}
	return sink
}

// LoggerActivitySink writes audit events to the package logger.
type LoggerActivitySink struct {
	Logger Logger
}

func (s LoggerActivitySink) RecordActivity(_ context.Context, event ActivityEvent) {
	logger := normalizeLogger(s.Logger)
	logger.Info("activity %s user=%s email=%s", event.Type, event.UserID, event.Email)
}

func newActivityEvent(t ActivityType, user *User) ActivityEvent {
	event := ActivityEvent{Type: t, At: time.Now()}
	if user != nil {
		event.UserID = user.ID.String()
		event.Email = user.Email
	}
	return event
}
