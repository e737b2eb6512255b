// Package activitymap converts audit events into the transport agnostic
// shape downstream consumers ingest: activity feeds, analytics, and alerting
// all expect an actor, a verb, and an object.
package activitymap

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	auth "github.com/dermmate/auth-service"
)

const (
	defaultChannel    = "auth"
	defaultObjectType = "user"
	systemActorID     = "system"
)

// MetadataKeyEmail carries the account email when the event has one.
const MetadataKeyEmail = "email"

// Normalized is one activity record in the downstream shape.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization.
type Option func(*options)

type options struct {
	channel string
	actorID string
}

// WithChannel overrides the default "auth" channel.
func WithChannel(channel string) Option {
	return func(o *options) {
		if channel != "" {
			o.channel = channel
		}
	}
}

// WithActorID attributes events to a fixed actor instead of the affected
// account, for flows driven by operators or jobs.
func WithActorID(id string) Option {
	return func(o *options) {
		o.actorID = id
	}
}

// Normalize maps an audit event onto the actor/verb/object shape. The verb
// is the event type with its object prefix stripped, so "user.registered"
// becomes "registered" on an object of type "user".
func Normalize(event auth.ActivityEvent, opts ...Option) Normalized {
	o := options{channel: defaultChannel}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	actor := o.actorID
	if actor == "" {
		actor = event.UserID
	}
	if actor == "" {
		actor = systemActorID
	}

	occurred := event.At
	if occurred.IsZero() {
		occurred = time.Now()
	}

	metadata := make(map[string]any, len(event.Metadata)+1)
	for k, v := range event.Metadata {
		metadata[k] = v
	}
	if event.Email != "" {
		metadata[MetadataKeyEmail] = event.Email
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return Normalized{
		ActorID:    actor,
		Verb:       strings.TrimPrefix(string(event.Type), defaultObjectType+"."),
		ObjectType: defaultObjectType,
		ObjectID:   event.UserID,
		Channel:    o.channel,
		Metadata:   metadata,
		OccurredAt: occurred,
	}
}

// LoggerSink normalizes audit events and writes them to the service logger
// as JSON, one line per event.
type LoggerSink struct {
	Logger auth.Logger
	Opts   []Option
}

func (s LoggerSink) RecordActivity(_ context.Context, event auth.ActivityEvent) {
	if s.Logger == nil {
		return
	}

	raw, err := json.Marshal(Normalize(event, s.Opts...))
	if err != nil {
		s.Logger.Error("unable to encode activity %s: %v", event.Type, err)
		return
	}

	s.Logger.Info("activity %s", raw)
}
