// Package activity emits audit events for asset field edits and uploads.
package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Verbs emitted by the field runtime.
const (
	VerbLinked    = "asset.linked"
	VerbUnlinked  = "asset.unlinked"
	VerbCleared   = "field.cleared"
	VerbReordered = "field.reordered"
	VerbUploaded  = "asset.uploaded"
	VerbFailed    = "asset.upload_failed"
	VerbInserted  = "svg.inserted"
)

// DefaultChannel tags events emitted without an explicit channel.
const DefaultChannel = "assetfield"

// Event describes something that happened to a field or asset.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify implements Hook.
func (f HookFunc) Notify(ctx context.Context, event Event) error { return f(ctx, event) }

// Emitter fans events out to hooks.
type Emitter struct {
	hooks    []Hook
	actorID  string
	tenantID string
	now      func() time.Time
}

// Option customises an Emitter.
type Option func(*Emitter)

// WithActor sets the actor id stamped on events that carry none.
func WithActor(id string) Option {
	return func(e *Emitter) {
		e.actorID = strings.TrimSpace(id)
	}
}

// WithTenant sets the tenant id stamped on events that carry none.
func WithTenant(id string) Option {
	return func(e *Emitter) {
		e.tenantID = strings.TrimSpace(id)
	}
}

// WithClock overrides the clock used for OccurredAt.
func WithClock(clock func() time.Time) Option {
	return func(e *Emitter) {
		if clock != nil {
			e.now = clock
		}
	}
}

// NewEmitter builds an emitter for hooks; nil hooks are skipped.
func NewEmitter(hooks []Hook, opts ...Option) *Emitter {
	e := &Emitter{now: time.Now}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether any hook is registered.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit delivers event to every hook and joins their errors. Events without a
// verb are dropped.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() || strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	if event.Channel == "" {
		event.Channel = DefaultChannel
	}
	if event.ActorID == "" {
		event.ActorID = e.actorID
	}
	if event.TenantID == "" {
		event.TenantID = e.tenantID
	}
	var errs []error
	for _, hook := range e.hooks {
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
