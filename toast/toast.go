// Package toast standardizes the transient messages shown to shoppers.
//
// A Toaster builds Toast values and hands them to a Sink, the display
// primitive. Sinks decide how a toast reaches the user: an in-memory inbox
// polled over HTTP, a websocket room, or the log.
package toast

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindDefault Kind = "default"
	KindLoading Kind = "loading"
)

// DefaultDuration is applied when a toast does not set its own.
const DefaultDuration = 4 * time.Second

// Action is an optional button rendered on the toast.
type Action struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

type Toast struct {
	ID          string        `json:"id"`
	Kind        Kind          `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	Action      *Action       `json:"action,omitempty"`
	Duration    time.Duration `json:"-"`
	CreatedAt   time.Time     `json:"createdAt"`
	ExpiresAt   *time.Time    `json:"expiresAt,omitempty"`
}

// Expired reports whether an auto-dismissing toast is past its lifetime.
func (t Toast) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

type Options struct {
	Description string
	Icon        string
	Action      *Action
	Duration    time.Duration
}

// Sink displays toasts. Show with an id already shown replaces that toast.
// Dismiss with an empty id removes everything.
type Sink interface {
	Show(t Toast)
	Dismiss(id string)
}

type Toaster struct {
	sink  Sink
	clock clockwork.Clock
}

func New(sink Sink, clock clockwork.Clock) *Toaster {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Toaster{sink: sink, clock: clock}
}

func (t *Toaster) Success(title string, opts ...Options) string {
	return t.show("", KindSuccess, title, "", opts)
}

func (t *Toaster) Error(title string, opts ...Options) string {
	return t.show("", KindError, title, "", opts)
}

func (t *Toaster) Info(title string, opts ...Options) string {
	return t.show("", KindInfo, title, "", opts)
}

func (t *Toaster) Warning(title string, opts ...Options) string {
	return t.show("", KindWarning, title, "", opts)
}

func (t *Toaster) Default(title string, opts ...Options) string {
	return t.show("", KindDefault, title, "", opts)
}

// Custom shows a toast of the given kind with a specific icon.
func (t *Toaster) Custom(title string, kind Kind, icon string, opts ...Options) string {
	return t.show("", kind, title, icon, opts)
}

// Update replaces the content of a toast that is already showing.
func (t *Toaster) Update(id string, kind Kind, title string, opts ...Options) {
	t.show(id, kind, title, "", opts)
}

// Dismiss removes one toast, or all of them when id is empty.
func (t *Toaster) Dismiss(id string) {
	t.sink.Dismiss(id)
}

func (t *Toaster) show(id string, kind Kind, title, icon string, opts []Options) string {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if id == "" {
		id = uuid.NewString()
	}
	if icon == "" {
		icon = o.Icon
	}
	now := t.clock.Now()
	msg := Toast{
		ID:          id,
		Kind:        kind,
		Title:       title,
		Description: o.Description,
		Icon:        icon,
		Action:      o.Action,
		Duration:    o.Duration,
		CreatedAt:   now,
	}
	// loading toasts stay up until the promise settles
	if kind != KindLoading {
		if msg.Duration <= 0 {
			msg.Duration = DefaultDuration
		}
		exp := now.Add(msg.Duration)
		msg.ExpiresAt = &exp
	}
	t.sink.Show(msg)
	return id
}

// Messages configures a promise toast.
type Messages[T any] struct {
	Loading string
	Success func(T) string
	Error   func(error) string
}

// Promise shows a loading toast, runs fn, then turns the same toast into a
// success or error message depending on the outcome. fn's result is returned
// unchanged; nothing is retried.
func Promise[T any](ctx context.Context, t *Toaster, fn func(context.Context) (T, error), msgs Messages[T], opts ...Options) (T, error) {
	id := t.show("", KindLoading, msgs.Loading, "", opts)
	v, err := fn(ctx)
	if err != nil {
		title := "Something went wrong"
		if msgs.Error != nil {
			title = msgs.Error(err)
		}
		t.Update(id, KindError, title, opts...)
		return v, err
	}
	title := "Done"
	if msgs.Success != nil {
		title = msgs.Success(v)
	}
	t.Update(id, KindSuccess, title, opts...)
	return v, nil
}
