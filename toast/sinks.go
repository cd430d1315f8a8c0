package toast

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// inboxLimit bounds how many toasts an inbox keeps.
const inboxLimit = 50

// Inbox keeps the toasts of one session until they expire or are dismissed.
type Inbox struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	toasts []Toast
}

func NewInbox(clock clockwork.Clock) *Inbox {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Inbox{clock: clock}
}

func (in *Inbox) Show(t Toast) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.toasts {
		if in.toasts[i].ID == t.ID {
			in.toasts[i] = t
			return
		}
	}
	in.toasts = append(in.toasts, t)
	if len(in.toasts) > inboxLimit {
		in.toasts = in.toasts[len(in.toasts)-inboxLimit:]
	}
}

func (in *Inbox) Dismiss(id string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id == "" {
		in.toasts = nil
		return
	}
	for i := range in.toasts {
		if in.toasts[i].ID == id {
			in.toasts = append(in.toasts[:i], in.toasts[i+1:]...)
			return
		}
	}
}

// Active returns the toasts still on screen, oldest first, pruning expired ones.
func (in *Inbox) Active() []Toast {
	in.mu.Lock()
	defer in.mu.Unlock()
	now := in.clock.Now()
	kept := in.toasts[:0]
	for _, t := range in.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	in.toasts = kept
	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// LogSink writes every toast to the log.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Show(t Toast) {
	s.Logger.Debug("toast",
		zap.String("id", t.ID),
		zap.String("type", string(t.Kind)),
		zap.String("title", t.Title),
	)
}

func (s LogSink) Dismiss(id string) {
	s.Logger.Debug("toast dismissed", zap.String("id", id))
}

// Fanout delivers to every sink in order.
type Fanout []Sink

func (f Fanout) Show(t Toast) {
	for _, s := range f {
		s.Show(t)
	}
}

func (f Fanout) Dismiss(id string) {
	for _, s := range f {
		s.Dismiss(id)
	}
}

// Center hands out one inbox-backed Toaster per session.
type Center struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	logger  *zap.Logger
	extra   func(session string) Sink
	inboxes map[string]*Inbox
}

// NewCenter creates a Center. extra, when non-nil, adds a per-session sink
// next to the inbox (for example a websocket room).
func NewCenter(clock clockwork.Clock, logger *zap.Logger, extra func(session string) Sink) *Center {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Center{
		clock:   clock,
		logger:  logger,
		extra:   extra,
		inboxes: make(map[string]*Inbox),
	}
}

func (c *Center) Inbox(session string) *Inbox {
	c.mu.Lock()
	defer c.mu.Unlock()
	in, ok := c.inboxes[session]
	if !ok {
		in = NewInbox(c.clock)
		c.inboxes[session] = in
	}
	return in
}

func (c *Center) Toaster(session string) *Toaster {
	sinks := Fanout{c.Inbox(session), LogSink{Logger: c.logger.With(zap.String("session", session))}}
	if c.extra != nil {
		if s := c.extra(session); s != nil {
			sinks = append(sinks, s)
		}
	}
	return New(sinks, c.clock)
}
