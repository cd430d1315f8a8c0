package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"freshcart/globals"
	"freshcart/models"
	"freshcart/toast"
)

const saveTimeout = 5 * time.Second

// Notifier raises the per-step toast.
type Notifier interface {
	Custom(title string, kind toast.Kind, icon string, opts ...toast.Options) string
}

// Publisher receives an event for every completed step.
type Publisher interface {
	Publish(ctx context.Context, ev models.OrderEvent) error
}

type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Tracker simulates delivery progress, one ticker per tracked order. Each
// tick completes at most one step.
type Tracker struct {
	repo     Repository
	clock    clockwork.Clock
	interval time.Duration
	notifier func(session string) Notifier
	events   Publisher
	logger   *zap.Logger

	mu       sync.Mutex
	runs     map[string]*run
	notified map[string]map[int]bool
	watchers map[string]map[string]bool
}

type TrackerConfig struct {
	Repo     Repository
	Clock    clockwork.Clock
	Interval time.Duration
	Notifier func(session string) Notifier
	Events   Publisher // optional
	Logger   *zap.Logger
}

func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Tracker{
		repo:     cfg.Repo,
		clock:    cfg.Clock,
		interval: cfg.Interval,
		notifier: cfg.Notifier,
		events:   cfg.Events,
		logger:   cfg.Logger,
		runs:     make(map[string]*run),
		notified: make(map[string]map[int]bool),
		watchers: make(map[string]map[string]bool),
	}
}

// Start begins simulating the order. It is a no-op when the order is already
// tracked or fully delivered.
func (t *Tracker) Start(ctx context.Context, orderID string) error {
	o, err := t.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.runs[orderID]; ok || Complete(o.Progress) {
		return nil
	}
	if _, ok := t.notified[orderID]; !ok {
		seen := make(map[int]bool)
		for _, step := range o.Progress {
			if step.Completed {
				seen[step.ID] = true
			}
		}
		t.notified[orderID] = seen
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &run{cancel: cancel, done: make(chan struct{})}
	t.runs[orderID] = r
	ticker := t.clock.NewTicker(t.interval)

	go func() {
		defer close(r.done)
		defer ticker.Stop()
		defer t.forget(orderID, r)

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.Chan():
				if t.tick(runCtx, orderID) {
					return
				}
			}
		}
	}()

	t.logger.Info("tracking started", zap.String("order", orderID))
	return nil
}

// Stop cancels the order's ticker and waits for it to exit.
func (t *Tracker) Stop(orderID string) {
	t.mu.Lock()
	r, ok := t.runs[orderID]
	t.mu.Unlock()
	if !ok {
		return
	}
	r.cancel()
	<-r.done
}

// StopAll stops every running simulation.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.runs))
	for id := range t.runs {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	for _, id := range ids {
		t.Stop(id)
	}
}

// Watch adds session to the sessions told about the order's steps.
func (t *Tracker) Watch(orderID, session string) {
	if session == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.watchers[orderID]
	if !ok {
		w = make(map[string]bool)
		t.watchers[orderID] = w
	}
	w[session] = true
}

// audience is the order's own session plus its watchers, or the default
// session when there are none.
func (t *Tracker) audience(o models.OrderDetails) []string {
	t.mu.Lock()
	seen := make(map[string]bool, len(t.watchers[o.ID])+1)
	for s := range t.watchers[o.ID] {
		seen[s] = true
	}
	t.mu.Unlock()
	if o.Session != "" {
		seen[o.Session] = true
	}
	if len(seen) == 0 {
		return []string{globals.DefaultSession}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (t *Tracker) Running(orderID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.runs[orderID]
	return ok
}

func (t *Tracker) forget(orderID string, r *run) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runs[orderID] == r {
		delete(t.runs, orderID)
	}
}

// tick advances the order once and reports whether tracking is finished.
func (t *Tracker) tick(ctx context.Context, orderID string) bool {
	log := t.logger.With(zap.String("order", orderID))

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	o, err := t.repo.Get(ctx, orderID)
	if err != nil {
		log.Warn("load tracked order", zap.Error(err))
		return errors.Is(err, ErrNotFound)
	}

	t.mu.Lock()
	next, tr := Advance(o.Progress, t.notified[orderID], t.clock.Now())
	t.mu.Unlock()
	if tr == nil {
		return Complete(o.Progress)
	}

	o.Progress = next
	if tr.Status != StatusUnknown {
		o.Status = tr.Status.Slug()
	}
	if err := t.repo.Save(ctx, o); err != nil {
		// the step stays pending and is retried on the next tick
		log.Warn("save tracked order", zap.Error(err))
		t.mu.Lock()
		delete(t.notified[orderID], tr.Step.ID)
		t.mu.Unlock()
		return false
	}

	for _, session := range t.audience(o) {
		t.notifier(session).Custom(tr.Notice.Title, tr.Notice.Kind, tr.Notice.Icon, toast.Options{
			Description: tr.Notice.Description,
			Action:      &toast.Action{Label: "Track", Target: fmt.Sprintf("/track-order/%s", o.ID)},
		})
	}
	if tr.Terminal {
		t.mu.Lock()
		delete(t.watchers, orderID)
		t.mu.Unlock()
	}

	if t.events != nil {
		ev := models.OrderEvent{
			OrderID:     o.ID,
			StepID:      tr.Step.ID,
			Status:      o.Status,
			Title:       tr.Notice.Title,
			Description: tr.Notice.Description,
			Icon:        tr.Notice.Icon,
			Delivered:   tr.Terminal,
			At:          t.clock.Now(),
		}
		if err := t.events.Publish(ctx, ev); err != nil {
			log.Warn("publish order event", zap.Error(err))
		}
	}

	log.Info("order advanced", zap.String("step", tr.Step.Status), zap.Bool("terminal", tr.Terminal))
	return tr.Terminal
}
