package orders

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/schemas"
	"freshcart/toast"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

type shown struct {
	session string
	title   string
	kind    toast.Kind
	icon    string
}

type recorder struct {
	mu    sync.Mutex
	shown []shown
}

func (r *recorder) forSession(session string) Notifier {
	return notifierFunc(func(title string, kind toast.Kind, icon string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.shown = append(r.shown, shown{session, title, kind, icon})
	})
}

func (r *recorder) all() []shown {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shown(nil), r.shown...)
}

type notifierFunc func(title string, kind toast.Kind, icon string)

func (f notifierFunc) Custom(title string, kind toast.Kind, icon string, _ ...toast.Options) string {
	f(title, kind, icon)
	return title
}

type eventLog struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (l *eventLog) Publish(_ context.Context, ev models.OrderEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func TestStatusTableIsExhaustive(t *testing.T) {
	for _, st := range append([]Status{StatusUnknown}, Statuses...) {
		info, ok := statusTable[st]
		require.True(t, ok, "missing %d", st)
		assert.NotEmpty(t, info.notice.Title)
		assert.NotEmpty(t, info.notice.Icon)
		assert.NotEmpty(t, info.slug)
	}
	assert.Equal(t, StatusOutForDelivery, ParseStatus("Out for Delivery"))
	assert.Equal(t, StatusOutForDelivery, ParseStatus("out-for-delivery"))
	assert.Equal(t, StatusUnknown, ParseStatus("Picked up"))
	assert.Equal(t, "Order status updated", ParseStatus("Picked up").Notice().Title)
	assert.Equal(t, "Order status updated", Status(99).Notice().Title)
}

func TestAdvanceCompletesOneStep(t *testing.T) {
	now := time.Date(2024, 1, 2, 14, 5, 0, 0, time.UTC)
	progress := NewProgress(now.Add(-time.Hour))
	notified := map[int]bool{}

	next, tr := Advance(progress, notified, now)
	require.NotNil(t, tr)
	assert.Equal(t, 2, tr.Step.ID)
	assert.Equal(t, StatusPreparing, tr.Status)
	assert.Equal(t, "2:05 PM", next[1].Time)
	assert.True(t, next[1].Completed)
	assert.False(t, next[2].Completed, "never more than one step")
	assert.False(t, progress[1].Completed, "input is not modified")
	assert.False(t, tr.Terminal)
	assert.True(t, notified[2])
}

func TestAdvanceSkipsAlreadyNotified(t *testing.T) {
	progress := NewProgress(time.Now())
	next, tr := Advance(progress, map[int]bool{2: true}, time.Now())
	assert.Nil(t, tr)
	assert.Equal(t, progress, next)
}

func TestAdvanceTerminal(t *testing.T) {
	progress := delivered("1", "2", "3", "4")
	_, tr := Advance(progress, map[int]bool{}, time.Now())
	assert.Nil(t, tr)
	assert.True(t, Complete(progress))
}

func TestAdvanceUnknownLabel(t *testing.T) {
	progress := []models.ProgressStep{
		{ID: 1, Status: "Picked up", Icon: "box"},
	}
	_, tr := Advance(progress, map[int]bool{}, time.Now())
	require.NotNil(t, tr)
	assert.Equal(t, StatusUnknown, tr.Status)
	assert.Equal(t, "Order status updated", tr.Notice.Title)
	assert.True(t, tr.Terminal)
}

func TestSummaryStatus(t *testing.T) {
	p := NewProgress(time.Now())
	assert.Equal(t, "Processing", SummaryStatus(p))
	p[1].Completed, p[2].Completed = true, true
	assert.Equal(t, "In Transit", SummaryStatus(p))
	p[3].Completed = true
	assert.Equal(t, "Delivered", SummaryStatus(p))
}

func TestMockOrdersAreValid(t *testing.T) {
	for _, o := range MockOrders() {
		assert.NoError(t, schemas.Order(o), o.ID)
	}

	repo := NewMemoryRepository(zap.NewNop(), MockOrders()...)
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, TrackingDemoID, list[0].ID)
	assert.Equal(t, "ORD-5678", list[3].ID)

	byID := map[string]models.OrderSummary{}
	for _, o := range list {
		byID[o.ID] = Summarize(o)
	}
	assert.Equal(t, "Delivered", byID["ORD-1234"].Status)
	assert.Equal(t, 5, byID["ORD-1234"].Items)
	assert.Equal(t, "In Transit", byID["ORD-9012"].Status)
	assert.InDelta(t, 16.26, byID["ORD-9012"].Total, 1e-9)
}

func TestMemoryRepositoryCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop(), MockOrders()...)

	o, err := repo.Get(ctx, TrackingDemoID)
	require.NoError(t, err)
	o.Progress[3].Completed = true

	again, _ := repo.Get(ctx, TrackingDemoID)
	assert.False(t, again.Progress[3].Completed)

	_, err = repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func newTestTracker(t *testing.T) (*Tracker, *MemoryRepository, *recorder, *eventLog, fakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2023, 11, 12, 12, 40, 0, 0, time.UTC))
	repo := NewMemoryRepository(zap.NewNop(), MockOrders()...)
	rec := &recorder{}
	events := &eventLog{}
	tr := NewTracker(TrackerConfig{
		Repo:     repo,
		Clock:    fc,
		Interval: 15 * time.Second,
		Notifier: rec.forSession,
		Events:   events,
		Logger:   zap.NewNop(),
	})
	t.Cleanup(tr.StopAll)
	return tr, repo, rec, events, fc
}

func TestTrackerDeliversDemoOrderOnce(t *testing.T) {
	ctx := context.Background()
	tr, repo, rec, events, fc := newTestTracker(t)

	require.NoError(t, tr.Start(ctx, TrackingDemoID))
	require.NoError(t, tr.Start(ctx, TrackingDemoID), "second start is a no-op")
	assert.True(t, tr.Running(TrackingDemoID))

	fc.BlockUntil(1)
	fc.Advance(15 * time.Second)

	require.Eventually(t, func() bool { return !tr.Running(TrackingDemoID) }, time.Second, 5*time.Millisecond)

	o, err := repo.Get(ctx, TrackingDemoID)
	require.NoError(t, err)
	assert.True(t, Complete(o.Progress))
	assert.Equal(t, "delivered", o.Status)
	assert.Equal(t, "12:40 PM", o.Progress[3].Time)

	fc.Advance(time.Minute)
	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, "Delivered", got[0].title)
	assert.Equal(t, toast.KindSuccess, got[0].kind)
	assert.Equal(t, "default", got[0].session, "orders without a session notify the default one")
	assert.Equal(t, 1, events.len())
	assert.True(t, events.events[0].Delivered)

	// delivered orders do not restart
	require.NoError(t, tr.Start(ctx, TrackingDemoID))
	assert.False(t, tr.Running(TrackingDemoID))
}

func TestTrackerStepsOnePerTick(t *testing.T) {
	ctx := context.Background()
	tr, repo, rec, _, fc := newTestTracker(t)

	o := Template("fresh")
	o.Progress = NewProgress(fc.Now())
	o.Items = []models.OrderLine{{ProductID: "p1", Name: "Organic Avocado", Quantity: 1, Price: 1.99}}
	o.Session = "s1"
	require.NoError(t, repo.Save(ctx, o))
	require.NoError(t, tr.Start(ctx, "fresh"))

	for want := 2; want <= 4; want++ {
		fc.BlockUntil(1)
		fc.Advance(15 * time.Second)
		require.Eventually(t, func() bool { return len(rec.all()) == want-1 }, time.Second, 5*time.Millisecond)

		cur, _ := repo.Get(ctx, "fresh")
		assert.Equal(t, want, countCompleted(cur.Progress))
	}

	titles := []string{}
	for _, s := range rec.all() {
		titles = append(titles, s.title)
		assert.Equal(t, "s1", s.session)
	}
	assert.Equal(t, []string{"Preparing your order", "Out for delivery", "Delivered"}, titles)
	require.Eventually(t, func() bool { return !tr.Running("fresh") }, time.Second, 5*time.Millisecond)
}

func TestTrackerNotifiesWatchers(t *testing.T) {
	ctx := context.Background()
	tr, _, rec, _, fc := newTestTracker(t)

	tr.Watch(TrackingDemoID, "s2")
	tr.Watch(TrackingDemoID, "s1")
	tr.Watch(TrackingDemoID, "s1")
	require.NoError(t, tr.Start(ctx, TrackingDemoID))

	fc.BlockUntil(1)
	fc.Advance(15 * time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) == 2 }, time.Second, 5*time.Millisecond)

	got := rec.all()
	assert.Equal(t, "s1", got[0].session)
	assert.Equal(t, "s2", got[1].session)
	assert.Equal(t, "Delivered", got[1].title)
}

// flakyRepo fails the first n saves.
type flakyRepo struct {
	Repository
	fails int32
	saves atomic.Int32
}

func (f *flakyRepo) Save(ctx context.Context, o models.OrderDetails) error {
	if f.saves.Add(1) <= f.fails {
		return errors.New("write conflict")
	}
	return f.Repository.Save(ctx, o)
}

func TestTrackerRetriesFailedSave(t *testing.T) {
	ctx := context.Background()
	fc := clockwork.NewFakeClockAt(time.Date(2023, 11, 12, 12, 40, 0, 0, time.UTC))
	repo := &flakyRepo{Repository: NewMemoryRepository(zap.NewNop(), MockOrders()...), fails: 1}
	rec := &recorder{}
	events := &eventLog{}
	tr := NewTracker(TrackerConfig{
		Repo:     repo,
		Clock:    fc,
		Interval: 15 * time.Second,
		Notifier: rec.forSession,
		Events:   events,
		Logger:   zap.NewNop(),
	})
	t.Cleanup(tr.StopAll)

	require.NoError(t, tr.Start(ctx, TrackingDemoID))
	fc.BlockUntil(1)
	fc.Advance(15 * time.Second)
	require.Eventually(t, func() bool { return repo.saves.Load() == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.True(t, tr.Running(TrackingDemoID), "a failed save keeps tracking")
	assert.Empty(t, rec.all())
	assert.Zero(t, events.len())

	fc.Advance(15 * time.Second)
	require.Eventually(t, func() bool { return !tr.Running(TrackingDemoID) }, time.Second, 5*time.Millisecond)

	o, err := repo.Get(ctx, TrackingDemoID)
	require.NoError(t, err)
	assert.True(t, Complete(o.Progress))
	require.Len(t, rec.all(), 1)
	assert.Equal(t, "Delivered", rec.all()[0].title)
	assert.Equal(t, 1, events.len())
}

func TestTrackerStop(t *testing.T) {
	ctx := context.Background()
	tr, repo, rec, _, fc := newTestTracker(t)

	require.NoError(t, tr.Start(ctx, TrackingDemoID))
	tr.Stop(TrackingDemoID)
	assert.False(t, tr.Running(TrackingDemoID))

	fc.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.all())

	o, _ := repo.Get(ctx, TrackingDemoID)
	assert.False(t, Complete(o.Progress))

	assert.ErrorIs(t, tr.Start(ctx, "missing"), ErrNotFound)
}

func countCompleted(steps []models.ProgressStep) int {
	n := 0
	for _, s := range steps {
		if s.Completed {
			n++
		}
	}
	return n
}
