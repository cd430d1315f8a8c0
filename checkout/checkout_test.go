package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freshcart/cart"
	"freshcart/models"
	"freshcart/orders"
	"freshcart/toast"
)

type titles struct{ got []string }

func (n *titles) Success(title string, _ ...toast.Options) string {
	n.got = append(n.got, title)
	return title
}

func (n *titles) Info(title string, _ ...toast.Options) string {
	n.got = append(n.got, title)
	return title
}

type starts struct {
	ids []string
	err error
}

func (s *starts) Start(_ context.Context, id string) error {
	s.ids = append(s.ids, id)
	return s.err
}

var eggs = models.Product{
	ID: "p4", Name: "Free-Range Eggs", Price: 4.99, Category: "dairy",
	Image: "https://example.com/eggs.jpg", InStock: true, Rating: 4.9,
}

var salmon = models.Product{
	ID: "p7", Name: "Atlantic Salmon Fillet", Price: 12.99, Discount: 10, Category: "meat",
	Image: "https://example.com/salmon.jpg", InStock: true, Rating: 4.8,
}

func newTestService() (*Service, *orders.MemoryRepository, *starts) {
	repo := orders.NewMemoryRepository(zap.NewNop())
	st := &starts{}
	return &Service{
		Orders:  repo,
		Tracker: st,
		Clock:   clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
		Logger:  zap.NewNop(),
	}, repo, st
}

func filledCart(n *titles) *cart.Manager {
	c := cart.NewManager(cart.SnapshotKey, nil, n, zap.NewNop())
	c.AddToCart(eggs)
	c.AddToCart(eggs)
	c.AddToCart(salmon)
	return c
}

func TestQuote(t *testing.T) {
	c := filledCart(&titles{})

	q, err := QuoteFor(c, "")
	require.NoError(t, err)
	assert.Equal(t, "express", q.Delivery.ID)
	assert.InDelta(t, 21.67, q.Subtotal, 1e-9)
	assert.InDelta(t, 71.67, q.Total, 1e-9)

	q, err = QuoteFor(c, "standard")
	require.NoError(t, err)
	assert.Equal(t, 20.0, q.DeliveryFee)

	_, err = QuoteFor(c, "drone")
	assert.ErrorIs(t, err, ErrUnknownDelivery)
}

func TestPlaceOrder(t *testing.T) {
	svc, repo, st := newTestService()
	n := &titles{}
	c := filledCart(n)

	conf, err := svc.PlaceOrder(context.Background(), "s1", c, n, Request{DeliveryOption: "standard", PaymentMethod: "upi"})
	require.NoError(t, err)

	assert.Equal(t, "/order-success/"+conf.ID, conf.Path)
	assert.Equal(t, 3, conf.Items)
	assert.InDelta(t, 41.67, conf.Total, 1e-9)
	assert.Equal(t, "30 minutes", conf.DeliveryTime)
	assert.Equal(t, []string{conf.ID}, st.ids)

	o, err := repo.Get(context.Background(), conf.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", o.Session)
	assert.Equal(t, "upi", o.PaymentMethod)
	require.Len(t, o.Items, 2)
	assert.InDelta(t, 11.69, o.Items[1].Price, 1e-9)
	assert.Equal(t, "9:30 AM", o.Progress[0].Time)
	assert.Equal(t, 1, orders.Current(o.Progress))

	assert.Empty(t, c.Items())
	assert.Equal(t, []string{"Order placed successfully!", "Cart cleared"}, n.got[len(n.got)-2:])
}

func TestPlaceOrderRejects(t *testing.T) {
	svc, repo, st := newTestService()
	ctx := context.Background()

	empty := cart.NewManager(cart.SnapshotKey, nil, &titles{}, zap.NewNop())
	_, err := svc.PlaceOrder(ctx, "", empty, &titles{}, Request{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	c := filledCart(&titles{})
	_, err = svc.PlaceOrder(ctx, "", c, &titles{}, Request{PaymentMethod: "gold"})
	assert.ErrorIs(t, err, ErrUnknownPayment)
	_, err = svc.PlaceOrder(ctx, "", c, &titles{}, Request{DeliveryOption: "drone"})
	assert.ErrorIs(t, err, ErrUnknownDelivery)

	assert.Len(t, c.Items(), 2, "cart is kept on rejection")
	assert.Empty(t, st.ids)
	all, _ := repo.List(ctx)
	assert.Empty(t, all)
}

type failingRepo struct{ orders.Repository }

func (failingRepo) Save(context.Context, models.OrderDetails) error { return errors.New("mongo down") }

func TestPlaceOrderKeepsCartWhenSaveFails(t *testing.T) {
	svc, repo, st := newTestService()
	svc.Orders = failingRepo{repo}
	n := &titles{}
	c := filledCart(n)

	_, err := svc.PlaceOrder(context.Background(), "s1", c, n, Request{})
	require.Error(t, err)
	assert.Len(t, c.Items(), 2)
	assert.Empty(t, st.ids)
	assert.NotContains(t, n.got, "Order placed successfully!")
	assert.NotContains(t, n.got, "Cart cleared")
}

// gatedRepo holds Save until released.
type gatedRepo struct {
	orders.Repository
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRepo) Save(ctx context.Context, o models.OrderDetails) error {
	close(g.entered)
	<-g.release
	return g.Repository.Save(ctx, o)
}

func TestPlaceOrderUsesOneCartSnapshot(t *testing.T) {
	svc, repo, _ := newTestService()
	gate := &gatedRepo{Repository: repo, entered: make(chan struct{}), release: make(chan struct{})}
	svc.Orders = gate
	n := &titles{}
	c := filledCart(n)

	placed := make(chan models.OrderConfirmation, 1)
	go func() {
		conf, err := svc.PlaceOrder(context.Background(), "s1", c, n, Request{DeliveryOption: "standard"})
		assert.NoError(t, err)
		placed <- conf
	}()
	<-gate.entered

	added := make(chan struct{})
	go func() {
		c.AddToCart(models.Product{ID: "p8", Name: "Fresh Orange Juice", Price: 3.99})
		close(added)
	}()
	select {
	case <-added:
		t.Fatal("cart changed while the order was being placed")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate.release)
	conf := <-placed
	<-added

	o, err := repo.Get(context.Background(), conf.ID)
	require.NoError(t, err)
	assert.Len(t, o.Items, 2)
	assert.InDelta(t, 21.67, o.Subtotal, 1e-9)

	items := c.Items()
	require.Len(t, items, 1, "a line added during checkout stays in the cart")
	assert.Equal(t, "p8", items[0].Product.ID)
}

func TestPlaceOrderToleratesTrackerFailure(t *testing.T) {
	svc, _, st := newTestService()
	st.err = errors.New("boom")
	n := &titles{}

	_, err := svc.PlaceOrder(context.Background(), "", filledCart(n), n, Request{})
	assert.NoError(t, err)
}

func TestPlaceOrderHandler(t *testing.T) {
	svc, _, _ := newTestService()
	n := &titles{}
	sessions := cart.NewSessions(cart.NewMemoryStore(), func(string) cart.Notifier { return n }, zap.NewNop())
	h := &Handlers{
		Service:  svc,
		Sessions: sessions,
		Notifier: func(string) Notifier { return n },
		Logger:   zap.NewNop(),
	}
	router := httprouter.New()
	router.POST("/api/checkout", h.PlaceOrder)
	router.GET("/api/checkout/options", h.Options)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	sessions.Get(context.Background(), "default").AddToCart(eggs)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"deliveryOption":"express"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"/order-success/`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/options", nil))
	assert.Contains(t, rec.Body.String(), "Cash on Delivery")
}
