package receipts

import (
	"bytes"
	"context"
	"encoding/json"
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

	"freshcart/orders"
	"freshcart/toast"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

func newSigner() (*ShareSigner, fakeClock) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	return &ShareSigner{Secret: []byte("test-secret"), TTL: time.Hour, BaseURL: "https://fresh.example", Clock: fc}, fc
}

func TestRenderReceipt(t *testing.T) {
	o := orders.MockOrders()[0]
	pdf, err := Render(o, "https://fresh.example/track/2458")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	plain, err := Render(o, "")
	require.NoError(t, err)
	assert.Less(t, len(plain), len(pdf), "qr image adds to the document")
}

func TestQR(t *testing.T) {
	png, err := QR("https://fresh.example/track/2458", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestShareSigner(t *testing.T) {
	s, fc := newSigner()

	link, err := s.URL("2458")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://fresh.example/track/2458?t="))

	token := strings.TrimPrefix(link, "https://fresh.example/track/2458?t=")
	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "2458", id)

	other := &ShareSigner{Secret: []byte("other"), TTL: time.Hour, Clock: fc}
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidShare)

	fc.Advance(2 * time.Hour)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidShare)

	_, err = s.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidShare)
}

func newTestHandlers(t *testing.T) (*Handlers, *httprouter.Router, *toast.Inbox) {
	t.Helper()
	signer, _ := newSigner()
	inbox := toast.NewInbox(clockwork.NewRealClock())
	h := &Handlers{
		Repo:    orders.NewMemoryRepository(zap.NewNop(), orders.MockOrders()...),
		Signer:  signer,
		Toaster: func(string) *toast.Toaster { return toast.New(inbox, clockwork.NewRealClock()) },
		Logger:  zap.NewNop(),
	}
	router := httprouter.New()
	router.GET("/api/orders/:id/receipt", h.Receipt)
	router.POST("/api/orders/:id/receipt/download", h.Download)
	router.GET("/api/orders/:id/qr", h.QRCode)
	router.GET("/api/orders/:id/share", h.ShareLink)
	router.GET("/api/track/:token", h.ResolveShare)
	return h, router, inbox
}

func TestReceiptHandlers(t *testing.T) {
	h, router, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/ORD-1234/receipt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/nope/receipt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/2458/qr?size=128", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	token, err := h.Signer.Sign("2458")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/track/"+token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Michael Chen")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/track/bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/2458/share", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var share struct {
		URL   string `json:"url"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &share))
	assert.True(t, strings.HasSuffix(share.URL, "?t="+share.Token))
	id, err := h.Signer.Verify(share.Token)
	require.NoError(t, err)
	assert.Equal(t, "2458", id)
}

func TestClientDownload(t *testing.T) {
	_, router, inbox := newTestHandlers(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c := &Client{BaseURL: srv.URL, HTTP: srv.Client()}
	toaster := toast.New(inbox, clockwork.NewRealClock())

	pdf, err := c.Download(context.Background(), toaster, "", "ORD-5678")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	active := inbox.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Receipt downloaded", active[0].Title)
	assert.Equal(t, toast.KindSuccess, active[0].Kind)

	_, err = c.Download(context.Background(), toaster, "", "missing")
	require.Error(t, err)
	active = inbox.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Failed to download receipt", active[1].Title)
	assert.Equal(t, toast.KindError, active[1].Kind)
}
