package profile

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freshcart/schemas"
	"freshcart/toast"
)

type said struct{ titles []string }

func (s *said) Success(title string, _ ...toast.Options) string {
	s.titles = append(s.titles, title)
	return title
}

func (s *said) Info(title string, _ ...toast.Options) string {
	s.titles = append(s.titles, title)
	return title
}

func TestMockIsValid(t *testing.T) {
	require.NoError(t, schemas.UserProfile(Mock()))
	addr, ok := Mock().DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "home", addr.Type)
}

func TestProfileHandlers(t *testing.T) {
	n := &said{}
	h := &Handlers{Store: NewStore(zap.NewNop()), Notifier: func(string) Notifier { return n }}
	router := httprouter.New()
	router.GET("/api/profile", h.GetProfile)
	router.PUT("/api/profile/notifications", h.UpdateNotifications)
	router.POST("/api/profile/logout", h.Logout)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"John Doe"`)
	assert.Contains(t, rec.Body.String(), `"pushNotifications":true`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/profile/notifications", strings.NewReader(`{"enabled":false}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pushNotifications":false`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/profile/notifications", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, []string{"Setting updated", "Logged out"}, n.titles)
	assert.False(t, h.Store.Get("default").PushNotifications)
	assert.True(t, h.Store.Get("other").PushNotifications)
}
