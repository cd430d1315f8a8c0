// Package profile serves the demo shopper profile and its settings.
package profile

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/schemas"
	"freshcart/toast"
	"freshcart/utils"
)

// Mock is the profile every session starts with.
func Mock() models.UserProfile {
	return models.UserProfile{
		ID:    "u1",
		Name:  "John Doe",
		Email: "john.doe@example.com",
		Phone: "+12125550123",
		Addresses: []models.UserAddress{
			{ID: "a1", Type: "home", Address: "123 Main Street, Apt 4B", Details: "New York, NY 10001", IsDefault: true},
			{ID: "a2", Type: "work", Address: "500 Fifth Avenue, Floor 12", Details: "New York, NY 10110"},
		},
		PushNotifications: true,
	}
}

type Notifier interface {
	Success(title string, opts ...toast.Options) string
	Info(title string, opts ...toast.Options) string
}

// Store keeps one profile per session, seeded from Mock.
type Store struct {
	mu       sync.Mutex
	seed     models.UserProfile
	profiles map[string]models.UserProfile
}

func NewStore(logger *zap.Logger) *Store {
	seed := Mock()
	if err := schemas.UserProfile(seed); err != nil {
		logger.Warn("mock profile failed validation", zap.Error(err))
	}
	return &Store{seed: seed, profiles: make(map[string]models.UserProfile)}
}

func (s *Store) Get(session string) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[session]
	if !ok {
		p = s.seed
		p.Addresses = append([]models.UserAddress(nil), s.seed.Addresses...)
	}
	return p
}

func (s *Store) SetPushNotifications(session string, enabled bool) models.UserProfile {
	p := s.Get(session)
	p.PushNotifications = enabled

	s.mu.Lock()
	s.profiles[session] = p
	s.mu.Unlock()
	return p
}

type Handlers struct {
	Store    *Store
	Notifier func(session string) Notifier
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Store.Get(utils.GetSessionIDFromRequest(r)))
}

func (h *Handlers) UpdateNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "enabled is required")
		return
	}
	session := utils.GetSessionIDFromRequest(r)
	p := h.Store.SetPushNotifications(session, *req.Enabled)
	h.Notifier(session).Success("Setting updated", toast.Options{
		Description: "Your notification preferences have been saved",
	})
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// Logout only acknowledges; there is no account to sign out of.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Notifier(utils.GetSessionIDFromRequest(r)).Info("Logged out", toast.Options{
		Description: "You have been successfully logged out",
	})
	w.WriteHeader(http.StatusNoContent)
}
