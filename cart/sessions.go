package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"freshcart/globals"
)

// Sessions hands out one Manager per shopper session, restoring it from the
// store the first time it is requested.
type Sessions struct {
	mu       sync.Mutex
	carts    map[string]*Manager
	store    SnapshotStore
	notifier func(session string) Notifier
	logger   *zap.Logger
}

func NewSessions(store SnapshotStore, notifier func(session string) Notifier, logger *zap.Logger) *Sessions {
	return &Sessions{
		carts:    make(map[string]*Manager),
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Sessions) Get(ctx context.Context, session string) *Manager {
	if session == "" {
		session = globals.DefaultSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.carts[session]; ok {
		return m
	}
	m := NewManager(KeyFor(session), s.store, s.notifier(session), s.logger)
	m.Restore(ctx)
	s.carts[session] = m
	return m
}

// KeyFor maps a session to its snapshot key.
func KeyFor(session string) string {
	if session == "" || session == globals.DefaultSession {
		return SnapshotKey
	}
	return SnapshotKey + ":" + session
}
