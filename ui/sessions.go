package ui

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"civia/app"
	"civia/internal"
)

// pageController is what every stateful page exposes to the shell
type pageController interface {
	Busy() bool
	Notifications() *app.Notifications
}

// session is one page visit. Dropping it unmounts the page.
type session struct {
	id       string
	kind     PageKind
	page     pageController
	life     *app.Lifetime
	lastSeen time.Time
}

// Sessions tracks live page visits by id
type Sessions struct {
	mu      sync.Mutex
	byID    map[string]*session
	idleTTL time.Duration
	now     func() time.Time
	logger  *internal.Logger
}

// NewSessions creates a registry that drops visits idle for longer than idleTTL
func NewSessions(idleTTL time.Duration, logger *internal.Logger) *Sessions {
	return &Sessions{
		byID:    make(map[string]*session),
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  logger.With("Sessions"),
	}
}

// open registers a new visit. build receives the visit's lifetime and
// returns the page controller bound to it.
func (s *Sessions) open(kind PageKind, build func(life *app.Lifetime) pageController) *session {
	life := app.NewLifetime(context.Background())
	sess := &session{
		id:   uuid.NewString(),
		kind: kind,
		page: build(life),
		life: life,
	}

	s.mu.Lock()
	sess.lastSeen = s.now()
	s.byID[sess.id] = sess
	s.mu.Unlock()

	s.logger.Debug("opened %s page %s", kind, sess.id)
	return sess
}

// lookup returns a live visit and marks it as seen
func (s *Sessions) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// drop removes a visit and cancels its in-flight work
func (s *Sessions) drop(id string) bool {
	s.mu.Lock()
	sess, ok := s.byID[id]
	delete(s.byID, id)
	s.mu.Unlock()

	if ok {
		sess.life.Close()
		s.logger.Debug("closed %s page %s", sess.kind, id)
	}
	return ok
}

// Len returns the number of live visits
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sweep drops every visit idle for longer than the TTL and returns how
// many were dropped
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.byID {
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.byID, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.life.Close()
	}
	if len(stale) > 0 {
		s.logger.Info("dropped %d idle pages", len(stale))
	}
	return len(stale)
}

// CloseAll drops every visit
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	all := s.byID
	s.byID = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.life.Close()
	}
}

// RunSweeper sweeps periodically until ctx is done, then closes every visit
func (s *Sessions) RunSweeper(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
