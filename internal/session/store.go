package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/gateway"
)

const (
	// SessionTTL is how long an idle session survives before expiring
	SessionTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = time.Minute
)

// Session owns one visitor's in-memory aggregates. Nothing here is
// durable: the auth token cookie and the gateway hold everything that
// must survive the session.
type Session struct {
	ID         string
	Cart       *cart.Aggregate
	Checkout   *checkout.Checkout
	Steps      *checkout.StepController
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// ResetCheckout discards the snapshot and the step state, used after
// an order is placed or checkout is abandoned.
// The controller is reset in place rather than replaced so that
// concurrent handlers holding the same session never observe a torn
// pointer swap.
func (s *Session) ResetCheckout() {
	s.Checkout.Clear()
	s.Steps.Reset()
}

// Store is the composition root's single shared session registry:
// one instance, many concurrent readers and writers.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	gw       gateway.CommerceGateway

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewStore(gw gateway.CommerceGateway) *Store {
	s := &Store{
		sessions:    make(map[string]*Session),
		gw:          gw,
		stopCleanup: make(chan struct{}),
	}

	// Start background cleanup goroutine
	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// cleanupLoop periodically expires idle sessions
func (s *Store) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Store) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-SessionTTL)
	for id, sess := range s.sessions {
		if sess.LastSeenAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// GetOrCreate returns the session for the given ID, minting a fresh
// one (with a new ID) when the ID is empty or unknown.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, exists := s.sessions[id]; exists {
			sess.LastSeenAt = time.Now()
			return sess
		}
	}

	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		Cart:       cart.New(s.gw),
		Checkout:   checkout.New(),
		Steps:      checkout.NewStepController(),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns an existing session without creating one.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[id]
	return sess, exists
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background cleanup and waits for it to finish
func (s *Store) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
