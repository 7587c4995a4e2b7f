/**
 * @description
 * This file contains the console session registry and the per-session view
 * controller. A session is the in-memory unit of state for one browser
 * client: its account manager, payout manager, and current view. Sessions
 * are ephemeral and expire after a period of inactivity.
 *
 * @dependencies
 * - context, log, sync, time: Standard Go libraries.
 * - github.com/google/uuid: Session identifiers.
 */

package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// View enumerates the console's screens.
type View string

const (
	ViewCreateAccount          View = "CREATE_ACCOUNT"
	ViewWelcome                View = "WELCOME"
	ViewCreateBlockchainPayout View = "CREATE_BLOCKCHAIN_PAYOUT"
	ViewCreateFiatPayout       View = "CREATE_FIAT_PAYOUT"
	ViewPayout                 View = "VIEW_PAYOUT"
)

var knownViews = map[View]bool{
	ViewCreateAccount:          true,
	ViewWelcome:                true,
	ViewCreateBlockchainPayout: true,
	ViewCreateFiatPayout:       true,
	ViewPayout:                 true,
}

// Session is the per-client console state.
type Session struct {
	ID       uuid.UUID
	Accounts *AccountManager
	Payouts  *PayoutManager

	mu       sync.Mutex
	view     View
	lastSeen time.Time
}

// View returns the session's current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// NavigateTo switches the current view. Entering a payout creation view
// resets the payout form (account selection is untouched); entering the fiat
// view additionally seeds the example fiat payout and returns its defaults.
// Navigating anywhere else leaves all state alone.
func (s *Session) NavigateTo(view View) (*FiatFormDefaults, error) {
	if !knownViews[view] {
		return nil, ErrUnknownView
	}

	var defaults *FiatFormDefaults
	switch view {
	case ViewCreateAccount:
		s.Accounts.ClearError()
	case ViewCreateBlockchainPayout:
		s.Payouts.ResetForm()
	case ViewCreateFiatPayout:
		s.Payouts.ResetForm()
		d := ColombianPayoutDefaults()
		s.Payouts.SeedDefaults(d.Amount, d.Memo)
		defaults = &d
	}

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return defaults, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

// SessionGauge reports the number of live sessions. A nil gauge disables
// reporting.
type SessionGauge interface {
	SetActiveSessions(n int)
}

// SessionManager owns all live sessions and expires idle ones.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	client  MuralAPI
	metrics PayoutMetrics
	gauge   SessionGauge
	ttl     time.Duration
}

// NewSessionManager creates a session registry. metrics and gauge may be nil.
func NewSessionManager(client MuralAPI, metrics PayoutMetrics, gauge SessionGauge, ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[uuid.UUID]*Session),
		client:   client,
		metrics:  metrics,
		gauge:    gauge,
		ttl:      ttl,
	}
}

// Create opens a new session starting on the account creation view.
func (sm *SessionManager) Create() *Session {
	session := &Session{
		ID:       uuid.New(),
		Accounts: NewAccountManager(sm.client),
		Payouts:  NewPayoutManager(sm.client, sm.metrics),
		view:     ViewCreateAccount,
		lastSeen: time.Now(),
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	n := len(sm.sessions)
	sm.mu.Unlock()

	sm.reportActive(n)
	log.Printf("level=info component=sessions msg=\"session opened\" session_id=%s active=%d", session.ID, n)
	return session
}

// Get returns a live session and refreshes its idle timer.
func (sm *SessionManager) Get(id uuid.UUID) (*Session, error) {
	sm.mu.Lock()
	session, ok := sm.sessions[id]
	sm.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.touch(time.Now())
	return session, nil
}

// StartSweeper expires idle sessions on the given interval until ctx is done.
func (sm *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				sm.sweep(now)
			}
		}
	}()
}

func (sm *SessionManager) sweep(now time.Time) {
	sm.mu.Lock()
	var expired []uuid.UUID
	for id, session := range sm.sessions {
		if session.expired(now, sm.ttl) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(sm.sessions, id)
	}
	n := len(sm.sessions)
	sm.mu.Unlock()

	if len(expired) > 0 {
		sm.reportActive(n)
		log.Printf("level=info component=sessions msg=\"idle sessions expired\" expired=%d active=%d", len(expired), n)
	}
}

func (sm *SessionManager) reportActive(n int) {
	if sm.gauge != nil {
		sm.gauge.SetActiveSessions(n)
	}
}
