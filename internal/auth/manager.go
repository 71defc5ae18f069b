// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/store"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/token"
)

// =============================================================================
// Types
// =============================================================================

// State is the session's authentication state.
type State int

const (
	// StateBootstrapping is the initial state, before the first check
	// completes. Views must not show the login form while here.
	StateBootstrapping State = iota
	// StateAuthenticated means a usable credential is held.
	StateAuthenticated
	// StateAnonymous means no usable credential exists.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend is the slice of the API client the manager needs.
type Backend interface {
	Refresh(ctx context.Context, refreshCookie string) (api.AuthResult, error)
	Me(ctx context.Context, bearer string) (api.Identity, error)
}

// Config tunes the check loop.
type Config struct {
	// CheckInterval is the tick period.
	CheckInterval time.Duration
	// RefreshThreshold is the remaining-lifetime low-water mark below
	// which a silent refresh is attempted.
	RefreshThreshold time.Duration
	// RefreshMinInterval bounds how often refresh attempts may start.
	RefreshMinInterval time.Duration
}

// DefaultConfig returns the standard loop timings.
func DefaultConfig() Config {
	return Config{
		CheckInterval:      time.Second,
		RefreshThreshold:   60 * time.Second,
		RefreshMinInterval: 5 * time.Second,
	}
}

// Status is a point-in-time snapshot for the UI.
type Status struct {
	State State
	// Email identifies the account while authenticated.
	Email string
	// Remaining is the credential lifetime left, clamped at zero.
	Remaining time.Duration
}

// Manager owns the credential and identity for the process.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	client Backend
	store  *store.Store

	// now is replaceable for tests.
	now func() time.Time

	state       State
	email       string
	accessToken string

	// refreshGen invalidates in-flight refreshes across logout.
	refreshGen      int
	refreshInFlight bool
	limiter         *rate.Limiter

	bootstrapOnce sync.Once

	onStateChange func(State)
}

// NewManager creates a manager over the given backend and session store.
func NewManager(client Backend, st *store.Store, cfg Config) *Manager {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Second
	}
	if cfg.RefreshThreshold <= 0 {
		cfg.RefreshThreshold = 60 * time.Second
	}
	if cfg.RefreshMinInterval <= 0 {
		cfg.RefreshMinInterval = 5 * time.Second
	}
	return &Manager{
		cfg:     cfg,
		client:  client,
		store:   st,
		now:     time.Now,
		state:   StateBootstrapping,
		limiter: rate.NewLimiter(rate.Every(cfg.RefreshMinInterval), 1),
	}
}

// SetStateChangeCallback registers a callback fired on every state
// transition. Called outside the manager lock.
func (m *Manager) SetStateChangeCallback(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// =============================================================================
// Bootstrap
// =============================================================================

// Bootstrap resolves the initial state exactly once. Later calls return the
// current state without re-running the sequence.
//
// Order: silent refresh first, then a stored credential validated against
// the backend, otherwise Anonymous with stale credentials discarded.
func (m *Manager) Bootstrap(ctx context.Context) State {
	m.bootstrapOnce.Do(func() { m.bootstrap(ctx) })
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) bootstrap(ctx context.Context) {
	if cookie := m.store.RefreshCookie(); cookie != "" {
		res, err := m.client.Refresh(ctx, cookie)
		if err == nil {
			log.Debug().Msg("bootstrap: silent refresh succeeded")
			m.adopt(res)
			return
		}
		log.Debug().Err(err).Msg("bootstrap: silent refresh failed")
	}

	if tok := m.store.AccessToken(); tok != "" {
		id, err := m.client.Me(ctx, tok)
		if err == nil {
			if _, ok := token.TimeRemaining(tok, m.now()); ok {
				log.Debug().Msg("bootstrap: stored credential validated")
				m.mu.Lock()
				m.accessToken = tok
				m.email = id.Email
				m.mu.Unlock()
				m.setState(StateAuthenticated)
				return
			}
		} else {
			log.Debug().Err(err).Msg("bootstrap: stored credential rejected")
		}
	}

	// Nothing worked. Drop stale credentials so the next start is clean.
	m.store.ClearCredentials()
	m.setState(StateAnonymous)
}

// =============================================================================
// Credential adoption and logout
// =============================================================================

// Adopt installs a fresh login or refresh result and moves to Authenticated.
// Identity comes from the credential's subject claim.
func (m *Manager) Adopt(res api.AuthResult) {
	m.adopt(res)
}

func (m *Manager) adopt(res api.AuthResult) {
	claims, err := token.Decode(res.AccessToken)
	if err != nil {
		log.Warn().Msg("adopt: credential does not decode, treating as absent")
		m.store.ClearCredentials()
		m.setState(StateAnonymous)
		return
	}

	m.store.SetAccessToken(res.AccessToken)
	if res.RefreshCookie != "" {
		m.store.SetRefreshCookie(res.RefreshCookie)
	}

	m.mu.Lock()
	m.accessToken = res.AccessToken
	m.email = claims.Subject
	m.mu.Unlock()
	m.setState(StateAuthenticated)
}

// Logout drops the session synchronously. By the time it returns the state
// is Anonymous, stored credentials are cleared, and any in-flight refresh
// result will be discarded.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.refreshGen++
	m.accessToken = ""
	m.email = ""
	m.mu.Unlock()

	m.store.ClearCredentials()
	m.setState(StateAnonymous)
	log.Info().Msg("logged out")
}

// setState transitions and fires the callback outside the lock.
func (m *Manager) setState(next State) {
	m.mu.Lock()
	changed := m.state != next
	m.state = next
	cb := m.onStateChange
	m.mu.Unlock()

	if changed && cb != nil {
		cb(next)
	}
}

// =============================================================================
// Check loop
// =============================================================================

// Check recomputes the countdown for one tick and reserves a silent refresh
// when the credential has dropped below the threshold. It performs no
// network calls itself: when needRefresh is true the caller runs refresh
// with the returned generation, off the update loop. At most one attempt is
// reserved at a time; attempt frequency is bounded so a failing backend is
// not hammered every tick.
func (m *Manager) Check() (status Status, gen int, needRefresh bool) {
	m.mu.Lock()
	if m.state == StateAuthenticated {
		remaining, ok := token.TimeRemaining(m.accessToken, m.now())
		if (!ok || remaining <= m.cfg.RefreshThreshold) && !m.refreshInFlight && m.limiter.Allow() {
			needRefresh = true
			m.refreshInFlight = true
			gen = m.refreshGen
		}
	}
	m.mu.Unlock()

	return m.Snapshot(), gen, needRefresh
}

// refresh performs one silent refresh attempt. A generation mismatch after
// the call means the session changed underneath it and the result is
// discarded.
func (m *Manager) refresh(ctx context.Context, gen int) {
	cookie := m.store.RefreshCookie()
	res, err := m.client.Refresh(ctx, cookie)

	m.mu.Lock()
	m.refreshInFlight = false
	stale := gen != m.refreshGen
	m.mu.Unlock()

	if stale {
		log.Debug().Msg("refresh result discarded, session changed")
		return
	}

	if err != nil {
		log.Warn().Err(err).Msg("silent refresh failed, logging out")
		m.Logout()
		return
	}

	log.Debug().Msg("credential refreshed")
	m.adopt(res)
}

// =============================================================================
// Snapshots
// =============================================================================

// Snapshot returns the current status without side effects.
func (m *Manager) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{State: m.state, Email: m.email}
	if m.state == StateAuthenticated {
		if remaining, ok := token.TimeRemaining(m.accessToken, m.now()); ok {
			s.Remaining = remaining
		}
	}
	return s
}

// AccessToken returns the current bearer credential, empty unless
// authenticated.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return ""
	}
	return m.accessToken
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// FormatCountdown renders a remaining duration for the status bar.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	mnt := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, mnt)
	}
	return fmt.Sprintf("%d:%02d", mnt, sec)
}
