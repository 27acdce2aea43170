package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultKey = "salon_token"

type State struct {
	Token    string    `json:"token,omitempty"`
	Identity *Identity `json:"identity,omitempty"`
}

func (s State) Empty() bool {
	return s.Token == ""
}

// Manager é o estado de autenticação do processo. Tokens malformados
// nunca viram erro aqui: degradam para um estado "deslogado".
type Manager struct {
	store Store
	key   string
	now   func() time.Time

	mu    sync.RWMutex
	state State
}

type Option func(*Manager)

func WithKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		key:   DefaultKey,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize carrega o token persistido.
func (m *Manager) Initialize(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{}

	token, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		log.Error().Err(err).Msg("session: failed to read credential")
		return m.state
	}
	if !ok || token == "" {
		return m.state
	}

	id, err := Decode(token)
	if err != nil {
		log.Warn().Err(err).Msg("session: discarding malformed credential")
		m.purgeLocked(ctx)
		return m.state
	}

	if id.Expired(m.now()) {
		log.Info().Msg("session: discarding expired credential")
		m.purgeLocked(ctx)
		return m.state
	}

	m.state = State{Token: token, Identity: id}
	return m.state
}

// SetCredential persiste o token. Se não decodificar, o token fica
// guardado mas a identidade é limpa.
func (m *Manager) SetCredential(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, m.key, token); err != nil {
		return err
	}

	id, err := Decode(token)
	if err != nil {
		log.Warn().Err(err).Msg("session: credential stored without identity")
		id = nil
	}

	m.state = State{Token: token, Identity: id}
	return nil
}

func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{}
	return m.store.Delete(ctx, m.key)
}

// Valid is true only for a decoded, unexpired credential. An expired
// credential found here is purged.
func (m *Manager) Valid(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Token == "" || m.state.Identity == nil {
		return false
	}
	if m.state.Identity.Expired(m.now()) {
		log.Info().Msg("session: credential expired")
		m.purgeLocked(ctx)
		return false
	}
	return true
}

func (m *Manager) purgeLocked(ctx context.Context) {
	m.state = State{}
	if err := m.store.Delete(ctx, m.key); err != nil {
		log.Error().Err(err).Msg("session: failed to purge credential")
	}
}

// ------------------------------------------------------
// accessors
// ------------------------------------------------------

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

func (m *Manager) Identity() *Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.Identity == nil {
		return nil
	}
	id := *m.state.Identity
	return &id
}

func (m *Manager) SubjectID() string {
	if id := m.Identity(); id != nil {
		return id.SubjectID
	}
	return ""
}

func (m *Manager) TenantID() string {
	if id := m.Identity(); id != nil {
		return id.TenantID
	}
	return ""
}

func (m *Manager) ExpiresAt() *time.Time {
	if id := m.Identity(); id != nil {
		return id.ExpiresAt
	}
	return nil
}
