package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type DialFunc func(cfg Config) Conn

// Manager guarantees a single shared connection per process. The first
// Acquire wins: later configs are ignored until Release.
type Manager struct {
	mu   sync.Mutex
	dial DialFunc
	conn Conn
	cfg  Config
}

type ManagerOption func(*Manager)

func WithDialer(dial DialFunc) ManagerOption {
	return func(m *Manager) { m.dial = dial }
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{dial: DefaultDialer}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultDialer abre um Socket (websocket → polling). Erros de transporte
// só vão para o log.
func DefaultDialer(cfg Config) Conn {
	return NewSocket(cfg, WithErrorHandler(func(err error) {
		log.Warn().Err(err).Str("endpoint", cfg.Endpoint).Msg("realtime: connection error")
	}))
}

func (m *Manager) Acquire(cfg Config) Conn {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return m.conn
	}

	log.Info().Str("endpoint", cfg.Endpoint).Bool("credential", cfg.Credential != "").Msg("realtime: opening shared connection")

	m.conn = m.dial(cfg)
	m.cfg = cfg
	return m.conn
}

// Release fecha a conexão compartilhada (ex.: logout). O próximo Acquire
// abre uma nova.
func (m *Manager) Release() error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.cfg = Config{}
	m.mu.Unlock()

	if conn == nil {
		return nil
	}

	log.Info().Msg("realtime: releasing shared connection")
	return conn.Close()
}

func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}
