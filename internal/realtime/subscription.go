package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

type SubscribeOptions struct {
	Endpoint   string
	TenantID   string
	Credential string
}

type Unsubscriber func()

func noop() {}

// Subscribe binds handler to the tenant room on the shared connection.
// With no endpoint or tenant it does nothing. The returned Unsubscriber
// removes only the listeners registered here; it never releases the
// connection.
func Subscribe(m *Manager, opts SubscribeOptions, handler func(AppointmentChangeEvent)) Unsubscriber {
	if opts.Endpoint == "" || opts.TenantID == "" || handler == nil {
		return noop
	}

	conn := m.Acquire(Config{Endpoint: opts.Endpoint, Credential: opts.Credential})

	join := func() {
		if err := conn.Emit(EventJoinTenant, opts.TenantID); err != nil {
			log.Warn().Err(err).Str("tenant", opts.TenantID).Msg("realtime: join failed")
		}
	}

	type binding struct {
		event string
		id    ListenerID
	}
	bindings := make([]binding, 0, len(Kinds)+1)

	for _, kind := range Kinds {
		kind := kind
		id := conn.On(kind.EventName(), func(payload json.RawMessage) {
			handler(newChangeEvent(kind, payload))
		})
		bindings = append(bindings, binding{event: kind.EventName(), id: id})
	}

	// a sala não sobrevive à reconexão do transporte
	bindings = append(bindings, binding{
		event: EventReconnect,
		id:    conn.On(EventReconnect, func(json.RawMessage) { join() }),
	})

	join()

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, b := range bindings {
				conn.Off(b.event, b.id)
			}
		})
	}
}

// Subscription acompanha o ciclo de vida de um consumidor: Reset troca
// as dependências (endpoint, tenant, token, handler), Close desmonta.
type Subscription struct {
	manager *Manager

	mu          sync.Mutex
	opts        SubscribeOptions
	unsubscribe Unsubscriber
}

func NewSubscription(m *Manager) *Subscription {
	return &Subscription{manager: m}
}

func (s *Subscription) Reset(opts SubscribeOptions, handler func(AppointmentChangeEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.opts = opts
	s.unsubscribe = Subscribe(s.manager, opts, handler)
}

func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.opts = SubscribeOptions{}
}

func (s *Subscription) Options() SubscribeOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}
