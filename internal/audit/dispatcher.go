package audit

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	ActionRealtimeCreated      = "realtime_created"
	ActionRealtimeUpdated      = "realtime_updated"
	ActionRealtimeStatus       = "realtime_status"
	ActionAppointmentSubmitted = "appointment_submitted"
	ActionAppointmentUpdated   = "appointment_updated"
	ActionContactCreated       = "contact_created"
)

const queueSize = 100

type Event struct {
	TenantID string
	UserID   string
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher grava eventos fora do caminho da requisição.
type Dispatcher struct {
	sink  Sink
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Record(ev); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit error")
		}
	}
}

// Dispatch nunca bloqueia. Dispatcher nil é aceito (auditoria desligada).
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia → descartamos audit (nunca quebrar a API)
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close esvazia a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
