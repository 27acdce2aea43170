package calendar

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-calendar/internal/audit"
	"github.com/BruksfildServices01/salon-calendar/internal/realtime"
)

var kindActions = map[realtime.Kind]string{
	realtime.KindCreated: audit.ActionRealtimeCreated,
	realtime.KindUpdated: audit.ActionRealtimeUpdated,
	realtime.KindStatus:  audit.ActionRealtimeStatus,
}

// Live liga a assinatura em tempo real do tenant ao Board.
type Live struct {
	sub   *realtime.Subscription
	board *Board
	audit *audit.Dispatcher

	mu     sync.Mutex
	tenant string
}

func NewLive(m *realtime.Manager, board *Board, dispatcher *audit.Dispatcher) *Live {
	return &Live{
		sub:   realtime.NewSubscription(m),
		board: board,
		audit: dispatcher,
	}
}

// Start (re)assina com as opções atuais da sessão.
func (l *Live) Start(opts realtime.SubscribeOptions) {
	l.mu.Lock()
	l.tenant = opts.TenantID
	l.mu.Unlock()

	l.sub.Reset(opts, l.handle)
}

// Stop desfaz a assinatura sem fechar a conexão compartilhada.
func (l *Live) Stop() {
	l.sub.Close()

	l.mu.Lock()
	l.tenant = ""
	l.mu.Unlock()
}

func (l *Live) Tenant() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tenant
}

func (l *Live) handle(ev realtime.AppointmentChangeEvent) {
	if err := l.board.Apply(ev); err != nil {
		log.Warn().Err(err).Str("kind", ev.Type.String()).Msg("calendar: dropping event")
		return
	}

	l.audit.Dispatch(audit.Event{
		TenantID: l.Tenant(),
		Action:   kindActions[ev.Type],
		Entity:   "appointment",
		Metadata: ev.Data,
	})
}
