package calendar

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/realtime"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

const watcherBuffer = 16

var ErrMissingID = errors.New("appointment payload without id")

// Change é o que os observadores do calendário recebem.
// Resync indica que o estado inteiro foi trocado (refetch ou reset).
type Change struct {
	Event  realtime.AppointmentChangeEvent
	Resync bool
}

// Board é o estado do calendário em memória, alimentado pelos eventos
// em tempo real e pelo refetch periódico. Não fala com a API.
type Board struct {
	mu       sync.RWMutex
	entries  map[uint]models.Appointment
	watchers map[int]chan Change
	nextID   int
	now      func() time.Time
}

func NewBoard() *Board {
	return &Board{
		entries:  make(map[uint]models.Appointment),
		watchers: make(map[int]chan Change),
		now:      timezone.Now,
	}
}

// Apply incorpora um evento. created/updated fazem upsert por id,
// status altera o status de um agendamento já conhecido.
func (b *Board) Apply(ev realtime.AppointmentChangeEvent) error {
	switch ev.Type {
	case realtime.KindCreated, realtime.KindUpdated:
		var ap models.Appointment
		if err := json.Unmarshal(ev.Data, &ap); err != nil {
			return errors.Wrapf(err, "[Board.Apply] decode %s payload", ev.Type)
		}
		if ap.ID == 0 {
			return ErrMissingID
		}

		b.mu.Lock()
		b.entries[ap.ID] = ap
		b.mu.Unlock()

	case realtime.KindStatus:
		var change domain.StatusChange
		if err := json.Unmarshal(ev.Data, &change); err != nil {
			return errors.Wrap(err, "[Board.Apply] decode status payload")
		}
		if change.ID == 0 {
			return ErrMissingID
		}

		b.mu.Lock()
		ap, ok := b.entries[change.ID]
		if !ok {
			// fora da janela carregada: o refetch traz depois
			b.mu.Unlock()
			b.notify(Change{Event: ev})
			return nil
		}
		if err := domain.ApplyStatus(&ap, change.Status, b.now()); err != nil {
			b.mu.Unlock()
			return err
		}
		b.entries[ap.ID] = ap
		b.mu.Unlock()

	default:
		return errors.Errorf("[Board.Apply] unknown event kind %d", int(ev.Type))
	}

	b.notify(Change{Event: ev})
	return nil
}

// Replace troca todo o estado pelo resultado de um refetch.
func (b *Board) Replace(list []models.Appointment) {
	b.mu.Lock()
	b.entries = make(map[uint]models.Appointment, len(list))
	for _, ap := range list {
		if ap.ID == 0 {
			continue
		}
		b.entries[ap.ID] = ap
	}
	b.mu.Unlock()

	b.notify(Change{Resync: true})
}

func (b *Board) Reset() {
	b.Replace(nil)
}

func (b *Board) Get(id uint) (models.Appointment, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ap, ok := b.entries[id]
	return ap, ok
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Snapshot devolve os agendamentos que começam em [from, to), ordenados.
// from/to zerados não limitam.
func (b *Board) Snapshot(from, to time.Time) []models.Appointment {
	b.mu.RLock()
	out := make([]models.Appointment, 0, len(b.entries))
	for _, ap := range b.entries {
		if !from.IsZero() && ap.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && !ap.StartTime.Before(to) {
			continue
		}
		out = append(out, ap)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// ------------------------------------------------------
// watchers
// ------------------------------------------------------

// Watch registra um observador. Observador lento perde mudanças
// em vez de travar o board.
func (b *Board) Watch() (<-chan Change, func()) {
	ch := make(chan Change, watcherBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Board) notify(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.watchers {
		select {
		case ch <- c:
		default:
		}
	}
}
