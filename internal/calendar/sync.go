package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

const (
	DefaultResyncSchedule = "*/5 * * * *"
	resyncTimeout         = 30 * time.Second
)

// Lister busca os agendamentos de um mês na API.
type Lister interface {
	Execute(ctx context.Context, tenantID string, year int, month int) ([]models.Appointment, error)
}

// Syncer refaz periodicamente o fetch do mês corrente e substitui o
// estado do board. É assim que eventos perdidos são recuperados.
type Syncer struct {
	board  *Board
	lister Lister
	tenant func() string
	now    func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewSyncer(board *Board, lister Lister, tenant func() string) *Syncer {
	return &Syncer{
		board:  board,
		lister: lister,
		tenant: tenant,
		now:    timezone.Now,
	}
}

// Start agenda o refetch. Chamar de novo troca a agenda.
func (s *Syncer) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultResyncSchedule
	}

	c := cron.New(cron.WithLocation(timezone.Local()))
	if _, err := c.AddFunc(schedule, s.tick); err != nil {
		return errors.Wrapf(err, "[Syncer.Start] invalid schedule %q", schedule)
	}

	s.mu.Lock()
	prev := s.cron
	s.cron = c
	s.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	c.Start()

	log.Info().Str("schedule", schedule).Msg("calendar: resync scheduled")
	return nil
}

func (s *Syncer) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *Syncer) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	if err := s.Resync(ctx); err != nil {
		log.Warn().Err(err).Msg("calendar: resync failed")
	}
}

// Resync busca o mês corrente agora. Sem tenant (deslogado) não faz nada.
func (s *Syncer) Resync(ctx context.Context) error {
	tenantID := s.tenant()
	if tenantID == "" {
		return nil
	}

	now := s.now()
	list, err := s.lister.Execute(ctx, tenantID, now.Year(), int(now.Month()))
	if err != nil {
		return err
	}

	s.board.Replace(list)
	log.Debug().Str("tenant", tenantID).Int("appointments", len(list)).Msg("calendar: resynced")
	return nil
}
