package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-calendar/internal/realtime"
	"github.com/BruksfildServices01/salon-calendar/internal/session"
)

// ======================================================
// PORTS
// ======================================================

type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type LiveSync interface {
	Start(opts realtime.SubscribeOptions)
	Stop()
}

type Resyncer interface {
	Resync(ctx context.Context) error
}

// Releaser fecha a conexão realtime compartilhada.
type Releaser interface {
	Release() error
}

// Resetter descarta o estado do calendário.
type Resetter interface {
	Reset()
}

// ======================================================
// USE CASE
// ======================================================

// Lifecycle amarra a sessão ao calendário ao vivo: login liga a
// assinatura do tenant, logout desliga e fecha a conexão.
type Lifecycle struct {
	auth     Authenticator
	sessions *session.Manager
	live     LiveSync
	resync   Resyncer
	conns    Releaser
	board    Resetter

	realtimeURL string
}

func NewLifecycle(
	auth Authenticator,
	sessions *session.Manager,
	live LiveSync,
	resync Resyncer,
	conns Releaser,
	board Resetter,
	realtimeURL string,
) *Lifecycle {
	return &Lifecycle{
		auth:        auth,
		sessions:    sessions,
		live:        live,
		resync:      resync,
		conns:       conns,
		board:       board,
		realtimeURL: realtimeURL,
	}
}

// Login troca as credenciais por um token, persiste e ativa o calendário.
// Token ilegível fica guardado sem identidade e não assina nada.
func (uc *Lifecycle) Login(ctx context.Context, email, password string) (session.State, error) {
	token, err := uc.auth.Login(ctx, email, password)
	if err != nil {
		return session.State{}, err
	}

	if err := uc.sessions.SetCredential(ctx, token); err != nil {
		return session.State{}, err
	}

	uc.Activate(ctx)
	return uc.sessions.State(), nil
}

// Resume recarrega o token persistido (boot do processo).
func (uc *Lifecycle) Resume(ctx context.Context) session.State {
	st := uc.sessions.Initialize(ctx)
	if !st.Empty() {
		uc.Activate(ctx)
	}
	return uc.sessions.State()
}

// Activate assina o tenant da sessão e busca o mês corrente.
// Sessão inválida não assina nada.
func (uc *Lifecycle) Activate(ctx context.Context) {
	if !uc.sessions.Valid(ctx) {
		return
	}

	uc.live.Start(realtime.SubscribeOptions{
		Endpoint:   uc.realtimeURL,
		TenantID:   uc.sessions.TenantID(),
		Credential: uc.sessions.Token(),
	})

	if err := uc.resync.Resync(ctx); err != nil {
		log.Warn().Err(err).Msg("session: initial calendar fetch failed")
	}
}

// Logout desfaz a assinatura, fecha a conexão e apaga o token.
func (uc *Lifecycle) Logout(ctx context.Context) error {
	uc.live.Stop()

	if err := uc.conns.Release(); err != nil {
		log.Warn().Err(err).Msg("session: closing realtime connection")
	}

	uc.board.Reset()
	return uc.sessions.Clear(ctx)
}
