package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-calendar/internal/audit"
	"github.com/BruksfildServices01/salon-calendar/internal/calendar"
	"github.com/BruksfildServices01/salon-calendar/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-calendar/internal/db"
	"github.com/BruksfildServices01/salon-calendar/internal/infra/bookingapi"
	"github.com/BruksfildServices01/salon-calendar/internal/logger"
	"github.com/BruksfildServices01/salon-calendar/internal/realtime"
	"github.com/BruksfildServices01/salon-calendar/internal/routes"
	"github.com/BruksfildServices01/salon-calendar/internal/session"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-calendar/internal/usecase/appointment"
	ucSession "github.com/BruksfildServices01/salon-calendar/internal/usecase/session"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg := config.Load()
	logger.Setup(cfg.LogLevel)
	timezone.SetDefault(cfg.Timezone)

	// ======================================================
	// INFRA
	// ======================================================
	var db *gorm.DB
	if cfg.DBUrl != "" {
		db = dbpkg.NewDB(cfg)
	}

	store, closeStore := credentialStore(cfg, db)
	defer closeStore()

	sessions := session.NewManager(store, session.WithKey(cfg.CredentialKey))

	dispatcher := audit.NewDispatcher(auditSink(db))
	defer dispatcher.Close()

	var lifecycle *ucSession.Lifecycle

	gateway, err := bookingapi.New(cfg.APIBaseURL,
		bookingapi.WithTokenSource(sessions.Token),
		bookingapi.WithLocation(timezone.Local),
		bookingapi.WithUnauthorized(func() {
			// token recusado pela API: encerra a sessão local
			if lifecycle != nil {
				if err := lifecycle.Logout(context.Background()); err != nil {
					log.Error().Err(err).Msg("failed to clear rejected session")
				}
			}
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid API_BASE_URL")
	}
	defer gateway.Close()

	// ======================================================
	// CALENDÁRIO AO VIVO
	// ======================================================
	conns := realtime.NewManager()
	board := calendar.NewBoard()
	live := calendar.NewLive(conns, board, dispatcher)

	syncer := calendar.NewSyncer(board, ucAppointment.NewListAppointmentsByMonth(gateway), live.Tenant)

	lifecycle = ucSession.NewLifecycle(gateway, sessions, live, syncer, conns, board, cfg.RealtimeURL)

	if st := lifecycle.Resume(context.Background()); !st.Empty() {
		log.Info().Str("tenant", sessions.TenantID()).Msg("session restored")
	}

	if err := syncer.Start(cfg.ResyncCron); err != nil {
		log.Fatal().Err(err).Msg("invalid RESYNC_CRON")
	}
	defer syncer.Stop()

	defer func() {
		live.Stop()
		if err := conns.Release(); err != nil {
			log.Warn().Err(err).Msg("closing realtime connection")
		}
	}()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"session":  sessions.Valid(c.Request.Context()),
			"realtime": conns.Active(),
		})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Sessions:  sessions,
		Gateway:   gateway,
		Lifecycle: lifecycle,
		Board:     board,
		Live:      live,
		Audit:     dispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func credentialStore(cfg *config.Config, db *gorm.DB) (session.Store, func()) {
	switch cfg.CredentialStore {
	case config.StoreRedis:
		rs, err := session.NewRedisStoreFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		return rs, func() { _ = rs.Close() }

	case config.StorePostgres:
		if db == nil {
			log.Fatal().Msg("CREDENTIAL_STORE=postgres requires DATABASE_URL")
		}
		return session.NewGormStore(db), func() {}

	default:
		return session.NewMemoryStore(), func() {}
	}
}

func auditSink(db *gorm.DB) audit.Sink {
	if db != nil {
		return audit.NewGormSink(db)
	}
	return audit.NewLogSink(log.Logger)
}
