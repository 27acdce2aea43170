package audit

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

type Sink interface {
	Record(ev Event) error
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// ------------------------------------------------------
// Postgres
// ------------------------------------------------------

type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Record(ev Event) error {
	row := models.ActivityLog{
		TenantID: ev.TenantID,
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metadataJSON(ev.Metadata),
	}

	return s.db.Create(&row).Error
}

// ------------------------------------------------------
// Log
// ------------------------------------------------------

// LogSink escreve o evento no log quando não há banco configurado.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ev Event) error {
	e := s.logger.Info().
		Str("tenant_id", ev.TenantID).
		Str("user_id", ev.UserID).
		Str("action", ev.Action).
		Str("entity", ev.Entity)

	if ev.EntityID != nil {
		e = e.Uint("entity_id", *ev.EntityID)
	}
	if meta := metadataJSON(ev.Metadata); meta != "" {
		e = e.RawJSON("metadata", []byte(meta))
	}

	e.Msg("activity")
	return nil
}
