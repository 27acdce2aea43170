package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

type ActivityFilter struct {
	TenantID string
	Action   string
	Entity   string
	From     time.Time
	To       time.Time

	Limit  int
	Offset int
}

type ActivityGormRepository struct {
	db *gorm.DB
}

func NewActivityGormRepository(db *gorm.DB) *ActivityGormRepository {
	return &ActivityGormRepository{db: db}
}

// List devolve uma página do diário e o total que casa com o filtro.
func (r *ActivityGormRepository) List(
	ctx context.Context,
	f ActivityFilter,
) ([]models.ActivityLog, int64, error) {

	// sempre protegido por tenant
	q := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("tenant_id = ?", f.TenantID)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
