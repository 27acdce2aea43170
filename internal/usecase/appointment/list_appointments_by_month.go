package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

type ListAppointmentsByMonth struct {
	gw domain.Gateway
}

func NewListAppointmentsByMonth(
	gw domain.Gateway,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		gw: gw,
	}
}

// MonthRange devolve [primeiro dia, primeiro dia do mês seguinte) no fuso do salão.
func MonthRange(year int, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Local())
	return start, start.AddDate(0, 1, 0)
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	tenantID string,
	year int,
	month int,
) ([]models.Appointment, error) {

	start, end := MonthRange(year, month)
	return uc.gw.ListAppointments(ctx, tenantID, start, end)
}
