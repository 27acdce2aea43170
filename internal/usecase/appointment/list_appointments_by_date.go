package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

type ListAppointmentsByDate struct {
	gw domain.Gateway
}

func NewListAppointmentsByDate(
	gw domain.Gateway,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		gw: gw,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID string,
	date time.Time,
) ([]models.Appointment, error) {

	loc := timezone.Local()

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	return uc.gw.ListAppointments(ctx, tenantID, start, end)
}
