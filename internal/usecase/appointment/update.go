package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-calendar/internal/audit"
	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

type UpdateAppointmentInput struct {
	TenantID      string
	UserID        string
	AppointmentID uint

	// status conhecido pelo calendário; vazio quando não está no board
	CurrentStatus domain.Status

	Form domain.BookingForm
}

type UpdateAppointment struct {
	gw    domain.Gateway
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateAppointment(
	gw domain.Gateway,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		gw:    gw,
		audit: audit,
		now:   timezone.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	if in.CurrentStatus != "" {
		if err := domain.CanEdit(in.CurrentStatus); err != nil {
			return nil, err
		}
	}

	if err := domain.ValidateForm(in.Form, uc.now()); err != nil {
		return nil, err
	}

	clientID, _, err := resolveClient(ctx, uc.gw, uc.audit, in.TenantID, in.UserID, in.Form)
	if err != nil {
		return nil, err
	}

	// add-ons só entram na criação
	row := domain.AppointmentRow{
		ClientID:  clientID,
		ServiceID: in.Form.ServiceID,
		StylistID: in.Form.StylistID,
		Date:      in.Form.Date,
		StartTime: in.Form.StartTime,
		Notes:     in.Form.Notes,
		AllowPast: in.Form.AllowPast,
	}

	ap, err := uc.gw.UpdateAppointment(ctx, in.TenantID, in.AppointmentID, row)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   audit.ActionAppointmentUpdated,
		Entity:   "appointment",
		EntityID: &in.AppointmentID,
	})

	return ap, nil
}
