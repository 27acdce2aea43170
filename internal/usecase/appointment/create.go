package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-calendar/internal/audit"
	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID string
	UserID   string
	Form     domain.BookingForm
}

type CreateAppointmentResult struct {
	// preenchido quando o formulário trouxe um contato novo
	Contact      *models.Contact      `json:"contact,omitempty"`
	Appointments []models.Appointment `json:"appointments"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	gw    domain.Gateway
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateAppointment(
	gw domain.Gateway,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		gw:    gw,
		audit: audit,
		now:   timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentResult, error) {

	// --------------------------------------------------
	// 1️⃣ Validação (antes de qualquer chamada remota)
	// --------------------------------------------------
	if err := domain.ValidateForm(in.Form, uc.now()); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Cliente (existente ou contato novo)
	// --------------------------------------------------
	clientID, contact, err := resolveClient(ctx, uc.gw, uc.audit, in.TenantID, in.UserID, in.Form)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Linhas: principal + add-ons encadeados
	// --------------------------------------------------
	rows, err := uc.buildRows(ctx, in.TenantID, clientID, in.Form)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Envio: simples ou em lote
	// --------------------------------------------------
	var created []models.Appointment
	if len(rows) == 1 {
		ap, err := uc.gw.CreateAppointment(ctx, in.TenantID, rows[0])
		if err != nil {
			return nil, err
		}
		created = []models.Appointment{*ap}
	} else {
		created, err = uc.gw.CreateAppointments(ctx, in.TenantID, rows)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	var entityID *uint
	if len(created) > 0 {
		entityID = &created[0].ID
	}
	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   audit.ActionAppointmentSubmitted,
		Entity:   "appointment",
		EntityID: entityID,
		Metadata: map[string]any{"rows": len(rows)},
	})

	return &CreateAppointmentResult{
		Contact:      contact,
		Appointments: created,
	}, nil
}

// buildRows monta a reserva principal e, para cada add-on, uma linha
// auxiliar que começa quando o serviço anterior termina.
func (uc *CreateAppointment) buildRows(
	ctx context.Context,
	tenantID string,
	clientID uint,
	form domain.BookingForm,
) ([]domain.AppointmentRow, error) {

	primary := domain.AppointmentRow{
		ClientID:  clientID,
		ServiceID: form.ServiceID,
		StylistID: form.StylistID,
		Date:      form.Date,
		StartTime: form.StartTime,
		Notes:     form.Notes,
		AllowPast: form.AllowPast,
	}
	if len(form.AddOns) == 0 {
		return []domain.AppointmentRow{primary}, nil
	}

	services, err := uc.gw.ListServices(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	durations := make(map[uint]int, len(services))
	for _, s := range services {
		durations[s.ID] = s.DurationMin
	}

	start, err := time.Parse(domain.TimeLayout, form.StartTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}

	rows := []domain.AppointmentRow{primary}
	prevService := form.ServiceID

	for _, addOn := range form.AddOns {
		dur, ok := durations[prevService]
		if !ok {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		start = start.Add(time.Duration(dur) * time.Minute)
		if start.Day() != 1 {
			// passou da meia-noite
			return nil, httperr.ErrBusiness("add_on_outside_day")
		}

		stylistID := addOn.StylistID
		if stylistID == 0 {
			stylistID = form.StylistID
		}

		rows = append(rows, domain.AppointmentRow{
			ClientID:  clientID,
			ServiceID: addOn.ServiceID,
			StylistID: stylistID,
			Date:      form.Date,
			StartTime: start.Format(domain.TimeLayout),
			AddOn:     true,
			AllowPast: form.AllowPast,
		})
		prevService = addOn.ServiceID
	}

	return rows, nil
}
