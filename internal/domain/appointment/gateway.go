package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

// AppointmentRow é uma linha enviada à API: a reserva principal ou um add-on.
type AppointmentRow struct {
	ClientID  uint   `json:"client_id"`
	ServiceID uint   `json:"service_id"`
	StylistID uint   `json:"stylist_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Notes     string `json:"notes,omitempty"`
	AddOn     bool   `json:"is_add_on,omitempty"`
	AllowPast bool   `json:"allow_past,omitempty"`
}

// Gateway é a API remota de reservas.
type Gateway interface {
	// -------- Catalog --------
	ListServices(
		ctx context.Context,
		tenantID string,
	) ([]models.Service, error)

	// -------- Availability --------
	ListSlots(
		ctx context.Context,
		q SlotQuery,
	) ([]string, error)

	ListStylists(
		ctx context.Context,
		q StylistQuery,
	) ([]models.Stylist, error)

	// -------- Contact --------
	CreateContact(
		ctx context.Context,
		tenantID string,
		in ContactInput,
	) (*models.Contact, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		tenantID string,
		row AppointmentRow,
	) (*models.Appointment, error)

	CreateAppointments(
		ctx context.Context,
		tenantID string,
		rows []AppointmentRow,
	) ([]models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		tenantID string,
		appointmentID uint,
		row AppointmentRow,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		tenantID string,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
