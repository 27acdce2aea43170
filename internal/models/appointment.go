package models

import "time"

// Representação do agendamento devolvida pela API de reservas.
// Também é o payload dos eventos appointment:created / appointment:updated.
type Appointment struct {
	ID       uint `json:"id"`
	TenantID uint `json:"tenant_id"`

	ClientID  uint `json:"client_id"`
	ServiceID uint `json:"service_id"`
	StylistID uint `json:"stylist_id"`

	// linha auxiliar (add-on) de uma reserva principal
	ParentID *uint `json:"parent_id,omitempty"`

	ClientName  string `json:"client_name"`
	ServiceName string `json:"service_name"`
	StylistName string `json:"stylist_name"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `json:"status"`
	Notes  string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
