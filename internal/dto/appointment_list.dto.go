package dto

import (
	"time"

	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ServiceName string    `json:"service_name"`
	StylistID   uint      `json:"stylist_id"`
	StylistName string    `json:"stylist_name"`
	AddOn       bool      `json:"is_add_on"`
}

func FromAppointments(list []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(list))
	for _, ap := range list {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ServiceName: ap.ServiceName,
			StylistID:   ap.StylistID,
			StylistName: ap.StylistName,
			AddOn:       ap.ParentID != nil,
		})
	}
	return out
}
