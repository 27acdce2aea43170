package appointment

import "github.com/BruksfildServices01/salon-calendar/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

func (s Status) Known() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Final: agendamento encerrado, não aceita edição pelo formulário
func (s Status) Final() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// CanEdit define se um agendamento pode ser alterado pelo formulário
func CanEdit(current Status) error {
	if current.Final() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
