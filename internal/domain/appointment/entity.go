package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

// StatusChange é o payload de appointment:status.
type StatusChange struct {
	ID     uint   `json:"id"`
	Status Status `json:"status"`
}

// ApplyStatus aplica no estado local a mudança anunciada pelo servidor.
// O servidor é a fonte da verdade: não validamos transições aqui.
func ApplyStatus(ap *models.Appointment, status Status, now time.Time) error {
	if !status.Known() {
		return httperr.ErrBusiness("unknown_status")
	}

	ap.Status = string(status)
	ap.UpdatedAt = now
	return nil
}
