package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

// GetAvailability consulta horários e profissionais livres.
// Nada aqui é cacheado: cada chamada vai à API.
type GetAvailability struct {
	gw domain.Gateway
}

func NewGetAvailability(gw domain.Gateway) *GetAvailability {
	return &GetAvailability{gw: gw}
}

// Slots devolve "HH:MM" locais. Seleção incompleta → lista vazia sem chamada remota.
func (uc *GetAvailability) Slots(
	ctx context.Context,
	q domain.SlotQuery,
) ([]string, error) {

	if q.TenantID == "" || q.ServiceID == 0 || q.StylistID == 0 || q.Date.IsZero() {
		return []string{}, nil
	}

	return uc.gw.ListSlots(ctx, q)
}

func (uc *GetAvailability) Stylists(
	ctx context.Context,
	q domain.StylistQuery,
) ([]models.Stylist, error) {

	if q.TenantID == "" || q.ServiceID == 0 || q.Date.IsZero() {
		return []models.Stylist{}, nil
	}

	return uc.gw.ListStylists(ctx, q)
}
