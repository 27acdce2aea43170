package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-calendar/internal/audit"
	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

// resolveClient devolve o cliente do formulário, criando o contato
// novo na API quando não há client_id.
func resolveClient(
	ctx context.Context,
	gw domain.Gateway,
	dispatcher *audit.Dispatcher,
	tenantID string,
	userID string,
	form domain.BookingForm,
) (uint, *models.Contact, error) {

	if form.ClientID != 0 || form.NewContact == nil {
		return form.ClientID, nil, nil
	}

	contact, err := gw.CreateContact(ctx, tenantID, *form.NewContact)
	if err != nil {
		return 0, nil, err
	}

	dispatcher.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   userID,
		Action:   audit.ActionContactCreated,
		Entity:   "contact",
		EntityID: &contact.ID,
	})

	return contact.ID, contact, nil
}
