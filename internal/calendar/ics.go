package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

const productID = "-//salon-calendar//agenda//PT"

var icsStatus = map[domain.Status]string{
	domain.StatusScheduled: "TENTATIVE",
	domain.StatusConfirmed: "CONFIRMED",
	domain.StatusCompleted: "CONFIRMED",
	domain.StatusCancelled: "CANCELLED",
	domain.StatusNoShow:    "CANCELLED",
}

// ExportICS gera um VCALENDAR com um VEVENT por agendamento.
func ExportICS(appointments []models.Appointment, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ap := range appointments {
		ev := cal.AddEvent(fmt.Sprintf("appointment-%d@salon-calendar", ap.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(ap.StartTime)

		end := ap.EndTime
		if end.IsZero() || !end.After(ap.StartTime) {
			end = ap.StartTime
		}
		ev.SetEndAt(end)

		ev.SetSummary(summary(ap))
		if ap.Notes != "" {
			ev.SetDescription(ap.Notes)
		}
		if st, ok := icsStatus[domain.Status(ap.Status)]; ok {
			ev.SetProperty(ical.ComponentPropertyStatus, st)
		}
	}

	return cal.Serialize()
}

func summary(ap models.Appointment) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{ap.ServiceName, ap.ClientName, ap.StylistName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Agendamento #%d", ap.ID)
	}
	return strings.Join(parts, " - ")
}
