package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/httpresp"
	"github.com/BruksfildServices01/salon-calendar/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-calendar/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	availability *ucAppointment.GetAvailability
	catalog      domain.Gateway
}

func NewAvailabilityHandler(
	availability *ucAppointment.GetAvailability,
	catalog domain.Gateway,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		catalog:      catalog,
	}
}

// ======================================================
// SERVICES
// ======================================================

func (h *AvailabilityHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, services)
}

// ======================================================
// SLOTS
// ======================================================

func (h *AvailabilityHandler) Slots(c *gin.Context) {
	day, ok := dateQuery(c)
	if !ok {
		return
	}

	slots, err := h.availability.Slots(c.Request.Context(), domain.SlotQuery{
		TenantID:  middleware.TenantID(c),
		ServiceID: parseUintParam(c.Query("service_id")),
		StylistID: parseUintParam(c.Query("stylist_id")),
		Date:      day,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  day.Format(domain.DateLayout),
		"slots": slots,
	})
}

// ======================================================
// STYLISTS
// ======================================================

func (h *AvailabilityHandler) Stylists(c *gin.Context) {
	day, ok := dateQuery(c)
	if !ok {
		return
	}

	stylists, err := h.availability.Stylists(c.Request.Context(), domain.StylistQuery{
		TenantID:  middleware.TenantID(c),
		ServiceID: parseUintParam(c.Query("service_id")),
		Date:      day,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, stylists)
}

func dateQuery(c *gin.Context) (day time.Time, ok bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data (YYYY-MM-DD).")
		return day, false
	}

	day, err := parseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return day, false
	}
	return day, true
}
