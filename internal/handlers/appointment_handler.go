package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-calendar/internal/calendar"
	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/dto"
	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/httpresp"
	"github.com/BruksfildServices01/salon-calendar/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-calendar/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create      *ucAppointment.CreateAppointment
	update      *ucAppointment.UpdateAppointment
	listByDate  *ucAppointment.ListAppointmentsByDate
	listByMonth *ucAppointment.ListAppointmentsByMonth
	board       *calendar.Board
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	board *calendar.Board,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:      create,
		update:      update,
		listByDate:  listByDate,
		listByMonth: listByMonth,
		board:       board,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var form domain.BookingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		TenantID: middleware.TenantID(c),
		UserID:   middleware.UserID(c),
		Form:     form,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id := parseUintParam(c.Param("id"))
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var form domain.BookingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		TenantID:      middleware.TenantID(c),
		UserID:        middleware.UserID(c),
		AppointmentID: id,
		Form:          form,
	}
	if current, ok := h.board.Get(id); ok {
		in.CurrentStatus = domain.Status(current.Status)
	}

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST (direto da API, sem passar pelo calendário)
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	day, ok := dateQuery(c)
	if !ok {
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), middleware.TenantID(c), day)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(list))
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, month, ok := parseYearMonth(c.Query("year"), c.Query("month"))
	if !ok {
		httperr.BadRequest(c, "invalid_month", "Ano ou mês inválido.")
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), middleware.TenantID(c), year, month)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(list))
}
