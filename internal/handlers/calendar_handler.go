package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-calendar/internal/calendar"
	"github.com/BruksfildServices01/salon-calendar/internal/dto"
	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/salon-calendar/internal/usecase/appointment"
)

const keepAliveEvery = 20 * time.Second

// CalendarHandler expõe o estado em memória do calendário.
type CalendarHandler struct {
	board *calendar.Board
	now   func() time.Time
}

func NewCalendarHandler(board *calendar.Board, now func() time.Time) *CalendarHandler {
	return &CalendarHandler{board: board, now: now}
}

// rangeQuery aceita ?date=, ?year=&month= ou nada (tudo que está carregado).
func (h *CalendarHandler) rangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	if dateStr := c.Query("date"); dateStr != "" {
		day, err := parseDate(dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return time.Time{}, time.Time{}, false
		}
		from, to := dayRange(day)
		return from, to, true
	}

	if c.Query("year") != "" || c.Query("month") != "" {
		year, month, ok := parseYearMonth(c.Query("year"), c.Query("month"))
		if !ok {
			httperr.BadRequest(c, "invalid_month", "Ano ou mês inválido.")
			return time.Time{}, time.Time{}, false
		}
		from, to := ucAppointment.MonthRange(year, month)
		return from, to, true
	}

	return time.Time{}, time.Time{}, true
}

func (h *CalendarHandler) List(c *gin.Context) {
	from, to, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	httpresp.List(c, dto.FromAppointments(h.board.Snapshot(from, to)))
}

// Stream envia as mudanças do calendário como server-sent events.
func (h *CalendarHandler) Stream(c *gin.Context) {
	changes, cancel := h.board.Watch()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveEvery)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false

		case <-ticker.C:
			c.SSEvent("ping", h.now().Format(time.RFC3339))
			return true

		case ch, open := <-changes:
			if !open {
				return false
			}
			if ch.Resync {
				c.SSEvent("resync", gin.H{"total": h.board.Len()})
				return true
			}
			c.SSEvent(ch.Event.Type.String(), ch.Event)
			return true
		}
	})
}

func (h *CalendarHandler) ExportICS(c *gin.Context) {
	from, to, ok := h.rangeQuery(c)
	if !ok {
		return
	}

	body := calendar.ExportICS(h.board.Snapshot(from, to), h.now())

	c.Header("Content-Disposition", `attachment; filename="agenda.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
