package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-calendar/internal/calendar"
	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
	"github.com/BruksfildServices01/salon-calendar/internal/realtime"
	"github.com/BruksfildServices01/salon-calendar/internal/session"
	ucAppointment "github.com/BruksfildServices01/salon-calendar/internal/usecase/appointment"
	ucSession "github.com/BruksfildServices01/salon-calendar/internal/usecase/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ------------------------------------------------------
// fakes
// ------------------------------------------------------

type fakeAPI struct {
	token   string
	month   []models.Appointment
	created []domain.AppointmentRow
}

func (f *fakeAPI) Login(context.Context, string, string) (string, error) {
	return f.token, nil
}

func (f *fakeAPI) ListServices(context.Context, string) ([]models.Service, error) {
	return []models.Service{{ID: 2, Name: "Corte", DurationMin: 30}}, nil
}

func (f *fakeAPI) ListSlots(context.Context, domain.SlotQuery) ([]string, error) {
	return []string{"09:00", "09:30"}, nil
}

func (f *fakeAPI) ListStylists(context.Context, domain.StylistQuery) ([]models.Stylist, error) {
	return []models.Stylist{{ID: 3, Name: "Bia", Busy: true}}, nil
}

func (f *fakeAPI) CreateContact(_ context.Context, _ string, in domain.ContactInput) (*models.Contact, error) {
	return &models.Contact{ID: 50, Name: in.Name}, nil
}

func (f *fakeAPI) CreateAppointment(_ context.Context, _ string, row domain.AppointmentRow) (*models.Appointment, error) {
	f.created = append(f.created, row)
	return &models.Appointment{ID: 77, ServiceID: row.ServiceID}, nil
}

func (f *fakeAPI) CreateAppointments(_ context.Context, _ string, rows []domain.AppointmentRow) ([]models.Appointment, error) {
	f.created = append(f.created, rows...)
	return make([]models.Appointment, len(rows)), nil
}

func (f *fakeAPI) UpdateAppointment(_ context.Context, _ string, id uint, row domain.AppointmentRow) (*models.Appointment, error) {
	return &models.Appointment{ID: id, ServiceID: row.ServiceID}, nil
}

func (f *fakeAPI) ListAppointments(context.Context, string, time.Time, time.Time) ([]models.Appointment, error) {
	return f.month, nil
}

type silentConn struct{}

func (silentConn) Emit(string, any) error { return nil }

func (silentConn) On(string, realtime.Handler) realtime.ListenerID { return "" }

func (silentConn) Off(string, realtime.ListenerID) {}

func (silentConn) Close() error { return nil }

// ------------------------------------------------------
// harness
// ------------------------------------------------------

type harness struct {
	router *gin.Engine
	api    *fakeAPI
	board  *calendar.Board
	conns  *realtime.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "11",
		"tenantId": 7,
		"email":    "op@salon.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("x"))
	require.NoError(t, err)

	start := time.Now().AddDate(0, 0, 1)
	api := &fakeAPI{
		token: tok,
		month: []models.Appointment{
			{ID: 1, Status: "scheduled", ClientName: "Ana", ServiceName: "Corte", StartTime: start, EndTime: start.Add(30 * time.Minute)},
			{ID: 2, Status: "completed", StartTime: start.Add(time.Hour)},
		},
	}

	sessions := session.NewManager(session.NewMemoryStore())
	conns := realtime.NewManager(realtime.WithDialer(func(realtime.Config) realtime.Conn { return silentConn{} }))
	board := calendar.NewBoard()
	live := calendar.NewLive(conns, board, nil)
	syncer := calendar.NewSyncer(board, ucAppointment.NewListAppointmentsByMonth(api), live.Tenant)
	lifecycle := ucSession.NewLifecycle(api, sessions, live, syncer, conns, board, "http://rt")

	r := gin.New()
	RegisterRoutes(r, Deps{
		Sessions:  sessions,
		Gateway:   api,
		Lifecycle: lifecycle,
		Board:     board,
		Live:      live,
	})

	return &harness{router: r, api: api, board: board, conns: conns}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	w := h.do(http.MethodPost, "/api/auth/login", gin.H{"email": "op@salon.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 2).Format(domain.DateLayout)
}

// ------------------------------------------------------
// tests
// ------------------------------------------------------

func TestRoutes_RequireSession(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/me", "/api/calendar", "/api/services", "/api/calendar.ics"} {
		w := h.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Contains(t, w.Body.String(), "session_expired")
	}
}

func TestRoutes_LoginLoadsCalendarAndLogoutReleases(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/auth/login", gin.H{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h.login(t)
	assert.True(t, h.conns.Active())
	assert.Equal(t, 2, h.board.Len())

	w = h.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tenant_id":"7"`)
	assert.Contains(t, w.Body.String(), `"live":true`)

	w = h.do(http.MethodGet, "/api/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "Ana", list.Data[0]["client_name"])

	w = h.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, h.conns.Active())
	assert.Equal(t, 0, h.board.Len())

	w = h.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutes_CalendarQueries(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(http.MethodGet, "/api/calendar?date=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/calendar?year=2025&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/calendar?date=2001-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)

	w = h.do(http.MethodGet, "/api/calendar.ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	assert.Equal(t, 2, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
}

func TestRoutes_Availability(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(http.MethodGet, "/api/availability/slots?service_id=2&stylist_id=3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_date")

	w = h.do(http.MethodGet, "/api/availability/slots?service_id=2&stylist_id=3&date="+tomorrow(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":["09:00","09:30"]`)

	w = h.do(http.MethodGet, "/api/availability/stylists?service_id=2&date="+tomorrow(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"busy":true`)

	w = h.do(http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duration_min":30`)
}

func TestRoutes_CreateAppointment(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(http.MethodPost, "/api/appointments", gin.H{"service_id": 2})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"stylist_id":"required"`)
	assert.Empty(t, h.api.created)

	w = h.do(http.MethodPost, "/api/appointments", gin.H{
		"client_id":  5,
		"service_id": 2,
		"stylist_id": 3,
		"date":       "2001-01-01",
		"start_time": "09:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date_in_past")

	w = h.do(http.MethodPost, "/api/appointments", gin.H{
		"new_contact": gin.H{"name": "Carla", "phone": "11988887777"},
		"service_id":  2,
		"stylist_id":  3,
		"date":        tomorrow(),
		"start_time":  "09:00",
		"add_ons":     []gin.H{{"service_id": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, h.api.created, 2)
	assert.EqualValues(t, 50, h.api.created[0].ClientID)
	assert.Equal(t, "09:30", h.api.created[1].StartTime)
}

func TestRoutes_UpdateAppointment(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	form := gin.H{
		"client_id":  5,
		"service_id": 2,
		"stylist_id": 3,
		"date":       tomorrow(),
		"start_time": "10:00",
	}

	w := h.do(http.MethodPut, "/api/appointments/1", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// agendamento 2 já está concluído no calendário
	w = h.do(http.MethodPut, "/api/appointments/2", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")

	w = h.do(http.MethodPut, "/api/appointments/abc", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
