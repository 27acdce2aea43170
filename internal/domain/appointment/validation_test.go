package appointment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// 10/03/2025 14:30 no fuso do salão
var now = time.Date(2025, 3, 10, 14, 30, 0, 0, saoPaulo)

func validForm() appointment.BookingForm {
	return appointment.BookingForm{
		ClientID:  1,
		ServiceID: 2,
		StylistID: 3,
		Date:      "2025-03-11",
		StartTime: "09:00",
	}
}

func TestCheckNotPast_DateBeforeToday(t *testing.T) {
	err := appointment.CheckNotPast("2025-03-09", "", now, false)
	assert.True(t, httperr.IsBusiness(err, "date_in_past"))

	assert.NoError(t, appointment.CheckNotPast("2025-03-09", "", now, true))
}

func TestCheckNotPast_TimeEarlierToday(t *testing.T) {
	err := appointment.CheckNotPast("2025-03-10", "14:00", now, false)
	assert.True(t, httperr.IsBusiness(err, "time_in_past"))

	assert.NoError(t, appointment.CheckNotPast("2025-03-10", "14:00", now, true))
	assert.NoError(t, appointment.CheckNotPast("2025-03-10", "14:30", now, false))
	assert.NoError(t, appointment.CheckNotPast("2025-03-10", "15:00", now, false))
}

func TestCheckNotPast_TodayWithoutTimeIsAllowed(t *testing.T) {
	assert.NoError(t, appointment.CheckNotPast("2025-03-10", "", now, false))
}

func TestCheckNotPast_UsesSalonWallClock(t *testing.T) {
	// 01:00 UTC do dia 11 ainda é dia 10 em São Paulo
	utcNow := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	salonNow := utcNow.In(saoPaulo)

	assert.NoError(t, appointment.CheckNotPast("2025-03-10", "23:00", salonNow, false))
	assert.True(t, httperr.IsBusiness(
		appointment.CheckNotPast("2025-03-10", "23:00", utcNow, false),
		"date_in_past",
	))
}

func TestValidateSchema_RequiredFields(t *testing.T) {
	err := appointment.ValidateSchema(appointment.BookingForm{})

	ve, ok := appointment.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "required_without", ve.Fields["client_id"])
	assert.Equal(t, "required", ve.Fields["service_id"])
	assert.Equal(t, "required", ve.Fields["stylist_id"])
	assert.Equal(t, "required", ve.Fields["date"])
	assert.Equal(t, "required", ve.Fields["start_time"])
}

func TestValidateSchema_Formats(t *testing.T) {
	form := validForm()
	form.Date = "11/03/2025"
	form.StartTime = "9h"

	ve, ok := appointment.AsValidationError(appointment.ValidateSchema(form))
	require.True(t, ok)
	assert.Equal(t, "datetime", ve.Fields["date"])
	assert.Equal(t, "datetime", ve.Fields["start_time"])
}

func TestValidateSchema_NewContactReplacesClient(t *testing.T) {
	form := validForm()
	form.ClientID = 0
	form.NewContact = &appointment.ContactInput{Name: "Maria", Phone: "11999990000"}
	assert.NoError(t, appointment.ValidateSchema(form))

	form.NewContact = &appointment.ContactInput{Name: "M", Phone: "11999990000", Email: "nope"}
	ve, ok := appointment.AsValidationError(appointment.ValidateSchema(form))
	require.True(t, ok)
	assert.Equal(t, "min", ve.Fields["new_contact.name"])
	assert.Equal(t, "email", ve.Fields["new_contact.email"])
}

func TestValidateSchema_AddOns(t *testing.T) {
	form := validForm()
	form.AddOns = []appointment.AddOnInput{{ServiceID: 4}, {}}

	ve, ok := appointment.AsValidationError(appointment.ValidateSchema(form))
	require.True(t, ok)
	assert.Equal(t, "required", ve.Fields["add_ons[1].service_id"])
}

func TestValidateForm_SchemaBeforeDates(t *testing.T) {
	form := validForm()
	form.Date = "2025-03-01"
	assert.True(t, httperr.IsBusiness(appointment.ValidateForm(form, now), "date_in_past"))

	form.AllowPast = true
	assert.NoError(t, appointment.ValidateForm(form, now))

	form.ServiceID = 0
	_, ok := appointment.AsValidationError(appointment.ValidateForm(form, now))
	assert.True(t, ok)
}

func TestApplyStatus(t *testing.T) {
	ap := &models.Appointment{ID: 42, Status: "scheduled"}

	require.NoError(t, appointment.ApplyStatus(ap, appointment.StatusCompleted, now))
	assert.Equal(t, "completed", ap.Status)
	assert.Equal(t, now, ap.UpdatedAt)

	err := appointment.ApplyStatus(ap, appointment.Status("teleported"), now)
	assert.True(t, httperr.IsBusiness(err, "unknown_status"))
	assert.Equal(t, "completed", ap.Status)
}

func TestCanEdit(t *testing.T) {
	assert.NoError(t, appointment.CanEdit(appointment.StatusScheduled))
	assert.Error(t, appointment.CanEdit(appointment.StatusCancelled))
}
