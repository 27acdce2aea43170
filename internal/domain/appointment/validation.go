package appointment

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ======================================================
// FORM
// ======================================================

type ContactInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"required,min=8,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}

type AddOnInput struct {
	ServiceID uint `json:"service_id" validate:"required"`
	// zero = mesmo profissional da reserva principal
	StylistID uint `json:"stylist_id"`
}

type BookingForm struct {
	ClientID   uint          `json:"client_id" validate:"required_without=NewContact"`
	NewContact *ContactInput `json:"new_contact" validate:"omitempty"`

	ServiceID uint   `json:"service_id" validate:"required"`
	StylistID uint   `json:"stylist_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`

	AddOns []AddOnInput `json:"add_ons" validate:"omitempty,max=10,dive"`
	Notes  string       `json:"notes" validate:"max=500"`

	// lançamento retroativo (administrativo)
	AllowPast bool `json:"allow_past"`
}

// ======================================================
// ERRORS
// ======================================================

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ======================================================
// SCHEMA
// ======================================================

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateSchema checa campos obrigatórios e formatos.
func ValidateSchema(form BookingForm) error {
	err := schema().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// "BookingForm.new_contact.name" → "new_contact.name"
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// ======================================================
// PAST DATE / TIME
// ======================================================

// CheckNotPast rejeita data anterior a hoje e horário já passado,
// ambos no fuso de now, a menos que allowPast esteja ligado.
func CheckNotPast(date, startTime string, now time.Time, allowPast bool) error {
	if allowPast {
		return nil
	}

	loc := now.Location()

	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_date")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return httperr.ErrBusiness("date_in_past")
	}

	if startTime == "" {
		return nil
	}

	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+startTime, loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_time")
	}
	if start.Before(now) {
		return httperr.ErrBusiness("time_in_past")
	}

	return nil
}

// ValidateForm roda o schema e depois as regras de data.
func ValidateForm(form BookingForm, now time.Time) error {
	if err := ValidateSchema(form); err != nil {
		return err
	}
	return CheckNotPast(form.Date, form.StartTime, now, form.AllowPast)
}
