package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/models"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultServiceTTL = 10 * time.Minute
	maxErrorBody      = 64 << 10

	opLogin = "Login"
)

// ======================================================
// CLIENT
// ======================================================

// TokenSource devolve a credencial atual ("" quando deslogado).
type TokenSource func() string

type Option func(*Client)

// Client fala com a API remota de reservas. Implementa domain.Gateway.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	token          TokenSource
	location       func() *time.Location
	onUnauthorized func()

	serviceTTL time.Duration
	services   *ttlcache.Cache[string, []models.Service]
}

var _ domain.Gateway = (*Client)(nil)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLocation define o fuso usado para converter horários UTC de disponibilidade.
func WithLocation(fn func() *time.Location) Option {
	return func(c *Client) { c.location = fn }
}

// WithUnauthorized é chamado quando a API recusa o token enviado (401).
func WithUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithServiceTTL controla o cache do catálogo. Zero desliga o cache.
func WithServiceTTL(ttl time.Duration) Option {
	return func(c *Client) { c.serviceTTL = ttl }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[bookingapi.New] invalid base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[bookingapi.New] base url must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		http:       &http.Client{Timeout: defaultTimeout},
		token:      func() string { return "" },
		location:   func() *time.Location { return time.Local },
		serviceTTL: defaultServiceTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.serviceTTL > 0 {
		c.services = ttlcache.New[string, []models.Service](
			ttlcache.WithTTL[string, []models.Service](c.serviceTTL),
			ttlcache.WithDisableTouchOnHit[string, []models.Service](),
		)
		go c.services.Start()
	}

	return c, nil
}

// Close para a limpeza do cache.
func (c *Client) Close() {
	if c.services != nil {
		c.services.Stop()
	}
}

// ======================================================
// ERRORS
// ======================================================

// APIError é uma resposta não-2xx da API remota.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("booking api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("booking api: %d %s", e.Status, e.Code)
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func decodeAPIError(resp *http.Response) *APIError {
	ae := &APIError{Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Code    string `json:"error_code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		ae.Code = payload.Code
		if ae.Code == "" {
			ae.Code = payload.Error
		}
		ae.Message = payload.Message
	}

	if ae.Code == "" {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			ae.Code = "unauthorized"
		case http.StatusNotFound:
			ae.Code = "not_found"
		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			ae.Code = "invalid_request"
		default:
			ae.Code = "upstream_error"
		}
	}
	return ae
}

// ======================================================
// TRANSPORT
// ======================================================

func (c *Client) endpoint(segments ...string) *url.URL {
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) doRequest(
	ctx context.Context,
	op string,
	method string,
	u *url.URL,
	query url.Values,
	body any,
	target any,
) error {
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[%s] failed to marshal request body", op)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return errors.Wrapf(err, "[%s] failed to create request", op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// login nunca carrega o token da sessão anterior
	tok := ""
	if op != opLogin {
		tok = c.token()
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log.Debug().Str("op", op).Str("method", method).Str("url", u.String()).Msg("booking api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[%s] %s %s failed", op, method, u.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := decodeAPIError(resp)
		// 401 só derruba a sessão se um token foi enviado
		if resp.StatusCode == http.StatusUnauthorized && tok != "" && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return errors.WithMessage(ae, "["+op+"]")
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrapf(err, "[%s] failed to decode response", op)
	}
	return nil
}

// ======================================================
// AUTH
// ======================================================

// Login troca email/senha por um token na API remota.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{"email": email, "password": password}

	var out struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := c.doRequest(ctx, opLogin, http.MethodPost, c.endpoint("auth", "login"), nil, in, &out); err != nil {
		return "", err
	}

	tok := out.Token
	if tok == "" {
		tok = out.AccessToken
	}
	if tok == "" {
		return "", errors.New("[Login] response without token")
	}
	return tok, nil
}

// ======================================================
// CATALOG
// ======================================================

func (c *Client) ListServices(ctx context.Context, tenantID string) ([]models.Service, error) {
	if c.services != nil {
		if item := c.services.Get(tenantID); item != nil {
			return item.Value(), nil
		}
	}

	var out []models.Service
	if err := c.doRequest(ctx, "ListServices", http.MethodGet, c.endpoint("tenants", tenantID, "services"), nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Service{}
	}

	if c.services != nil {
		c.services.Set(tenantID, out, ttlcache.DefaultTTL)
	}
	return out, nil
}

// InvalidateServices descarta o catálogo em cache do tenant.
func (c *Client) InvalidateServices(tenantID string) {
	if c.services != nil {
		c.services.Delete(tenantID)
	}
}

// ======================================================
// AVAILABILITY
// ======================================================

// ListSlots nunca passa por cache: disponibilidade muda a todo momento.
func (c *Client) ListSlots(ctx context.Context, q domain.SlotQuery) ([]string, error) {
	params := url.Values{}
	params.Set("service_id", strconv.FormatUint(uint64(q.ServiceID), 10))
	params.Set("stylist_id", strconv.FormatUint(uint64(q.StylistID), 10))
	params.Set("date", q.Date.Format(domain.DateLayout))

	var raw json.RawMessage
	if err := c.doRequest(ctx, "ListSlots", http.MethodGet, c.endpoint("tenants", q.TenantID, "slots"), params, nil, &raw); err != nil {
		return nil, err
	}
	return NormalizeSlots(raw, c.location()), nil
}

func (c *Client) ListStylists(ctx context.Context, q domain.StylistQuery) ([]models.Stylist, error) {
	params := url.Values{}
	params.Set("service_id", strconv.FormatUint(uint64(q.ServiceID), 10))
	params.Set("date", q.Date.Format(domain.DateLayout))

	var out []models.Stylist
	if err := c.doRequest(ctx, "ListStylists", http.MethodGet, c.endpoint("tenants", q.TenantID, "stylists", "availability"), params, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Stylist{}
	}
	return out, nil
}

// ======================================================
// CONTACT
// ======================================================

func (c *Client) CreateContact(ctx context.Context, tenantID string, in domain.ContactInput) (*models.Contact, error) {
	var out models.Contact
	if err := c.doRequest(ctx, "CreateContact", http.MethodPost, c.endpoint("tenants", tenantID, "contacts"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ======================================================
// APPOINTMENT
// ======================================================

func (c *Client) CreateAppointment(ctx context.Context, tenantID string, row domain.AppointmentRow) (*models.Appointment, error) {
	var out models.Appointment
	if err := c.doRequest(ctx, "CreateAppointment", http.MethodPost, c.endpoint("tenants", tenantID, "appointments"), nil, row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointments envia a reserva principal e seus add-ons numa única chamada.
func (c *Client) CreateAppointments(ctx context.Context, tenantID string, rows []domain.AppointmentRow) ([]models.Appointment, error) {
	in := struct {
		Appointments []domain.AppointmentRow `json:"appointments"`
	}{Appointments: rows}

	var out []models.Appointment
	if err := c.doRequest(ctx, "CreateAppointments", http.MethodPost, c.endpoint("tenants", tenantID, "appointments", "batch"), nil, in, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Appointment{}
	}
	return out, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, tenantID string, appointmentID uint, row domain.AppointmentRow) (*models.Appointment, error) {
	id := strconv.FormatUint(uint64(appointmentID), 10)

	var out models.Appointment
	if err := c.doRequest(ctx, "UpdateAppointment", http.MethodPut, c.endpoint("tenants", tenantID, "appointments", id), nil, row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAppointments(ctx context.Context, tenantID string, from, to time.Time) ([]models.Appointment, error) {
	params := url.Values{}
	params.Set("from", from.Format(time.RFC3339))
	params.Set("to", to.Format(time.RFC3339))

	var out []models.Appointment
	if err := c.doRequest(ctx, "ListAppointments", http.MethodGet, c.endpoint("tenants", tenantID, "appointments"), params, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Appointment{}
	}
	return out, nil
}
