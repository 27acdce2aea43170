package session

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedCredential = errors.New("malformed credential")

// claims aceitas como tenant, em ordem de preferência
var tenantClaimKeys = []string{"tenantId", "tenant_id", "barbershopId", "salonId"}

type Identity struct {
	SubjectID string     `json:"subject_id"`
	TenantID  string     `json:"tenant_id"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the credential expiry has elapsed at now.
// A credential without expiry never expires client-side.
func (i *Identity) Expired(now time.Time) bool {
	if i == nil || i.ExpiresAt == nil {
		return false
	}
	return !now.Before(*i.ExpiresAt)
}

// Decode extrai as claims do token sem verificar a assinatura;
// quem valida é a API de reservas.
func Decode(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMalformedCredential
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Join(ErrMalformedCredential, err)
	}

	id := &Identity{
		SubjectID: claimString(claims["sub"]),
		Email:     claimString(claims["email"]),
	}

	for _, key := range tenantClaimKeys {
		if v := claimString(claims[key]); v != "" {
			id.TenantID = v
			break
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, errors.Join(ErrMalformedCredential, err)
	}
	if exp != nil {
		t := exp.Time
		id.ExpiresAt = &t
	}

	return id, nil
}

func claimString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
