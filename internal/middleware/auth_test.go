package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-calendar/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("x"))
	require.NoError(t, err)
	return tok
}

func router(sessions *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/secure", SessionRequired(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant": TenantID(c), "user": UserID(c)})
	})
	return r
}

func TestSessionRequired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	sessions := session.NewManager(session.NewMemoryStore(), session.WithClock(func() time.Time { return now }))
	r := router(sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error_code":"session_expired"`)

	require.NoError(t, sessions.SetCredential(ctx, signed(t, jwt.MapClaims{"sub": "11", "tenantId": "7", "exp": now.Add(time.Minute).Unix()})))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tenant":"7","user":"11"}`, w.Body.String())

	// relógio avança: token expira e é descartado
	now = now.Add(2 * time.Minute)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "", sessions.Token())
}

func TestSessionRequired_TokenWithoutTenant(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	require.NoError(t, sessions.SetCredential(context.Background(), signed(t, jwt.MapClaims{"sub": "11"})))

	w := httptest.NewRecorder()
	router(sessions).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token_payload")
}

func TestCORSPreflight(t *testing.T) {
	r := router(session.NewManager(session.NewMemoryStore()))

	req := httptest.NewRequest(http.MethodOptions, "/secure", nil)
	req.Header.Set("Origin", "http://app.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
}
