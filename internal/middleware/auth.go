package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/session"
)

const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
)

// SessionRequired barra as rotas do calendário quando não há sessão
// válida neste processo. Token expirado é descartado aqui.
func SessionRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Valid(c.Request.Context()) {
			httperr.Unauthorized(c, "session_expired", "Sessão expirada. Faça login novamente.")
			c.Abort()
			return
		}

		tenantID := sessions.TenantID()
		if tenantID == "" {
			httperr.Unauthorized(c, "invalid_token_payload", "Token sem salão associado.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, sessions.SubjectID())
		c.Set(ContextTenantID, tenantID)

		c.Next()
	}
}

func TenantID(c *gin.Context) string {
	return c.GetString(ContextTenantID)
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
