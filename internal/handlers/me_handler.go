package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-calendar/internal/session"
)

type MeHandler struct {
	sessions *session.Manager
	tenant   func() string
}

// tenant informa o tenant assinado no realtime ("" quando desligado).
func NewMeHandler(sessions *session.Manager, tenant func() string) *MeHandler {
	return &MeHandler{sessions: sessions, tenant: tenant}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	id := h.sessions.Identity()
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error_code": "user_not_in_context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    id.SubjectID,
			"email": id.Email,
		},
		"tenant_id":  id.TenantID,
		"expires_at": id.ExpiresAt,
		"live":       h.tenant() == id.TenantID,
	})
}
