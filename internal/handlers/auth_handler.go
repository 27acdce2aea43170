package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-calendar/internal/session"
	ucSession "github.com/BruksfildServices01/salon-calendar/internal/usecase/session"
)

type AuthHandler struct {
	lifecycle *ucSession.Lifecycle
}

func NewAuthHandler(lifecycle *ucSession.Lifecycle) *AuthHandler {
	return &AuthHandler{lifecycle: lifecycle}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string            `json:"token"`
	Identity *session.Identity `json:"identity"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_request",
			"message":    "Email e senha são obrigatórios.",
		})
		return
	}

	st, err := h.lifecycle.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    st.Token,
		Identity: st.Identity,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.lifecycle.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
