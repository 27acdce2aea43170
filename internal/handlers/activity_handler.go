package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/infra/repository"
	"github.com/BruksfildServices01/salon-calendar/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

// ActivityHandler lista o diário de atividades gravado no Postgres.
type ActivityHandler struct {
	repo *repository.ActivityGormRepository
}

func NewActivityHandler(repo *repository.ActivityGormRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

func (h *ActivityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	f := repository.ActivityFilter{
		TenantID: middleware.TenantID(c),
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := parseDate(fromStr); err == nil {
			f.From = from
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if to, err := parseDate(toStr); err == nil {
			f.To = to.AddDate(0, 0, 1)
		}
	}

	logs, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "activity_list_failed", "Erro ao listar atividades.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":       page,
		"limit":      limit,
		"total":      total,
		"activities": logs,
	})
}
