package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/httperr"
	"github.com/BruksfildServices01/salon-calendar/internal/infra/bookingapi"
)

var businessMessages = map[string]string{
	"date_in_past":       "Não é possível agendar em data passada.",
	"time_in_past":       "Esse horário já passou.",
	"invalid_date":       "Data inválida.",
	"invalid_time":       "Horário inválido.",
	"invalid_state":      "Agendamento encerrado não pode ser alterado.",
	"service_not_found":  "Serviço não encontrado.",
	"add_on_outside_day": "Os serviços adicionais passam da meia-noite.",
}

// writeError traduz erros de domínio e da API remota para a resposta JSON.
func writeError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		httperr.ValidationFailed(c, ve.Fields)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		msg := businessMessages[code]
		if msg == "" {
			msg = "Operação inválida."
		}
		httperr.BadRequest(c, code, msg)
		return
	}

	if ae, ok := bookingapi.AsAPIError(err); ok {
		msg := ae.Message
		if msg == "" {
			msg = "Erro na API de reservas."
		}
		if ae.Status >= 400 && ae.Status < 500 {
			httperr.Write(c, ae.Status, ae.Code, msg)
			return
		}
		log.Error().Err(err).Msg("booking api failure")
		httperr.BadGateway(c, ae.Code, msg)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	httperr.Write(c, http.StatusBadGateway, "upstream_unavailable", "API de reservas indisponível.")
}
