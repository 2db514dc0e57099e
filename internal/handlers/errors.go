package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/infra/lock"
)

// business code -> status + mensagem
var businessErrors = map[string]struct {
	status  int
	message string
}{
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"branch_not_found":      {http.StatusNotFound, "Filial não encontrada."},
	"barber_not_found":      {http.StatusNotFound, "Barbeiro não encontrado."},
	"client_not_found":      {http.StatusNotFound, "Cliente não encontrado."},
	"service_not_found":     {http.StatusBadRequest, "Serviço inválido."},
	"invalid_date":          {http.StatusBadRequest, "Data inválida."},
	"forbidden":             {http.StatusForbidden, "Ação não permitida para este perfil."},
}

// writeError maps use-case errors to the JSON error envelope.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var (
		ve  *domain.ValidationError
		ite *domain.InvalidTransitionError
		sce *domain.SlotCollisionError
		bce *domain.BlacklistedClientError
		ie  *domain.IntegrityError
	)

	switch {
	case errors.As(err, &ve):
		httperr.WriteDetails(c, http.StatusBadRequest, "validation_failed", "Dados inválidos.", ve.Fields)

	case errors.As(err, &ite):
		httperr.WriteDetails(c, http.StatusConflict, "invalid_transition", "Transição de status inválida.", gin.H{
			"from":   ite.From,
			"to":     ite.To,
			"reason": ite.Reason,
		})

	case errors.As(err, &sce):
		httperr.Conflict(c, "time_conflict", "Horário indisponível para este barbeiro.")

	case errors.As(err, &bce):
		httperr.Forbidden(c, "client_blacklisted", "Cliente bloqueado para pagamentos com comprovante.")

	case errors.As(err, &ie):
		log.Error("integrity error", zap.Error(err))
		httperr.Internal(c, "integrity_error", "Inconsistência nos dados.")

	case errors.Is(err, lock.ErrLockTimeout):
		httperr.Unavailable(c, "slot_busy", "Agenda ocupada, tente novamente.")

	default:
		if code, ok := httperr.CodeOf(err); ok {
			if m, known := businessErrors[code]; known {
				httperr.Write(c, m.status, code, m.message)
				return
			}
			httperr.BadRequest(c, code, "Operação inválida.")
			return
		}

		log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Internal(c, "internal_error", "Erro interno.")
	}
}
