package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/middleware"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/risk"
)

type RiskHandler struct {
	ledger *risk.Ledger
	log    *zap.Logger
}

func NewRiskHandler(ledger *risk.Ledger, log *zap.Logger) *RiskHandler {
	return &RiskHandler{ledger: ledger, log: log.With(zap.String("handler", "risk"))}
}

// Get shows the risk record to staff that verify payments.
func (h *RiskHandler) Get(c *gin.Context) {
	if err := middleware.ActorFrom(c).Require(domain.CanVerifyPayment); err != nil {
		writeError(c, h.log, err)
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	rec, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"record": rec,
		"tier":   rec.Tier(),
	})
}
