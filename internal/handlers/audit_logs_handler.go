package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store audit.Store
	log   *zap.Logger
}

func NewAuditLogsHandler(store audit.Store, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{store: store, log: log.With(zap.String("handler", "audit_logs"))}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.Role != domain.RoleBranchAdmin && actor.Role != domain.RoleSuperAdmin {
		httperr.Forbidden(c, "forbidden", "Ação não permitida para este perfil.")
		return
	}

	// --------------------------------------------------
	// Escopo: admin de filial só vê a própria filial
	// --------------------------------------------------
	branchID := c.GetUint(middleware.ContextBranchID)
	if actor.Role == domain.RoleSuperAdmin {
		if id, ok := parseUintQuery(c, "branch_id"); ok {
			branchID = id
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, total, err := h.store.ListAuditLogs(c.Request.Context(), audit.Filter{
		BranchID: branchID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		h.log.Error("list audit logs failed", zap.Error(err))
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
