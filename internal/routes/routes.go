package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/handlers"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/middleware"
)

type Handlers struct {
	Appointments *handlers.AppointmentHandler
	Risk         *handlers.RiskHandler
	Vouchers     *handlers.VoucherHandler
	AuditLogs    *handlers.AuditLogsHandler
}

func RegisterRoutes(
	r *gin.Engine,
	h Handlers,
	jwtSecret string,
	corsOrigins []string,
	m *metrics.Metrics,
	log *zap.Logger,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(corsOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// ======================================================
	// 🔐 API
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.GET("/branches/:branchId/availability", h.Appointments.Availability)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.POST("/appointments", h.Appointments.Create)
		api.GET("/appointments", h.Appointments.List)
		api.GET("/appointments/:id", h.Appointments.Get)
		api.PATCH("/appointments/:id/status", h.Appointments.UpdateStatus)
		api.POST("/appointments/:id/payment/verify", h.Appointments.VerifyPayment)
		api.POST("/appointments/:id/voucher", h.Appointments.ResubmitVoucher)
		api.POST("/appointments/:id/attendance", h.Appointments.MarkAttendance)
		api.DELETE("/appointments/:id", h.Appointments.Delete)

		// ------------------------------
		// VOUCHERS / RISCO / AUDITORIA
		// ------------------------------
		api.POST("/vouchers", h.Vouchers.Upload)
		api.GET("/clients/:id/risk", h.Risk.Get)
		api.GET("/audit-logs", h.AuditLogs.List)
	}
}
