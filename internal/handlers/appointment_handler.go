package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/middleware"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Create          *appointment.CreateAppointment
	Get             *appointment.GetAppointment
	Availability    *appointment.GetAvailability
	ListByDate      *appointment.ListAppointmentsByDate
	ListByMonth     *appointment.ListAppointmentsByMonth
	UpdateStatus    *appointment.UpdateStatus
	VerifyPayment   *appointment.VerifyPayment
	ResubmitVoucher *appointment.ResubmitVoucher
	MarkAttendance  *appointment.MarkAttendance
	Delete          *appointment.DeleteAppointment
}

type AppointmentHandler struct {
	uc  AppointmentUseCases
	log *zap.Logger
}

func NewAppointmentHandler(uc AppointmentUseCases, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		uc:  uc,
		log: log.With(zap.String("handler", "appointments")),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type VerifyPaymentRequest struct {
	Outcome string `json:"outcome" binding:"required"`
	Reason  string `json:"reason"`
}

type ResubmitVoucherRequest struct {
	VoucherURL    string `json:"voucher_url" binding:"required"`
	VoucherNumber string `json:"voucher_number"`
}

type AttendanceRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	branchID, ok := parseUintParam(c, "branchId")
	if !ok {
		httperr.BadRequest(c, "invalid_branch_id", "Filial inválida.")
		return
	}

	barberID, ok := parseUintQuery(c, "barber_id")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	date := c.Query("date")
	if !validDate(date) {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	serviceIDs, ok := parseIDList(c.Query("service_ids"))
	if !ok {
		httperr.BadRequest(c, "invalid_service_ids", "Serviços inválidos.")
		return
	}

	slots, err := h.uc.Availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		BranchID:   branchID,
		BarberID:   barberID,
		Date:       date,
		ServiceIDs: serviceIDs,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var in appointment.CreateAppointmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	actor := middleware.ActorFrom(c)
	// cliente só agenda para si mesmo
	if actor.Role == domain.RoleClient {
		in.ClientID = actor.UserID
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	branchID, ok := parseUintQuery(c, "branch_id")
	if !ok {
		branchID = c.GetUint(middleware.ContextBranchID)
	}
	if branchID == 0 {
		httperr.BadRequest(c, "missing_branch_id", "Filial obrigatória.")
		return
	}

	if month := c.Query("month"); month != "" {
		year, m, ok := parseMonth(month)
		if !ok {
			httperr.BadRequest(c, "invalid_month", "Mês inválido.")
			return
		}
		list, err := h.uc.ListByMonth.Execute(c.Request.Context(), branchID, year, m)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		httpresp.List(c, list)
		return
	}

	date := c.Query("date")
	if !validDate(date) {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	list, err := h.uc.ListByDate.Execute(c.Request.Context(), branchID, date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	ap, err := h.uc.Get.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// STATE MACHINE
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.UpdateStatus.Execute(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) VerifyPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.uc.VerifyPayment.Execute(
		c.Request.Context(),
		middleware.ActorFrom(c),
		id,
		domain.PaymentOutcome(req.Outcome),
		req.Reason,
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := gin.H{"appointment": res.Appointment}
	if res.Risk != nil {
		resp["client_risk"] = gin.H{
			"false_vouchers_count": res.Risk.FalseVouchersCount,
			"tier":                 res.Risk.Tier(),
		}
	}
	httpresp.OK(c, resp)
}

func (h *AppointmentHandler) ResubmitVoucher(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req ResubmitVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.ResubmitVoucher.Execute(
		c.Request.Context(),
		middleware.ActorFrom(c),
		id,
		req.VoucherURL,
		req.VoucherNumber,
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) MarkAttendance(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.uc.MarkAttendance.Execute(c.Request.Context(), middleware.ActorFrom(c), id, *req.Attended)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"appointment": res.Appointment,
		"transaction": res.Transaction,
	})
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
