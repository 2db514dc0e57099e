package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID uint `json:"client_id" validate:"required"`
	BarberID uint `json:"barber_id" validate:"required"`
	BranchID uint `json:"branch_id" validate:"required"`

	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" validate:"required,datetime=15:04"`
	ServiceIDs []uint `json:"services" validate:"min=1,dive,required"`

	PaymentMethod string `json:"payment_method" validate:"max=30"`
	VoucherURL    string `json:"voucher_url" validate:"omitempty,url,max=512"`
	VoucherNumber string `json:"voucher_number" validate:"max=100"`

	Notes string `json:"notes" validate:"max=255"`
}

func (in CreateAppointmentInput) hasVoucher() bool {
	return strings.TrimSpace(in.VoucherURL) != ""
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	Deps
	log *zap.Logger
}

func NewCreateAppointment(d Deps) *CreateAppointment {
	return &CreateAppointment{
		Deps: d,
		log:  d.Log.With(zap.String("usecase", "create_appointment")),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Validação (todos os campos de uma vez)
	// --------------------------------------------------
	ve := &domain.ValidationError{}
	for _, v := range validators.Struct(in) {
		ve.Add(v.Field, v.Message)
	}

	if in.hasVoucher() && domain.IsCash(in.PaymentMethod) {
		ve.Add("payment_method", "voucher payments require a non-cash method")
	}

	// --------------------------------------------------
	// 2️⃣ Diretório: filial, barbeiro, cliente, serviços
	// --------------------------------------------------
	branch, services, err := uc.resolveDirectory(ctx, in, ve)
	if err != nil {
		return nil, err
	}

	now := uc.now(branch)
	uc.checkNotPast(in, now, ve)

	if err := ve.Err(); err != nil {
		uc.Metrics.BookingsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Risco: voucher exige cliente fora da blacklist
	// --------------------------------------------------
	if in.hasVoucher() {
		ok, err := uc.Risk.CanBookPendingPayment(ctx, in.ClientID)
		if err != nil {
			return nil, fmt.Errorf("check client risk: %w", err)
		}
		if !ok {
			uc.Metrics.BookingsRejected.WithLabelValues("blacklisted").Inc()
			return nil, &domain.BlacklistedClientError{ClientID: in.ClientID}
		}
	}

	duration, price := totals(services)

	// --------------------------------------------------
	// 4️⃣ Conflito de horário (lock por barbeiro + dia)
	// --------------------------------------------------
	unlock, err := uc.Locker.Lock(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("lock barber day: %w", err)
	}
	defer unlock()

	if err := uc.assertSlotFree(ctx, branch, in, duration); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Criação do agendamento
	// --------------------------------------------------
	status := domain.InitialStatus(in.hasVoucher())

	ap := &models.Appointment{
		ClientID:    in.ClientID,
		BarberID:    in.BarberID,
		BranchID:    in.BranchID,
		Date:        in.Date,
		Time:        in.Time,
		DurationMin: duration,
		ServiceIDs:  append([]uint(nil), in.ServiceIDs...),
		TotalPrice:  price,
		Status:      string(status),
		Notes:       in.Notes,
	}
	if in.hasVoucher() {
		url := strings.TrimSpace(in.VoucherURL)
		ap.VoucherURL = &url
		ap.PaymentMethod = in.PaymentMethod
		if in.VoucherNumber != "" {
			number := in.VoucherNumber
			ap.VoucherNumber = &number
		}
	} else if in.PaymentMethod != "" {
		ap.PaymentMethod = in.PaymentMethod
	}

	if err := uc.Repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, &domain.SlotCollisionError{BarberID: in.BarberID, Date: in.Date, Time: in.Time}
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	// --------------------------------------------------
	// 6️⃣ Métricas, eventos, auditoria
	// --------------------------------------------------
	uc.Metrics.AppointmentsCreated.WithLabelValues(string(status)).Inc()
	uc.statusChanged(ctx, ap, "", actor, now)

	uc.log.Info("appointment created",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("barber_id", ap.BarberID),
		zap.String("date", ap.Date),
		zap.String("time", ap.Time),
		zap.String("status", ap.Status),
	)

	return ap, nil
}

func (uc *CreateAppointment) resolveDirectory(
	ctx context.Context,
	in CreateAppointmentInput,
	ve *domain.ValidationError,
) (*models.Branch, []models.Service, error) {

	var branch *models.Branch
	if in.BranchID != 0 {
		b, err := uc.Directory.GetBranch(ctx, in.BranchID)
		switch {
		case errors.Is(err, domain.ErrBranchNotFound):
			ve.Add("branch_id", "branch not found")
		case err != nil:
			return nil, nil, fmt.Errorf("load branch: %w", err)
		case !b.Active:
			ve.Add("branch_id", "branch is not active")
		default:
			branch = b
		}
	}

	if in.BarberID != 0 && branch != nil {
		barbers, err := uc.Directory.GetActiveBarbers(ctx, branch.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("load barbers: %w", err)
		}
		if !containsBarber(barbers, in.BarberID) {
			ve.Add("barber_id", "not an active barber of this branch")
		}
	}

	if in.ClientID != 0 {
		_, err := uc.Directory.GetClient(ctx, in.ClientID)
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			ve.Add("client_id", "client not found")
		case err != nil:
			return nil, nil, fmt.Errorf("load client: %w", err)
		}
	}

	var services []models.Service
	if len(in.ServiceIDs) > 0 {
		list, err := uc.Directory.GetServices(ctx, in.ServiceIDs)
		switch {
		case errors.Is(err, domain.ErrServiceNotFound):
			ve.Add("services", "unknown service")
		case err != nil:
			return nil, nil, fmt.Errorf("load services: %w", err)
		default:
			for _, s := range list {
				if !s.Active || (s.BranchID != 0 && s.BranchID != in.BranchID) {
					ve.Add("services", fmt.Sprintf("service %d is not offered at this branch", s.ID))
				}
			}
			services = list
		}
	}

	return branch, services, nil
}

func (uc *CreateAppointment) checkNotPast(in CreateAppointmentInput, now time.Time, ve *domain.ValidationError) {
	past, err := domain.IsPastDate(in.Date, now)
	if err != nil {
		return
	}
	if past {
		ve.Add("date", "must not be in the past")
		return
	}

	if in.Date != now.Format("2006-01-02") {
		return
	}
	start, err := domain.ParseHM(in.Time)
	if err != nil {
		return
	}
	if start < now.Hour()*60+now.Minute() {
		ve.Add("time", "has already passed")
	}
}

func (uc *CreateAppointment) assertSlotFree(
	ctx context.Context,
	branch *models.Branch,
	in CreateAppointmentInput,
	duration int,
) error {

	date, err := time.ParseInLocation("2006-01-02", in.Date, uc.location(branch))
	if err != nil {
		return err
	}

	hours, err := uc.Directory.GetBranchHours(ctx, in.BranchID, date.Weekday())
	if err != nil {
		return fmt.Errorf("load branch hours: %w", err)
	}

	existing, err := uc.Repo.ListAppointmentsForBarberDay(ctx, in.BarberID, in.Date)
	if err != nil {
		return fmt.Errorf("list barber day: %w", err)
	}

	slots := domain.GenerateSlots(in.Date, in.BarberID, existing, hours, duration, uc.Settings.SlotGranularityMin)

	slot, ok := domain.FindSlot(slots, in.Time)
	if !ok {
		uc.Metrics.BookingsRejected.WithLabelValues("outside_hours").Inc()
		return &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   "time",
			Message: "not a bookable slot for the selected services",
		}}}
	}

	if !slot.Available {
		uc.Metrics.BookingsRejected.WithLabelValues("collision").Inc()
		uc.Audit.Dispatch(audit.Event{
			BranchID: in.BranchID,
			Action:   "appointment_conflict",
			Entity:   "appointment",
			Metadata: map[string]any{
				"barber_id": in.BarberID,
				"date":      in.Date,
				"time":      in.Time,
			},
		})
		return &domain.SlotCollisionError{BarberID: in.BarberID, Date: in.Date, Time: in.Time}
	}

	return nil
}

func totals(services []models.Service) (int, float64) {
	var duration int
	var price float64
	for _, s := range services {
		duration += s.DurationMin
		price += s.Price
	}
	return duration, price
}

func containsBarber(barbers []models.Barber, id uint) bool {
	for _, b := range barbers {
		if b.ID == id {
			return true
		}
	}
	return false
}
