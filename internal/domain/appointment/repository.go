package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

var (
	ErrBranchNotFound  = httperr.ErrBusiness("branch_not_found")
	ErrBarberNotFound  = httperr.ErrBusiness("barber_not_found")
	ErrClientNotFound  = httperr.ErrBusiness("client_not_found")
	ErrServiceNotFound = httperr.ErrBusiness("service_not_found")
)

type Repository interface {
	// -------- Appointment (create / state change) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Availability --------
	ListAppointmentsForBarberDay(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Appointment, error)

	// -------- Listing --------
	ListAppointmentsForBranch(
		ctx context.Context,
		branchID uint,
		fromDate string,
		toDate string,
	) ([]models.Appointment, error)

	// -------- Reminders --------
	ListAppointmentsByStatusAndDate(
		ctx context.Context,
		status Status,
		date string,
	) ([]models.Appointment, error)

	// MarkReminderSent flips reminder_sent only if it is still false and
	// reports whether this call did the flip.
	MarkReminderSent(
		ctx context.Context,
		id uint,
		at time.Time,
	) (bool, error)
}

// Directory is the read-only view of branches, staff, clients and services.
type Directory interface {
	GetBranch(ctx context.Context, id uint) (*models.Branch, error)

	// GetBranchHours returns nil hours when the branch is closed that weekday.
	GetBranchHours(ctx context.Context, branchID uint, weekday time.Weekday) (*OperatingHours, error)

	GetActiveBarbers(ctx context.Context, branchID uint) ([]models.Barber, error)
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetClient(ctx context.Context, id uint) (*models.Client, error)

	// GetServices returns the services in the order of ids.
	GetServices(ctx context.Context, ids []uint) ([]models.Service, error)
}

// SlotLocker serializes bookings for one barber on one date.
type SlotLocker interface {
	Lock(ctx context.Context, barberID uint, date string) (unlock func(), err error)
}
