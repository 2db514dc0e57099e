package appointment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

func fieldNames(err error) []string {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestCreateAppointment_Cash(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	in := cashBooking("10:00")
	in.ServiceIDs = []uint{haircutID, beardID}

	ap := f.book(t, in)

	assert.NotZero(t, ap.ID)
	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, 60, ap.DurationMin)
	assert.Equal(t, 65.0, ap.TotalPrice)
	assert.Nil(t, ap.VoucherURL)
	assert.Equal(t, 1, f.events.Count(events.SubjectStatusChanged))

	stored, err := f.store.GetAppointment(context.Background(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{haircutID, beardID}, stored.ServiceIDs)
}

func TestCreateAppointment_VoucherStartsPendingPayment(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	ap := f.book(t, voucherBooking("11:00"))

	assert.Equal(t, string(domain.StatusPendingPayment), ap.Status)
	require.NotNil(t, ap.VoucherURL)
	require.NotNil(t, ap.VoucherNumber)
	assert.Equal(t, "E123", *ap.VoucherNumber)
	assert.Equal(t, "pix", ap.PaymentMethod)
}

func TestCreateAppointment_ReportsEveryInvalidField(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, CreateAppointmentInput{})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t,
		[]string{"client_id", "barber_id", "branch_id", "date", "time", "services"},
		fieldNames(err),
	)
}

func TestCreateAppointment_DirectoryErrorsAreValidation(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	in := cashBooking("10:00")
	in.ClientID = 999
	in.BarberID = 998
	in.ServiceIDs = []uint{997}

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)
	assert.ElementsMatch(t, []string{"client_id", "barber_id", "services"}, fieldNames(err))
}

func TestCreateAppointment_VoucherWithCashMethod(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	in := voucherBooking("10:00")
	in.PaymentMethod = "cash"

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)
	assert.Equal(t, []string{"payment_method"}, fieldNames(err))
}

func TestCreateAppointment_PastDate(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	in := cashBooking("10:00")
	in.Date = "2024-06-03"

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)
	assert.Equal(t, []string{"date"}, fieldNames(err))
}

func TestCreateAppointment_Collision(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	f.book(t, cashBooking("10:00"))

	in := cashBooking("10:00")
	in.ClientID = otherID

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)

	var sc *domain.SlotCollisionError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, barberID, sc.BarberID)
	assert.Equal(t, "10:00", sc.Time)
}

// racingRepo fails inserts the way postgres does when another instance
// already booked an overlapping range.
type racingRepo struct {
	domain.Repository
}

func (racingRepo) CreateAppointment(context.Context, *models.Appointment) error {
	return &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}
}

func TestCreateAppointment_DatabaseOverlapIsCollision(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	f.deps.Repo = racingRepo{Repository: f.store}

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, cashBooking("10:00"))

	var sc *domain.SlotCollisionError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, "10:00", sc.Time)
}

func TestCreateAppointment_OverlapWithLongerBooking(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	in := cashBooking("10:00")
	in.ServiceIDs = []uint{haircutID, beardID}
	f.book(t, in)

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, cashBooking("10:30"))
	var sc *domain.SlotCollisionError
	assert.ErrorAs(t, err, &sc)

	f.book(t, cashBooking("11:00"))
}

func TestCreateAppointment_CancelledFreesSlot(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	ap := f.book(t, cashBooking("10:00"))

	_, err := NewUpdateStatus(f.deps).Execute(context.Background(), client, ap.ID, "cancelled")
	require.NoError(t, err)

	f.book(t, cashBooking("10:00"))
}

func TestCreateAppointment_OffGridTime(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	for _, hm := range []string{"10:15", "08:30", "18:00"} {
		_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, cashBooking(hm))
		assert.Equal(t, []string{"time"}, fieldNames(err), hm)
	}
}

func TestCreateAppointment_ClosedDay(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	in := cashBooking("10:00")
	in.Date = "2024-06-11"

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)
	assert.Equal(t, []string{"time"}, fieldNames(err))
}

func TestCreateAppointment_BlacklistedClient(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	require.NoError(t, f.store.UpsertClient(context.Background(), &models.Client{
		ID:                 otherID + 1,
		Name:               "Pedro",
		FalseVouchersCount: 3,
		IsFlagged:          true,
		Blacklisted:        true,
	}))

	in := voucherBooking("10:00")
	in.ClientID = otherID + 1

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, in)
	var be *domain.BlacklistedClientError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, otherID+1, be.ClientID)

	cash := cashBooking("10:00")
	cash.ClientID = otherID + 1
	ap := f.book(t, cash)
	assert.Equal(t, string(domain.StatusPending), ap.Status)
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	f.book(t, cashBooking("10:00"))

	slots, err := NewGetAvailability(f.deps).Execute(context.Background(), AvailabilityInput{
		BranchID:   branchID,
		BarberID:   barberID,
		Date:       bookingDay,
		ServiceIDs: []uint{haircutID},
	})
	require.NoError(t, err)
	require.Len(t, slots, 18)

	for _, s := range slots {
		assert.Equal(t, s.Start != "10:00", s.Available, s.Start)
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	uc := NewGetAvailability(f.deps)
	ctx := context.Background()

	_, err := uc.Execute(ctx, AvailabilityInput{BranchID: 99, BarberID: barberID, Date: bookingDay})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	_, err = uc.Execute(ctx, AvailabilityInput{BranchID: branchID, BarberID: 99, Date: bookingDay})
	assert.ErrorIs(t, err, domain.ErrBarberNotFound)

	_, err = uc.Execute(ctx, AvailabilityInput{BranchID: branchID, BarberID: barberID, Date: "10/06/2024"})
	assert.Error(t, err)

	slots, err := uc.Execute(ctx, AvailabilityInput{BranchID: branchID, BarberID: barberID, Date: "2024-06-11"})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)
	f.book(t, cashBooking("11:00"))
	f.book(t, cashBooking("09:00"))

	byDate, err := NewListAppointmentsByDate(f.deps).Execute(context.Background(), branchID, bookingDay)
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "09:00", byDate[0].Time)

	byMonth, err := NewListAppointmentsByMonth(f.deps).Execute(context.Background(), branchID, 2024, 6)
	require.NoError(t, err)
	assert.Len(t, byMonth, 2)

	empty, err := NewListAppointmentsByMonth(f.deps).Execute(context.Background(), branchID, 2024, 7)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCreateAppointment_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t, domain.RejectionKeepPending)

	var (
		wg         sync.WaitGroup
		created    atomic.Int32
		collisions atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewCreateAppointment(f.deps).Execute(context.Background(), client, cashBooking("14:00"))
			var sc *domain.SlotCollisionError
			switch {
			case err == nil:
				created.Add(1)
			case errors.As(err, &sc):
				collisions.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(9), collisions.Load())
}
