package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

type hoursKey struct {
	branchID uint
	weekday  int
}

// Store keeps every collection in maps keyed by id. Values are copied on
// the way in and out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	branches     map[uint]models.Branch
	hours        map[hoursKey]models.BranchHours
	barbers      map[uint]models.Barber
	clients      map[uint]models.Client
	services     map[uint]models.Service
	appointments map[uint]models.Appointment
	rejections   map[uint][]models.VoucherRejection
	transactions []models.Transaction
	auditLogs    []models.AuditLog
	reminderLogs []models.ReminderLog

	nextID uint
	now    func() time.Time
}

func New() *Store {
	return &Store{
		branches:     map[uint]models.Branch{},
		hours:        map[hoursKey]models.BranchHours{},
		barbers:      map[uint]models.Barber{},
		clients:      map[uint]models.Client{},
		services:     map[uint]models.Service{},
		appointments: map[uint]models.Appointment{},
		rejections:   map[uint][]models.VoucherRejection{},
		now:          time.Now,
	}
}

func (s *Store) id(current uint) uint {
	if current != 0 {
		if current > s.nextID {
			s.nextID = current
		}
		return current
	}
	s.nextID++
	return s.nextID
}

// ======================================================
// Appointment repository
// ======================================================

func copyAppointment(ap models.Appointment) models.Appointment {
	ap.ServiceIDs = append([]uint(nil), ap.ServiceIDs...)
	return ap
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap.ID = s.id(ap.ID)
	now := s.now()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	s.appointments[ap.ID] = copyAppointment(*ap)
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyAppointment(ap)
	return &out, nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}

	// reminder_sent só muda via MarkReminderSent
	ap.ReminderSent = stored.ReminderSent
	ap.ReminderSentAt = stored.ReminderSentAt
	ap.CreatedAt = stored.CreatedAt
	ap.UpdatedAt = s.now()
	s.appointments[ap.ID] = copyAppointment(*ap)
	return nil
}

func (s *Store) DeleteAppointment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.appointments, id)
	return nil
}

func (s *Store) filter(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if keep(ap) {
			out = append(out, copyAppointment(ap))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ListAppointmentsForBarberDay(_ context.Context, barberID uint, date string) ([]models.Appointment, error) {
	return s.filter(func(ap models.Appointment) bool {
		return ap.BarberID == barberID && ap.Date == date && domain.Status(ap.Status).Occupies()
	}), nil
}

func (s *Store) ListAppointmentsForBranch(_ context.Context, branchID uint, fromDate, toDate string) ([]models.Appointment, error) {
	return s.filter(func(ap models.Appointment) bool {
		return ap.BranchID == branchID && ap.Date >= fromDate && ap.Date <= toDate
	}), nil
}

func (s *Store) ListAppointmentsByStatusAndDate(_ context.Context, status domain.Status, date string) ([]models.Appointment, error) {
	return s.filter(func(ap models.Appointment) bool {
		return ap.Status == string(status) && ap.Date == date
	}), nil
}

func (s *Store) MarkReminderSent(_ context.Context, id uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if ap.ReminderSent {
		return false, nil
	}
	ap.ReminderSent = true
	ap.ReminderSentAt = &at
	s.appointments[id] = ap
	return true, nil
}

// ======================================================
// Directory
// ======================================================

func (s *Store) GetBranch(_ context.Context, id uint) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.branches[id]
	if !ok {
		return nil, domain.ErrBranchNotFound
	}
	return &b, nil
}

func (s *Store) GetBranchHours(_ context.Context, branchID uint, weekday time.Weekday) (*domain.OperatingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wh, ok := s.hours[hoursKey{branchID: branchID, weekday: int(weekday)}]
	if !ok || !wh.Active || wh.OpenTime == "" || wh.CloseTime == "" {
		return nil, nil
	}
	return &domain.OperatingHours{
		Open:       wh.OpenTime,
		Close:      wh.CloseTime,
		LunchStart: wh.LunchStart,
		LunchEnd:   wh.LunchEnd,
	}, nil
}

func (s *Store) GetActiveBarbers(_ context.Context, branchID uint) ([]models.Barber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Barber{}
	for _, b := range s.barbers {
		if b.BranchID == branchID && b.Active {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.barbers[id]
	if !ok {
		return nil, domain.ErrBarberNotFound
	}
	return &b, nil
}

func (s *Store) GetClient(_ context.Context, id uint) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	c.Rejections = append([]models.VoucherRejection(nil), s.rejections[id]...)
	return &c, nil
}

func (s *Store) GetServices(_ context.Context, ids []uint) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := s.services[id]
		if !ok {
			return nil, domain.ErrServiceNotFound
		}
		out = append(out, svc)
	}
	return out, nil
}

// ======================================================
// Seed
// ======================================================

func (s *Store) UpsertBranch(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id(b.ID)
	s.branches[b.ID] = *b
	return nil
}

func (s *Store) UpsertBranchHours(_ context.Context, h *models.BranchHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := hoursKey{branchID: h.BranchID, weekday: h.Weekday}
	if existing, ok := s.hours[key]; ok {
		h.ID = existing.ID
	}
	h.ID = s.id(h.ID)
	s.hours[key] = *h
	return nil
}

func (s *Store) UpsertBarber(_ context.Context, b *models.Barber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id(b.ID)
	s.barbers[b.ID] = *b
	return nil
}

func (s *Store) UpsertClient(_ context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id(c.ID)
	stored := *c
	stored.Rejections = nil
	if existing, ok := s.clients[c.ID]; ok {
		stored.FalseVouchersCount = existing.FalseVouchersCount
		stored.IsFlagged = existing.IsFlagged
		stored.Blacklisted = existing.Blacklisted
	}
	s.clients[c.ID] = stored
	return nil
}

func (s *Store) UpsertService(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = s.id(svc.ID)
	s.services[svc.ID] = *svc
	return nil
}

// ======================================================
// Risk
// ======================================================

func (s *Store) GetRecord(ctx context.Context, clientID uint) (*risk.Record, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	rec := risk.FromClient(c)
	return &rec, nil
}

func (s *Store) SaveRejection(_ context.Context, rec *risk.Record, rej risk.Rejection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[rec.ClientID]
	if !ok {
		return domain.ErrClientNotFound
	}
	if rec.FalseVouchersCount > c.FalseVouchersCount {
		c.FalseVouchersCount = rec.FalseVouchersCount
	}
	c.IsFlagged = c.IsFlagged || rec.IsFlagged
	c.Blacklisted = c.Blacklisted || rec.Blacklisted
	s.clients[c.ID] = c

	row := rej.Model(rec.ClientID)
	row.ID = s.id(0)
	row.CreatedAt = s.now()
	s.rejections[c.ID] = append(s.rejections[c.ID], row)
	return nil
}

// ======================================================
// Ledger
// ======================================================

func (s *Store) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transactions {
		if t.AppointmentID == tx.AppointmentID || t.Reference == tx.Reference {
			return ledger.ErrDuplicate
		}
	}
	tx.ID = s.id(0)
	tx.CreatedAt = s.now()
	s.transactions = append(s.transactions, *tx)
	return nil
}

func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction(nil), s.transactions...)
}

// ======================================================
// Audit + reminder logs
// ======================================================

func (s *Store) CreateAuditLog(_ context.Context, l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id(0)
	l.CreatedAt = s.now()
	s.auditLogs = append(s.auditLogs, *l)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.AuditLog{}
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if f.BranchID != 0 && l.BranchID != f.BranchID {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (s *Store) CreateReminderLog(_ context.Context, l *models.ReminderLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id(0)
	l.CreatedAt = s.now()
	s.reminderLogs = append(s.reminderLogs, *l)
	return nil
}

func (s *Store) ReminderLogs() []models.ReminderLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ReminderLog(nil), s.reminderLogs...)
}

var (
	_ domain.Repository = (*Store)(nil)
	_ domain.Directory  = (*Store)(nil)
	_ risk.Repository   = (*Store)(nil)
	_ ledger.Sink       = (*Store)(nil)
	_ audit.Store       = (*Store)(nil)
	_ reminder.LogStore = (*Store)(nil)
)
