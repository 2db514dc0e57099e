package lock

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
)

func key(barberID uint, date string) string {
	return fmt.Sprintf("slot-lock:%d:%s", barberID, date)
}

type slot struct {
	ch   chan struct{}
	refs int // dono + quem espera
}

// MemoryLocker serializes bookings inside one process. A key is dropped
// once nobody holds or waits for it.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: map[string]*slot{}}
}

func (l *MemoryLocker) acquire(k string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[k]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[k] = s
	}
	s.refs++
	return s
}

func (l *MemoryLocker) release(k string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, k)
	}
}

func (l *MemoryLocker) Lock(ctx context.Context, barberID uint, date string) (func(), error) {
	k := key(barberID, date)
	s := l.acquire(k)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(k, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(k, s)
		})
	}, nil
}

// size reports how many keys are tracked.
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

var _ domain.SlotLocker = (*MemoryLocker)(nil)
