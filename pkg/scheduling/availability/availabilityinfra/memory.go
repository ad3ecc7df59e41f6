package availabilityinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability"
)

// MemoryStore implementación en memoria del Store, para tests y desarrollo
type MemoryStore struct {
	mu    sync.Mutex
	slots map[kernel.InterviewerID][]availability.Slot
}

// NewMemoryStore crea un store en memoria vacío
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[kernel.InterviewerID][]availability.Slot),
	}
}

func (m *MemoryStore) Reserve(ctx context.Context, slot availability.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.slots[slot.OwnerID] {
		if existing.Overlaps(slot) {
			return availability.ErrConflict().
				WithDetail("owner_id", slot.OwnerID.String()).
				WithDetail("start", slot.Start).
				WithDetail("conflicts_with", existing.Start)
		}
	}

	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now()
	}
	m.slots[slot.OwnerID] = append(m.slots[slot.OwnerID], slot)
	return nil
}

func (m *MemoryStore) Release(ctx context.Context, ownerID kernel.InterviewerID, start time.Time, durationMinutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.slots[ownerID]
	for i, s := range slots {
		if s.Start.Equal(start) && s.DurationMinutes == durationMinutes {
			m.slots[ownerID] = append(slots[:i], slots[i+1:]...)
			return nil
		}
	}
	// No encontrado: no-op por idempotencia
	return nil
}

func (m *MemoryStore) ListForRange(ctx context.Context, ownerID kernel.InterviewerID, from, to time.Time) ([]availability.Slot, error) {
	if !from.Before(to) {
		return nil, availability.ErrInvalidRange().
			WithDetail("from", from).
			WithDetail("to", to)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []availability.Slot
	for _, s := range m.slots[ownerID] {
		if s.Start.Before(to) && from.Before(s.End()) {
			result = append(result, s)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

var _ availability.Store = (*MemoryStore)(nil)
