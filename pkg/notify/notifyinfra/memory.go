package notifyinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/hireflow/pkg/notify"
)

// MemoryDispatcher acumula eventos en memoria; para tests y desarrollo
// sin Redis
type MemoryDispatcher struct {
	mu     sync.Mutex
	events []notify.TransitionEvent
}

// NewMemoryDispatcher crea un dispatcher en memoria vacío
func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{}
}

func (d *MemoryDispatcher) Dispatch(ctx context.Context, event notify.TransitionEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

// Events retorna una copia de los eventos despachados hasta ahora
func (d *MemoryDispatcher) Events() []notify.TransitionEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]notify.TransitionEvent, len(d.events))
	copy(out, d.events)
	return out
}

var _ notify.Dispatcher = (*MemoryDispatcher)(nil)
