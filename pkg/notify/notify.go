package notify

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// TransitionEvent es el evento emitido por cada transición de estado
// de una propuesta. Contrato best-effort: el engine no bloquea ni
// reintenta si el dispatch falla
type TransitionEvent struct {
	ProposalID kernel.ProposalID `json:"proposal_id"`
	FromStatus string            `json:"from_status"`
	ToStatus   string            `json:"to_status"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Dispatcher define el contrato de publicación de eventos de transición
type Dispatcher interface {
	Dispatch(ctx context.Context, event TransitionEvent) error
}
