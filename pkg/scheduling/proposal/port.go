package proposal

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// Repository define el contrato para la persistencia de propuestas.
// El layout es append-friendly: los cambios de estado se registran
// sobre la misma fila versionada, nunca hay hard delete
type Repository interface {
	FindByID(ctx context.Context, id kernel.ProposalID) (*Proposal, error)

	// ExistsActiveForCandidate verifica si el candidato ya tiene una
	// propuesta en estado Requested o Confirmed
	ExistsActiveForCandidate(ctx context.Context, candidateID kernel.CandidateID) (bool, error)

	// Save inserta una propuesta nueva
	Save(ctx context.Context, p Proposal) error

	// Update persiste una transición con check optimista de versión:
	// la fila debe seguir en p.Version-1. Si otro writer ganó, retorna
	// CodeInvalidState para que el caller refetchee y decida
	Update(ctx context.Context, p Proposal) error

	// FindExpirable retorna propuestas Requested cuyos horarios ya
	// pasaron todos antes de now; las consume el sweep de expiración
	FindExpirable(ctx context.Context, now time.Time) ([]*Proposal, error)

	// List retorna propuestas según filtro, más recientes primero
	List(ctx context.Context, filter ListFilter) ([]*Proposal, error)
}
