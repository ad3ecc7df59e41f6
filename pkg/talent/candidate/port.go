package candidate

import (
	"context"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// Registry es la interface de solo lectura que el scheduling engine
// consume. Las fallas de lookup se propagan como CodeCandidateNotFound
type Registry interface {
	GetCandidate(ctx context.Context, id kernel.CandidateID) (*Candidate, error)
}

// Repository define el contrato de persistencia del registro de candidatos
type Repository interface {
	Registry
	ListCandidates(ctx context.Context) ([]*Candidate, error)
}
