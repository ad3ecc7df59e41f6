package proposalinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
)

// MemoryProposalRepository implementación en memoria del Repository,
// para tests y desarrollo. Respeta el mismo check optimista de versión
// que la implementación de Postgres
type MemoryProposalRepository struct {
	mu        sync.Mutex
	proposals map[kernel.ProposalID]proposal.Proposal
}

// NewMemoryProposalRepository crea un repositorio en memoria vacío
func NewMemoryProposalRepository() *MemoryProposalRepository {
	return &MemoryProposalRepository{
		proposals: make(map[kernel.ProposalID]proposal.Proposal),
	}
}

func (r *MemoryProposalRepository) FindByID(ctx context.Context, id kernel.ProposalID) (*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.proposals[id]
	if !ok {
		return nil, proposal.ErrProposalNotFound().WithDetail("proposal_id", id.String())
	}
	return &p, nil
}

func (r *MemoryProposalRepository) ExistsActiveForCandidate(ctx context.Context, candidateID kernel.CandidateID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.proposals {
		if p.CandidateID == candidateID && p.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryProposalRepository) Save(ctx context.Context, p proposal.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.proposals[p.ID] = p
	return nil
}

func (r *MemoryProposalRepository) Update(ctx context.Context, p proposal.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.proposals[p.ID]
	if !ok {
		return proposal.ErrProposalNotFound().WithDetail("proposal_id", p.ID.String())
	}
	if current.Version != p.Version-1 {
		return proposal.ErrInvalidState().
			WithDetail("proposal_id", p.ID.String()).
			WithDetail("reason", "proposal was modified concurrently")
	}

	r.proposals[p.ID] = p
	return nil
}

func (r *MemoryProposalRepository) FindExpirable(ctx context.Context, now time.Time) ([]*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*proposal.Proposal
	for _, p := range r.proposals {
		if p.Status == proposal.StatusRequested && p.AllSlotsPast(now) {
			copied := p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastSlotAt.Before(result[j].LastSlotAt)
	})
	return result, nil
}

func (r *MemoryProposalRepository) List(ctx context.Context, filter proposal.ListFilter) ([]*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*proposal.Proposal
	for _, p := range r.proposals {
		if !filter.CandidateID.IsEmpty() && p.CandidateID != filter.CandidateID {
			continue
		}
		if !filter.InterviewerID.IsEmpty() && p.InterviewerID != filter.InterviewerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		copied := p
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

var _ proposal.Repository = (*MemoryProposalRepository)(nil)
