package candidateinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
)

// MemoryCandidateRepository registro en memoria; para tests y para
// correr sin base de datos en desarrollo
type MemoryCandidateRepository struct {
	mu         sync.RWMutex
	candidates map[kernel.CandidateID]*candidate.Candidate
}

// NewMemoryCandidateRepository crea un registro en memoria vacío
func NewMemoryCandidateRepository() *MemoryCandidateRepository {
	return &MemoryCandidateRepository{
		candidates: make(map[kernel.CandidateID]*candidate.Candidate),
	}
}

// Seed carga candidatos en el registro
func (r *MemoryCandidateRepository) Seed(candidates ...*candidate.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range candidates {
		r.candidates[c.ID] = c
	}
}

func (r *MemoryCandidateRepository) GetCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.candidates[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	copied := *c
	return &copied, nil
}

func (r *MemoryCandidateRepository) ListCandidates(ctx context.Context) ([]*candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*candidate.Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		copied := *c
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].MatchScore != result[j].MatchScore {
			return result[i].MatchScore > result[j].MatchScore
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

var _ candidate.Repository = (*MemoryCandidateRepository)(nil)
