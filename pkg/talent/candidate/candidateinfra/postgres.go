package candidateinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
	"github.com/jmoiron/sqlx"
)

// PostgresCandidateRepository implementación de PostgreSQL para el
// registro de candidatos
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

// NewPostgresCandidateRepository crea una nueva instancia del repositorio
func NewPostgresCandidateRepository(db *sqlx.DB) candidate.Repository {
	return &PostgresCandidateRepository{
		db: db,
	}
}

// GetCandidate busca un candidato por ID
func (r *PostgresCandidateRepository) GetCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	query := `
		SELECT
			id, name, match_score, skills, professional_skills, languages,
			availability_summary, work_type, employment_type, photo_key,
			created_at, updated_at
		FROM candidates
		WHERE id = $1`

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find candidate by id", errx.TypeInternal).
			WithDetail("candidate_id", id.String())
	}

	return &c, nil
}

// ListCandidates retorna todos los candidatos del registro
func (r *PostgresCandidateRepository) ListCandidates(ctx context.Context) ([]*candidate.Candidate, error) {
	query := `
		SELECT
			id, name, match_score, skills, professional_skills, languages,
			availability_summary, work_type, employment_type, photo_key,
			created_at, updated_at
		FROM candidates
		ORDER BY match_score DESC, name ASC`

	var candidates []candidate.Candidate
	err := r.db.SelectContext(ctx, &candidates, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list candidates", errx.TypeInternal)
	}

	result := make([]*candidate.Candidate, len(candidates))
	for i := range candidates {
		result[i] = &candidates[i]
	}
	return result, nil
}
