package proposalinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
	"github.com/jmoiron/sqlx"
)

// PostgresProposalRepository implementación de PostgreSQL para
// proposal.Repository
type PostgresProposalRepository struct {
	db *sqlx.DB
}

// NewPostgresProposalRepository crea una nueva instancia del repositorio
func NewPostgresProposalRepository(db *sqlx.DB) proposal.Repository {
	return &PostgresProposalRepository{
		db: db,
	}
}

const proposalColumns = `
	id, candidate_id, requested_by, interviewer_id, proposed_slots,
	proposed_modes, duration_minutes, status, confirmed_slot,
	confirmed_mode, slot_negotiated, feedback, feedback_digest,
	cancel_reason, last_slot_at, version, created_at, updated_at`

// FindByID busca una propuesta por ID
func (r *PostgresProposalRepository) FindByID(ctx context.Context, id kernel.ProposalID) (*proposal.Proposal, error) {
	query := `SELECT` + proposalColumns + `
		FROM interview_proposals
		WHERE id = $1`

	var p proposal.Proposal
	err := r.db.GetContext(ctx, &p, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, proposal.ErrProposalNotFound().WithDetail("proposal_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find proposal by id", errx.TypeInternal).
			WithDetail("proposal_id", id.String())
	}

	return &p, nil
}

// ExistsActiveForCandidate verifica si el candidato tiene una propuesta activa
func (r *PostgresProposalRepository) ExistsActiveForCandidate(ctx context.Context, candidateID kernel.CandidateID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM interview_proposals
			WHERE candidate_id = $1 AND status IN ('REQUESTED', 'CONFIRMED')
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, candidateID.String())
	if err != nil {
		return false, errx.Wrap(err, "failed to check active proposal existence", errx.TypeInternal).
			WithDetail("candidate_id", candidateID.String())
	}

	return exists, nil
}

// Save inserta una propuesta nueva
func (r *PostgresProposalRepository) Save(ctx context.Context, p proposal.Proposal) error {
	query := `
		INSERT INTO interview_proposals (
			id, candidate_id, requested_by, interviewer_id, proposed_slots,
			proposed_modes, duration_minutes, status, confirmed_slot,
			confirmed_mode, slot_negotiated, feedback, feedback_digest,
			cancel_reason, last_slot_at, version, created_at, updated_at
		) VALUES (
			:id, :candidate_id, :requested_by, :interviewer_id, :proposed_slots,
			:proposed_modes, :duration_minutes, :status, :confirmed_slot,
			:confirmed_mode, :slot_negotiated, :feedback, :feedback_digest,
			:cancel_reason, :last_slot_at, :version, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return errx.Wrap(err, "failed to insert proposal", errx.TypeInternal).
			WithDetail("proposal_id", p.ID.String())
	}
	return nil
}

// Update persiste una transición con check optimista de versión
func (r *PostgresProposalRepository) Update(ctx context.Context, p proposal.Proposal) error {
	query := `
		UPDATE interview_proposals SET
			status = :status,
			confirmed_slot = :confirmed_slot,
			confirmed_mode = :confirmed_mode,
			slot_negotiated = :slot_negotiated,
			feedback = :feedback,
			feedback_digest = :feedback_digest,
			cancel_reason = :cancel_reason,
			version = :version,
			updated_at = :updated_at
		WHERE id = :id AND version = :expected_version`

	arg := struct {
		proposal.Proposal
		ExpectedVersion int `db:"expected_version"`
	}{Proposal: p, ExpectedVersion: p.Version - 1}

	result, err := r.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return errx.Wrap(err, "failed to update proposal", errx.TypeInternal).
			WithDetail("proposal_id", p.ID.String())
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rows == 0 {
		// Otro writer ganó la carrera: el caller debe refetchear
		return proposal.ErrInvalidState().
			WithDetail("proposal_id", p.ID.String()).
			WithDetail("reason", "proposal was modified concurrently")
	}

	return nil
}

// FindExpirable retorna propuestas Requested con todos sus horarios en el pasado
func (r *PostgresProposalRepository) FindExpirable(ctx context.Context, now time.Time) ([]*proposal.Proposal, error) {
	query := `SELECT` + proposalColumns + `
		FROM interview_proposals
		WHERE status = 'REQUESTED' AND last_slot_at < $1
		ORDER BY last_slot_at ASC`

	var proposals []proposal.Proposal
	if err := r.db.SelectContext(ctx, &proposals, query, now); err != nil {
		return nil, errx.Wrap(err, "failed to find expirable proposals", errx.TypeInternal)
	}

	result := make([]*proposal.Proposal, len(proposals))
	for i := range proposals {
		result[i] = &proposals[i]
	}
	return result, nil
}

// List retorna propuestas según filtro, más recientes primero
func (r *PostgresProposalRepository) List(ctx context.Context, filter proposal.ListFilter) ([]*proposal.Proposal, error) {
	query := `SELECT` + proposalColumns + `
		FROM interview_proposals
		WHERE ($1 = '' OR candidate_id = $1)
		  AND ($2 = '' OR interviewer_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC`

	var proposals []proposal.Proposal
	err := r.db.SelectContext(ctx, &proposals, query,
		filter.CandidateID.String(), filter.InterviewerID.String(), string(filter.Status))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list proposals", errx.TypeInternal)
	}

	result := make([]*proposal.Proposal, len(proposals))
	for i := range proposals {
		result[i] = &proposals[i]
	}
	return result, nil
}
