package availabilityinfra

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore implementación de PostgreSQL para availability.Store
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore crea una nueva instancia del store de disponibilidad
func NewPostgresStore(db *sqlx.DB) availability.Store {
	return &PostgresStore{
		db: db,
	}
}

// Reserve inserta el intervalo si no hay solapamiento para el owner.
// El check y el insert corren en una transacción serializada por un
// advisory lock sobre el owner: dos reservas concurrentes para la misma
// agenda no pueden pasar el check de solape a la vez, aunque ninguna de
// las dos vea todavía filas de la otra
func (s *PostgresStore) Reserve(ctx context.Context, slot availability.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin reserve transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	// El lock se libera solo al terminar la transacción
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, slot.OwnerID.String()); err != nil {
		return errx.Wrap(err, "failed to lock owner agenda", errx.TypeInternal).
			WithDetail("owner_id", slot.OwnerID.String())
	}

	overlapQuery := `
		SELECT COUNT(*)
		FROM availability_slots
		WHERE owner_id = $1
		  AND start_at < $2
		  AND start_at + make_interval(mins => duration_minutes) > $3`

	end := slot.End()
	var overlapping int
	if err := tx.GetContext(ctx, &overlapping, overlapQuery, slot.OwnerID.String(), end, slot.Start); err != nil {
		return errx.Wrap(err, "failed to check interval overlap", errx.TypeInternal).
			WithDetail("owner_id", slot.OwnerID.String())
	}
	if overlapping > 0 {
		return availability.ErrConflict().
			WithDetail("owner_id", slot.OwnerID.String()).
			WithDetail("start", slot.Start)
	}

	insertQuery := `
		INSERT INTO availability_slots (owner_id, start_at, duration_minutes, source_type, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	if _, err := tx.ExecContext(ctx, insertQuery,
		slot.OwnerID.String(), slot.Start, slot.DurationMinutes, string(slot.SourceType)); err != nil {
		// La constraint de exclusión respalda el invariante a nivel de DB
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
			return availability.ErrConflict().
				WithDetail("owner_id", slot.OwnerID.String()).
				WithDetail("start", slot.Start)
		}
		return errx.Wrap(err, "failed to insert availability slot", errx.TypeInternal).
			WithDetail("owner_id", slot.OwnerID.String())
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit reserve transaction", errx.TypeInternal)
	}
	return nil
}

// Release elimina el intervalo. Cero filas afectadas no es un error:
// la operación es idempotente para tolerar retries de cancel
func (s *PostgresStore) Release(ctx context.Context, ownerID kernel.InterviewerID, start time.Time, durationMinutes int) error {
	query := `
		DELETE FROM availability_slots
		WHERE owner_id = $1 AND start_at = $2 AND duration_minutes = $3`

	if _, err := s.db.ExecContext(ctx, query, ownerID.String(), start, durationMinutes); err != nil {
		return errx.Wrap(err, "failed to release availability slot", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}
	return nil
}

// ListForRange retorna los intervalos del owner que intersectan [from, to)
func (s *PostgresStore) ListForRange(ctx context.Context, ownerID kernel.InterviewerID, from, to time.Time) ([]availability.Slot, error) {
	if !from.Before(to) {
		return nil, availability.ErrInvalidRange().
			WithDetail("from", from).
			WithDetail("to", to)
	}

	query := `
		SELECT owner_id, start_at, duration_minutes, source_type, created_at
		FROM availability_slots
		WHERE owner_id = $1
		  AND start_at < $2
		  AND start_at + make_interval(mins => duration_minutes) > $3
		ORDER BY start_at ASC`

	var slots []availability.Slot
	if err := s.db.SelectContext(ctx, &slots, query, ownerID.String(), to, from); err != nil {
		return nil, errx.Wrap(err, "failed to list availability slots", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}
	return slots, nil
}
