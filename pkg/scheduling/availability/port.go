package availability

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// Store define el contrato para la agenda de reservas por owner.
// Es el único recurso mutable compartido del sistema: toda escritura
// pasa por Reserve/Release, nunca por mutación directa
type Store interface {
	// Reserve reserva el intervalo sii no se solapa con ninguna reserva
	// existente del mismo owner. Falla con CodeConflict si se solapa
	Reserve(ctx context.Context, slot Slot) error

	// Release libera un intervalo previamente reservado. Es idempotente:
	// liberar un intervalo inexistente no es un error, para que los
	// retries de cancel sean seguros
	Release(ctx context.Context, ownerID kernel.InterviewerID, start time.Time, durationMinutes int) error

	// ListForRange retorna los intervalos del owner que intersectan
	// [from, to), ordenados por inicio
	ListForRange(ctx context.Context, ownerID kernel.InterviewerID, from, to time.Time) ([]Slot, error)
}
