package availability

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// ============================================================================
// AvailabilitySlot Entity
// ============================================================================

// SourceType indica el origen de una reserva en la agenda
type SourceType string

const (
	SourceInterview           SourceType = "INTERVIEW"
	SourceBusinessAppointment SourceType = "BUSINESS_APPOINTMENT"
)

// Slot es un intervalo reservado en la agenda de un owner (entrevistador
// o recurso). El intervalo es half-open: [Start, Start+Duration)
type Slot struct {
	OwnerID         kernel.InterviewerID `db:"owner_id" json:"owner_id"`
	Start           time.Time            `db:"start_at" json:"start"`
	DurationMinutes int                  `db:"duration_minutes" json:"duration_minutes"`
	SourceType      SourceType           `db:"source_type" json:"source_type"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
}

// End retorna el fin exclusivo del intervalo
func (s Slot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Overlaps verifica solapamiento entre intervalos half-open:
// [s1,e1) y [s2,e2) se solapan sii s1 < e2 && s2 < e1.
// Intervalos que solo se tocan en el borde no se solapan
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End()) && other.Start.Before(s.End())
}

// Validate verifica que el slot esté bien formado
func (s Slot) Validate() error {
	if s.OwnerID.IsEmpty() {
		return ErrInvalidInterval().WithDetail("reason", "owner_id is required")
	}
	if s.Start.IsZero() {
		return ErrInvalidInterval().WithDetail("reason", "start is required")
	}
	if s.DurationMinutes <= 0 {
		return ErrInvalidInterval().WithDetail("reason", "duration must be positive").
			WithDetail("duration_minutes", s.DurationMinutes)
	}
	switch s.SourceType {
	case SourceInterview, SourceBusinessAppointment:
	default:
		return ErrInvalidInterval().WithDetail("reason", "unknown source type").
			WithDetail("source_type", string(s.SourceType))
	}
	return nil
}

// ============================================================================
// DTOs
// ============================================================================

// SlotDTO es la representación del slot para la vista de calendario
type SlotDTO struct {
	OwnerID    string     `json:"owner_id"`
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	SourceType SourceType `json:"source_type"`
}

// ToDTO convierte el Slot a SlotDTO
func (s Slot) ToDTO() SlotDTO {
	return SlotDTO{
		OwnerID:    s.OwnerID.String(),
		Start:      s.Start,
		End:        s.End(),
		SourceType: s.SourceType,
	}
}

// ReserveAppointmentRequest reserva directa de una cita de negocio
// (bloquea agenda sin pasar por una propuesta de entrevista)
type ReserveAppointmentRequest struct {
	OwnerID         string    `json:"owner_id"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ReleaseAppointmentRequest libera una cita de negocio
type ReleaseAppointmentRequest struct {
	OwnerID         string    `json:"owner_id"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AVAILABILITY")

var (
	CodeConflict        = ErrRegistry.Register("CONFLICT", errx.TypeConflict, http.StatusConflict, "El intervalo se solapa con una reserva existente")
	CodeInvalidInterval = ErrRegistry.Register("INVALID_INTERVAL", errx.TypeValidation, http.StatusBadRequest, "Intervalo inválido")
	CodeInvalidRange    = ErrRegistry.Register("INVALID_RANGE", errx.TypeValidation, http.StatusBadRequest, "Rango de consulta inválido")
)

func ErrConflict() *errx.Error {
	return ErrRegistry.New(CodeConflict)
}

func ErrInvalidInterval() *errx.Error {
	return ErrRegistry.New(CodeInvalidInterval)
}

func ErrInvalidRange() *errx.Error {
	return ErrRegistry.New(CodeInvalidRange)
}
