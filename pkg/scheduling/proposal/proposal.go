package proposal

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// ============================================================================
// InterviewMode
// ============================================================================

// ModeType define el medio de la entrevista
type ModeType string

const (
	ModeOnline  ModeType = "ONLINE"
	ModePhone   ModeType = "PHONE"
	ModeOffline ModeType = "OFFLINE"
)

// OnlinePlatform plataformas soportadas para entrevistas online
type OnlinePlatform string

const (
	PlatformZoom   OnlinePlatform = "zoom"
	PlatformTeams  OnlinePlatform = "teams"
	PlatformGoogle OnlinePlatform = "google"
)

// LocationKind tipo de ubicación para entrevistas presenciales
type LocationKind string

const (
	LocationHQ          LocationKind = "hq"
	LocationAlternative LocationKind = "alternative"
)

// Location es la ubicación de una entrevista presencial. Address es
// obligatoria solo para ubicaciones alternativas
type Location struct {
	Kind    LocationKind `json:"kind"`
	Address string       `json:"address,omitempty"`
}

// InterviewMode es la variante etiquetada de medio de entrevista:
// ONLINE requiere Platform, OFFLINE requiere Location, PHONE no lleva
// parámetros
type InterviewMode struct {
	Type     ModeType       `json:"type"`
	Platform OnlinePlatform `json:"platform,omitempty"`
	Location *Location      `json:"location,omitempty"`
}

// Validate verifica los campos requeridos por variante
func (m InterviewMode) Validate() error {
	switch m.Type {
	case ModeOnline:
		switch m.Platform {
		case PlatformZoom, PlatformTeams, PlatformGoogle:
		default:
			return ErrInvalidInput().WithDetail("reason", "online mode requires a supported platform").
				WithDetail("platform", string(m.Platform))
		}
		if m.Location != nil {
			return ErrInvalidInput().WithDetail("reason", "online mode does not take a location")
		}
	case ModePhone:
		if m.Platform != "" || m.Location != nil {
			return ErrInvalidInput().WithDetail("reason", "phone mode takes no parameters")
		}
	case ModeOffline:
		if m.Location == nil {
			return ErrInvalidInput().WithDetail("reason", "offline mode requires a location")
		}
		switch m.Location.Kind {
		case LocationHQ:
		case LocationAlternative:
			if m.Location.Address == "" {
				return ErrInvalidInput().WithDetail("reason", "alternative location requires an address")
			}
		default:
			return ErrInvalidInput().WithDetail("reason", "unknown location kind").
				WithDetail("kind", string(m.Location.Kind))
		}
		if m.Platform != "" {
			return ErrInvalidInput().WithDetail("reason", "offline mode does not take a platform")
		}
	default:
		return ErrInvalidInput().WithDetail("reason", "unknown interview mode").
			WithDetail("type", string(m.Type))
	}
	return nil
}

// Equal compara variantes incluyendo parámetros. Dos modos del mismo
// tipo con parámetros distintos no son duplicados
func (m InterviewMode) Equal(other InterviewMode) bool {
	if m.Type != other.Type || m.Platform != other.Platform {
		return false
	}
	if (m.Location == nil) != (other.Location == nil) {
		return false
	}
	if m.Location != nil && *m.Location != *other.Location {
		return false
	}
	return true
}

// ModeList se persiste como jsonb
type ModeList []InterviewMode

func (l ModeList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *ModeList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ModeList", src)
	}
}

// Contains verifica pertenencia por Equal
func (l ModeList) Contains(m InterviewMode) bool {
	for _, candidate := range l {
		if candidate.Equal(m) {
			return true
		}
	}
	return false
}

// SlotList es la secuencia ordenada de horarios propuestos; el orden
// de inserción es el orden de prioridad. Se persiste como jsonb
type SlotList []time.Time

func (l SlotList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *SlotList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into SlotList", src)
	}
}

// Contains verifica pertenencia por instante exacto
func (l SlotList) Contains(t time.Time) bool {
	for _, s := range l {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// Latest retorna el horario propuesto más tardío
func (l SlotList) Latest() time.Time {
	var latest time.Time
	for _, s := range l {
		if s.After(latest) {
			latest = s
		}
	}
	return latest
}

// ============================================================================
// InterviewProposal Entity
// ============================================================================

// Status define los posibles estados de una propuesta
type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// Proposal es la entidad que representa una propuesta de entrevista.
// Las transiciones son monotónicas (Requested → Confirmed → Completed,
// con Cancelled/Expired alcanzables solo desde estados activos) y la
// entidad se retiene indefinidamente como registro histórico: la
// cancelación es un estado, no un delete
type Proposal struct {
	ID              kernel.ProposalID    `db:"id" json:"id"`
	CandidateID     kernel.CandidateID   `db:"candidate_id" json:"candidate_id"`
	RequestedBy     kernel.RecruiterID   `db:"requested_by" json:"requested_by"`
	InterviewerID   kernel.InterviewerID `db:"interviewer_id" json:"interviewer_id"`
	ProposedSlots   SlotList             `db:"proposed_slots" json:"proposed_slots"`
	ProposedModes   ModeList             `db:"proposed_modes" json:"proposed_modes"`
	DurationMinutes int                  `db:"duration_minutes" json:"duration_minutes"`
	Status          Status               `db:"status" json:"status"`
	ConfirmedSlot   *time.Time           `db:"confirmed_slot" json:"confirmed_slot,omitempty"`
	ConfirmedMode   *ConfirmedMode       `db:"confirmed_mode" json:"confirmed_mode,omitempty"`
	SlotNegotiated  bool                 `db:"slot_negotiated" json:"slot_negotiated"`
	Feedback        *string              `db:"feedback" json:"feedback,omitempty"`
	FeedbackDigest  *string              `db:"feedback_digest" json:"feedback_digest,omitempty"`
	CancelReason    *string              `db:"cancel_reason" json:"cancel_reason,omitempty"`
	LastSlotAt      time.Time            `db:"last_slot_at" json:"-"`
	Version         int                  `db:"version" json:"version"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at" json:"updated_at"`
}

// ConfirmedMode es un InterviewMode nullable persistido como jsonb
type ConfirmedMode struct {
	InterviewMode
}

func (m ConfirmedMode) Value() (driver.Value, error) {
	return json.Marshal(m.InterviewMode)
}

func (m *ConfirmedMode) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, &m.InterviewMode)
	case string:
		return json.Unmarshal([]byte(v), &m.InterviewMode)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ConfirmedMode", src)
	}
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsActive verifica si la propuesta está en un estado no terminal
func (p *Proposal) IsActive() bool {
	return p.Status == StatusRequested || p.Status == StatusConfirmed
}

// IsTerminal verifica si la propuesta alcanzó un estado terminal
func (p *Proposal) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusCancelled || p.Status == StatusExpired
}

// AllSlotsPast verifica si todos los horarios propuestos ya pasaron
func (p *Proposal) AllSlotsPast(now time.Time) bool {
	return now.After(p.ProposedSlots.Latest())
}

// Confirm transiciona Requested → Confirmed con el horario y modo
// elegidos. El horario debe pertenecer a los propuestos, salvo que la
// elección venga negociada fuera de banda; el modo siempre debe
// pertenecer a los propuestos
func (p *Proposal) Confirm(slot time.Time, mode InterviewMode, negotiated bool, now time.Time) error {
	if p.Status != StatusRequested {
		return ErrInvalidState().WithDetail("current_status", string(p.Status))
	}

	if !p.ProposedSlots.Contains(slot) {
		if !negotiated {
			return ErrInvalidChoice().WithDetail("slot", slot).
				WithDetail("reason", "slot was not among the proposed slots")
		}
		if !slot.After(now) {
			return ErrInvalidChoice().WithDetail("slot", slot).
				WithDetail("reason", "negotiated slot must be in the future")
		}
	}
	if !p.ProposedModes.Contains(mode) {
		return ErrInvalidChoice().WithDetail("mode", mode.Type).
			WithDetail("reason", "mode was not among the proposed modes")
	}

	p.Status = StatusConfirmed
	p.ConfirmedSlot = &slot
	p.ConfirmedMode = &ConfirmedMode{InterviewMode: mode}
	p.SlotNegotiated = negotiated && !p.ProposedSlots.Contains(slot)
	p.Version++
	p.UpdatedAt = now
	return nil
}

// Complete transiciona Confirmed → Completed y guarda el feedback
func (p *Proposal) Complete(feedback string, now time.Time) error {
	if p.Status != StatusConfirmed {
		return ErrInvalidState().WithDetail("current_status", string(p.Status))
	}

	p.Status = StatusCompleted
	if feedback != "" {
		p.Feedback = &feedback
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

// Cancel transiciona Requested|Confirmed → Cancelled
func (p *Proposal) Cancel(reason string, now time.Time) error {
	if !p.IsActive() {
		return ErrInvalidState().WithDetail("current_status", string(p.Status))
	}

	p.Status = StatusCancelled
	if reason != "" {
		p.CancelReason = &reason
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

// AttachFeedbackDigest guarda el resumen generado del feedback. Solo
// aplica sobre propuestas completadas
func (p *Proposal) AttachFeedbackDigest(digest string, now time.Time) error {
	if p.Status != StatusCompleted {
		return ErrInvalidState().WithDetail("current_status", string(p.Status))
	}

	p.FeedbackDigest = &digest
	p.Version++
	p.UpdatedAt = now
	return nil
}

// MarkAsExpired transiciona Requested → Expired cuando todos los
// horarios propuestos ya pasaron sin confirmación
func (p *Proposal) MarkAsExpired(now time.Time) error {
	if p.Status != StatusRequested {
		return ErrInvalidState().WithDetail("current_status", string(p.Status))
	}
	if !p.AllSlotsPast(now) {
		return ErrInvalidState().WithDetail("reason", "proposal still has future slots")
	}

	p.Status = StatusExpired
	p.Version++
	p.UpdatedAt = now
	return nil
}

// ============================================================================
// Service DTOs
// ============================================================================

// CreateProposalRequest petición para crear una propuesta
type CreateProposalRequest struct {
	CandidateID     string          `json:"candidate_id"`
	InterviewerID   string          `json:"interviewer_id"`
	RequestedBy     string          `json:"requested_by"`
	Slots           []time.Time     `json:"slots"`
	Modes           []InterviewMode `json:"modes"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
}

// ConfirmRequest petición para confirmar horario y modo
type ConfirmRequest struct {
	Slot       time.Time     `json:"slot"`
	Mode       InterviewMode `json:"mode"`
	Negotiated bool          `json:"negotiated,omitempty"`
}

// CompleteRequest petición para completar con feedback
type CompleteRequest struct {
	Feedback string `json:"feedback"`
}

// CancelRequest petición para cancelar
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ListFilter filtros para el listado de propuestas
type ListFilter struct {
	CandidateID   kernel.CandidateID
	InterviewerID kernel.InterviewerID
	Status        Status
}

// ProposalListResponse listado de propuestas
type ProposalListResponse struct {
	Proposals []Proposal `json:"proposals"`
	Total     int        `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROPOSAL")

var (
	CodeInvalidInput   = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Petición de scheduling inválida")
	CodeInvalidState   = ErrRegistry.Register("INVALID_STATE", errx.TypeBusiness, http.StatusConflict, "La propuesta ya fue resuelta")
	CodeInvalidChoice  = ErrRegistry.Register("INVALID_CHOICE", errx.TypeValidation, http.StatusUnprocessableEntity, "El horario o modo elegido no fue ofrecido")
	CodeActiveProposal = ErrRegistry.Register("ACTIVE_PROPOSAL_EXISTS", errx.TypeConflict, http.StatusConflict, "El candidato ya tiene una propuesta activa")
	CodeNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Propuesta no encontrada")
)

func ErrInvalidInput() *errx.Error {
	return ErrRegistry.New(CodeInvalidInput)
}

func ErrInvalidState() *errx.Error {
	return ErrRegistry.New(CodeInvalidState)
}

func ErrInvalidChoice() *errx.Error {
	return ErrRegistry.New(CodeInvalidChoice)
}

func ErrActiveProposalExists() *errx.Error {
	return ErrRegistry.New(CodeActiveProposal)
}

func ErrProposalNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}
