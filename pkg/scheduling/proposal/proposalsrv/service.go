package proposalsrv

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/notify"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
	"github.com/google/uuid"
)

// InsightGenerator produce un resumen corto del feedback de una
// entrevista completada. Best-effort: las fallas se loguean y se
// descartan, igual que las notificaciones
type InsightGenerator interface {
	FeedbackDigest(ctx context.Context, p *proposal.Proposal, c *candidate.Candidate) (string, error)
}

// Options parámetros de negocio del engine
type Options struct {
	MaxProposedSlots       int
	MaxProposedModes       int
	DefaultDurationMinutes int
}

// DefaultOptions retorna los límites por defecto: hasta 3 horarios y
// 3 modos por propuesta, entrevistas de 60 minutos
func DefaultOptions() Options {
	return Options{
		MaxProposedSlots:       3,
		MaxProposedModes:       3,
		DefaultDurationMinutes: 60,
	}
}

// SchedulingService es el dueño del ciclo de vida de las propuestas:
// crea, transiciona y aplica la máquina de estados. Toda mutación de
// agenda pasa por el availability.Store; cada operación mutante es
// atómica respecto a propuesta + reserva
type SchedulingService struct {
	proposals    proposal.Repository
	agenda       availability.Store
	candidates   candidate.Registry
	dispatcher   notify.Dispatcher
	insights     InsightGenerator
	opts         Options
	now          func() time.Time
	locks        *keyedMutex
	digestActive sync.WaitGroup
}

// NewSchedulingService crea una nueva instancia del engine. insights
// puede ser nil si el resumen de feedback está deshabilitado
func NewSchedulingService(
	proposals proposal.Repository,
	agenda availability.Store,
	candidates candidate.Registry,
	dispatcher notify.Dispatcher,
	insights InsightGenerator,
	opts Options,
) *SchedulingService {
	if opts.MaxProposedSlots <= 0 {
		opts = DefaultOptions()
	}
	return &SchedulingService{
		proposals:  proposals,
		agenda:     agenda,
		candidates: candidates,
		dispatcher: dispatcher,
		insights:   insights,
		opts:       opts,
		now:        time.Now,
		locks:      newKeyedMutex(),
	}
}

// ============================================================================
// Operations
// ============================================================================

// CreateProposal crea una propuesta en estado Requested. Falla con
// InvalidInput si los horarios o modos están mal formados, y con
// ActiveProposalExists si el candidato ya tiene una propuesta activa
func (s *SchedulingService) CreateProposal(ctx context.Context, req proposal.CreateProposalRequest) (*proposal.Proposal, error) {
	now := s.now()

	candidateID := kernel.NewCandidateID(req.CandidateID)
	interviewerID := kernel.NewInterviewerID(req.InterviewerID)
	if candidateID.IsEmpty() || interviewerID.IsEmpty() {
		return nil, proposal.ErrInvalidInput().WithDetail("reason", "candidate_id and interviewer_id are required")
	}

	if err := s.validateSlots(req.Slots, now); err != nil {
		return nil, err
	}
	if err := s.validateModes(req.Modes); err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = s.opts.DefaultDurationMinutes
	}

	// El registro de candidatos es colaborador de solo lectura; un
	// candidato desconocido corta la operación con NotFound
	if _, err := s.candidates.GetCandidate(ctx, candidateID); err != nil {
		return nil, err
	}

	// Serialización por candidato: el check de propuesta activa y el
	// insert corren bajo el mismo lock
	unlock := s.locks.lock("candidate:" + candidateID.String())
	defer unlock()

	active, err := s.proposals.ExistsActiveForCandidate(ctx, candidateID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check active proposals", errx.TypeInternal)
	}
	if active {
		return nil, proposal.ErrActiveProposalExists().WithDetail("candidate_id", candidateID.String())
	}

	slots := proposal.SlotList(req.Slots)
	newProposal := proposal.Proposal{
		ID:              kernel.NewProposalID(uuid.NewString()),
		CandidateID:     candidateID,
		RequestedBy:     kernel.NewRecruiterID(req.RequestedBy),
		InterviewerID:   interviewerID,
		ProposedSlots:   slots,
		ProposedModes:   proposal.ModeList(req.Modes),
		DurationMinutes: duration,
		Status:          proposal.StatusRequested,
		LastSlotAt:      slots.Latest(),
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.proposals.Save(ctx, newProposal); err != nil {
		return nil, errx.Wrap(err, "failed to save proposal", errx.TypeInternal)
	}

	s.dispatch(ctx, newProposal.ID, "", proposal.StatusRequested)
	return &newProposal, nil
}

// Confirm transiciona la propuesta a Confirmed y reserva la agenda del
// entrevistador. Reserva y transición son una unidad: si la escritura
// versionada pierde la carrera, la reserva se libera
func (s *SchedulingService) Confirm(ctx context.Context, id kernel.ProposalID, req proposal.ConfirmRequest) (*proposal.Proposal, error) {
	unlock := s.locks.lock("proposal:" + id.String())
	defer unlock()

	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fromStatus := p.Status
	if err := p.Confirm(req.Slot, req.Mode, req.Negotiated, now); err != nil {
		return nil, err
	}

	slot := availability.Slot{
		OwnerID:         p.InterviewerID,
		Start:           req.Slot,
		DurationMinutes: p.DurationMinutes,
		SourceType:      availability.SourceInterview,
	}
	if err := s.agenda.Reserve(ctx, slot); err != nil {
		return nil, err
	}

	if err := s.proposals.Update(ctx, *p); err != nil {
		// La propuesta cambió bajo nuestros pies: deshacer la reserva
		if relErr := s.agenda.Release(ctx, slot.OwnerID, slot.Start, slot.DurationMinutes); relErr != nil {
			logx.WithFields(logx.Fields{"proposal_id": id.String()}).
				Errorf("Failed to roll back reservation: %v", relErr)
		}
		return nil, err
	}

	s.dispatch(ctx, p.ID, fromStatus, p.Status)
	return p, nil
}

// Complete transiciona Confirmed → Completed y guarda el feedback. La
// reserva de agenda se conserva como registro histórico
func (s *SchedulingService) Complete(ctx context.Context, id kernel.ProposalID, req proposal.CompleteRequest) (*proposal.Proposal, error) {
	unlock := s.locks.lock("proposal:" + id.String())
	defer unlock()

	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fromStatus := p.Status
	if err := p.Complete(req.Feedback, s.now()); err != nil {
		return nil, err
	}

	if err := s.proposals.Update(ctx, *p); err != nil {
		return nil, err
	}

	s.dispatch(ctx, p.ID, fromStatus, p.Status)

	if s.insights != nil && p.Feedback != nil {
		s.digestActive.Add(1)
		go s.generateDigest(p.ID)
	}

	return p, nil
}

// Cancel transiciona Requested|Confirmed → Cancelled y libera la
// reserva si existía. Release es idempotente, así que el retry de un
// cancel es seguro
func (s *SchedulingService) Cancel(ctx context.Context, id kernel.ProposalID, req proposal.CancelRequest) (*proposal.Proposal, error) {
	unlock := s.locks.lock("proposal:" + id.String())
	defer unlock()

	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fromStatus := p.Status
	confirmedSlot := p.ConfirmedSlot
	if err := p.Cancel(req.Reason, s.now()); err != nil {
		return nil, err
	}

	if err := s.proposals.Update(ctx, *p); err != nil {
		return nil, err
	}

	if confirmedSlot != nil {
		if err := s.agenda.Release(ctx, p.InterviewerID, *confirmedSlot, p.DurationMinutes); err != nil {
			logx.WithFields(logx.Fields{"proposal_id": id.String()}).
				Errorf("Failed to release reservation on cancel: %v", err)
		}
	}

	s.dispatch(ctx, p.ID, fromStatus, p.Status)
	return p, nil
}

// Expire transiciona Requested → Expired. No libera nada: una
// propuesta sin confirmar nunca tuvo reserva
func (s *SchedulingService) Expire(ctx context.Context, id kernel.ProposalID) (*proposal.Proposal, error) {
	unlock := s.locks.lock("proposal:" + id.String())
	defer unlock()

	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fromStatus := p.Status
	if err := p.MarkAsExpired(s.now()); err != nil {
		return nil, err
	}

	if err := s.proposals.Update(ctx, *p); err != nil {
		return nil, err
	}

	s.dispatch(ctx, p.ID, fromStatus, p.Status)
	return p, nil
}

// ExpireDue expira todas las propuestas Requested cuyos horarios ya
// pasaron. La invoca el sweep periódico; retorna cuántas expiró
func (s *SchedulingService) ExpireDue(ctx context.Context) (int, error) {
	due, err := s.proposals.FindExpirable(ctx, s.now())
	if err != nil {
		return 0, errx.Wrap(err, "failed to find expirable proposals", errx.TypeInternal)
	}

	expired := 0
	for _, p := range due {
		if _, err := s.Expire(ctx, p.ID); err != nil {
			// Carrera benigna: alguien confirmó o canceló entre el scan
			// y la transición
			if errx.IsType(err, errx.TypeBusiness) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// GetProposal retorna una propuesta por ID
func (s *SchedulingService) GetProposal(ctx context.Context, id kernel.ProposalID) (*proposal.Proposal, error) {
	return s.proposals.FindByID(ctx, id)
}

// ListProposals retorna propuestas según filtro
func (s *SchedulingService) ListProposals(ctx context.Context, filter proposal.ListFilter) (*proposal.ProposalListResponse, error) {
	found, err := s.proposals.List(ctx, filter)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list proposals", errx.TypeInternal)
	}

	proposals := make([]proposal.Proposal, 0, len(found))
	for _, p := range found {
		proposals = append(proposals, *p)
	}
	return &proposal.ProposalListResponse{
		Proposals: proposals,
		Total:     len(proposals),
	}, nil
}

// ============================================================================
// Internals
// ============================================================================

func (s *SchedulingService) validateSlots(slots []time.Time, now time.Time) error {
	if len(slots) == 0 {
		return proposal.ErrInvalidInput().WithDetail("reason", "at least one slot is required")
	}
	if len(slots) > s.opts.MaxProposedSlots {
		return proposal.ErrInvalidInput().
			WithDetail("reason", "too many proposed slots").
			WithDetail("max", s.opts.MaxProposedSlots).
			WithDetail("got", len(slots))
	}
	for i, slot := range slots {
		if !slot.After(now) {
			return proposal.ErrInvalidInput().
				WithDetail("reason", "proposed slots must be in the future").
				WithDetail("slot", slot)
		}
		for j := 0; j < i; j++ {
			if slot.Equal(slots[j]) {
				return proposal.ErrInvalidInput().
					WithDetail("reason", "proposed slots must be distinct").
					WithDetail("slot", slot)
			}
		}
	}
	return nil
}

func (s *SchedulingService) validateModes(modes []proposal.InterviewMode) error {
	if len(modes) == 0 {
		return proposal.ErrInvalidInput().WithDetail("reason", "at least one mode is required")
	}
	if len(modes) > s.opts.MaxProposedModes {
		return proposal.ErrInvalidInput().
			WithDetail("reason", "too many proposed modes").
			WithDetail("max", s.opts.MaxProposedModes).
			WithDetail("got", len(modes))
	}
	for i, mode := range modes {
		if err := mode.Validate(); err != nil {
			return err
		}
		for j := 0; j < i; j++ {
			if mode.Equal(modes[j]) {
				return proposal.ErrInvalidInput().
					WithDetail("reason", "duplicate interview mode").
					WithDetail("type", string(mode.Type))
			}
		}
	}
	return nil
}

// dispatch publica el evento de transición. Best-effort: un dispatch
// fallido se loguea y se descarta, la notificación no es parte del
// contrato de scheduling
func (s *SchedulingService) dispatch(ctx context.Context, id kernel.ProposalID, from, to proposal.Status) {
	if s.dispatcher == nil {
		return
	}
	event := notify.TransitionEvent{
		ProposalID: id,
		FromStatus: string(from),
		ToStatus:   string(to),
		OccurredAt: s.now(),
	}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		logx.WithFields(logx.Fields{
			"proposal_id": id.String(),
			"from":        string(from),
			"to":          string(to),
		}).Errorf("Failed to dispatch transition event: %v", err)
	}
}

// generateDigest corre fuera del request: pide el resumen al LLM y lo
// adjunta a la propuesta con una transición versionada propia
func (s *SchedulingService) generateDigest(id kernel.ProposalID) {
	defer s.digestActive.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	unlock := s.locks.lock("proposal:" + id.String())
	defer unlock()

	p, err := s.proposals.FindByID(ctx, id)
	if err != nil || p.Status != proposal.StatusCompleted || p.Feedback == nil || p.FeedbackDigest != nil {
		return
	}

	c, err := s.candidates.GetCandidate(ctx, p.CandidateID)
	if err != nil {
		logx.WithFields(logx.Fields{"proposal_id": id.String()}).
			Warnf("Skipping feedback digest, candidate lookup failed: %v", err)
		return
	}

	digest, err := s.insights.FeedbackDigest(ctx, p, c)
	if err != nil {
		logx.WithFields(logx.Fields{"proposal_id": id.String()}).
			Warnf("Failed to generate feedback digest: %v", err)
		return
	}

	if err := p.AttachFeedbackDigest(digest, s.now()); err != nil {
		return
	}
	if err := s.proposals.Update(ctx, *p); err != nil {
		logx.WithFields(logx.Fields{"proposal_id": id.String()}).
			Warnf("Failed to store feedback digest: %v", err)
	}
}

// WaitForDigests espera los digests en vuelo; lo usa el shutdown
func (s *SchedulingService) WaitForDigests() {
	s.digestActive.Wait()
}

// ============================================================================
// Keyed Mutex
// ============================================================================

// keyedMutex serializa escritores por key (candidato o propuesta).
// Los locks se retienen por la vida del proceso; el working set está
// acotado por las propuestas activas
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
