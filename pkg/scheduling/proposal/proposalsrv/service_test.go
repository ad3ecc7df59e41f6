package proposalsrv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/notify/notifyinfra"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/availability/availabilityinfra"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal/proposalinfra"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate/candidateinfra"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	service    *SchedulingService
	proposals  *proposalinfra.MemoryProposalRepository
	agenda     *availabilityinfra.MemoryStore
	candidates *candidateinfra.MemoryCandidateRepository
	dispatcher *notifyinfra.MemoryDispatcher
}

func newTestEnv(insights InsightGenerator) *testEnv {
	proposals := proposalinfra.NewMemoryProposalRepository()
	agenda := availabilityinfra.NewMemoryStore()
	candidates := candidateinfra.NewMemoryCandidateRepository()
	dispatcher := notifyinfra.NewMemoryDispatcher()

	candidates.Seed(&candidate.Candidate{
		ID:         kernel.NewCandidateID("cand-1"),
		Name:       "Carla Espinoza",
		MatchScore: 87,
		Skills:     candidate.StringList{"Go", "PostgreSQL"},
	})

	service := NewSchedulingService(proposals, agenda, candidates, dispatcher, insights, DefaultOptions())
	service.now = func() time.Time { return testNow }

	return &testEnv{
		service:    service,
		proposals:  proposals,
		agenda:     agenda,
		candidates: candidates,
		dispatcher: dispatcher,
	}
}

func validCreateRequest() proposal.CreateProposalRequest {
	return proposal.CreateProposalRequest{
		CandidateID:   "cand-1",
		InterviewerID: "int-1",
		RequestedBy:   "rec-1",
		Slots: []time.Time{
			testNow.Add(24 * time.Hour),
			testNow.Add(48 * time.Hour),
		},
		Modes: []proposal.InterviewMode{
			{Type: proposal.ModeOnline, Platform: proposal.PlatformZoom},
			{Type: proposal.ModeOffline, Location: &proposal.Location{Kind: proposal.LocationHQ}},
		},
	}
}

func TestCreateProposal(t *testing.T) {
	t.Run("creates a requested proposal", func(t *testing.T) {
		env := newTestEnv(nil)

		p, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
		if p.Status != proposal.StatusRequested {
			t.Errorf("status = %s, want %s", p.Status, proposal.StatusRequested)
		}
		if p.ConfirmedSlot != nil || p.ConfirmedMode != nil || p.Feedback != nil {
			t.Error("a new proposal must have no confirmation or feedback data")
		}
		if p.DurationMinutes != 60 {
			t.Errorf("duration = %d, want default 60", p.DurationMinutes)
		}
		if !p.LastSlotAt.Equal(testNow.Add(48 * time.Hour)) {
			t.Errorf("last_slot_at = %v, want latest proposed slot", p.LastSlotAt)
		}

		events := env.dispatcher.Events()
		if len(events) != 1 || events[0].ToStatus != string(proposal.StatusRequested) {
			t.Errorf("events = %+v, want one transition to REQUESTED", events)
		}
	})

	t.Run("rejects empty slots", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.Slots = nil

		_, err := env.service.CreateProposal(context.Background(), req)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("CreateProposal() error = %v, want validation error", err)
		}
	})

	t.Run("rejects too many slots", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.Slots = []time.Time{
			testNow.Add(24 * time.Hour),
			testNow.Add(25 * time.Hour),
			testNow.Add(26 * time.Hour),
			testNow.Add(27 * time.Hour),
		}

		_, err := env.service.CreateProposal(context.Background(), req)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("CreateProposal() error = %v, want validation error", err)
		}
	})

	t.Run("rejects slots in the past", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.Slots = []time.Time{testNow.Add(-time.Hour)}

		_, err := env.service.CreateProposal(context.Background(), req)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("CreateProposal() error = %v, want validation error", err)
		}
	})

	t.Run("rejects duplicate slots", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.Slots = []time.Time{testNow.Add(24 * time.Hour), testNow.Add(24 * time.Hour)}

		_, err := env.service.CreateProposal(context.Background(), req)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("CreateProposal() error = %v, want validation error", err)
		}
	})

	t.Run("rejects duplicate modes", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.Modes = []proposal.InterviewMode{
			{Type: proposal.ModeOnline, Platform: proposal.PlatformZoom},
			{Type: proposal.ModeOnline, Platform: proposal.PlatformZoom},
		}

		_, err := env.service.CreateProposal(context.Background(), req)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("CreateProposal() error = %v, want validation error", err)
		}
	})

	t.Run("allows same mode type with different parameters", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.Modes = []proposal.InterviewMode{
			{Type: proposal.ModeOnline, Platform: proposal.PlatformZoom},
			{Type: proposal.ModeOnline, Platform: proposal.PlatformTeams},
		}

		if _, err := env.service.CreateProposal(context.Background(), req); err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
	})

	t.Run("rejects unknown candidate", func(t *testing.T) {
		env := newTestEnv(nil)
		req := validCreateRequest()
		req.CandidateID = "nobody"

		_, err := env.service.CreateProposal(context.Background(), req)
		if !errx.IsType(err, errx.TypeNotFound) {
			t.Fatalf("CreateProposal() error = %v, want not found error", err)
		}
	})

	t.Run("rejects a second active proposal for the candidate", func(t *testing.T) {
		env := newTestEnv(nil)

		if _, err := env.service.CreateProposal(context.Background(), validCreateRequest()); err != nil {
			t.Fatalf("first CreateProposal() error = %v", err)
		}
		_, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if !errx.IsType(err, errx.TypeConflict) {
			t.Fatalf("second CreateProposal() error = %v, want conflict error", err)
		}
	})

	t.Run("allows a new proposal after the previous one is resolved", func(t *testing.T) {
		env := newTestEnv(nil)

		first, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
		if _, err := env.service.Cancel(context.Background(), first.ID, proposal.CancelRequest{}); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}

		if _, err := env.service.CreateProposal(context.Background(), validCreateRequest()); err != nil {
			t.Fatalf("CreateProposal() after cancel error = %v", err)
		}
	})
}

func TestConfirm(t *testing.T) {
	t.Run("confirms and reserves the interviewer agenda", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}

		slot := created.ProposedSlots[0]
		p, err := env.service.Confirm(context.Background(), created.ID, proposal.ConfirmRequest{
			Slot: slot,
			Mode: created.ProposedModes[0],
		})
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if p.Status != proposal.StatusConfirmed {
			t.Errorf("status = %s, want %s", p.Status, proposal.StatusConfirmed)
		}

		reserved, err := env.agenda.ListForRange(context.Background(),
			kernel.NewInterviewerID("int-1"), testNow, testNow.Add(96*time.Hour))
		if err != nil {
			t.Fatalf("ListForRange() error = %v", err)
		}
		if len(reserved) != 1 || !reserved[0].Start.Equal(slot) {
			t.Errorf("reserved slots = %+v, want one at %v", reserved, slot)
		}
		if reserved[0].SourceType != availability.SourceInterview {
			t.Errorf("source type = %s, want %s", reserved[0].SourceType, availability.SourceInterview)
		}
	})

	t.Run("rejects confirm when the agenda conflicts", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}

		slot := created.ProposedSlots[0]
		blocking := availability.Slot{
			OwnerID:         kernel.NewInterviewerID("int-1"),
			Start:           slot.Add(30 * time.Minute),
			DurationMinutes: 60,
			SourceType:      availability.SourceBusinessAppointment,
		}
		if err := env.agenda.Reserve(context.Background(), blocking); err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}

		_, err = env.service.Confirm(context.Background(), created.ID, proposal.ConfirmRequest{
			Slot: slot,
			Mode: created.ProposedModes[0],
		})
		if !errx.IsType(err, errx.TypeConflict) {
			t.Fatalf("Confirm() error = %v, want conflict error", err)
		}

		stored, err := env.service.GetProposal(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetProposal() error = %v", err)
		}
		if stored.Status != proposal.StatusRequested {
			t.Errorf("status = %s, a failed confirm must leave the proposal requested", stored.Status)
		}
	})

	t.Run("rejects a double confirm", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}

		req := proposal.ConfirmRequest{Slot: created.ProposedSlots[0], Mode: created.ProposedModes[0]}
		if _, err := env.service.Confirm(context.Background(), created.ID, req); err != nil {
			t.Fatalf("first Confirm() error = %v", err)
		}
		_, err = env.service.Confirm(context.Background(), created.ID, req)
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("second Confirm() error = %v, want business error", err)
		}
	})

	t.Run("exactly one concurrent confirm wins", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}

		const attempts = 8
		var wg sync.WaitGroup
		results := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				slot := created.ProposedSlots[n%len(created.ProposedSlots)]
				_, err := env.service.Confirm(context.Background(), created.ID, proposal.ConfirmRequest{
					Slot: slot,
					Mode: created.ProposedModes[0],
				})
				results <- err
			}(i)
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else if !errx.IsType(err, errx.TypeBusiness) {
				t.Errorf("unexpected confirm error: %v", err)
			}
		}
		if succeeded != 1 {
			t.Errorf("succeeded = %d, want exactly 1", succeeded)
		}

		reserved, err := env.agenda.ListForRange(context.Background(),
			kernel.NewInterviewerID("int-1"), testNow, testNow.Add(96*time.Hour))
		if err != nil {
			t.Fatalf("ListForRange() error = %v", err)
		}
		if len(reserved) != 1 {
			t.Errorf("reserved slots = %d, want exactly 1", len(reserved))
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("completes and keeps the reservation", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
		if _, err := env.service.Confirm(context.Background(), created.ID, proposal.ConfirmRequest{
			Slot: created.ProposedSlots[0],
			Mode: created.ProposedModes[0],
		}); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}

		p, err := env.service.Complete(context.Background(), created.ID, proposal.CompleteRequest{
			Feedback: "Great communication skills",
		})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if p.Status != proposal.StatusCompleted {
			t.Errorf("status = %s, want %s", p.Status, proposal.StatusCompleted)
		}

		reserved, err := env.agenda.ListForRange(context.Background(),
			kernel.NewInterviewerID("int-1"), testNow, testNow.Add(96*time.Hour))
		if err != nil {
			t.Fatalf("ListForRange() error = %v", err)
		}
		if len(reserved) != 1 {
			t.Errorf("reserved slots = %d, a completed interview keeps its reservation", len(reserved))
		}
	})

	t.Run("rejects complete without a prior confirm", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}

		_, err = env.service.Complete(context.Background(), created.ID, proposal.CompleteRequest{Feedback: "nope"})
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("Complete() error = %v, want business error", err)
		}
	})

	t.Run("generates a feedback digest asynchronously", func(t *testing.T) {
		env := newTestEnv(&stubInsightGenerator{digest: "Strong fit for the role."})
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
		if _, err := env.service.Confirm(context.Background(), created.ID, proposal.ConfirmRequest{
			Slot: created.ProposedSlots[0],
			Mode: created.ProposedModes[0],
		}); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if _, err := env.service.Complete(context.Background(), created.ID, proposal.CompleteRequest{
			Feedback: "Great communication skills",
		}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		env.service.WaitForDigests()

		stored, err := env.service.GetProposal(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetProposal() error = %v", err)
		}
		if stored.FeedbackDigest == nil || *stored.FeedbackDigest != "Strong fit for the role." {
			t.Errorf("feedback digest = %v", stored.FeedbackDigest)
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("releases the reservation after a confirmed cancel", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
		if _, err := env.service.Confirm(context.Background(), created.ID, proposal.ConfirmRequest{
			Slot: created.ProposedSlots[0],
			Mode: created.ProposedModes[0],
		}); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}

		p, err := env.service.Cancel(context.Background(), created.ID, proposal.CancelRequest{Reason: "position filled"})
		if err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if p.Status != proposal.StatusCancelled {
			t.Errorf("status = %s, want %s", p.Status, proposal.StatusCancelled)
		}

		reserved, err := env.agenda.ListForRange(context.Background(),
			kernel.NewInterviewerID("int-1"), testNow, testNow.Add(96*time.Hour))
		if err != nil {
			t.Fatalf("ListForRange() error = %v", err)
		}
		if len(reserved) != 0 {
			t.Errorf("reserved slots = %d, cancel must free the agenda", len(reserved))
		}
	})

	t.Run("rejects cancel on a terminal proposal", func(t *testing.T) {
		env := newTestEnv(nil)
		created, err := env.service.CreateProposal(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("CreateProposal() error = %v", err)
		}
		if _, err := env.service.Cancel(context.Background(), created.ID, proposal.CancelRequest{}); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}

		_, err = env.service.Cancel(context.Background(), created.ID, proposal.CancelRequest{})
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("second Cancel() error = %v, want business error", err)
		}
	})
}

func TestExpireDue(t *testing.T) {
	env := newTestEnv(nil)

	stale, err := env.service.CreateProposal(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	confirmedReq := validCreateRequest()
	confirmedReq.CandidateID = "cand-2"
	env.candidates.Seed(&candidate.Candidate{
		ID:   kernel.NewCandidateID("cand-2"),
		Name: "Jorge Medina",
	})
	confirmed, err := env.service.CreateProposal(context.Background(), confirmedReq)
	if err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}
	if _, err := env.service.Confirm(context.Background(), confirmed.ID, proposal.ConfirmRequest{
		Slot: confirmed.ProposedSlots[0],
		Mode: confirmed.ProposedModes[0],
	}); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	// Avanza el reloj más allá del último horario propuesto
	env.service.now = func() time.Time { return testNow.Add(72 * time.Hour) }

	expired, err := env.service.ExpireDue(context.Background())
	if err != nil {
		t.Fatalf("ExpireDue() error = %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}

	staleStored, err := env.service.GetProposal(context.Background(), stale.ID)
	if err != nil {
		t.Fatalf("GetProposal() error = %v", err)
	}
	if staleStored.Status != proposal.StatusExpired {
		t.Errorf("stale proposal status = %s, want %s", staleStored.Status, proposal.StatusExpired)
	}

	confirmedStored, err := env.service.GetProposal(context.Background(), confirmed.ID)
	if err != nil {
		t.Fatalf("GetProposal() error = %v", err)
	}
	if confirmedStored.Status != proposal.StatusConfirmed {
		t.Errorf("confirmed proposal status = %s, expiry must not touch it", confirmedStored.Status)
	}

	events := env.dispatcher.Events()
	found := false
	for _, e := range events {
		if e.ProposalID == stale.ID && e.ToStatus == string(proposal.StatusExpired) {
			found = true
		}
	}
	if !found {
		t.Errorf("no EXPIRED transition event dispatched, events = %+v", events)
	}
}

func TestListProposals(t *testing.T) {
	env := newTestEnv(nil)

	first, err := env.service.CreateProposal(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	env.candidates.Seed(&candidate.Candidate{ID: kernel.NewCandidateID("cand-2"), Name: "Jorge Medina"})
	secondReq := validCreateRequest()
	secondReq.CandidateID = "cand-2"
	secondReq.InterviewerID = "int-2"
	if _, err := env.service.CreateProposal(context.Background(), secondReq); err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	all, err := env.service.ListProposals(context.Background(), proposal.ListFilter{})
	if err != nil {
		t.Fatalf("ListProposals() error = %v", err)
	}
	if all.Total != 2 {
		t.Errorf("total = %d, want 2", all.Total)
	}

	byCandidate, err := env.service.ListProposals(context.Background(), proposal.ListFilter{
		CandidateID: kernel.NewCandidateID("cand-1"),
	})
	if err != nil {
		t.Fatalf("ListProposals() error = %v", err)
	}
	if byCandidate.Total != 1 || byCandidate.Proposals[0].ID != first.ID {
		t.Errorf("filtered result = %+v, want only cand-1's proposal", byCandidate.Proposals)
	}

	byStatus, err := env.service.ListProposals(context.Background(), proposal.ListFilter{
		Status: proposal.StatusCancelled,
	})
	if err != nil {
		t.Fatalf("ListProposals() error = %v", err)
	}
	if byStatus.Total != 0 {
		t.Errorf("cancelled total = %d, want 0", byStatus.Total)
	}
}

// stubInsightGenerator retorna un digest fijo
type stubInsightGenerator struct {
	digest string
}

func (s *stubInsightGenerator) FeedbackDigest(ctx context.Context, p *proposal.Proposal, c *candidate.Candidate) (string, error) {
	return s.digest, nil
}
