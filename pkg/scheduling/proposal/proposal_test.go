package proposal

import (
	"testing"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

func testProposal(now time.Time) Proposal {
	return Proposal{
		ID:            kernel.NewProposalID("prop-1"),
		CandidateID:   kernel.NewCandidateID("cand-1"),
		RequestedBy:   kernel.NewRecruiterID("rec-1"),
		InterviewerID: kernel.NewInterviewerID("int-1"),
		ProposedSlots: SlotList{
			now.Add(24 * time.Hour),
			now.Add(48 * time.Hour),
		},
		ProposedModes: ModeList{
			{Type: ModeOnline, Platform: PlatformZoom},
			{Type: ModeOffline, Location: &Location{Kind: LocationHQ}},
		},
		DurationMinutes: 60,
		Status:          StatusRequested,
		LastSlotAt:      now.Add(48 * time.Hour),
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestInterviewModeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    InterviewMode
		wantErr bool
	}{
		{"online zoom", InterviewMode{Type: ModeOnline, Platform: PlatformZoom}, false},
		{"online teams", InterviewMode{Type: ModeOnline, Platform: PlatformTeams}, false},
		{"online google", InterviewMode{Type: ModeOnline, Platform: PlatformGoogle}, false},
		{"online without platform", InterviewMode{Type: ModeOnline}, true},
		{"online unknown platform", InterviewMode{Type: ModeOnline, Platform: "skype"}, true},
		{"online with location", InterviewMode{Type: ModeOnline, Platform: PlatformZoom, Location: &Location{Kind: LocationHQ}}, true},
		{"phone", InterviewMode{Type: ModePhone}, false},
		{"phone with platform", InterviewMode{Type: ModePhone, Platform: PlatformZoom}, true},
		{"phone with location", InterviewMode{Type: ModePhone, Location: &Location{Kind: LocationHQ}}, true},
		{"offline hq", InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationHQ}}, false},
		{"offline alternative with address", InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationAlternative, Address: "Av. Arequipa 123"}}, false},
		{"offline alternative without address", InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationAlternative}}, true},
		{"offline without location", InterviewMode{Type: ModeOffline}, true},
		{"offline unknown kind", InterviewMode{Type: ModeOffline, Location: &Location{Kind: "remote"}}, true},
		{"offline with platform", InterviewMode{Type: ModeOffline, Platform: PlatformZoom, Location: &Location{Kind: LocationHQ}}, true},
		{"unknown type", InterviewMode{Type: "CARRIER_PIGEON"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mode.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errx.IsType(err, errx.TypeValidation) {
				t.Errorf("Validate() error type = %v, want validation", err)
			}
		})
	}
}

func TestInterviewModeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b InterviewMode
		want bool
	}{
		{
			"same online platform",
			InterviewMode{Type: ModeOnline, Platform: PlatformZoom},
			InterviewMode{Type: ModeOnline, Platform: PlatformZoom},
			true,
		},
		{
			"different online platform",
			InterviewMode{Type: ModeOnline, Platform: PlatformZoom},
			InterviewMode{Type: ModeOnline, Platform: PlatformTeams},
			false,
		},
		{
			"different type",
			InterviewMode{Type: ModeOnline, Platform: PlatformZoom},
			InterviewMode{Type: ModePhone},
			false,
		},
		{
			"same offline location",
			InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationHQ}},
			InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationHQ}},
			true,
		},
		{
			"different offline address",
			InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationAlternative, Address: "Calle A"}},
			InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationAlternative, Address: "Calle B"}},
			false,
		},
		{
			"location nil vs set",
			InterviewMode{Type: ModeOffline},
			InterviewMode{Type: ModeOffline, Location: &Location{Kind: LocationHQ}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProposalConfirm(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("confirms a proposed slot and mode", func(t *testing.T) {
		p := testProposal(now)
		slot := p.ProposedSlots[0]
		mode := p.ProposedModes[0]

		if err := p.Confirm(slot, mode, false, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if p.Status != StatusConfirmed {
			t.Errorf("status = %s, want %s", p.Status, StatusConfirmed)
		}
		if p.ConfirmedSlot == nil || !p.ConfirmedSlot.Equal(slot) {
			t.Errorf("confirmed slot = %v, want %v", p.ConfirmedSlot, slot)
		}
		if p.ConfirmedMode == nil || !p.ConfirmedMode.InterviewMode.Equal(mode) {
			t.Errorf("confirmed mode = %v, want %v", p.ConfirmedMode, mode)
		}
		if p.SlotNegotiated {
			t.Error("slot_negotiated should be false for a proposed slot")
		}
		if p.Version != 2 {
			t.Errorf("version = %d, want 2", p.Version)
		}
	})

	t.Run("rejects a slot that was not proposed", func(t *testing.T) {
		p := testProposal(now)
		err := p.Confirm(now.Add(72*time.Hour), p.ProposedModes[0], false, now)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("Confirm() error = %v, want validation error", err)
		}
		if p.Status != StatusRequested {
			t.Errorf("status = %s, proposal should be untouched", p.Status)
		}
	})

	t.Run("accepts a negotiated slot outside the proposed list", func(t *testing.T) {
		p := testProposal(now)
		negotiated := now.Add(72 * time.Hour)

		if err := p.Confirm(negotiated, p.ProposedModes[0], true, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if !p.SlotNegotiated {
			t.Error("slot_negotiated should be true for an out-of-band slot")
		}
	})

	t.Run("negotiated flag does not mark proposed slots", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Confirm(p.ProposedSlots[1], p.ProposedModes[0], true, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if p.SlotNegotiated {
			t.Error("slot_negotiated should be false when the slot was proposed")
		}
	})

	t.Run("rejects a negotiated slot in the past", func(t *testing.T) {
		p := testProposal(now)
		err := p.Confirm(now.Add(-time.Hour), p.ProposedModes[0], true, now)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("Confirm() error = %v, want validation error", err)
		}
	})

	t.Run("rejects a mode that was not proposed", func(t *testing.T) {
		p := testProposal(now)
		err := p.Confirm(p.ProposedSlots[0], InterviewMode{Type: ModePhone}, false, now)
		if !errx.IsType(err, errx.TypeValidation) {
			t.Fatalf("Confirm() error = %v, want validation error", err)
		}
	})

	t.Run("rejects confirm on a non requested proposal", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Confirm(p.ProposedSlots[0], p.ProposedModes[0], false, now); err != nil {
			t.Fatalf("first Confirm() error = %v", err)
		}
		err := p.Confirm(p.ProposedSlots[1], p.ProposedModes[0], false, now)
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("second Confirm() error = %v, want business error", err)
		}
	})
}

func TestProposalComplete(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("completes a confirmed proposal with feedback", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Confirm(p.ProposedSlots[0], p.ProposedModes[0], false, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}

		if err := p.Complete("Strong system design, weak on SQL", now); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if p.Status != StatusCompleted {
			t.Errorf("status = %s, want %s", p.Status, StatusCompleted)
		}
		if p.Feedback == nil || *p.Feedback != "Strong system design, weak on SQL" {
			t.Errorf("feedback = %v", p.Feedback)
		}
	})

	t.Run("keeps feedback nil when empty", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Confirm(p.ProposedSlots[0], p.ProposedModes[0], false, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if err := p.Complete("", now); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if p.Feedback != nil {
			t.Errorf("feedback = %v, want nil", p.Feedback)
		}
	})

	t.Run("rejects complete from requested", func(t *testing.T) {
		p := testProposal(now)
		err := p.Complete("feedback", now)
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("Complete() error = %v, want business error", err)
		}
	})
}

func TestProposalCancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cancels from requested", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Cancel("candidate withdrew", now); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if p.Status != StatusCancelled {
			t.Errorf("status = %s, want %s", p.Status, StatusCancelled)
		}
		if p.CancelReason == nil || *p.CancelReason != "candidate withdrew" {
			t.Errorf("cancel reason = %v", p.CancelReason)
		}
	})

	t.Run("cancels from confirmed", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Confirm(p.ProposedSlots[0], p.ProposedModes[0], false, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if err := p.Cancel("", now); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if p.CancelReason != nil {
			t.Errorf("cancel reason = %v, want nil", p.CancelReason)
		}
	})

	t.Run("rejects cancel on terminal states", func(t *testing.T) {
		for _, status := range []Status{StatusCompleted, StatusCancelled, StatusExpired} {
			p := testProposal(now)
			p.Status = status
			err := p.Cancel("too late", now)
			if !errx.IsType(err, errx.TypeBusiness) {
				t.Errorf("Cancel() from %s error = %v, want business error", status, err)
			}
		}
	})
}

func TestProposalMarkAsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("expires when all slots are past", func(t *testing.T) {
		p := testProposal(now)
		later := now.Add(72 * time.Hour)

		if err := p.MarkAsExpired(later); err != nil {
			t.Fatalf("MarkAsExpired() error = %v", err)
		}
		if p.Status != StatusExpired {
			t.Errorf("status = %s, want %s", p.Status, StatusExpired)
		}
	})

	t.Run("rejects expiry while slots remain", func(t *testing.T) {
		p := testProposal(now)
		err := p.MarkAsExpired(now.Add(30 * time.Hour))
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("MarkAsExpired() error = %v, want business error", err)
		}
	})

	t.Run("rejects expiry of a confirmed proposal", func(t *testing.T) {
		p := testProposal(now)
		if err := p.Confirm(p.ProposedSlots[0], p.ProposedModes[0], false, now); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		err := p.MarkAsExpired(now.Add(72 * time.Hour))
		if !errx.IsType(err, errx.TypeBusiness) {
			t.Fatalf("MarkAsExpired() error = %v, want business error", err)
		}
	})
}

func TestAttachFeedbackDigest(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	p := testProposal(now)
	if err := p.AttachFeedbackDigest("digest", now); !errx.IsType(err, errx.TypeBusiness) {
		t.Fatalf("AttachFeedbackDigest() on requested error = %v, want business error", err)
	}

	if err := p.Confirm(p.ProposedSlots[0], p.ProposedModes[0], false, now); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if err := p.Complete("solid interview", now); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := p.AttachFeedbackDigest("Solid overall performance.", now); err != nil {
		t.Fatalf("AttachFeedbackDigest() error = %v", err)
	}
	if p.FeedbackDigest == nil || *p.FeedbackDigest != "Solid overall performance." {
		t.Errorf("feedback digest = %v", p.FeedbackDigest)
	}
}

func TestSlotListLatest(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	slots := SlotList{base.Add(48 * time.Hour), base, base.Add(24 * time.Hour)}

	if got := slots.Latest(); !got.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("Latest() = %v, want %v", got, base.Add(48*time.Hour))
	}
	if !slots.Contains(base) {
		t.Error("Contains() should find an exact instant")
	}
	if slots.Contains(base.Add(time.Minute)) {
		t.Error("Contains() should not match a different instant")
	}
}
