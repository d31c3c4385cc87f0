package congress

import (
	"errors"
	"testing"
	"time"
)

var zeroTime time.Time

func TestParseReference(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"H.R. 004", "H.R. 004", true},
		{"hr 4", "H.R. 004", true},
		{"HR-012", "H.R. 012", true},
		{"h.r.7", "H.R. 007", true},
		{"ART. 005", "ART. 005", true},
		{"art-5", "ART. 005", true},
		{"S. 4", "", false},
		{"", "", false},
		{"hr", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReference(tt.in)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected invalid argument, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatReferenceAndSlug(t *testing.T) {
	if got := FormatReference(CategoryBill, 3); got != "H.R. 003" {
		t.Errorf("expected H.R. 003, got %q", got)
	}
	if got := FormatReference(CategoryImpeachment, 12); got != "ART. 012" {
		t.Errorf("expected ART. 012, got %q", got)
	}
	slug := ReferenceSlug("H.R. 004")
	if slug != "hr-004" {
		t.Errorf("expected hr-004, got %q", slug)
	}
	back, err := ParseReference(slug)
	if err != nil || back != "H.R. 004" {
		t.Errorf("slug did not round-trip: %q, %v", back, err)
	}
}

func TestRoundCastOverwrites(t *testing.T) {
	var r Round
	r.Cast("alice", ChoiceYea, zeroTime)
	r.Cast("bob", ChoiceNay, zeroTime)
	r.Cast("alice", ChoiceAbstain, zeroTime)

	if len(r.Ballots) != 2 {
		t.Fatalf("expected 2 ballots, got %d", len(r.Ballots))
	}
	if r.Ballots[0].Voter != "alice" || r.Ballots[0].Choice != ChoiceAbstain {
		t.Errorf("expected alice to keep first position with abs, got %+v", r.Ballots[0])
	}
	if c, ok := r.ChoiceOf("bob"); !ok || c != ChoiceNay {
		t.Errorf("expected bob nay, got %q %v", c, ok)
	}
}

func TestBillCloneIsDeep(t *testing.T) {
	b := Bill{Cosponsors: []string{"a"}, Round: Round{Ballots: []Ballot{{Voter: "x", Choice: ChoiceYea}}}}
	c := b.Clone()
	c.Cosponsors[0] = "changed"
	c.Round.Ballots[0].Choice = ChoiceNay

	if b.Cosponsors[0] != "a" {
		t.Error("clone shares cosponsor storage")
	}
	if b.Round.Ballots[0].Choice != ChoiceYea {
		t.Error("clone shares ballot storage")
	}
}

func TestBillStatus(t *testing.T) {
	tests := []struct {
		name string
		bill Bill
		want string
	}{
		{"pending house", Bill{Stage: StagePending, Chamber: ChamberHouse}, "Pending before Speaker"},
		{"pending senate", Bill{Stage: StagePending, Chamber: ChamberSenate}, "Pending before Majority Leader"},
		{"voting", Bill{Stage: StageVoting, Chamber: ChamberHouse}, "Voting in House"},
		{"handed off", Bill{
			Stage:   StageVoting,
			Chamber: ChamberSenate,
			History: []RoundResult{{Chamber: ChamberHouse, Passed: true}},
		}, "Passed House, voting in Senate"},
		{"failed", Bill{Stage: StageClosed, Outcome: OutcomeFailed, Chamber: ChamberSenate}, "Failed Senate"},
		{"passed", Bill{Stage: StageClosed, Outcome: OutcomePassed, Chamber: ChamberHouse}, "Passed House"},
		{"enacted", Bill{Stage: StageEnacted, Outcome: OutcomePassed}, "Passed both chambers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bill.Status(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	if !errors.Is(ErrAlreadyCosponsor, ErrInvalidState) {
		t.Error("reason error should match its code sentinel")
	}
	if errors.Is(ErrAlreadyCosponsor, ErrVotingStarted) {
		t.Error("different reasons must not match")
	}
	if !errors.Is(BillNotFound("H.R. 001"), ErrNotFound) {
		t.Error("bill not found should match ErrNotFound")
	}
	if errors.Is(ErrNotApprover, ErrInvalidState) {
		t.Error("unauthorized must not match invalid state")
	}
}

func TestParseHelpers(t *testing.T) {
	if c, err := ParseCategory("amm"); err != nil || c != CategoryAmendment {
		t.Errorf("amm: %v %v", c, err)
	}
	if _, err := ParseCategory("nom"); err == nil {
		t.Error("expected error for unknown category")
	}
	if ch, err := ParseChamber(""); err != nil || ch != ChamberHouse {
		t.Errorf("empty chamber: %v %v", ch, err)
	}
	if ch, _ := ParseChamber("SENATE"); ch.Other() != ChamberHouse {
		t.Error("senate.Other should be house")
	}
	if v, err := ParseChoice("Aye"); err != nil || v != ChoiceYea {
		t.Errorf("aye: %v %v", v, err)
	}
	if !CategoryImpeachment.RequiresBothChambers() || CategoryMotion.RequiresBothChambers() {
		t.Error("unexpected both-chamber policy")
	}
}
