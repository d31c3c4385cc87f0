package congress

import "testing"

func ballots(choices ...Choice) []Ballot {
	out := make([]Ballot, 0, len(choices))
	for i, c := range choices {
		out = append(out, Ballot{Voter: string(rune('a' + i)), Choice: c})
	}
	return out
}

func TestTally(t *testing.T) {
	tests := []struct {
		name     string
		ballots  []Ballot
		category Category
		required int
		passed   bool
	}{
		{
			name:     "amendment two thirds of three",
			ballots:  ballots(ChoiceYea, ChoiceYea, ChoiceNay),
			category: CategoryAmendment,
			required: 2,
			passed:   true,
		},
		{
			name:     "simple bill tie fails",
			ballots:  ballots(ChoiceYea, ChoiceYea, ChoiceNay, ChoiceNay),
			category: CategoryBill,
			required: 3,
			passed:   false,
		},
		{
			name:     "zero ballots fails simple majority",
			ballots:  nil,
			category: CategoryBill,
			required: 1,
			passed:   false,
		},
		{
			name:     "abstentions count toward the base",
			ballots:  ballots(ChoiceYea, ChoiceYea, ChoiceAbstain, ChoiceAbstain, ChoiceAbstain),
			category: CategoryResolution,
			required: 3,
			passed:   false,
		},
		{
			name:     "amendment rounds up",
			ballots:  ballots(ChoiceYea, ChoiceYea, ChoiceYea, ChoiceNay),
			category: CategoryAmendment,
			required: 3,
			passed:   true,
		},
		{
			name:     "motion simple majority",
			ballots:  ballots(ChoiceYea, ChoiceYea, ChoiceNay),
			category: CategoryMotion,
			required: 2,
			passed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tally(tt.ballots, len(tt.ballots), tt.category)
			if got.Required != tt.required {
				t.Errorf("expected required %d, got %d", tt.required, got.Required)
			}
			if got.Passed != tt.passed {
				t.Errorf("expected passed %v, got %v", tt.passed, got.Passed)
			}
			if got.Yea+got.Nay+got.Abstain != len(tt.ballots) {
				t.Errorf("expected %d counted ballots, got %d", len(tt.ballots), got.Yea+got.Nay+got.Abstain)
			}
		})
	}
}

func TestTallyIsDeterministic(t *testing.T) {
	in := ballots(ChoiceYea, ChoiceNay, ChoiceAbstain, ChoiceYea)
	first := Tally(in, len(in), CategoryAmendment)
	for i := 0; i < 10; i++ {
		if got := Tally(in, len(in), CategoryAmendment); got != first {
			t.Fatalf("tally changed between calls: %+v vs %+v", first, got)
		}
	}
}

func TestTallyRound(t *testing.T) {
	var r Round
	r.Cast("u1", ChoiceNay, zeroTime)
	r.Cast("u2", ChoiceYea, zeroTime)
	r.Cast("u1", ChoiceYea, zeroTime)

	got := TallyRound(r, CategoryBill)
	if got.Yea != 2 || got.Nay != 0 || got.QuorumBase != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
	if !got.Passed {
		t.Fatal("expected re-cast ballot to carry the bill")
	}
}
