package congress

import (
	"fmt"
	"strings"
	"time"
)

// Ballot is one voter's choice in a round.
type Ballot struct {
	Voter  string
	Choice Choice
	CastAt time.Time
}

// Round is a single voting round in one chamber.
type Round struct {
	Number   int
	Chamber  Chamber
	Open     bool
	OpenedAt time.Time
	Deadline time.Time
	Ballots  []Ballot
}

// Cast records or overwrites voter's choice, keeping first-cast order.
func (r *Round) Cast(voter string, choice Choice, at time.Time) {
	for i := range r.Ballots {
		if r.Ballots[i].Voter == voter {
			r.Ballots[i].Choice = choice
			r.Ballots[i].CastAt = at
			return
		}
	}
	r.Ballots = append(r.Ballots, Ballot{Voter: voter, Choice: choice, CastAt: at})
}

// ChoiceOf returns the voter's current choice, if any.
func (r Round) ChoiceOf(voter string) (Choice, bool) {
	for _, b := range r.Ballots {
		if b.Voter == voter {
			return b.Choice, true
		}
	}
	return "", false
}

// RoundResult is the permanent record of a closed round.
type RoundResult struct {
	Round    int
	Chamber  Chamber
	Yea      int
	Nay      int
	Abstain  int
	Required int
	Passed   bool
	Reason   CloseReason
	ClosedAt time.Time
}

// Bill is a piece of legislation moving through the chambers.
type Bill struct {
	Reference          string
	Number             int
	Title              string
	Content            string
	Proposer           string
	Cosponsors         []string
	Category           Category
	Origin             Chamber
	Chamber            Chamber
	Stage              Stage
	Outcome            Outcome
	Color              int
	MessageLink        string
	BothChambers       bool
	NextChamberPending bool
	VotingOpened       bool
	Session            int
	Target             string
	Designation        string
	Round              Round
	History            []RoundResult
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Clone returns a deep copy safe to hand to other goroutines.
func (b Bill) Clone() Bill {
	out := b
	if b.Cosponsors != nil {
		out.Cosponsors = append([]string(nil), b.Cosponsors...)
	}
	if b.Round.Ballots != nil {
		out.Round.Ballots = append([]Ballot(nil), b.Round.Ballots...)
	}
	if b.History != nil {
		out.History = append([]RoundResult(nil), b.History...)
	}
	return out
}

// HasCosponsor reports whether voter already co-sponsors the bill.
func (b Bill) HasCosponsor(voter string) bool {
	for _, id := range b.Cosponsors {
		if id == voter {
			return true
		}
	}
	return false
}

// LastResult returns the most recently closed round.
func (b Bill) LastResult() (RoundResult, bool) {
	if len(b.History) == 0 {
		return RoundResult{}, false
	}
	return b.History[len(b.History)-1], true
}

// Terminal reports whether no further transitions are possible.
func (b Bill) Terminal() bool {
	return b.Stage == StageClosed || b.Stage == StageEnacted
}

// Status renders the lifecycle position as display text.
func (b Bill) Status() string {
	switch b.Stage {
	case StagePending:
		return "Pending before " + b.Chamber.ApproverTitle()
	case StageVoting:
		if last, ok := b.LastResult(); ok && last.Passed {
			return fmt.Sprintf("Passed %s, voting in %s", last.Chamber, b.Chamber)
		}
		return "Voting in " + string(b.Chamber)
	case StageEnacted:
		return "Passed both chambers"
	case StageClosed:
		if b.Outcome == OutcomePassed {
			return "Passed " + string(b.Chamber)
		}
		return "Failed " + string(b.Chamber)
	default:
		return string(b.Stage)
	}
}

// DisplayTitle is the embed heading, e.g. "BILL - Clean Water Act".
func (b Bill) DisplayTitle() string {
	return fmt.Sprintf("%s - %s", strings.ToUpper(string(b.Category)), b.Title)
}
