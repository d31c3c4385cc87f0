package webserver

import (
	"time"

	"github.com/stake-plus/congressrp/src/shared/congress"
)

type ballotView struct {
	Voter  string    `json:"voter"`
	Choice string    `json:"choice"`
	CastAt time.Time `json:"castAt"`
}

type roundView struct {
	Number   int          `json:"number"`
	Chamber  string       `json:"chamber,omitempty"`
	Open     bool         `json:"open"`
	OpenedAt *time.Time   `json:"openedAt,omitempty"`
	Deadline *time.Time   `json:"deadline,omitempty"`
	Ballots  []ballotView `json:"ballots"`
}

type resultView struct {
	Round    int       `json:"round"`
	Chamber  string    `json:"chamber"`
	Yea      int       `json:"yea"`
	Nay      int       `json:"nay"`
	Abstain  int       `json:"abstain"`
	Required int       `json:"required"`
	Passed   bool      `json:"passed"`
	Reason   string    `json:"reason"`
	ClosedAt time.Time `json:"closedAt"`
}

type billView struct {
	Reference    string       `json:"reference"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Category     string       `json:"category"`
	Proposer     string       `json:"proposer"`
	Cosponsors   []string     `json:"cosponsors"`
	Origin       string       `json:"origin"`
	Chamber      string       `json:"chamber"`
	Stage        string       `json:"stage"`
	Outcome      string       `json:"outcome,omitempty"`
	Status       string       `json:"status"`
	BothChambers bool         `json:"bothChambers"`
	Session      int          `json:"session"`
	Target       string       `json:"target,omitempty"`
	Designation  string       `json:"designation,omitempty"`
	MessageLink  string       `json:"messageLink,omitempty"`
	Round        roundView    `json:"round"`
	History      []resultView `json:"history"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type billSummary struct {
	Reference string `json:"reference"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Proposer  string `json:"proposer"`
	Chamber   string `json:"chamber"`
	Status    string `json:"status"`
	Session   int    `json:"session"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func newBallotViews(ballots []congress.Ballot) []ballotView {
	out := make([]ballotView, 0, len(ballots))
	for _, b := range ballots {
		out = append(out, ballotView{Voter: b.Voter, Choice: string(b.Choice), CastAt: b.CastAt})
	}
	return out
}

func newBillView(b congress.Bill) billView {
	cosponsors := b.Cosponsors
	if cosponsors == nil {
		cosponsors = []string{}
	}
	history := make([]resultView, 0, len(b.History))
	for _, r := range b.History {
		history = append(history, resultView{
			Round:    r.Round,
			Chamber:  string(r.Chamber),
			Yea:      r.Yea,
			Nay:      r.Nay,
			Abstain:  r.Abstain,
			Required: r.Required,
			Passed:   r.Passed,
			Reason:   string(r.Reason),
			ClosedAt: r.ClosedAt,
		})
	}
	return billView{
		Reference:    b.Reference,
		Title:        b.Title,
		Content:      b.Content,
		Category:     string(b.Category),
		Proposer:     b.Proposer,
		Cosponsors:   cosponsors,
		Origin:       string(b.Origin),
		Chamber:      string(b.Chamber),
		Stage:        string(b.Stage),
		Outcome:      string(b.Outcome),
		Status:       b.Status(),
		BothChambers: b.BothChambers,
		Session:      b.Session,
		Target:       b.Target,
		Designation:  b.Designation,
		MessageLink:  b.MessageLink,
		Round: roundView{
			Number:   b.Round.Number,
			Chamber:  string(b.Round.Chamber),
			Open:     b.Round.Open,
			OpenedAt: optionalTime(b.Round.OpenedAt),
			Deadline: optionalTime(b.Round.Deadline),
			Ballots:  newBallotViews(b.Round.Ballots),
		},
		History:   history,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func newBillSummaries(bills []congress.Bill) []billSummary {
	out := make([]billSummary, 0, len(bills))
	for _, b := range bills {
		out = append(out, billSummary{
			Reference: b.Reference,
			Title:     b.Title,
			Category:  string(b.Category),
			Proposer:  b.Proposer,
			Chamber:   string(b.Chamber),
			Status:    b.Status(),
			Session:   b.Session,
		})
	}
	return out
}
