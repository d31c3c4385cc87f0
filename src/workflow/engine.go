// Package workflow drives bills through review, voting, cross-chamber hand-off
// and enactment.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/stake-plus/congressrp/src/data/bills"
	"github.com/stake-plus/congressrp/src/shared/congress"
)

// Config tunes an Engine.
type Config struct {
	// VoteDuration closes rounds automatically after the duration. Zero disables timers.
	VoteDuration time.Duration
	// Eligibility gates ballots. Nil accepts every voter.
	Eligibility EligibilityFunc
	Now         func() time.Time
}

// Engine is the bill state machine.
type Engine struct {
	store    *bills.Store
	notifier Notifier
	auth     Authorizer
	cfg      Config
	now      func() time.Time
	timers   *expiry

	mu     sync.Mutex
	runCtx context.Context
}

// SubmitBill is an ordinary submission (everything except impeachment).
type SubmitBill struct {
	Category    congress.Category
	Chamber     congress.Chamber
	Proposer    string
	Title       string
	Content     string
	MessageLink string
}

// SubmitImpeachment is a submission of articles of impeachment.
type SubmitImpeachment struct {
	Proposer    string
	Target      string
	Designation string
	Content     string
	MessageLink string
}

// CloseOutcome describes what a round closure did.
type CloseOutcome struct {
	Bill      congress.Bill
	Result    congress.RoundResult
	HandedOff bool
	Enacted   bool
}

// SessionSummary is the current session at a glance.
type SessionSummary struct {
	Session       int
	Submitted     int
	Pending       int
	Voting        int
	Passed        int
	Failed        int
	Enacted       int
	NextReference string
}

// New creates an engine. notifier and auth may be nil.
func New(store *bills.Store, notifier Notifier, auth Authorizer, cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &Engine{
		store:    store,
		notifier: notifier,
		auth:     auth,
		cfg:      cfg,
		now:      now,
		timers:   newExpiry(realAfterFunc, now),
		runCtx:   context.Background(),
	}
}

// Name implements core.Module.
func (e *Engine) Name() string { return "workflow" }

// Start re-arms vote timers for rounds that were open when the process stopped.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	e.runCtx = ctx
	e.mu.Unlock()

	armed := 0
	for _, bill := range e.store.OpenRounds() {
		if bill.Round.Deadline.IsZero() {
			continue
		}
		e.arm(bill)
		armed++
	}
	if armed > 0 {
		log.Printf("workflow: re-armed %d vote timers", armed)
	}
	return nil
}

// Stop cancels every pending vote timer.
func (e *Engine) Stop(ctx context.Context) {
	e.timers.stopAll()
}

// SubmitBill stores a new bill and notifies the chamber approver.
func (e *Engine) SubmitBill(ctx context.Context, req SubmitBill) (congress.Bill, error) {
	if req.Category == congress.CategoryImpeachment {
		return congress.Bill{}, congress.InvalidArgument("use impeachment submission for articles of impeachment")
	}
	chamber := req.Chamber
	if chamber == "" {
		chamber = congress.ChamberHouse
	}

	bill, err := e.store.Submit(ctx, bills.SubmitRequest{
		Category:     req.Category,
		Chamber:      chamber,
		Proposer:     req.Proposer,
		Title:        req.Title,
		Content:      req.Content,
		BothChambers: req.Category.RequiresBothChambers(),
		MessageLink:  req.MessageLink,
	})
	if err != nil {
		return congress.Bill{}, err
	}

	log.Printf("workflow: %s %s submitted by %s", bill.Category, bill.Reference, bill.Proposer)
	e.notify(bill.Reference, "submitted", func() error { return e.notifier.Submitted(ctx, bill) })
	return bill, nil
}

// SubmitImpeachment stores articles of impeachment. Only House members may submit.
func (e *Engine) SubmitImpeachment(ctx context.Context, req SubmitImpeachment) (congress.Bill, error) {
	if e.auth == nil || !e.auth.IsMember(ctx, congress.ChamberHouse, req.Proposer) {
		return congress.Bill{}, congress.ErrNotMember
	}

	target := strings.TrimSpace(req.Target)
	if target == "" {
		target = "Unknown"
	}
	designation := strings.TrimSpace(req.Designation)
	if designation == "" {
		designation = "Unknown"
	}

	bill, err := e.store.Submit(ctx, bills.SubmitRequest{
		Category:     congress.CategoryImpeachment,
		Chamber:      congress.ChamberHouse,
		Proposer:     req.Proposer,
		Title:        "Impeachment of " + target,
		Content:      req.Content,
		BothChambers: true,
		MessageLink:  req.MessageLink,
		Target:       target,
		Designation:  designation,
	})
	if err != nil {
		return congress.Bill{}, err
	}

	log.Printf("workflow: impeachment %s of %s submitted by %s", bill.Reference, target, bill.Proposer)
	e.notify(bill.Reference, "submitted", func() error { return e.notifier.Submitted(ctx, bill) })
	return bill, nil
}

// AddCosponsor adds voter as a cosponsor while voting has never opened.
func (e *Engine) AddCosponsor(ctx context.Context, ref, voter string) (congress.Bill, error) {
	return e.store.AddCosponsor(ctx, ref, voter)
}

// OpenVoting opens the first round for a pending bill. Only the chamber approver may open it.
func (e *Engine) OpenVoting(ctx context.Context, ref, requester string) (congress.Bill, error) {
	current, err := e.store.Find(ref)
	if err != nil {
		return congress.Bill{}, err
	}
	if !e.isApprover(ctx, current.Chamber, requester) {
		return congress.Bill{}, congress.ErrNotApprover
	}
	return e.openVoting(ctx, ref)
}

// OpenVotingAsAdmin opens the first round without a chamber role check. It backs
// the admin API, which is the only way to run votes when Discord is disabled.
func (e *Engine) OpenVotingAsAdmin(ctx context.Context, ref string) (congress.Bill, error) {
	return e.openVoting(ctx, ref)
}

func (e *Engine) openVoting(ctx context.Context, ref string) (congress.Bill, error) {
	bill, err := e.store.Update(ctx, ref, func(b *congress.Bill) error {
		if b.Round.Open {
			return congress.ErrRoundOpen
		}
		if b.Stage != congress.StagePending {
			return congress.ErrNotPending
		}
		e.openRound(b, e.now())
		return nil
	})
	if err != nil {
		return congress.Bill{}, err
	}

	log.Printf("workflow: voting opened on %s in %s (round %d)", bill.Reference, bill.Chamber, bill.Round.Number)
	e.arm(bill)
	e.notify(bill.Reference, "voting opened", func() error { return e.notifier.VotingOpened(ctx, bill) })
	return bill, nil
}

// CastBallot records or overwrites voter's choice in round. A ballot aimed at any
// round other than the open one, such as a button left over from the first
// chamber, is rejected with ErrRoundClosed.
func (e *Engine) CastBallot(ctx context.Context, ref string, round int, voter string, choice congress.Choice) (congress.Bill, error) {
	switch choice {
	case congress.ChoiceYea, congress.ChoiceNay, congress.ChoiceAbstain:
	default:
		return congress.Bill{}, congress.InvalidArgument(fmt.Sprintf("unknown vote choice %q", choice))
	}
	if round < 1 {
		return congress.Bill{}, congress.InvalidArgument("round number is required")
	}

	if e.cfg.Eligibility != nil {
		current, err := e.store.Find(ref)
		if err != nil {
			return congress.Bill{}, err
		}
		if err := e.cfg.Eligibility(ctx, current, voter); err != nil {
			return congress.Bill{}, err
		}
	}

	return e.store.Update(ctx, ref, func(b *congress.Bill) error {
		if !b.Round.Open || b.Round.Number != round {
			return congress.ErrRoundClosed
		}
		b.Round.Cast(voter, choice, e.now())
		return nil
	})
}

// CloseVoting ends round, whatever chamber it is in. Closing a round that has
// already closed, including after a hand-off opened the next one, changes nothing
// and returns ErrRoundClosed.
func (e *Engine) CloseVoting(ctx context.Context, ref string, round int, reason congress.CloseReason) (CloseOutcome, error) {
	if round < 1 {
		return CloseOutcome{}, congress.InvalidArgument("round number is required")
	}
	return e.closeRound(ctx, ref, reason, round)
}

// EndVoteByApprover closes round on behalf of the current chamber's approver.
func (e *Engine) EndVoteByApprover(ctx context.Context, ref string, round int, requester string) (CloseOutcome, error) {
	if round < 1 {
		return CloseOutcome{}, congress.InvalidArgument("round number is required")
	}
	current, err := e.store.Find(ref)
	if err != nil {
		return CloseOutcome{}, err
	}
	if !e.isApprover(ctx, current.Chamber, requester) {
		return CloseOutcome{}, congress.ErrNotApprover
	}
	if !current.Round.Open || current.Round.Number != round {
		return CloseOutcome{}, congress.ErrRoundClosed
	}
	return e.closeRound(ctx, ref, congress.CloseByApprover, round)
}

// closeRound closes round. A round that is already closed, or was replaced by a
// newer one, yields ErrRoundClosed and changes nothing.
func (e *Engine) closeRound(ctx context.Context, ref string, reason congress.CloseReason, round int) (CloseOutcome, error) {
	var out CloseOutcome

	bill, err := e.store.Update(ctx, ref, func(b *congress.Bill) error {
		if !b.Round.Open || b.Round.Number != round {
			return congress.ErrRoundClosed
		}

		now := e.now()
		tally := congress.TallyRound(b.Round, b.Category)
		result := congress.RoundResult{
			Round:    b.Round.Number,
			Chamber:  b.Round.Chamber,
			Yea:      tally.Yea,
			Nay:      tally.Nay,
			Abstain:  tally.Abstain,
			Required: tally.Required,
			Passed:   tally.Passed,
			Reason:   reason,
			ClosedAt: now,
		}
		b.History = append(b.History, result)
		b.Round.Open = false
		b.Round.Deadline = time.Time{}

		if tally.Passed {
			b.Outcome = congress.OutcomePassed
			b.Color = congress.ColorPassed
		} else {
			b.Outcome = congress.OutcomeFailed
			b.Color = congress.ColorFailed
		}

		switch {
		case tally.Passed && b.BothChambers && !b.NextChamberPending:
			b.NextChamberPending = true
			b.Chamber = b.Chamber.Other()
			b.Color = congress.ColorPending
			e.openRound(b, now)
			out.HandedOff = true
		case tally.Passed && b.BothChambers && b.NextChamberPending:
			b.Stage = congress.StageEnacted
			out.Enacted = true
		default:
			b.Stage = congress.StageClosed
		}

		out.Result = result
		return nil
	})
	if err != nil {
		return CloseOutcome{}, err
	}
	out.Bill = bill

	e.timers.cancel(bill.Reference, out.Result.Round)
	log.Printf("workflow: %s round %d in %s closed by %s: yea=%d nay=%d abs=%d required=%d passed=%v",
		bill.Reference, out.Result.Round, out.Result.Chamber, reason,
		out.Result.Yea, out.Result.Nay, out.Result.Abstain, out.Result.Required, out.Result.Passed)

	e.notify(bill.Reference, "voting closed", func() error { return e.notifier.VotingClosed(ctx, bill, out.Result) })

	if out.HandedOff {
		e.arm(bill)
		e.notify(bill.Reference, "hand-off", func() error { return e.notifier.HandedOff(ctx, bill) })
		e.notify(bill.Reference, "voting opened", func() error { return e.notifier.VotingOpened(ctx, bill) })
	}
	if out.Enacted {
		log.Printf("workflow: %s enacted", bill.Reference)
		e.notify(bill.Reference, "enacted", func() error { return e.notifier.Enacted(ctx, bill) })
	}

	return out, nil
}

// Info lists the ballots of the bill's current round.
func (e *Engine) Info(ref string) (string, error) {
	bill, err := e.store.Find(ref)
	if err != nil {
		return "", err
	}
	return BallotListing(bill), nil
}

// BallotListing renders "<@voter>: choice" lines, or "No votes yet".
func BallotListing(bill congress.Bill) string {
	if len(bill.Round.Ballots) == 0 {
		return "No votes yet"
	}
	lines := make([]string, 0, len(bill.Round.Ballots))
	for _, b := range bill.Round.Ballots {
		lines = append(lines, fmt.Sprintf("<@%s>: %s", b.Voter, b.Choice))
	}
	return strings.Join(lines, "\n")
}

// SessionInfo summarizes the bills of the current session.
func (e *Engine) SessionInfo() SessionSummary {
	session := e.store.Session()
	summary := SessionSummary{
		Session:       session,
		NextReference: congress.FormatReference(congress.CategoryBill, e.store.NextNumber()),
	}
	for _, b := range e.store.List() {
		if b.Session != session {
			continue
		}
		summary.Submitted++
		switch b.Stage {
		case congress.StagePending:
			summary.Pending++
		case congress.StageVoting:
			summary.Voting++
		case congress.StageEnacted:
			summary.Enacted++
		case congress.StageClosed:
			if b.Outcome == congress.OutcomePassed {
				summary.Passed++
			} else {
				summary.Failed++
			}
		}
	}
	return summary
}

// AdvanceSession starts the next legislative session.
func (e *Engine) AdvanceSession(ctx context.Context) (int, error) {
	session, err := e.store.AdvanceSession(ctx)
	if err != nil {
		return 0, err
	}
	log.Printf("workflow: session %d started", session)
	return session, nil
}

// BillsByProposer lists bills submitted by voter.
func (e *Engine) BillsByProposer(voter string) []congress.Bill {
	return e.store.ListByProposer(voter)
}

// BillDetail returns a single bill.
func (e *Engine) BillDetail(ref string) (congress.Bill, error) {
	return e.store.Find(ref)
}

// Passed lists bills whose status starts with "Passed".
func (e *Engine) Passed() []congress.Bill {
	return e.store.ListByStatusPrefix("Passed")
}

// Failed lists bills whose status starts with "Failed".
func (e *Engine) Failed() []congress.Bill {
	return e.store.ListByStatusPrefix("Failed")
}

// Bills lists every bill.
func (e *Engine) Bills() []congress.Bill {
	return e.store.List()
}

func (e *Engine) openRound(b *congress.Bill, now time.Time) {
	b.Round = congress.Round{
		Number:   b.Round.Number + 1,
		Chamber:  b.Chamber,
		Open:     true,
		OpenedAt: now,
	}
	if e.cfg.VoteDuration > 0 {
		b.Round.Deadline = now.Add(e.cfg.VoteDuration)
	}
	b.Stage = congress.StageVoting
	b.VotingOpened = true
}

func (e *Engine) arm(bill congress.Bill) {
	if !bill.Round.Open || bill.Round.Deadline.IsZero() {
		return
	}
	ref, round := bill.Reference, bill.Round.Number
	e.timers.schedule(ref, round, bill.Round.Deadline, func() {
		e.mu.Lock()
		ctx := e.runCtx
		e.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := e.closeRound(ctx, ref, congress.CloseByTime, round); err != nil && !errors.Is(err, congress.ErrRoundClosed) {
			log.Printf("workflow: timed close of %s round %d failed: %v", ref, round, err)
		}
	})
}

func (e *Engine) isApprover(ctx context.Context, chamber congress.Chamber, userID string) bool {
	return e.auth != nil && e.auth.IsApprover(ctx, chamber, userID)
}

// notify runs a best-effort notification. The transition is already committed,
// so failures are only logged.
func (e *Engine) notify(ref, what string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("workflow: %s notification for %s failed: %v", what, ref, err)
	}
}
