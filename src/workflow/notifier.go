package workflow

import (
	"context"
	"errors"

	"github.com/stake-plus/congressrp/src/shared/congress"
)

// Notifier delivers workflow transitions to the outside world. Every call gets a
// snapshot taken when the transition committed; implementations must not assume
// it is still current.
type Notifier interface {
	// Submitted announces a new bill to its chamber's approver.
	Submitted(ctx context.Context, bill congress.Bill) error
	// VotingOpened prompts the bill's current chamber to vote.
	VotingOpened(ctx context.Context, bill congress.Bill) error
	// VotingClosed announces the result of a round in the chamber that held it.
	VotingClosed(ctx context.Context, bill congress.Bill, result congress.RoundResult) error
	// HandedOff tells the second chamber's approver that the bill awaits their vote.
	HandedOff(ctx context.Context, bill congress.Bill) error
	// Enacted announces a bill that passed both chambers.
	Enacted(ctx context.Context, bill congress.Bill) error
}

// Notifiers fans every call out to each notifier, continuing past failures.
type Notifiers []Notifier

func (ns Notifiers) Submitted(ctx context.Context, bill congress.Bill) error {
	return ns.each(func(n Notifier) error { return n.Submitted(ctx, bill) })
}

func (ns Notifiers) VotingOpened(ctx context.Context, bill congress.Bill) error {
	return ns.each(func(n Notifier) error { return n.VotingOpened(ctx, bill) })
}

func (ns Notifiers) VotingClosed(ctx context.Context, bill congress.Bill, result congress.RoundResult) error {
	return ns.each(func(n Notifier) error { return n.VotingClosed(ctx, bill, result) })
}

func (ns Notifiers) HandedOff(ctx context.Context, bill congress.Bill) error {
	return ns.each(func(n Notifier) error { return n.HandedOff(ctx, bill) })
}

func (ns Notifiers) Enacted(ctx context.Context, bill congress.Bill) error {
	return ns.each(func(n Notifier) error { return n.Enacted(ctx, bill) })
}

func (ns Notifiers) each(fn func(Notifier) error) error {
	var errs []error
	for _, n := range ns {
		if n == nil {
			continue
		}
		if err := fn(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Authorizer answers role questions about chat users.
type Authorizer interface {
	// IsApprover reports whether userID presides over chamber (Speaker / Majority Leader).
	IsApprover(ctx context.Context, chamber congress.Chamber, userID string) bool
	// IsMember reports whether userID holds the chamber's member role.
	IsMember(ctx context.Context, chamber congress.Chamber, userID string) bool
}

// EligibilityFunc decides whether voter may cast a ballot on bill.
type EligibilityFunc func(ctx context.Context, bill congress.Bill, voter string) error

// MembersOnly limits ballots to members of the bill's current chamber.
func MembersOnly(auth Authorizer) EligibilityFunc {
	return func(ctx context.Context, bill congress.Bill, voter string) error {
		if auth == nil || auth.IsMember(ctx, bill.Chamber, voter) {
			return nil
		}
		return congress.ErrNotEligible
	}
}
