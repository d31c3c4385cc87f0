package data

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stake-plus/congressrp/src/shared/congress"
)

// StreamBillEvents is the Redis stream that carries bill transitions.
const StreamBillEvents = "congress.bills"

// Event kinds published to the stream.
const (
	EventSubmitted    = "submitted"
	EventVotingOpened = "voting_opened"
	EventVotingClosed = "voting_closed"
	EventHandedOff    = "handed_off"
	EventEnacted      = "enacted"
)

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// EventPublisher mirrors workflow transitions onto a Redis stream so other
// services can follow the legislature without talking to Discord.
type EventPublisher struct {
	rdb    streamAdder
	stream string
	maxLen int64
	now    func() time.Time
}

// NewEventPublisher publishes to StreamBillEvents, trimming it to roughly maxLen entries.
func NewEventPublisher(rdb streamAdder, maxLen int64) *EventPublisher {
	return &EventPublisher{
		rdb:    rdb,
		stream: StreamBillEvents,
		maxLen: maxLen,
		now:    time.Now,
	}
}

func (p *EventPublisher) Submitted(ctx context.Context, bill congress.Bill) error {
	return p.publish(ctx, EventSubmitted, bill, nil)
}

func (p *EventPublisher) VotingOpened(ctx context.Context, bill congress.Bill) error {
	return p.publish(ctx, EventVotingOpened, bill, map[string]interface{}{
		"round": bill.Round.Number,
	})
}

func (p *EventPublisher) VotingClosed(ctx context.Context, bill congress.Bill, result congress.RoundResult) error {
	return p.publish(ctx, EventVotingClosed, bill, map[string]interface{}{
		"round":         result.Round,
		"round_chamber": string(result.Chamber),
		"yea":           result.Yea,
		"nay":           result.Nay,
		"abs":           result.Abstain,
		"required":      result.Required,
		"passed":        result.Passed,
		"reason":        string(result.Reason),
	})
}

func (p *EventPublisher) HandedOff(ctx context.Context, bill congress.Bill) error {
	return p.publish(ctx, EventHandedOff, bill, nil)
}

func (p *EventPublisher) Enacted(ctx context.Context, bill congress.Bill) error {
	return p.publish(ctx, EventEnacted, bill, nil)
}

func (p *EventPublisher) publish(ctx context.Context, kind string, bill congress.Bill, extra map[string]interface{}) error {
	values := map[string]interface{}{
		"id":        uuid.NewString(),
		"event":     kind,
		"reference": bill.Reference,
		"category":  string(bill.Category),
		"chamber":   string(bill.Chamber),
		"stage":     string(bill.Stage),
		"outcome":   string(bill.Outcome),
		"status":    bill.Status(),
		"session":   bill.Session,
		"time":      p.now().UTC().Unix(),
	}
	for k, v := range extra {
		values[k] = v
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return p.rdb.XAdd(ctx, args).Err()
}
