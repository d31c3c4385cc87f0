package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stake-plus/congressrp/src/shared/congress"
)

type fakeStream struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	return redis.NewStringResult("1-0", f.err)
}

func TestEventPublisherVotingClosed(t *testing.T) {
	stream := &fakeStream{}
	pub := NewEventPublisher(stream, 1000)
	pub.now = func() time.Time { return time.Unix(1700000000, 0) }

	bill := congress.Bill{
		Reference: "H.R. 004",
		Category:  congress.CategoryBill,
		Chamber:   congress.ChamberSenate,
		Stage:     congress.StageVoting,
		History:   []congress.RoundResult{{Chamber: congress.ChamberHouse, Passed: true}},
	}
	result := congress.RoundResult{Round: 1, Chamber: congress.ChamberHouse, Yea: 3, Nay: 1, Required: 3, Passed: true, Reason: congress.CloseByApprover}

	if err := pub.VotingClosed(context.Background(), bill, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stream.calls) != 1 {
		t.Fatalf("expected 1 XADD, got %d", len(stream.calls))
	}

	args := stream.calls[0]
	if args.Stream != StreamBillEvents {
		t.Errorf("expected stream %q, got %q", StreamBillEvents, args.Stream)
	}
	if !args.Approx || args.MaxLen != 1000 {
		t.Errorf("expected approximate trimming to 1000, got %v/%d", args.Approx, args.MaxLen)
	}

	values := args.Values.(map[string]interface{})
	if values["event"] != EventVotingClosed {
		t.Errorf("expected event %q, got %v", EventVotingClosed, values["event"])
	}
	if values["reference"] != "H.R. 004" {
		t.Errorf("unexpected reference %v", values["reference"])
	}
	if values["round_chamber"] != "House" || values["passed"] != true {
		t.Errorf("unexpected round fields: %v", values)
	}
	if values["status"] != "Passed House, voting in Senate" {
		t.Errorf("unexpected status %v", values["status"])
	}
	if id, _ := values["id"].(string); id == "" {
		t.Error("expected event id")
	}
}

func TestEventPublisherPropagatesErrors(t *testing.T) {
	want := errors.New("down")
	pub := NewEventPublisher(&fakeStream{err: want}, 0)

	err := pub.Enacted(context.Background(), congress.Bill{Reference: "ART. 005"})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
