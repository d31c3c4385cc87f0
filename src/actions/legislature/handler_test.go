package legislature

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/congressrp/src/data/bills"
	shareddiscord "github.com/stake-plus/congressrp/src/discord"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

type fakeResponder struct {
	responses []*discordgo.InteractionResponse
	edits     []string
	followups []string
}

func (f *fakeResponder) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) InteractionResponse(interaction *discordgo.Interaction, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "reply", ChannelID: interaction.ChannelID}, nil
}

func (f *fakeResponder) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, *newresp.Content)
	return &discordgo.Message{ID: "reply"}, nil
}

func (f *fakeResponder) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data.Content)
	return &discordgo.Message{ID: "followup"}, nil
}

// reply is the text the user ends up seeing: the edited deferred reply, or the
// immediate response.
func (f *fakeResponder) reply() string {
	if len(f.edits) > 0 {
		return f.edits[len(f.edits)-1]
	}
	if len(f.responses) == 0 || f.responses[len(f.responses)-1].Data == nil {
		return ""
	}
	return f.responses[len(f.responses)-1].Data.Content
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}}
}

func slashCommand(userID, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "chan",
		Member:    member(userID),
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func buttonPress(userID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "chan",
		Member:    member(userID),
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}

func newTestHandler(t *testing.T) (*Handler, congress.Bill) {
	t.Helper()
	store := bills.NewStore(bills.NewMemoryRepository(), bills.Options{})
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	guild := fakeGuild{
		"speaker": {"role-rep", "role-speaker"},
		"leader":  {"role-sen", "role-leader"},
		"rep":     {"role-rep"},
	}
	engine := workflow.New(store, nil, NewRoleAuthorizer(guild, "guild", testChambers), workflow.Config{})
	bill, err := engine.SubmitBill(context.Background(), workflow.SubmitBill{
		Category: congress.CategoryBill,
		Proposer: "rep",
		Title:    "Clean Water Act",
		Content:  "Be it enacted.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return &Handler{Engine: engine, GuildID: "guild"}, bill
}

func TestHandleSlashOpenVote(t *testing.T) {
	h, bill := newTestHandler(t)
	ctx := context.Background()

	s := &fakeResponder{}
	h.HandleSlash(ctx, s, slashCommand("rep", shareddiscord.CommandOpenVote, stringOption("bill", bill.Reference)))
	if got := s.reply(); got != "❌ Only the approver can do that." {
		t.Fatalf("expected approver rejection, got %q", got)
	}

	s = &fakeResponder{}
	h.HandleSlash(ctx, s, slashCommand("speaker", shareddiscord.CommandOpenVote, stringOption("bill", bill.Reference)))
	if len(s.responses) != 1 || s.responses[0].Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Fatalf("expected a deferred acknowledgement, got %+v", s.responses)
	}
	if got := s.reply(); !strings.HasPrefix(got, "Voting opened on H.R. 003") {
		t.Errorf("unexpected reply %q", got)
	}
	current, _ := h.Engine.BillDetail(bill.Reference)
	if !current.Round.Open || current.Round.Number != 1 {
		t.Errorf("expected round 1 open, got %+v", current.Round)
	}
}

func TestHandleComponentBallotRounds(t *testing.T) {
	h, bill := newTestHandler(t)
	ctx := context.Background()
	if _, err := h.Engine.OpenVoting(ctx, bill.Reference, "speaker"); err != nil {
		t.Fatalf("open: %v", err)
	}

	s := &fakeResponder{}
	h.HandleComponent(ctx, s, buttonPress("rep", CustomID(ActionYea, bill.Reference, 1)))
	if got := s.reply(); got != "Vote recorded." {
		t.Fatalf("expected ballot to be recorded, got %q", got)
	}

	s = &fakeResponder{}
	h.HandleComponent(ctx, s, buttonPress("speaker", CustomID(ActionEnd, bill.Reference, 1)))
	if got := s.reply(); !strings.HasPrefix(got, "Vote ended by approver.") {
		t.Fatalf("unexpected end reply %q", got)
	}
	current, _ := h.Engine.BillDetail(bill.Reference)
	if current.Chamber != congress.ChamberSenate || current.Round.Number != 2 {
		t.Fatalf("expected hand-off to the senate, got %s round %d", current.Chamber, current.Round.Number)
	}

	// House buttons still sit in the house channel after the hand-off.
	s = &fakeResponder{}
	h.HandleComponent(ctx, s, buttonPress("rep", CustomID(ActionNay, bill.Reference, 1)))
	if got := s.reply(); got != "❌ Voting is not open for this bill." {
		t.Errorf("expected stale ballot to be rejected, got %q", got)
	}
	current, _ = h.Engine.BillDetail(bill.Reference)
	if len(current.Round.Ballots) != 0 {
		t.Errorf("stale ballot leaked into the senate round: %+v", current.Round.Ballots)
	}

	s = &fakeResponder{}
	h.HandleComponent(ctx, s, buttonPress("speaker", CustomID(ActionEnd, bill.Reference, 1)))
	if got := s.reply(); got != "❌ Only the approver can do that." {
		t.Errorf("house speaker must not end the senate round, got %q", got)
	}
	s = &fakeResponder{}
	h.HandleComponent(ctx, s, buttonPress("leader", CustomID(ActionEnd, bill.Reference, 1)))
	if got := s.reply(); got != "❌ Voting is not open for this bill." {
		t.Errorf("stale End must not close the senate round, got %q", got)
	}
	current, _ = h.Engine.BillDetail(bill.Reference)
	if !current.Round.Open {
		t.Error("senate round should still be open")
	}
}

func TestHandleSlashEndVoteUsesCurrentRound(t *testing.T) {
	h, bill := newTestHandler(t)
	ctx := context.Background()
	if _, err := h.Engine.OpenVoting(ctx, bill.Reference, "speaker"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := h.Engine.CastBallot(ctx, bill.Reference, 1, "rep", congress.ChoiceYea); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if _, err := h.Engine.EndVoteByApprover(ctx, bill.Reference, 1, "speaker"); err != nil {
		t.Fatalf("end house round: %v", err)
	}

	s := &fakeResponder{}
	h.HandleSlash(ctx, s, slashCommand("leader", shareddiscord.CommandEndVote, stringOption("bill", bill.Reference)))
	if got := s.reply(); !strings.HasPrefix(got, "Vote ended by approver. H.R. 003") {
		t.Fatalf("unexpected reply %q", got)
	}
	current, _ := h.Engine.BillDetail(bill.Reference)
	if current.Round.Open || len(current.History) != 2 {
		t.Errorf("expected the senate round to be closed, got %+v", current)
	}

	s = &fakeResponder{}
	h.HandleSlash(ctx, s, slashCommand("leader", shareddiscord.CommandEndVote, stringOption("bill", "H.R. 999")))
	if got := s.reply(); got != "❌ Bill H.R. 999 not found." {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestHandleComponentIgnoresForeignButtons(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, id := range []string{"vote_yea", "other:yea:H.R. 003:1", "congress:yea:H.R. 003"} {
		s := &fakeResponder{}
		h.HandleComponent(context.Background(), s, buttonPress("rep", id))
		if len(s.responses) != 0 || len(s.edits) != 0 {
			t.Errorf("%q should be ignored, got %+v", id, s.responses)
		}
	}
}
