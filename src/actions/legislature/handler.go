package legislature

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	shareddiscord "github.com/stake-plus/congressrp/src/discord"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

// Responder is the part of the Discord session that answers interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponse(interaction *discordgo.Interaction, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Handler executes legislature slash commands and button presses.
type Handler struct {
	Engine  *workflow.Engine
	GuildID string
}

var commandCategories = map[string]congress.Category{
	shareddiscord.CommandBill:       congress.CategoryBill,
	shareddiscord.CommandResolution: congress.CategoryResolution,
	shareddiscord.CommandAmendment:  congress.CategoryAmendment,
	shareddiscord.CommandMotion:     congress.CategoryMotion,
}

// HandleSlash dispatches an application command.
func (h *Handler) HandleSlash(ctx context.Context, s Responder, i *discordgo.InteractionCreate) {
	if h == nil || h.Engine == nil {
		return
	}
	data := i.ApplicationCommandData()
	userID := interactionUserID(i)
	if userID == "" {
		log.Printf("legislature: interaction missing user context")
		return
	}

	if category, ok := commandCategories[data.Name]; ok {
		h.handleSubmit(ctx, s, i, category, userID)
		return
	}

	switch data.Name {
	case shareddiscord.CommandHelp:
		respondEmbed(s, i, HelpEmbed(), false)
	case shareddiscord.CommandImpeach:
		h.handleImpeach(ctx, s, i, userID)
	case shareddiscord.CommandCosponsor:
		ref := optionString(data.Options, "bill")
		bill, err := h.Engine.AddCosponsor(ctx, ref, userID)
		if err != nil {
			respond(s, i, ErrorText(err), true)
			return
		}
		respond(s, i, fmt.Sprintf("✅ You are now a co-sponsor of %s.", bill.Reference), true)
	case shareddiscord.CommandOpenVote:
		h.openVote(ctx, s, i, optionString(data.Options, "bill"), userID)
	case shareddiscord.CommandEndVote:
		ref := optionString(data.Options, "bill")
		bill, err := h.Engine.BillDetail(ref)
		if err != nil {
			respond(s, i, ErrorText(err), true)
			return
		}
		round := bill.Round.Number
		if round < 1 {
			round = 1
		}
		h.endVote(ctx, s, i, bill.Reference, round, userID)
	case shareddiscord.CommandSessionInfo:
		respond(s, i, SessionText(h.Engine.SessionInfo()), false)
	case shareddiscord.CommandMyBills:
		respondList(s, i, "**Your bills**", BillLines(h.Engine.BillsByProposer(userID)), "You have not proposed any bills.", true)
	case shareddiscord.CommandBillInfo:
		bill, err := h.Engine.BillDetail(optionString(data.Options, "bill"))
		if err != nil {
			respond(s, i, ErrorText(err), true)
			return
		}
		embed := BillEmbed(bill)
		if bill.Round.Open {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("Round %d ballots", bill.Round.Number),
				Value: shareddiscord.Truncate(workflow.BallotListing(bill), shareddiscord.MaxEmbedFieldLen),
			})
		}
		respondEmbed(s, i, embed, false)
	case shareddiscord.CommandPassed:
		respondList(s, i, "**Passed bills**", BillLines(h.Engine.Passed()), "No bills have passed yet.", false)
	case shareddiscord.CommandFailed:
		respondList(s, i, "**Failed bills**", BillLines(h.Engine.Failed()), "No bills have failed yet.", false)
	}
}

// HandleComponent dispatches a button press. Buttons from other bots are ignored.
func (h *Handler) HandleComponent(ctx context.Context, s Responder, i *discordgo.InteractionCreate) {
	if h == nil || h.Engine == nil {
		return
	}
	action, ref, round, err := ParseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		return
	}
	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	if choice, ok := choiceForAction(action); ok {
		if _, err := h.Engine.CastBallot(ctx, ref, round, userID, choice); err != nil {
			respond(s, i, ErrorText(err), true)
			return
		}
		respond(s, i, "Vote recorded.", true)
		return
	}

	switch action {
	case ActionInfo:
		info, err := h.Engine.Info(ref)
		if err != nil {
			respond(s, i, ErrorText(err), true)
			return
		}
		respond(s, i, shareddiscord.Truncate(info, shareddiscord.SafeChunkLen), true)
	case ActionOpen:
		h.openVote(ctx, s, i, ref, userID)
	case ActionEnd:
		h.endVote(ctx, s, i, ref, round, userID)
	}
}

func (h *Handler) handleSubmit(ctx context.Context, s Responder, i *discordgo.InteractionCreate, category congress.Category, userID string) {
	opts := i.ApplicationCommandData().Options
	chamber, err := congress.ParseChamber(optionString(opts, "chamber"))
	if err != nil {
		respond(s, i, ErrorText(err), true)
		return
	}
	if !deferReply(s, i, false) {
		return
	}

	bill, err := h.Engine.SubmitBill(ctx, workflow.SubmitBill{
		Category:    category,
		Chamber:     chamber,
		Proposer:    userID,
		Title:       optionString(opts, "name"),
		Content:     optionString(opts, "content"),
		MessageLink: h.responseLink(s, i),
	})
	if err != nil {
		editReply(s, i, ErrorText(err))
		return
	}
	editReply(s, i, fmt.Sprintf("✅ Your %s **%s** has been submitted as **%s**.", bill.Category, bill.Title, bill.Reference))
}

func (h *Handler) handleImpeach(ctx context.Context, s Responder, i *discordgo.InteractionCreate, userID string) {
	opts := i.ApplicationCommandData().Options
	if !deferReply(s, i, false) {
		return
	}

	bill, err := h.Engine.SubmitImpeachment(ctx, workflow.SubmitImpeachment{
		Proposer:    userID,
		Target:      optionString(opts, "person"),
		Designation: optionString(opts, "designation"),
		Content:     optionString(opts, "content"),
		MessageLink: h.responseLink(s, i),
	})
	if err != nil {
		if errors.Is(err, congress.ErrNotMember) {
			editReply(s, i, "❌ Only Representatives can submit Articles of Impeachment.")
			return
		}
		editReply(s, i, ErrorText(err))
		return
	}
	editReply(s, i, fmt.Sprintf("✅ Articles of Impeachment **%s** submitted.", bill.Reference))
}

func (h *Handler) openVote(ctx context.Context, s Responder, i *discordgo.InteractionCreate, ref, userID string) {
	if !deferReply(s, i, true) {
		return
	}
	bill, err := h.Engine.OpenVoting(ctx, ref, userID)
	if err != nil {
		editReply(s, i, ErrorText(err))
		return
	}
	editReply(s, i, fmt.Sprintf("Voting opened on %s in the %s.", bill.Reference, bill.Chamber))
}

func (h *Handler) endVote(ctx context.Context, s Responder, i *discordgo.InteractionCreate, ref string, round int, userID string) {
	if !deferReply(s, i, true) {
		return
	}
	out, err := h.Engine.EndVoteByApprover(ctx, ref, round, userID)
	if err != nil {
		editReply(s, i, ErrorText(err))
		return
	}
	editReply(s, i, fmt.Sprintf("Vote ended by approver. %s: %s.", out.Bill.Reference, out.Bill.Status()))
}

// responseLink is the link to the deferred reply, which stands in for the
// submission's original message.
func (h *Handler) responseLink(s Responder, i *discordgo.InteractionCreate) string {
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil || msg == nil {
		return ""
	}
	return shareddiscord.MessageLink(h.GuildID, i.ChannelID, msg.ID)
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func optionString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}

func responseFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func respond(s Responder, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   responseFlags(ephemeral),
		},
	})
	if err != nil {
		log.Printf("legislature: failed to respond to interaction: %v", err)
	}
}

func respondEmbed(s Responder, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  responseFlags(ephemeral),
		},
	})
	if err != nil {
		log.Printf("legislature: failed to respond to interaction: %v", err)
	}
}

// respondList sends the first chunk as the reply and the rest as follow-ups.
func respondList(s Responder, i *discordgo.InteractionCreate, header string, lines []string, empty string, ephemeral bool) {
	if len(lines) == 0 {
		respond(s, i, empty, ephemeral)
		return
	}
	chunks := shareddiscord.BuildListMessages(header, lines)
	respond(s, i, chunks[0], ephemeral)
	for _, chunk := range chunks[1:] {
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: chunk,
			Flags:   responseFlags(ephemeral),
		})
		if err != nil {
			log.Printf("legislature: failed to send follow-up: %v", err)
			return
		}
	}
}

func deferReply(s Responder, i *discordgo.InteractionCreate, ephemeral bool) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: responseFlags(ephemeral)},
	})
	if err != nil {
		log.Printf("legislature: failed to acknowledge interaction: %v", err)
		return false
	}
	return true
}

func editReply(s Responder, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Printf("legislature: failed to edit interaction reply: %v", err)
	}
}
