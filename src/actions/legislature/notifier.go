package legislature

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/logging"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

// Sender is the part of *discordgo.Session the notifier posts through.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ workflow.Notifier = (*Notifier)(nil)

// Notifier posts workflow transitions to the chamber channels and threads.
type Notifier struct {
	sender   Sender
	chambers config.Chambers
}

// NewNotifier creates a notifier for the given chamber layout.
func NewNotifier(sender Sender, chambers config.Chambers) *Notifier {
	return &Notifier{sender: sender, chambers: chambers}
}

// Submitted posts the submission to the approver thread with the review controls.
func (n *Notifier) Submitted(ctx context.Context, bill congress.Bill) error {
	return n.send(ctx, n.chambers.ApproverThread(bill.Chamber), &discordgo.MessageSend{
		Content:    SubmissionText(bill),
		Embeds:     []*discordgo.MessageEmbed{BillEmbed(bill)},
		Components: ReviewButtons(bill.Reference),
	})
}

// VotingOpened prompts the chamber to vote. The approver thread gets the End
// control, except on a hand-off round where HandedOff already posted it.
func (n *Notifier) VotingOpened(ctx context.Context, bill congress.Bill) error {
	chamber := bill.Chamber
	prompt := fmt.Sprintf("🗳️ Voting is open on **%s** in the %s. %s please call the vote.",
		bill.Reference, chamber, roleMention(n.chambers.ApproverRole(chamber)))

	err := n.send(ctx, n.chambers.VotingChannel(chamber), &discordgo.MessageSend{
		Content:    prompt,
		Embeds:     []*discordgo.MessageEmbed{BillEmbed(bill)},
		Components: BallotButtons(bill.Reference, bill.Round.Number, false),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Roles: []string{n.chambers.ApproverRole(chamber)},
		},
	})
	if err != nil {
		return err
	}

	if bill.NextChamberPending && bill.Round.Number > 1 {
		return nil
	}
	return n.send(ctx, n.chambers.ApproverThread(chamber), &discordgo.MessageSend{
		Content:    fmt.Sprintf("Voting opened on **%s**. Use End to close the round early.", bill.Reference),
		Components: ApproverButtons(bill.Reference, bill.Round.Number),
	})
}

// VotingClosed posts the result to the voting channel of the chamber that held
// the round, and to its passed channel when the bill carried.
func (n *Notifier) VotingClosed(ctx context.Context, bill congress.Bill, result congress.RoundResult) error {
	err := n.send(ctx, n.chambers.VotingChannel(result.Chamber), &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{ResultEmbed(bill, result)},
	})
	if err != nil || !result.Passed {
		return err
	}
	return n.send(ctx, n.chambers.PassedChannel(result.Chamber), &discordgo.MessageSend{
		Content: fmt.Sprintf("✅ **%s** %s passed the %s.", bill.Reference, bill.Title, result.Chamber),
		Embeds:  []*discordgo.MessageEmbed{ResultEmbed(bill, result)},
	})
}

// HandedOff tells the second chamber's approver the bill awaits their vote.
func (n *Notifier) HandedOff(ctx context.Context, bill congress.Bill) error {
	embed := BillEmbed(bill)
	embed.Color = congress.ColorPending
	return n.send(ctx, n.chambers.ApproverThread(bill.Chamber), &discordgo.MessageSend{
		Content:    fmt.Sprintf("📢 Passed in %s, awaiting your vote", bill.Chamber.Other()),
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: BallotButtons(bill.Reference, bill.Round.Number, true),
	})
}

// Enacted announces the law to the passed-laws channel, tagging the president.
func (n *Notifier) Enacted(ctx context.Context, bill congress.Bill) error {
	channel := n.chambers.Channels.PassedLaws
	if channel == "" {
		log.Printf("legislature: no passed-laws channel configured, %s enactment not announced", bill.Reference)
		return nil
	}
	president := n.chambers.Roles.President
	content := fmt.Sprintf("📜 %s has passed both chambers ✅", bill.Title)
	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{BillEmbed(bill)},
	}
	if president != "" {
		content += " " + roleMention(president)
		msg.AllowedMentions = &discordgo.MessageAllowedMentions{Roles: []string{president}}
	}
	msg.Content = content
	return n.send(ctx, channel, msg)
}

func (n *Notifier) send(ctx context.Context, channelID string, msg *discordgo.MessageSend) error {
	if channelID == "" {
		return fmt.Errorf("legislature: no channel configured")
	}
	if _, err := n.sender.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx)); err != nil {
		if logging.IsRateLimit(err) {
			log.Printf("legislature: rate limited posting to %s", channelID)
		} else if logging.IsMissingAccess(err) {
			log.Printf("legislature: cannot post to %s, check channel ids and bot permissions", channelID)
		}
		return fmt.Errorf("legislature: post to %s: %w", channelID, err)
	}
	return nil
}
