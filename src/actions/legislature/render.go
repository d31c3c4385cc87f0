package legislature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	shareddiscord "github.com/stake-plus/congressrp/src/discord"
	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

const helpColor = 0x00ffff

// BillEmbed renders the bill summary shown on every post about it.
func BillEmbed(bill congress.Bill) *discordgo.MessageEmbed {
	cosponsors := "None"
	if len(bill.Cosponsors) > 0 {
		cosponsors = strings.Join(mentions(bill.Cosponsors), ", ")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Number", Value: bill.Reference, Inline: true},
		{Name: "Session", Value: fmt.Sprintf("%d", bill.Session), Inline: true},
		{Name: "Proposed By", Value: mention(bill.Proposer)},
		{Name: "Co-Sponsors", Value: shareddiscord.Truncate(cosponsors, shareddiscord.MaxEmbedFieldLen)},
		{Name: "Status", Value: bill.Status()},
		{Name: "Chamber", Value: string(bill.Chamber)},
	}
	if bill.Category == congress.CategoryImpeachment {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Target",
			Value: fmt.Sprintf("%s (%s)", bill.Target, bill.Designation),
		})
	}
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "Content", Value: shareddiscord.Truncate(bill.Content, shareddiscord.MaxEmbedFieldLen)},
		&discordgo.MessageEmbedField{Name: "Original Message", Value: shareddiscord.JumpLink(bill.MessageLink)},
	)

	color := bill.Color
	if color == 0 {
		color = 0xffffff
	}
	return &discordgo.MessageEmbed{
		Title:  bill.DisplayTitle(),
		Fields: fields,
		Color:  color,
	}
}

// ResultEmbed is BillEmbed with the tally and closing reason of a round.
func ResultEmbed(bill congress.Bill, result congress.RoundResult) *discordgo.MessageEmbed {
	embed := BillEmbed(bill)
	verdict := "Failed"
	color := congress.ColorFailed
	if result.Passed {
		verdict = "Passed"
		color = congress.ColorPassed
	}
	tally := fmt.Sprintf("Yea %d · Nay %d · Abs %d (needed %d)",
		result.Yea, result.Nay, result.Abstain, result.Required)

	embed.Color = color
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  fmt.Sprintf("%s %s", verdict, result.Chamber),
		Value: tally,
	})
	embed.Footer = &discordgo.MessageEmbedFooter{Text: result.Reason.Footer()}
	return embed
}

// HelpEmbed lists the commands.
func HelpEmbed() *discordgo.MessageEmbed {
	lines := []string{
		"/bill [name/content] - Propose a bill (both chambers)",
		"/res [name/content] - Resolution (one chamber)",
		"/amm [name/content] - Amendment (both chambers, two thirds)",
		"/motion [name/content] - Simple motion (one chamber)",
		"/impeach [person/designation/content] - Articles of Impeachment (House, Representatives only)",
		"/cosponsor [bill number] - Add yourself as cosponsor",
		"/openvote [bill number] - Approver opens voting",
		"/endvote [bill number] - Approver ends vote early",
		"/sessioninfo - Show current session info",
		"/mybills - Show bills you proposed",
		"/billinfo [bill number] - Detailed bill info",
		"/passed - View passed bills",
		"/failed - View failed bills",
	}
	return &discordgo.MessageEmbed{
		Title:       "Congress RP Bot Commands",
		Description: strings.Join(lines, "\n"),
		Color:       helpColor,
	}
}

// SessionText renders a session summary.
func SessionText(s workflow.SessionSummary) string {
	return fmt.Sprintf("**Session %d**\nSubmitted: %d\nPending review: %d\nVoting: %d\nPassed: %d\nFailed: %d\nEnacted: %d\nNext number: %s",
		s.Session, s.Submitted, s.Pending, s.Voting, s.Passed, s.Failed, s.Enacted, s.NextReference)
}

// BillLine is the one-line listing form of a bill.
func BillLine(bill congress.Bill) string {
	return fmt.Sprintf("**%s** %s (%s) - %s", bill.Reference, bill.Title, bill.Category, bill.Status())
}

// BillLines lists bills one per line.
func BillLines(bills []congress.Bill) []string {
	lines := make([]string, 0, len(bills))
	for _, b := range bills {
		lines = append(lines, BillLine(b))
	}
	return lines
}

// SubmissionText is the approver thread notice for a new submission.
func SubmissionText(bill congress.Bill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📢 New %s - **%s**\n", bill.Category, bill.Reference)
	if bill.Category == congress.CategoryImpeachment {
		fmt.Fprintf(&b, "Target: %s (%s)\n", bill.Target, bill.Designation)
	}
	fmt.Fprintf(&b, "Submitted by %s\nSession: %d\nContent:\n%s", mention(bill.Proposer), bill.Session, shareddiscord.WrapURLsNoEmbed(bill.Content))
	return shareddiscord.Truncate(b.String(), shareddiscord.SafeChunkLen)
}

// ErrorText turns an error into the short reply shown to the user.
func ErrorText(err error) string {
	var domainErr *congress.Error
	if errors.As(err, &domainErr) {
		return "❌ " + domainErr.Message
	}
	return "❌ Something went wrong. Please try again later."
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func roleMention(roleID string) string {
	return fmt.Sprintf("<@&%s>", roleID)
}

func mentions(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, mention(id))
	}
	return out
}
