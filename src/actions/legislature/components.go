package legislature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/congressrp/src/shared/congress"
)

const customIDPrefix = "congress"

// Button actions carried in component custom ids.
const (
	ActionOpen = "open"
	ActionYea  = "yea"
	ActionNay  = "nay"
	ActionAbs  = "abs"
	ActionInfo = "info"
	ActionEnd  = "end"
)

// CustomID encodes an action, the bill and the voting round it belongs to, e.g.
// "congress:yea:H.R. 004:1". Pending bills have no round yet and use 0.
func CustomID(action, ref string, round int) string {
	return fmt.Sprintf("%s:%s:%s:%d", customIDPrefix, action, ref, round)
}

// ParseCustomID splits a custom id produced by CustomID. The reference is returned
// in canonical form.
func ParseCustomID(id string) (action, ref string, round int, err error) {
	parts := strings.SplitN(id, ":", 4)
	if len(parts) != 4 || parts[0] != customIDPrefix {
		return "", "", 0, fmt.Errorf("legislature: foreign custom id %q", id)
	}
	switch parts[1] {
	case ActionOpen, ActionYea, ActionNay, ActionAbs, ActionInfo, ActionEnd:
	default:
		return "", "", 0, fmt.Errorf("legislature: unknown action %q", parts[1])
	}
	ref, err = congress.ParseReference(parts[2])
	if err != nil {
		return "", "", 0, err
	}
	round, err = strconv.Atoi(parts[3])
	if err != nil || round < 0 {
		return "", "", 0, fmt.Errorf("legislature: bad round in custom id %q", id)
	}
	return parts[1], ref, round, nil
}

func button(label string, style discordgo.ButtonStyle, action, ref string, round int) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: CustomID(action, ref, round),
	}
}

// BallotButtons is the Yea/Nay/Abs/Info row for round, with End appended for approver posts.
func BallotButtons(ref string, round int, withEnd bool) []discordgo.MessageComponent {
	row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		button(congress.ChoiceYea.Label(), discordgo.SuccessButton, ActionYea, ref, round),
		button(congress.ChoiceNay.Label(), discordgo.DangerButton, ActionNay, ref, round),
		button(congress.ChoiceAbstain.Label(), discordgo.SecondaryButton, ActionAbs, ref, round),
		button("Info", discordgo.PrimaryButton, ActionInfo, ref, round),
	}}
	if withEnd {
		row.Components = append(row.Components, button("End", discordgo.SecondaryButton, ActionEnd, ref, round))
	}
	return []discordgo.MessageComponent{row}
}

// ReviewButtons is the approver's control row on a new submission.
func ReviewButtons(ref string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		button("Open vote", discordgo.SuccessButton, ActionOpen, ref, 0),
		button("Info", discordgo.PrimaryButton, ActionInfo, ref, 0),
	}}}
}

// ApproverButtons is the approver's control row while round is open.
func ApproverButtons(ref string, round int) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		button("Info", discordgo.PrimaryButton, ActionInfo, ref, round),
		button("End", discordgo.SecondaryButton, ActionEnd, ref, round),
	}}}
}

func choiceForAction(action string) (congress.Choice, bool) {
	switch action {
	case ActionYea:
		return congress.ChoiceYea, true
	case ActionNay:
		return congress.ChoiceNay, true
	case ActionAbs:
		return congress.ChoiceAbstain, true
	default:
		return "", false
	}
}
