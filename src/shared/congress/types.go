// Package congress holds the legislative domain: bills, chambers, ballots and
// the vote tally rules.
package congress

import (
	"fmt"
	"strings"
)

// Chamber is one of the two simulated legislative chambers.
type Chamber string

const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// Other returns the opposite chamber.
func (c Chamber) Other() Chamber {
	if c == ChamberSenate {
		return ChamberHouse
	}
	return ChamberSenate
}

// Valid reports whether c names a known chamber.
func (c Chamber) Valid() bool {
	return c == ChamberHouse || c == ChamberSenate
}

// ApproverTitle is the presiding role that reviews and closes votes in the chamber.
func (c Chamber) ApproverTitle() string {
	if c == ChamberSenate {
		return "Majority Leader"
	}
	return "Speaker"
}

// ParseChamber accepts "house"/"senate" in any case. Empty input defaults to the House.
func ParseChamber(raw string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "house":
		return ChamberHouse, nil
	case "senate":
		return ChamberSenate, nil
	default:
		return "", InvalidArgument(fmt.Sprintf("unknown chamber %q", raw))
	}
}

// Category is the kind of legislation being proposed.
type Category string

const (
	CategoryBill        Category = "Bill"
	CategoryResolution  Category = "Resolution"
	CategoryAmendment   Category = "Amendment"
	CategoryMotion      Category = "Motion"
	CategoryImpeachment Category = "Impeachment"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBill,
	CategoryResolution,
	CategoryAmendment,
	CategoryMotion,
	CategoryImpeachment,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Prefix is the reference number prefix used for the category.
func (c Category) Prefix() string {
	if c == CategoryImpeachment {
		return PrefixArticles
	}
	return PrefixHouse
}

// RequiresBothChambers reports whether enactment needs a pass in both chambers.
func (c Category) RequiresBothChambers() bool {
	switch c {
	case CategoryBill, CategoryAmendment, CategoryImpeachment:
		return true
	default:
		return false
	}
}

// ParseCategory accepts the category name or its slash command alias.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bill":
		return CategoryBill, nil
	case "res", "resolution":
		return CategoryResolution, nil
	case "amm", "amendment":
		return CategoryAmendment, nil
	case "motion":
		return CategoryMotion, nil
	case "impeach", "impeachment":
		return CategoryImpeachment, nil
	default:
		return "", InvalidArgument(fmt.Sprintf("unknown category %q", raw))
	}
}

// Choice is a ballot value.
type Choice string

const (
	ChoiceYea     Choice = "yea"
	ChoiceNay     Choice = "nay"
	ChoiceAbstain Choice = "abs"
)

// ParseChoice accepts yea/nay/abs and a few common spellings.
func ParseChoice(raw string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yea", "yes", "aye":
		return ChoiceYea, nil
	case "nay", "no":
		return ChoiceNay, nil
	case "abs", "abstain":
		return ChoiceAbstain, nil
	default:
		return "", InvalidArgument(fmt.Sprintf("unknown vote choice %q", raw))
	}
}

// Label is the button/listing label for the choice.
func (c Choice) Label() string {
	switch c {
	case ChoiceYea:
		return "Yea"
	case ChoiceNay:
		return "Nay"
	case ChoiceAbstain:
		return "Abs"
	default:
		return string(c)
	}
}

// Stage is the lifecycle position of a bill.
type Stage string

const (
	StagePending Stage = "pending"
	StageVoting  Stage = "voting"
	StageClosed  Stage = "closed"
	StageEnacted Stage = "enacted"
)

// Outcome is the result of the most recently closed round.
type Outcome string

const (
	OutcomeNone   Outcome = ""
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
)

// CloseReason records who ended a voting round.
type CloseReason string

const (
	CloseByTime     CloseReason = "time"
	CloseByApprover CloseReason = "approver"
)

// Footer is the annotation shown under an outcome announcement.
func (r CloseReason) Footer() string {
	if r == CloseByTime {
		return "Voting ended: Time expired"
	}
	return "Voting ended: Approver ended it"
}

// Embed colours.
const (
	ColorPending = 0xffff00
	ColorPassed  = 0x00ff00
	ColorFailed  = 0xff0000
)
