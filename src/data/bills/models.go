package bills

import (
	"time"

	"github.com/stake-plus/congressrp/src/shared/congress"
)

// BillRecord is the persisted form of a bill and its current round header.
type BillRecord struct {
	Reference          string   `gorm:"primaryKey;size:16"`
	Number             int      `gorm:"uniqueIndex;not null"`
	Title              string   `gorm:"size:255;not null"`
	Content            string   `gorm:"type:text;not null"`
	Proposer           string   `gorm:"size:64;index;not null"`
	Cosponsors         []string `gorm:"serializer:json;type:text"`
	Category           string   `gorm:"size:16;not null"`
	Origin             string   `gorm:"size:8;not null"`
	Chamber            string   `gorm:"size:8;not null"`
	Stage              string   `gorm:"size:16;index;not null"`
	Outcome            string   `gorm:"size:8"`
	Color              int
	MessageLink        string `gorm:"size:255"`
	BothChambers       bool
	NextChamberPending bool
	VotingOpened       bool
	Session            int    `gorm:"index"`
	Target             string `gorm:"size:128"`
	Designation        string `gorm:"size:128"`
	RoundNumber        int
	RoundChamber       string `gorm:"size:8"`
	RoundOpen          bool
	RoundOpenedAt      *time.Time
	RoundDeadline      *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime:false"`
}

func (BillRecord) TableName() string { return "bills" }

// BallotRecord is one ballot of a bill's current round.
type BallotRecord struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Reference string `gorm:"size:16;not null;uniqueIndex:idx_ballot_voter,priority:1"`
	Round     int    `gorm:"not null;uniqueIndex:idx_ballot_voter,priority:2"`
	Voter     string `gorm:"size:64;not null;uniqueIndex:idx_ballot_voter,priority:3"`
	Choice    string `gorm:"size:4;not null"`
	Position  int    `gorm:"not null"`
	CastAt    time.Time
}

func (BallotRecord) TableName() string { return "bill_ballots" }

// RoundRecord is the result of a closed round.
type RoundRecord struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Reference string `gorm:"size:16;not null;index"`
	Round     int    `gorm:"not null"`
	Chamber   string `gorm:"size:8;not null"`
	Yea       int
	Nay       int
	Abstain   int
	Required  int
	Passed    bool
	Reason    string `gorm:"size:16"`
	ClosedAt  time.Time
}

func (RoundRecord) TableName() string { return "bill_rounds" }

// StateRecord holds the reference counter and current session. There is one row.
type StateRecord struct {
	ID        uint8 `gorm:"primaryKey;autoIncrement:false"`
	Counter   int   `gorm:"not null"`
	Session   int   `gorm:"not null"`
	UpdatedAt time.Time
}

func (StateRecord) TableName() string { return "legislature_state" }

// Models lists the tables owned by this package, for migrations.
func Models() []interface{} {
	return []interface{}{&BillRecord{}, &BallotRecord{}, &RoundRecord{}, &StateRecord{}}
}

func toRecord(b *congress.Bill) BillRecord {
	rec := BillRecord{
		Reference:          b.Reference,
		Number:             b.Number,
		Title:              b.Title,
		Content:            b.Content,
		Proposer:           b.Proposer,
		Cosponsors:         append([]string{}, b.Cosponsors...),
		Category:           string(b.Category),
		Origin:             string(b.Origin),
		Chamber:            string(b.Chamber),
		Stage:              string(b.Stage),
		Outcome:            string(b.Outcome),
		Color:              b.Color,
		MessageLink:        b.MessageLink,
		BothChambers:       b.BothChambers,
		NextChamberPending: b.NextChamberPending,
		VotingOpened:       b.VotingOpened,
		Session:            b.Session,
		Target:             b.Target,
		Designation:        b.Designation,
		RoundNumber:        b.Round.Number,
		RoundChamber:       string(b.Round.Chamber),
		RoundOpen:          b.Round.Open,
		RoundOpenedAt:      timePtr(b.Round.OpenedAt),
		RoundDeadline:      timePtr(b.Round.Deadline),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	return rec
}

func fromRecord(rec BillRecord) congress.Bill {
	b := congress.Bill{
		Reference:          rec.Reference,
		Number:             rec.Number,
		Title:              rec.Title,
		Content:            rec.Content,
		Proposer:           rec.Proposer,
		Category:           congress.Category(rec.Category),
		Origin:             congress.Chamber(rec.Origin),
		Chamber:            congress.Chamber(rec.Chamber),
		Stage:              congress.Stage(rec.Stage),
		Outcome:            congress.Outcome(rec.Outcome),
		Color:              rec.Color,
		MessageLink:        rec.MessageLink,
		BothChambers:       rec.BothChambers,
		NextChamberPending: rec.NextChamberPending,
		VotingOpened:       rec.VotingOpened,
		Session:            rec.Session,
		Target:             rec.Target,
		Designation:        rec.Designation,
		Round: congress.Round{
			Number:  rec.RoundNumber,
			Chamber: congress.Chamber(rec.RoundChamber),
			Open:    rec.RoundOpen,
		},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if len(rec.Cosponsors) > 0 {
		b.Cosponsors = append([]string(nil), rec.Cosponsors...)
	}
	if rec.RoundOpenedAt != nil {
		b.Round.OpenedAt = *rec.RoundOpenedAt
	}
	if rec.RoundDeadline != nil {
		b.Round.Deadline = *rec.RoundDeadline
	}
	return b
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
