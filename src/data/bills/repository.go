package bills

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stake-plus/congressrp/src/shared/congress"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// State is the legislature-wide counter state.
type State struct {
	// Counter is the number the next submitted bill receives.
	Counter int
	Session int
}

// Snapshot is everything a Store needs to resume after a restart.
type Snapshot struct {
	Bills    []congress.Bill
	State    State
	HasState bool
}

// Repository persists bills and counters.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	// Save writes bill (when non-nil) and state (when non-nil) in one transaction.
	Save(ctx context.Context, bill *congress.Bill, state *State) error
}

// GormRepository stores bills through gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository on db. Run data.Migrate with Models() first.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	db := r.db.WithContext(ctx)

	var state StateRecord
	err := db.First(&state, 1).Error
	switch {
	case err == nil:
		snap.State = State{Counter: state.Counter, Session: state.Session}
		snap.HasState = true
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return Snapshot{}, fmt.Errorf("bills: load state: %w", err)
	}

	var records []BillRecord
	if err := db.Order("number ASC").Find(&records).Error; err != nil {
		return Snapshot{}, fmt.Errorf("bills: load bills: %w", err)
	}

	var ballots []BallotRecord
	if err := db.Order("reference ASC, round ASC, position ASC").Find(&ballots).Error; err != nil {
		return Snapshot{}, fmt.Errorf("bills: load ballots: %w", err)
	}
	ballotsByRef := make(map[string][]BallotRecord)
	for _, b := range ballots {
		ballotsByRef[b.Reference] = append(ballotsByRef[b.Reference], b)
	}

	var rounds []RoundRecord
	if err := db.Order("reference ASC, round ASC").Find(&rounds).Error; err != nil {
		return Snapshot{}, fmt.Errorf("bills: load rounds: %w", err)
	}
	roundsByRef := make(map[string][]RoundRecord)
	for _, rr := range rounds {
		roundsByRef[rr.Reference] = append(roundsByRef[rr.Reference], rr)
	}

	snap.Bills = make([]congress.Bill, 0, len(records))
	for _, rec := range records {
		bill := fromRecord(rec)
		for _, b := range ballotsByRef[rec.Reference] {
			if b.Round != bill.Round.Number {
				continue
			}
			bill.Round.Ballots = append(bill.Round.Ballots, congress.Ballot{
				Voter:  b.Voter,
				Choice: congress.Choice(b.Choice),
				CastAt: b.CastAt,
			})
		}
		for _, rr := range roundsByRef[rec.Reference] {
			bill.History = append(bill.History, congress.RoundResult{
				Round:    rr.Round,
				Chamber:  congress.Chamber(rr.Chamber),
				Yea:      rr.Yea,
				Nay:      rr.Nay,
				Abstain:  rr.Abstain,
				Required: rr.Required,
				Passed:   rr.Passed,
				Reason:   congress.CloseReason(rr.Reason),
				ClosedAt: rr.ClosedAt,
			})
		}
		snap.Bills = append(snap.Bills, bill)
	}

	return snap, nil
}

func (r *GormRepository) Save(ctx context.Context, bill *congress.Bill, state *State) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if bill != nil {
			if err := saveBill(tx, bill); err != nil {
				return err
			}
		}
		if state != nil {
			rec := StateRecord{ID: 1, Counter: state.Counter, Session: state.Session, UpdatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"counter", "session", "updated_at"}),
			}).Create(&rec).Error; err != nil {
				return fmt.Errorf("bills: save state: %w", err)
			}
		}
		return nil
	})
}

func saveBill(tx *gorm.DB, bill *congress.Bill) error {
	rec := toRecord(bill)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		UpdateAll: true,
	}).Create(&rec).Error; err != nil {
		return fmt.Errorf("bills: save %s: %w", bill.Reference, err)
	}

	if err := tx.Where("reference = ?", bill.Reference).Delete(&BallotRecord{}).Error; err != nil {
		return fmt.Errorf("bills: clear ballots %s: %w", bill.Reference, err)
	}
	if len(bill.Round.Ballots) > 0 {
		rows := make([]BallotRecord, 0, len(bill.Round.Ballots))
		for i, b := range bill.Round.Ballots {
			rows = append(rows, BallotRecord{
				Reference: bill.Reference,
				Round:     bill.Round.Number,
				Voter:     b.Voter,
				Choice:    string(b.Choice),
				Position:  i,
				CastAt:    b.CastAt,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("bills: save ballots %s: %w", bill.Reference, err)
		}
	}

	if err := tx.Where("reference = ?", bill.Reference).Delete(&RoundRecord{}).Error; err != nil {
		return fmt.Errorf("bills: clear rounds %s: %w", bill.Reference, err)
	}
	if len(bill.History) > 0 {
		rows := make([]RoundRecord, 0, len(bill.History))
		for _, h := range bill.History {
			rows = append(rows, RoundRecord{
				Reference: bill.Reference,
				Round:     h.Round,
				Chamber:   string(h.Chamber),
				Yea:       h.Yea,
				Nay:       h.Nay,
				Abstain:   h.Abstain,
				Required:  h.Required,
				Passed:    h.Passed,
				Reason:    string(h.Reason),
				ClosedAt:  h.ClosedAt,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("bills: save rounds %s: %w", bill.Reference, err)
		}
	}
	return nil
}

// MemoryRepository keeps everything in process memory. State is lost on exit.
type MemoryRepository struct {
	mu       sync.Mutex
	bills    map[string]congress.Bill
	order    []string
	state    State
	hasState bool
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bills: make(map[string]congress.Bill)}
}

func (m *MemoryRepository) Load(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{State: m.state, HasState: m.hasState}
	for _, ref := range m.order {
		snap.Bills = append(snap.Bills, m.bills[ref].Clone())
	}
	return snap, nil
}

func (m *MemoryRepository) Save(ctx context.Context, bill *congress.Bill, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bill != nil {
		if _, ok := m.bills[bill.Reference]; !ok {
			m.order = append(m.order, bill.Reference)
		}
		m.bills[bill.Reference] = bill.Clone()
	}
	if state != nil {
		m.state = *state
		m.hasState = true
	}
	return nil
}
