// Package bills is the bill store: an encapsulated, concurrency-safe set of
// bills keyed by reference number, backed by a durable repository.
package bills

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/stake-plus/congressrp/src/shared/congress"
)

// DefaultCounterStart matches the numbering the legislature has always used (H.R. 003).
const DefaultCounterStart = 3

// Column limits of BillRecord, in characters.
const (
	MaxTitleLen = 255
	MaxNameLen  = 128
)

// Options tunes a Store.
type Options struct {
	// CounterStart is the first reference number when no persisted state exists.
	CounterStart int
	Now          func() time.Time
}

// SubmitRequest describes a new bill.
type SubmitRequest struct {
	Category     congress.Category
	Chamber      congress.Chamber
	Proposer     string
	Title        string
	Content      string
	BothChambers bool
	MessageLink  string
	Target       string
	Designation  string
}

// Store owns every bill. All methods return copies; callers never share state with it.
type Store struct {
	mu      sync.Mutex
	repo    Repository
	bills   map[string]*congress.Bill
	order   []string
	counter int
	session int
	now     func() time.Time
}

// NewStore creates an empty store. Call Init to load persisted state.
func NewStore(repo Repository, opts Options) *Store {
	if repo == nil {
		repo = NewMemoryRepository()
	}
	start := opts.CounterStart
	if start <= 0 {
		start = DefaultCounterStart
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		repo:    repo,
		bills:   make(map[string]*congress.Bill),
		counter: start,
		session: 1,
		now:     now,
	}
}

// Init replaces the in-memory state with the repository contents.
func (s *Store) Init(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bills = make(map[string]*congress.Bill, len(snap.Bills))
	s.order = s.order[:0]
	highest := 0
	for i := range snap.Bills {
		bill := snap.Bills[i].Clone()
		s.bills[bill.Reference] = &bill
		s.order = append(s.order, bill.Reference)
		if bill.Number > highest {
			highest = bill.Number
		}
	}

	if snap.HasState {
		s.counter = snap.State.Counter
		if snap.State.Session > 0 {
			s.session = snap.State.Session
		}
	}
	// Never hand out a number that is already taken, even if the state row lags.
	if s.counter <= highest {
		log.Printf("bills: counter %d behind highest bill %d, advancing", s.counter, highest)
		s.counter = highest + 1
	}

	log.Printf("bills: loaded %d bills (next number %d, session %d)", len(s.bills), s.counter, s.session)
	return nil
}

// Submit allocates the next reference number and stores a pending bill.
func (s *Store) Submit(ctx context.Context, req SubmitRequest) (congress.Bill, error) {
	if !req.Category.Valid() {
		return congress.Bill{}, congress.InvalidArgument(fmt.Sprintf("unknown category %q", req.Category))
	}
	if !req.Chamber.Valid() {
		return congress.Bill{}, congress.InvalidArgument(fmt.Sprintf("unknown chamber %q", req.Chamber))
	}
	if strings.TrimSpace(req.Proposer) == "" {
		return congress.Bill{}, congress.InvalidArgument("proposer is required")
	}

	title := clamp(strings.TrimSpace(req.Title), MaxTitleLen)
	if title == "" {
		title = "Untitled"
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		content = "No content"
	}
	link := strings.TrimSpace(req.MessageLink)
	if link == "" {
		link = "N/A"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	number := s.counter
	bill := congress.Bill{
		Reference:    congress.FormatReference(req.Category, number),
		Number:       number,
		Title:        title,
		Content:      content,
		Proposer:     req.Proposer,
		Category:     req.Category,
		Origin:       req.Chamber,
		Chamber:      req.Chamber,
		Stage:        congress.StagePending,
		Color:        congress.ColorPending,
		MessageLink:  link,
		BothChambers: req.BothChambers,
		Session:      s.session,
		Target:       clamp(req.Target, MaxNameLen),
		Designation:  clamp(req.Designation, MaxNameLen),
		Round:        congress.Round{Chamber: req.Chamber},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, exists := s.bills[bill.Reference]; exists {
		return congress.Bill{}, fmt.Errorf("bills: reference %s already allocated", bill.Reference)
	}

	state := State{Counter: number + 1, Session: s.session}
	if err := s.repo.Save(ctx, &bill, &state); err != nil {
		return congress.Bill{}, fmt.Errorf("bills: persist %s: %w", bill.Reference, err)
	}

	s.counter = state.Counter
	stored := bill.Clone()
	s.bills[bill.Reference] = &stored
	s.order = append(s.order, bill.Reference)
	return bill, nil
}

// AddCosponsor appends voter to the bill's cosponsors while no round has ever opened.
func (s *Store) AddCosponsor(ctx context.Context, ref, voter string) (congress.Bill, error) {
	return s.Update(ctx, ref, func(b *congress.Bill) error {
		if b.VotingOpened {
			return congress.ErrVotingStarted
		}
		if b.HasCosponsor(voter) {
			return congress.ErrAlreadyCosponsor
		}
		b.Cosponsors = append(b.Cosponsors, voter)
		return nil
	})
}

// Update applies fn to a copy of the bill and commits it only when fn and the
// repository write both succeed.
func (s *Store) Update(ctx context.Context, ref string, fn func(b *congress.Bill) error) (congress.Bill, error) {
	key, err := canonical(ref)
	if err != nil {
		return congress.Bill{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bills[key]
	if !ok {
		return congress.Bill{}, congress.BillNotFound(key)
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return congress.Bill{}, err
	}
	working.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, &working, nil); err != nil {
		return congress.Bill{}, fmt.Errorf("bills: persist %s: %w", key, err)
	}

	stored := working.Clone()
	s.bills[key] = &stored
	return working, nil
}

// Find returns the bill with the given reference.
func (s *Store) Find(ref string) (congress.Bill, error) {
	key, err := canonical(ref)
	if err != nil {
		return congress.Bill{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bill, ok := s.bills[key]
	if !ok {
		return congress.Bill{}, congress.BillNotFound(key)
	}
	return bill.Clone(), nil
}

// List returns every bill in submission order.
func (s *Store) List() []congress.Bill {
	return s.filter(func(*congress.Bill) bool { return true })
}

// ListByProposer returns bills proposed by voter.
func (s *Store) ListByProposer(voter string) []congress.Bill {
	return s.filter(func(b *congress.Bill) bool { return b.Proposer == voter })
}

// ListByStatusPrefix returns bills whose status text starts with prefix ("Passed", "Failed").
func (s *Store) ListByStatusPrefix(prefix string) []congress.Bill {
	return s.filter(func(b *congress.Bill) bool { return strings.HasPrefix(b.Status(), prefix) })
}

// OpenRounds returns bills with a voting round currently open.
func (s *Store) OpenRounds() []congress.Bill {
	return s.filter(func(b *congress.Bill) bool { return b.Round.Open })
}

// Session returns the current legislative session.
func (s *Store) Session() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// NextNumber returns the number the next submission will receive.
func (s *Store) NextNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// AdvanceSession starts a new legislative session and returns its number.
func (s *Store) AdvanceSession(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{Counter: s.counter, Session: s.session + 1}
	if err := s.repo.Save(ctx, nil, &state); err != nil {
		return 0, fmt.Errorf("bills: persist session: %w", err)
	}
	s.session = state.Session
	return s.session, nil
}

func (s *Store) filter(keep func(*congress.Bill) bool) []congress.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]congress.Bill, 0)
	for _, ref := range s.order {
		if b := s.bills[ref]; b != nil && keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func canonical(ref string) (string, error) {
	key, err := congress.ParseReference(ref)
	if err != nil {
		return "", congress.BillNotFound(strings.TrimSpace(ref))
	}
	return key, nil
}

// clamp cuts s to at most limit runes.
func clamp(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
