// Package series tracks batches of seeded matches and tallies who won them.
package series

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tactica/tactica-core/internal/game/board"
)

// State is the lifecycle of a series.
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one match in a series.
type Result struct {
	Seed     uint32
	MatchID  string
	Winner   board.Player
	Turns    int
	Steps    int
	Checksum string
	Verified bool
}

// Standing is one player's record across the series.
type Standing struct {
	Player board.Player
	Wins   int
	Losses int
	Points int
}

// Snapshot captures a consistent view of a series.
type Snapshot struct {
	ID         string
	Name       string
	State      State
	FirstSeed  uint32
	Count      int
	Results    []Result
	Standings  []Standing
	Unverified int
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
}

// Series is a batch of matches over consecutive seeds.
type Series struct {
	ID         string
	Name       string
	State      State
	FirstSeed  uint32
	Count      int
	Results    map[uint32]Result
	Standings  map[board.Player]*Standing
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	mu         sync.RWMutex
}

var seriesNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tactica:series"))

// NewSeries creates a series over count seeds starting at firstSeed. The id
// is derived from the name and the seed range.
func NewSeries(name string, firstSeed uint32, count int) *Series {
	standings := make(map[board.Player]*Standing, 2)
	for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
		standings[p] = &Standing{Player: p}
	}
	return &Series{
		ID:         uuid.NewSHA1(seriesNamespace, []byte(fmt.Sprintf("%s/%d/%d", name, firstSeed, count))).String(),
		Name:       name,
		State:      StateWaiting,
		FirstSeed:  firstSeed,
		Count:      count,
		Results:    make(map[uint32]Result, count),
		Standings:  standings,
		CreateTime: time.Now(),
	}
}

// Seeds lists the seeds the series covers.
func (s *Series) Seeds() []uint32 {
	seeds := make([]uint32, s.Count)
	for i := range seeds {
		seeds[i] = s.FirstSeed + uint32(i)
	}
	return seeds
}

// Start moves the series into progress.
func (s *Series) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateWaiting {
		return fmt.Errorf("series already started")
	}
	if s.Count <= 0 {
		return fmt.Errorf("series has no matches")
	}
	now := time.Now()
	s.StartTime = &now
	s.State = StateInProgress
	return nil
}

// Record stores the result of one match and updates the standings. The
// series finishes once every seed has a result.
func (s *Series) Record(r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateInProgress {
		return fmt.Errorf("series is %s", s.State)
	}
	if r.Seed < s.FirstSeed || r.Seed >= s.FirstSeed+uint32(s.Count) {
		return fmt.Errorf("seed %d is outside the series", r.Seed)
	}
	if _, dup := s.Results[r.Seed]; dup {
		return fmt.Errorf("seed %d already recorded", r.Seed)
	}
	s.Results[r.Seed] = r

	if winner, ok := s.Standings[r.Winner]; ok {
		winner.Wins++
		winner.Points += 3
		s.Standings[r.Winner.Opponent()].Losses++
	}

	if len(s.Results) == s.Count {
		now := time.Now()
		s.EndTime = &now
		s.State = StateFinished
	}
	return nil
}

// Snapshot returns a consistent copy of the series.
func (s *Series) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Result, 0, len(s.Results))
	unverified := 0
	for _, r := range s.Results {
		results = append(results, r)
		if !r.Verified {
			unverified++
		}
	}
	slices.SortFunc(results, func(a, b Result) int { return cmp.Compare(a.Seed, b.Seed) })

	standings := make([]Standing, 0, len(s.Standings))
	for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
		standings = append(standings, *s.Standings[p])
	}

	return Snapshot{
		ID:         s.ID,
		Name:       s.Name,
		State:      s.State,
		FirstSeed:  s.FirstSeed,
		Count:      s.Count,
		Results:    results,
		Standings:  standings,
		Unverified: unverified,
		CreateTime: s.CreateTime,
		StartTime:  cloneTime(s.StartTime),
		EndTime:    cloneTime(s.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// Manager manages series
type Manager struct {
	series map[string]*Series
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewManager creates a new series manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		series: make(map[string]*Series),
		logger: logger,
	}
}

// CreateSeries creates and registers a new series
func (m *Manager) CreateSeries(name string, firstSeed uint32, count int) *Series {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := NewSeries(name, firstSeed, count)
	m.series[s.ID] = s

	m.logger.Info("series created",
		zap.String("series_id", s.ID),
		zap.String("name", name),
		zap.Uint32("first_seed", firstSeed),
		zap.Int("count", count),
	)

	return s
}

// GetSeries retrieves a series by ID
func (m *Manager) GetSeries(seriesID string) (*Series, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.series[seriesID]
	return s, ok
}

// RemoveSeries removes a series
func (m *Manager) RemoveSeries(seriesID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.series, seriesID)

	m.logger.Info("series removed", zap.String("series_id", seriesID))
}

// GetActiveSeriesCount returns the count of unfinished series
func (m *Manager) GetActiveSeriesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, s := range m.series {
		s.mu.RLock()
		if s.State != StateFinished {
			count++
		}
		s.mu.RUnlock()
	}
	return count
}
