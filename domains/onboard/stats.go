package onboard

import "sync"

// Outcome is the terminal state of one job. Every job reaches exactly one.
type Outcome string

const (
	OutcomeScanned    Outcome = "scanned"
	OutcomeConfigOnly Outcome = "config-only"
	OutcomeEmpty      Outcome = "empty"
	OutcomeFailed     Outcome = "failed"
)

// Stats aggregates the whole run. It is the only value mutated by multiple
// workers, guarded by a single mutex with increment-only critical sections.
type Stats struct {
	mu         sync.Mutex
	created    int
	existing   int
	scanned    int
	configOnly int
	empty      int
	failed     int
}

// NewStats creates an empty aggregator
func NewStats() *Stats {
	return &Stats{}
}

// AddCreated counts a newly created analysis project
func (s *Stats) AddCreated() {
	s.mu.Lock()
	s.created++
	s.mu.Unlock()
}

// AddExisting counts a project that already existed
func (s *Stats) AddExisting() {
	s.mu.Lock()
	s.existing++
	s.mu.Unlock()
}

// RecordOutcome counts a job's terminal state
func (s *Stats) RecordOutcome(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch o {
	case OutcomeScanned:
		s.scanned++
	case OutcomeConfigOnly:
		s.configOnly++
	case OutcomeEmpty:
		s.empty++
	default:
		s.failed++
	}
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Created    int `json:"created"`
	Existing   int `json:"existing"`
	Scanned    int `json:"scanned"`
	ConfigOnly int `json:"config_only"`
	Empty      int `json:"empty"`
	Failed     int `json:"failed"`
}

// Snapshot returns a consistent copy of the counters
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Created:    s.created,
		Existing:   s.existing,
		Scanned:    s.scanned,
		ConfigOnly: s.configOnly,
		Empty:      s.empty,
		Failed:     s.failed,
	}
}

// TerminalTotal is the number of jobs that reached a terminal state
func (s Snapshot) TerminalTotal() int {
	return s.Scanned + s.ConfigOnly + s.Empty + s.Failed
}
