// Package report collects per-file outcomes of a rename run and renders
// them for the terminal or as JSON data.
package report

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Outcome is the result of one unit of work.
type Outcome string

const (
	Renamed    Outcome = "RENAMED"
	NotRenamed Outcome = "NOT_RENAMED"
	Updated    Outcome = "UPDATED"
	NotUpdated Outcome = "NOT_UPDATED"
	NotFound   Outcome = "NOT_FOUND"
	Copied     Outcome = "COPIED"
	Removed    Outcome = "REMOVED"
	Error      Outcome = "ERROR"
)

// Outcomes lists every outcome in display order.
var Outcomes = []Outcome{Renamed, Updated, Copied, Removed, NotRenamed, NotUpdated, NotFound, Error}

// Changed reports whether the outcome means something was modified.
func (o Outcome) Changed() bool {
	switch o {
	case Renamed, Updated, Copied, Removed:
		return true
	}
	return false
}

// Entry is one reported outcome.
type Entry struct {
	Step    string  `json:"step"`
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Sink is an append-only record of outcomes. It is safe for concurrent
// use; reporting never affects the run.
type Sink struct {
	mu      sync.Mutex
	entries []Entry
	steps   []string
	hooks   []func(Entry)
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// OnReport registers fn to be called with every entry as it is reported.
func (s *Sink) OnReport(fn func(Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Report records one outcome.
func (s *Sink) Report(step, path string, outcome Outcome, detail string) {
	e := Entry{Step: step, Path: path, Outcome: outcome, Detail: detail}

	s.mu.Lock()
	if !s.hasStep(step) {
		s.steps = append(s.steps, step)
	}
	s.entries = append(s.entries, e)
	hooks := s.hooks
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(e)
	}
}

// Caller holds s.mu.
func (s *Sink) hasStep(step string) bool {
	for _, st := range s.steps {
		if st == step {
			return true
		}
	}
	return false
}

// Entries returns a copy of everything reported so far, grouped by step in
// the order steps first reported and sorted by path within a step.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := make(map[string]int, len(s.steps))
	for i, st := range s.steps {
		order[st] = i
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Step != out[j].Step {
			return order[out[i].Step] < order[out[j].Step]
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Totals counts entries per outcome.
func Totals(entries []Entry) map[Outcome]int {
	t := make(map[Outcome]int)
	for _, e := range entries {
		t[e.Outcome]++
	}
	return t
}

// StepTitle turns a step name such as "RenamingIosPaths" into
// "Renaming iOS paths".
func StepTitle(step string) string {
	var words []string
	start := 0
	runes := []rune(step)
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		acronymEnd := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if !unicode.IsUpper(runes[i-1]) || acronymEnd {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if len(runes) > 0 {
		words = append(words, string(runes[start:]))
	}

	for i, w := range words {
		switch strings.ToLower(w) {
		case "ios":
			words[i] = "iOS"
		case "id":
			words[i] = "ID"
		default:
			if i > 0 {
				words[i] = strings.ToLower(w)
			}
		}
	}
	return strings.Join(words, " ")
}
