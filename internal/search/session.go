package search

import (
	"time"

	"github.com/google/uuid"
)

// Attempt records what happened when one source was consulted. Transient is
// set when the last failure was a network or throttling error rather than a
// rejected request.
type Attempt struct {
	Source    string        `json:"source"`
	Query     string        `json:"query"`
	Tries     int           `json:"tries"`
	Results   int           `json:"results"`
	Duration  time.Duration `json:"duration"`
	Skipped   bool          `json:"skipped,omitempty"`
	Error     string        `json:"error,omitempty"`
	Transient bool          `json:"transient,omitempty"`
	Rewrite   bool          `json:"rewrite,omitempty"`
}

// Session is the state of one Search call. It is created per call, owned by
// the caller once returned, and never shared between calls.
type Session struct {
	ID           string        `json:"id"`
	Query        string        `json:"query"`
	Location     string        `json:"location"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Attempts     []Attempt     `json:"attempts"`
	SourcesUsed  []string      `json:"sources_used"`
	Rewrites     []string      `json:"rewrites,omitempty"`
	UsedFallback bool          `json:"used_fallback"`
	Fetched      int           `json:"fetched"`
	Rejected     int           `json:"rejected"`
	Duplicates   int           `json:"duplicates"`
	Returned     int           `json:"returned"`
	NoResults    bool          `json:"no_results"`
}

func newSession(query, location string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Query:     query,
		Location:  location,
		StartedAt: now,
	}
}

// SourceCounts returns the number of records each source contributed before
// deduplication, keyed by source name.
func (s *Session) SourceCounts() map[string]int {
	out := make(map[string]int)
	for _, a := range s.Attempts {
		if a.Results > 0 {
			out[a.Source] += a.Results
		}
	}
	return out
}

// Tried returns the names of sources actually invoked, in order.
func (s *Session) Tried() []string {
	var out []string
	for _, a := range s.Attempts {
		if !a.Skipped && !a.Rewrite {
			out = append(out, a.Source)
		}
	}
	return out
}
