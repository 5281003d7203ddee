// Package source defines the business-listing sources the search
// orchestrator draws from, and their adapters.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/resilience"
)

// Limits bound a single search call.
type Limits struct {
	MaxResults int
}

// Client is a searchable business-listing source. Search returns an empty
// slice, not an error, when the source is reachable but finds nothing. Any
// failure is reported as an *UnavailableError.
type Client interface {
	Name() string
	Search(ctx context.Context, query, location string, limits Limits) ([]model.BusinessRecord, error)
}

// ErrUnavailable matches any *UnavailableError via errors.Is.
var ErrUnavailable = eris.New("source unavailable")

// UnavailableError reports that a source could not be queried.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnavailable) hold.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// Unavailable wraps err as an *UnavailableError for source name. HTTP status
// codes reported by the underlying client decide whether the failure is
// retryable: 4xx responses other than 408/429 are permanent. Without a status,
// network timeouts and connection resets are marked transient.
func Unavailable(name string, err error, statusCode int) error {
	if err == nil {
		return nil
	}
	ue := &UnavailableError{Source: name, Err: err}
	if statusCode > 0 {
		return resilience.ForStatus(ue, statusCode)
	}
	if resilience.IsTransient(err) {
		return resilience.NewTransientError(ue, 0)
	}
	return ue
}

// IsUnavailable reports whether err is a source failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Registry holds the available sources by name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Client
}

// NewRegistry creates a registry holding the given sources.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{sources: make(map[string]Client)}
	for _, c := range clients {
		r.Register(c)
	}
	return r
}

// Register adds a source. A source with the same name is replaced.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[c.Name()] = c
}

// Get returns a source by name, or nil if not found.
func (r *Registry) Get(name string) Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[name]
}

// List returns all registered source names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
