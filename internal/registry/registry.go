// Package registry loads the practitioner roster from files, URLs and
// databases and holds the current snapshot for the verification engine.
package registry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sells-group/roster-cli/internal/model"
)

// Loader produces a complete roster.
type Loader interface {
	Load(ctx context.Context) ([]model.RosterRecord, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) ([]model.RosterRecord, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]model.RosterRecord, error) {
	return f(ctx)
}

// SourceLoader returns a Loader reading from src.
func SourceLoader(src Source) Loader {
	return LoaderFunc(func(ctx context.Context) ([]model.RosterRecord, error) {
		return Load(ctx, src)
	})
}

type snapshot struct {
	records  []model.RosterRecord
	loadedAt time.Time
}

// Registry holds an immutable roster snapshot. Reload swaps in a new one
// atomically; readers see either the old roster or the new one, never a
// mix.
type Registry struct {
	loader Loader
	name   string
	snap   atomic.Pointer[snapshot]
}

// New loads src and returns a Registry serving it.
func New(ctx context.Context, src Source) (*Registry, error) {
	return NewWithLoader(ctx, src.String(), SourceLoader(src))
}

// NewWithLoader performs the initial load through loader. name identifies
// the source in errors.
func NewWithLoader(ctx context.Context, name string, loader Loader) (*Registry, error) {
	r := &Registry{loader: loader, name: name}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the snapshot. On failure the current snapshot stays.
func (r *Registry) Reload(ctx context.Context) error {
	records, err := r.loader.Load(ctx)
	if err != nil {
		return unavailable(r.name, err)
	}
	if records == nil {
		records = []model.RosterRecord{}
	}
	r.snap.Store(&snapshot{records: records, loadedAt: time.Now()})
	return nil
}

// Records returns the current snapshot. Callers must not modify it.
func (r *Registry) Records() []model.RosterRecord {
	return r.snap.Load().records
}

// Len returns the number of records in the current snapshot.
func (r *Registry) Len() int {
	return len(r.snap.Load().records)
}

// LoadedAt returns when the current snapshot was loaded.
func (r *Registry) LoadedAt() time.Time {
	return r.snap.Load().loadedAt
}

// Source names where the roster comes from.
func (r *Registry) Source() string {
	return r.name
}
