// Package registry holds the in-memory index of loaded adventures.
//
// A Registry is constructed explicitly and passed to whoever needs it; one
// instance is shared per running application. It never evicts: its only job
// is to avoid reloading adventures from storage.
//
// The registry also owns the one section graph of each adventure, so every
// presenter editing an adventure shares a single section index and id
// allocator.
package registry

import (
	"sort"
	"sync"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/graph"
	"github.com/rcliao/cyoa/internal/idalloc"
	"github.com/rcliao/cyoa/internal/model"
)

// Registry maps adventure ids to adventures. All methods are safe for
// concurrent use and atomic with respect to a single id.
type Registry struct {
	mu         sync.RWMutex
	adventures map[int]*model.Adventure
	graphs     map[int]*graph.Graph
	graphOpts  []graph.Option
	ids        *idalloc.Allocator
}

// New returns an empty registry. opts are applied to every section graph
// the registry builds.
func New(opts ...graph.Option) *Registry {
	return &Registry{
		adventures: make(map[int]*model.Adventure),
		graphs:     make(map[int]*graph.Graph),
		graphOpts:  opts,
		ids:        idalloc.New(1),
	}
}

// Add upserts an adventure by id, replacing any previous entry with the same
// id. An adventure with id 0 is given a fresh id first.
func (r *Registry) Add(a *model.Adventure) *model.Adventure {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(a)
	return a
}

func (r *Registry) addLocked(a *model.Adventure) {
	if a.ID <= 0 {
		a.ID = r.ids.Next()
	} else {
		r.ids.Observe(a.ID)
	}
	if prev, ok := r.adventures[a.ID]; ok && prev != a {
		delete(r.graphs, a.ID)
	}
	r.adventures[a.ID] = a
}

// Get returns the adventure with the given id.
func (r *Registry) Get(id int) (*model.Adventure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adventures[id]
	if !ok {
		return nil, apperrors.NotFound("adventure", id)
	}
	return a, nil
}

// All returns a snapshot of the registered adventures ordered by id. Later
// registry changes do not affect the returned slice.
func (r *Registry) All() []*model.Adventure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Adventure, 0, len(r.adventures))
	for _, a := range r.adventures {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes an adventure and reports whether it was present.
func (r *Registry) Remove(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.adventures[id]
	delete(r.adventures, id)
	delete(r.graphs, id)
	return ok
}

// Len returns the number of registered adventures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adventures)
}

// Reset replaces the registry contents with advs, as after a full load.
func (r *Registry) Reset(advs []*model.Adventure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adventures = make(map[int]*model.Adventure, len(advs))
	r.graphs = make(map[int]*graph.Graph)
	for _, a := range advs {
		r.addLocked(a)
	}
}

// Graph returns the section graph of the adventure with the given id,
// building it on first use. Every caller gets the same graph until the
// adventure is replaced or removed. A Graph is not safe for concurrent use.
func (r *Registry) Graph(id int) (*graph.Graph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adventures[id]
	if !ok {
		return nil, apperrors.NotFound("adventure", id)
	}
	g, ok := r.graphs[id]
	if !ok {
		g = graph.New(a, r.graphOpts...)
		r.graphs[id] = g
	}
	return g, nil
}
