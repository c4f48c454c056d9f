// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry maps paper identifiers to metadata for one session.
//
// The registry is built from a single insert stream: Put records the paper by
// id and indexes its title, so IDOf and TitleOf never disagree about which
// insert they reflect. Duplicate ids overwrite in place (last write wins) and
// keep their original position in the ordering.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// Registry is the canonical id → paper mapping for one session. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]types.Paper
	byTitle map[string]string
	claims  map[string]map[string]bool // title → ids that ever carried it
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byID:    make(map[string]types.Paper),
		byTitle: make(map[string]string),
		claims:  make(map[string]map[string]bool),
	}
}

// Put inserts p or overwrites the paper already stored under p.ID.
func (r *Registry) Put(p types.Paper) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byID[p.ID]; ok {
		if prev.Title != p.Title && r.byTitle[prev.Title] == p.ID {
			delete(r.byTitle, prev.Title)
			r.reindexTitle(prev.Title, p.ID)
		}
	} else {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
	r.byTitle[p.Title] = p.ID

	ids, ok := r.claims[p.Title]
	if !ok {
		ids = make(map[string]bool)
		r.claims[p.Title] = ids
	}
	ids[p.ID] = true
}

// reindexTitle points title at the latest other paper still carrying it.
// Callers hold the write lock.
func (r *Registry) reindexTitle(title, except string) {
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		if id != except && r.byID[id].Title == title {
			r.byTitle[title] = id
			return
		}
	}
}

// Get returns the paper stored under id.
func (r *Registry) Get(id string) (types.Paper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// TitleOf returns the title for id, or id itself when the paper is unknown.
func (r *Registry) TitleOf(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.byID[id]; ok {
		return p.Title
	}
	return id
}

// IDOf returns the id most recently inserted with title.
func (r *Registry) IDOf(title string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byTitle[title]
	if !ok {
		return "", fmt.Errorf("title %q: %w", title, types.ErrNotFound)
	}
	return id, nil
}

// IDsOf resolves every title in order. The first unknown title aborts.
func (r *Registry) IDsOf(titles []string) ([]string, error) {
	ids := make([]string, 0, len(titles))
	for _, t := range titles {
		id, err := r.IDOf(t)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Papers returns every paper in insertion order.
func (r *Registry) Papers() []types.Paper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Paper, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Titles returns every current title in insertion order.
func (r *Registry) Titles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Title)
	}
	return out
}

// Len returns the number of distinct papers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Collisions returns, sorted, the titles currently carried by more than one id.
// IDOf resolves such titles to the latest insert only.
func (r *Registry) Collisions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for title, ids := range r.claims {
		live := 0
		for id := range ids {
			if p, ok := r.byID[id]; ok && p.Title == title {
				live++
			}
		}
		if live > 1 {
			out = append(out, title)
		}
	}
	sort.Strings(out)
	return out
}
