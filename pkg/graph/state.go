package graph

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/finsight/graphview/pkg/common"
)

// ErrLoadInProgress is returned when a reload is requested while a full load
// is already running. Concurrent loads racing on the accumulator would be
// undefined, so the second request is rejected outright.
var ErrLoadInProgress = errors.New("graph load already in progress")

// State holds the current assembled snapshot. Readers get the snapshot
// pointer under a read lock; a reload swaps it atomically once the new graph
// is complete, so views never observe a half-built graph.
type State struct {
	mu      sync.RWMutex
	current *common.Graph
	loading atomic.Bool
}

// NewState returns a State holding an empty snapshot.
func NewState() *State {
	return &State{current: &common.Graph{}}
}

// Current returns the latest snapshot. Never nil.
func (s *State) Current() *common.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the snapshot, e.g. when restoring a persisted one at startup.
func (s *State) Set(g *common.Graph) {
	if g == nil {
		g = &common.Graph{}
	}
	s.mu.Lock()
	s.current = g
	s.mu.Unlock()
}

// Reload runs one full load cycle and swaps in the result. Only one load may
// run at a time; a second caller gets ErrLoadInProgress. A failed load leaves
// the previous snapshot in place.
func (s *State) Reload(ctx context.Context, src Source, params BuildParams) (*common.Graph, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil, ErrLoadInProgress
	}
	defer s.loading.Store(false)

	g, err := Build(ctx, src, params)
	if err != nil {
		return nil, err
	}
	s.Set(g)
	return g, nil
}

// Loading reports whether a load cycle is currently running.
func (s *State) Loading() bool {
	return s.loading.Load()
}

// Search returns the nodes of the current snapshot whose label contains the
// query, case-insensitively. An empty query matches nothing.
func (s *State) Search(query string) []common.Node {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var matches []common.Node
	for _, n := range s.Current().Nodes {
		if strings.Contains(strings.ToLower(n.Label), q) {
			matches = append(matches, n)
		}
	}
	return matches
}
