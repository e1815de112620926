package navmap

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/memmaker/tilenav/engine/tilemap"
	"github.com/memmaker/tilenav/engine/util"
)

// Source is anything that changes in whole versions.
type Source interface {
	Version() uint64
}

type sourceSnapshot struct {
	grid    tilemap.Grid
	version uint64
}

// SourceMap holds the current parsed map of a level. Grids are treated as
// immutable; a change replaces the whole grid and bumps the version.
type SourceMap struct {
	replaceLock sync.Mutex
	current     atomic.Pointer[sourceSnapshot]
}

func NewSourceMap(grid tilemap.Grid) *SourceMap {
	s := &SourceMap{}
	s.current.Store(&sourceSnapshot{grid: grid, version: 1})
	return s
}

func (s *SourceMap) Version() uint64 {
	return s.current.Load().version
}

func (s *SourceMap) Grid() tilemap.Grid {
	return s.current.Load().grid
}

// Snapshot returns a grid together with the version it belongs to.
func (s *SourceMap) Snapshot() (tilemap.Grid, uint64) {
	snapshot := s.current.Load()
	return snapshot.grid, snapshot.version
}

// Replace installs a new grid and returns its version.
func (s *SourceMap) Replace(grid tilemap.Grid) uint64 {
	s.replaceLock.Lock()
	defer s.replaceLock.Unlock()
	version := s.current.Load().version + 1
	s.current.Store(&sourceSnapshot{grid: grid, version: version})
	util.LogMapInfo(fmt.Sprintf("[SourceMap] Replaced map, now at version %d", version))
	return version
}

type derivedValue[V any] struct {
	version uint64
	value   V
}

// Derived caches a value computed from a versioned source and recomputes it only
// when the source version changes. Readers either get the previous value or the
// finished new one.
type Derived[S Source, V any] struct {
	build   func(src S) (V, error)
	current atomic.Pointer[derivedValue[V]]
	rebuild sync.Mutex
	builds  atomic.Uint64
}

func NewDerived[S Source, V any](build func(src S) (V, error)) *Derived[S, V] {
	return &Derived[S, V]{build: build}
}

func (d *Derived[S, V]) Get(src S) (V, error) {
	version := src.Version()
	if cached := d.current.Load(); cached != nil && cached.version == version {
		return cached.value, nil
	}

	d.rebuild.Lock()
	defer d.rebuild.Unlock()
	if cached := d.current.Load(); cached != nil && cached.version == version {
		return cached.value, nil
	}
	value, err := d.build(src)
	if err != nil {
		var zero V
		return zero, err
	}
	d.current.Store(&derivedValue[V]{version: version, value: value})
	d.builds.Add(1)
	return value, nil
}

// Builds counts successful rebuilds.
func (d *Derived[S, V]) Builds() uint64 {
	return d.builds.Load()
}

// NewMapGraphCache derives MapGraphs from a SourceMap.
func NewMapGraphCache(cellDistance, elevation float32) *Derived[*SourceMap, *MapGraph] {
	return NewDerived(func(src *SourceMap) (*MapGraph, error) {
		grid, version := src.Snapshot()
		util.LogNavDebug(fmt.Sprintf("[MapGraph] Rebuilding for map version %d", version))
		return NewMapGraph(grid, cellDistance, elevation)
	})
}
