package signal

import (
	"slices"
	"sync"

	"github.com/russofg/event-chaos-sub000/pkg/session"
)

// SignalMapper turns one outcome kind into a domain signal.
type SignalMapper interface {
	Kind() session.Kind

	// MapToSignal returns nil to drop the outcome.
	MapToSignal(o session.Outcome, playerCtx *PlayerContext) Signal
}

// MapperFunc adapts a function to SignalMapper for a single kind.
type MapperFunc struct {
	For session.Kind
	Map func(o session.Outcome, playerCtx *PlayerContext) Signal
}

func (f MapperFunc) Kind() session.Kind { return f.For }

func (f MapperFunc) MapToSignal(o session.Outcome, playerCtx *PlayerContext) Signal {
	return f.Map(o, playerCtx)
}

// MapperRegistry holds at most one mapper per outcome kind.
type MapperRegistry struct {
	mu     sync.RWMutex
	byKind map[session.Kind]SignalMapper
}

func NewMapperRegistry() *MapperRegistry {
	return &MapperRegistry{byKind: make(map[session.Kind]SignalMapper)}
}

// Register installs mapper, replacing any earlier mapper for its kind.
func (r *MapperRegistry) Register(mapper SignalMapper) {
	r.mu.Lock()
	r.byKind[mapper.Kind()] = mapper
	r.mu.Unlock()
}

// Get returns the mapper for kind, or nil.
func (r *MapperRegistry) Get(kind session.Kind) SignalMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKind[kind]
}

// Kinds returns the mapped outcome kinds, sorted.
func (r *MapperRegistry) Kinds() []session.Kind {
	r.mu.RLock()
	kinds := make([]session.Kind, 0, len(r.byKind))
	for k := range r.byKind {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	slices.Sort(kinds)
	return kinds
}

func (r *MapperRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKind)
}
