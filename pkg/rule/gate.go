package rule

import (
	"strings"
	"sync"
	"time"
)

// Gate remembers when a rule last fired for a key. Rules use it to rate limit
// warnings and to fire single-shot triggers once per session.
type Gate struct {
	mu        sync.Mutex
	fired     map[string]time.Time
	retention time.Duration
}

// NewGate creates a gate that forgets keys older than retention.
func NewGate(retention time.Duration) *Gate {
	return &Gate{
		fired:     make(map[string]time.Time),
		retention: retention,
	}
}

// Allow reports whether key may fire at now and records the firing when it
// may. A cooldown <= 0 lets each key fire once until it is forgotten.
func (g *Gate) Allow(key string, now time.Time, cooldown time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(now)
	if last, ok := g.fired[key]; ok {
		if cooldown <= 0 || now.Sub(last) < cooldown {
			return false
		}
	}
	g.fired[key] = now
	return true
}

// Fired reports whether key has fired and is still remembered.
func (g *Gate) Fired(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.fired[key]
	return ok
}

// Forget drops every key with the given prefix.
func (g *Gate) Forget(prefix string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k := range g.fired {
		if strings.HasPrefix(k, prefix) {
			delete(g.fired, k)
		}
	}
}

// Len is the number of remembered keys.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.fired)
}

func (g *Gate) prune(now time.Time) {
	if g.retention <= 0 {
		return
	}
	for k, at := range g.fired {
		if now.Sub(at) > g.retention {
			delete(g.fired, k)
		}
	}
}

// GateKey joins parts into a gate key.
func GateKey(parts ...string) string {
	return strings.Join(parts, "|")
}
