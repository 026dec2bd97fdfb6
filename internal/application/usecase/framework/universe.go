package framework

import (
	"sort"
	"strings"
	"sync"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

// Universe tracks the active securities of an algorithm
type Universe struct {
	mu     sync.Mutex
	active map[string]model.Security
}

func NewUniverse() *Universe {
	return &Universe{active: make(map[string]model.Security)}
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Apply removes then adds; returns whether the active set changed.
func (u *Universe) Apply(c model.SecurityChanges) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	changed := false
	for _, sec := range c.Removed {
		sym := normalizeSymbol(sec.Symbol)
		if _, ok := u.active[sym]; ok {
			delete(u.active, sym)
			changed = true
		}
	}
	for _, sec := range c.Added {
		sym := normalizeSymbol(sec.Symbol)
		if sym == "" {
			continue
		}
		if _, ok := u.active[sym]; !ok {
			changed = true
		}
		sec.Symbol = sym
		u.active[sym] = sec
	}
	return changed
}

func (u *Universe) Contains(symbol string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.active[normalizeSymbol(symbol)]
	return ok
}

func (u *Universe) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.active)
}

// Symbols sorted active symbols
func (u *Universe) Symbols() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, 0, len(u.active))
	for sym := range u.active {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
