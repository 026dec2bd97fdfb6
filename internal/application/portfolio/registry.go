package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ElMonstro/Lean/internal/application/port"

	"github.com/rs/zerolog/log"
)

var ErrUnknownModel = errors.New("unknown portfolio construction model")

// Factory builds a fresh model instance
type Factory func() port.PortfolioConstructionModel

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a model factory under name. Models register themselves from init().
func Register(name string, factory Factory) {
	key := normalizeName(name)
	if factory == nil || key == "" {
		log.Warn().Str("model", name).Msg("invalid portfolio model factory")
		return
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[key]; exists {
		log.Warn().Str("model", key).Msg("portfolio model already registered, overwriting")
	}
	registry[key] = factory
	log.Debug().Str("model", key).Msg("portfolio model registered")
}

func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[normalizeName(name)]
	return f, ok
}

// New instantiates the model registered under name.
func New(name string) (port.PortfolioConstructionModel, error) {
	f, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return f(), nil
}

// Names lists registered models, sorted
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
