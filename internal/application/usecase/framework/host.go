package framework

import (
	"strings"
	"time"

	"github.com/ElMonstro/Lean/internal/application/port"
)

// Host is the algorithm context handed to portfolio models
type Host struct {
	name     string
	clock    func() time.Time
	universe *Universe
}

// NewHost creates a host named name. A nil clock means wall time.
func NewHost(name string, clock func() time.Time) *Host {
	if clock == nil {
		clock = time.Now
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "lean"
	}
	return &Host{name: name, clock: clock, universe: NewUniverse()}
}

func (h *Host) Name() string { return h.name }

func (h *Host) UtcTime() time.Time { return h.clock().UTC() }

// Universe active securities as seen through securities-changed events
func (h *Host) Universe() *Universe { return h.universe }

var _ port.Algorithm = (*Host)(nil)
