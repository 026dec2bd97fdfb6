package framework

import (
	"fmt"
	"strings"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

// maxListed caps how many targets/symbols a single line shows
const maxListed = 8

type Formatter struct {
	Color bool
}

func NewFormatter(color bool) *Formatter {
	return &Formatter{Color: color}
}

func (f *Formatter) colorize(s, c string) string {
	if !f.Color {
		return s
	}
	return c + s + ansiReset
}

func (f *Formatter) RenderBatch(b *model.TargetBatch) string {
	var sb strings.Builder
	sb.WriteString(f.colorize("[LEAN] ", ansiDim))
	sb.WriteString(b.Algorithm)
	fmt.Fprintf(&sb, " model=%s insights=%d targets=%d", b.Model, b.InsightCount, len(b.Targets))

	if len(b.Targets) == 0 {
		return sb.String()
	}

	sb.WriteString(" ")
	for i, t := range b.Targets {
		if i == maxListed {
			sb.WriteString(f.colorize(fmt.Sprintf(" (+%d)", len(b.Targets)-maxListed), ansiDim))
			break
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		col := ansiYellow
		switch {
		case t.Quantity > 0:
			col = ansiGreen
		case t.Quantity < 0:
			col = ansiRed
		}
		sb.WriteString(f.colorize(fmt.Sprintf("%s:%+g", t.Symbol, t.Quantity), col))
	}
	return sb.String()
}

func (f *Formatter) RenderChanges(algorithm string, c model.SecurityChanges, universeSize int) string {
	var sb strings.Builder
	sb.WriteString(f.colorize("[LEAN] ", ansiDim))
	sb.WriteString(algorithm)
	sb.WriteString(" universe")
	if len(c.Added) > 0 {
		sb.WriteString(" ")
		sb.WriteString(f.colorize("+"+joinCapped(c.AddedSymbols()), ansiGreen))
	}
	if len(c.Removed) > 0 {
		sb.WriteString(" ")
		sb.WriteString(f.colorize("-"+joinCapped(c.RemovedSymbols()), ansiRed))
	}
	fmt.Fprintf(&sb, " size=%d", universeSize)
	return sb.String()
}

func joinCapped(symbols []string) string {
	if len(symbols) <= maxListed {
		return strings.Join(symbols, ",")
	}
	return strings.Join(symbols[:maxListed], ",") + fmt.Sprintf(",...(+%d)", len(symbols)-maxListed)
}
