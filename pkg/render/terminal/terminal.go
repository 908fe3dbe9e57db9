// pkg/render/terminal/terminal.go

// Package terminal provides a plain-text debug view of a rig session for
// headless runs: one status block per frame, redrawn in place.
package terminal

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-barspin/pkg/engine"
	"github.com/opd-ai/go-barspin/pkg/trick"
)

// Renderer writes a small ASCII dashboard for a rig session.
type Renderer struct {
	out      io.Writer
	barWidth int
	clearSeq string
}

// NewRenderer creates a renderer writing to out. When inPlace is true the
// view is redrawn over itself using ANSI cursor control.
func NewRenderer(out io.Writer, inPlace bool) *Renderer {
	clearSeq := ""
	if inPlace {
		clearSeq = "\033[H\033[2J"
	}
	return &Renderer{
		out:      out,
		barWidth: 32,
		clearSeq: clearSeq,
	}
}

// Render draws the current frame's rig state.
func (r *Renderer) Render(rig *engine.Rig) {
	if r.clearSeq != "" {
		fmt.Fprint(r.out, r.clearSeq)
	}

	fmt.Fprintln(r.out, rig.DebugInfo())
	fmt.Fprintf(r.out, "state: %-12s %s\n", rig.Mechanic.State(), r.progressBar(rig))
	fmt.Fprintf(r.out, "bars:  %s\n", r.barGlyph(rig.HandlebarAngle()))
}

// progressBar renders spin progress while an attempt is in flight.
func (r *Renderer) progressBar(rig *engine.Rig) string {
	switch rig.Mechanic.State() {
	case trick.StateSpinning, trick.StateCatchWindow:
		filled := int(rig.Mechanic.Progress() * float64(r.barWidth))
		return "[" + strings.Repeat("#", filled) + strings.Repeat(".", r.barWidth-filled) + "]"
	default:
		return ""
	}
}

// barGlyph maps the handlebar angle to one of eight direction glyphs.
func (r *Renderer) barGlyph(angle float64) string {
	glyphs := []string{"-", "\\", "|", "/", "-", "\\", "|", "/"}
	normalized := math.Mod(angle, 2*math.Pi)
	if normalized < 0 {
		normalized += 2 * math.Pi
	}
	idx := int(normalized/(math.Pi/4)) % len(glyphs)
	return glyphs[idx]
}
