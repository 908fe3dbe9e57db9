package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/engine"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/logging"
)

func newRenderedRig(t *testing.T) (*engine.Rig, *input.ScriptedPoseSource) {
	t.Helper()

	cfg := config.DefaultConfig()
	pose := input.NewScriptedPoseSource()
	left := input.NewStaticAnchor(cfg.Grip.LeftAnchor)
	right := input.NewStaticAnchor(cfg.Grip.RightAnchor)

	rig, err := engine.NewRig(cfg, pose, left, right, logging.NewLogger())
	if err != nil {
		t.Fatalf("NewRig failed: %v", err)
	}
	rig.Start()
	return rig, pose
}

func TestRenderer_Render_ReadyState(t *testing.T) {
	rig, _ := newRenderedRig(t)
	var buf bytes.Buffer

	NewRenderer(&buf, false).Render(rig)

	out := buf.String()
	if !strings.Contains(out, "ready") {
		t.Errorf("output missing state name:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("plain renderer emitted ANSI control sequences:\n%s", out)
	}
	if strings.Contains(out, "[#") || strings.Contains(out, "[.") {
		t.Errorf("progress bar drawn outside a spin:\n%s", out)
	}
}

func TestRenderer_Render_ShowsProgressWhileSpinning(t *testing.T) {
	rig, pose := newRenderedRig(t)

	// Throw a spin and advance partway through it.
	pose.MoveHand(input.LeftHand, rig.Config.Grip.LeftAnchor)
	pose.MoveHand(input.RightHand, rig.Config.Grip.RightAnchor)
	pose.PressGrip(input.LeftHand, true)
	pose.PressGrip(input.RightHand, true)
	rig.Step(1.0 / 90)
	pose.SetYawVelocity(input.RightHand, 6.0)
	pose.PressGrip(input.RightHand, false)
	rig.Step(1.0 / 90)
	pose.PressGrip(input.LeftHand, false)
	for i := 0; i < 30; i++ {
		rig.Step(1.0 / 90)
	}

	var buf bytes.Buffer
	NewRenderer(&buf, false).Render(rig)

	out := buf.String()
	if !strings.Contains(out, "spinning") {
		t.Fatalf("output missing spinning state:\n%s", out)
	}
	if !strings.Contains(out, "#") {
		t.Errorf("progress bar empty mid-spin:\n%s", out)
	}
}

func TestRenderer_Render_InPlaceClears(t *testing.T) {
	rig, _ := newRenderedRig(t)
	var buf bytes.Buffer

	NewRenderer(&buf, true).Render(rig)

	if !strings.HasPrefix(buf.String(), "\033[H\033[2J") {
		t.Error("in-place renderer did not clear the screen first")
	}
}

func TestRenderer_BarGlyph_CoversFullCircle(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, false)

	tests := []struct {
		angle float64
		want  string
	}{
		{angle: 0, want: "-"},
		{angle: 1.0, want: "\\"},
		{angle: 1.6, want: "|"},
		{angle: -1.6, want: "\\"},
		{angle: 6.3, want: "-"},
	}

	for _, tt := range tests {
		if got := r.barGlyph(tt.angle); got != tt.want {
			t.Errorf("barGlyph(%g) = %q, want %q", tt.angle, got, tt.want)
		}
	}
}
