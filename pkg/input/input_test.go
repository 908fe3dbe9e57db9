package input

import (
	"testing"

	"github.com/opd-ai/go-barspin/pkg/physics"
)

func TestHand_Other(t *testing.T) {
	if got := LeftHand.Other(); got != RightHand {
		t.Errorf("LeftHand.Other() = %v, want right", got)
	}
	if got := RightHand.Other(); got != LeftHand {
		t.Errorf("RightHand.Other() = %v, want left", got)
	}
}

func TestHand_String(t *testing.T) {
	if LeftHand.String() != "left" || RightHand.String() != "right" {
		t.Errorf("hand names = %q/%q, want left/right", LeftHand, RightHand)
	}
}

func TestScriptedPoseSource_Defaults(t *testing.T) {
	s := NewScriptedPoseSource()

	for _, h := range Hands {
		if !s.IsConnected(h) {
			t.Errorf("hand %v starts disconnected", h)
		}
		if s.IsGripPressed(h) {
			t.Errorf("hand %v starts with grip pressed", h)
		}
		if got := s.WorldPosition(h); got != (physics.Vector3D{}) {
			t.Errorf("hand %v starts at %+v, want origin", h, got)
		}
	}
}

func TestScriptedPoseSource_SettersReadBack(t *testing.T) {
	s := NewScriptedPoseSource()
	pos := physics.Vector3D{X: 1, Y: 2, Z: 3}

	s.MoveHand(RightHand, pos)
	s.PressGrip(RightHand, true)
	s.SetYawVelocity(RightHand, 4.5)
	s.SetConnected(LeftHand, false)

	if got := s.WorldPosition(RightHand); got != pos {
		t.Errorf("position = %+v, want %+v", got, pos)
	}
	if !s.IsGripPressed(RightHand) {
		t.Error("grip press not recorded")
	}
	if got := s.YawAngularVelocity(RightHand); got != 4.5 {
		t.Errorf("yaw velocity = %v, want 4.5", got)
	}
	if s.IsConnected(LeftHand) {
		t.Error("left hand still connected after SetConnected(false)")
	}
	// The other hand is untouched.
	if got := s.WorldPosition(LeftHand); got != (physics.Vector3D{}) {
		t.Errorf("left position = %+v, want origin", got)
	}
}

func TestScriptedPoseSource_RecordsHaptics(t *testing.T) {
	s := NewScriptedPoseSource()

	s.RequestHapticPulse(LeftHand, 0.8, 80)
	s.RequestHapticPulse(RightHand, 0.3, 50)

	got := s.Haptics()
	if len(got) != 2 {
		t.Fatalf("recorded %d pulses, want 2", len(got))
	}
	want := HapticRecord{Hand: LeftHand, Intensity: 0.8, DurationMs: 80}
	if got[0] != want {
		t.Errorf("first pulse = %+v, want %+v", got[0], want)
	}

	s.ClearHaptics()
	if len(s.Haptics()) != 0 {
		t.Error("ClearHaptics left records behind")
	}
}

func TestStaticAnchor(t *testing.T) {
	a := NewStaticAnchor(physics.Vector3D{X: 0.2, Y: 1.05})

	if got := a.VisualTier(); got != TierIdle {
		t.Errorf("initial tier = %v, want idle", got)
	}

	a.SetVisualTier(TierGripping)
	if got := a.VisualTier(); got != TierGripping {
		t.Errorf("tier = %v, want gripping", got)
	}

	moved := physics.Vector3D{X: 0.3, Y: 1.1, Z: -0.05}
	a.MoveTo(moved)
	if got := a.WorldPosition(); got != moved {
		t.Errorf("position = %+v, want %+v", got, moved)
	}
}
