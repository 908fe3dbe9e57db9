// pkg/render/engo/marker.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-barspin/pkg/engine"
	"github.com/opd-ai/go-barspin/pkg/input"
)

// Screen mapping for the handlebar view: world meters to pixels around the
// screen center.
const markerScale = 600

// markerEntity is one grip marker on screen.
type markerEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// GripMarkerSystem renders both grip anchors with the visual emphasis tier
// the grip system last requested: dim when idle, highlighted when a hand is
// near, solid when gripping.
type GripMarkerSystem struct {
	rig     *engine.Rig
	anchors [2]*input.StaticAnchor
	markers [2]*markerEntity

	dimColor      color.Color
	nearColor     color.Color
	grippingColor color.Color
}

// NewGripMarkerSystem creates the marker system and registers both marker
// entities with the render system.
func NewGripMarkerSystem(rig *engine.Rig, anchors [2]*input.StaticAnchor, renderSystem *common.RenderSystem) *GripMarkerSystem {
	s := &GripMarkerSystem{
		rig:           rig,
		anchors:       anchors,
		dimColor:      color.RGBA{90, 90, 90, 255},
		nearColor:     color.RGBA{255, 210, 60, 255},
		grippingColor: color.RGBA{60, 220, 90, 255},
	}

	for i := range s.markers {
		marker := &markerEntity{BasicEntity: ecs.NewBasic()}
		marker.RenderComponent = common.RenderComponent{
			Drawable: common.Circle{},
			Color:    s.dimColor,
		}
		marker.SpaceComponent = common.SpaceComponent{
			Width:  24,
			Height: 24,
		}
		s.markers[i] = marker
		renderSystem.Add(&marker.BasicEntity, &marker.RenderComponent, &marker.SpaceComponent)
	}

	return s
}

// Add satisfies the ecs.System interface
func (s *GripMarkerSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (s *GripMarkerSystem) Remove(basic ecs.BasicEntity) {}

// Update repositions the markers under the anchors and applies the tier
// colors.
func (s *GripMarkerSystem) Update(dt float32) {
	for i, hand := range input.Hands {
		anchor := s.anchors[hand]
		marker := s.markers[i]

		pos := anchor.WorldPosition()
		marker.SpaceComponent.Position = engo.Point{
			X: float32(engo.GameWidth()/2) + float32(pos.X*markerScale) - marker.SpaceComponent.Width/2,
			Y: float32(engo.GameHeight()/2) - float32(pos.Z*markerScale) - marker.SpaceComponent.Height/2,
		}

		switch anchor.VisualTier() {
		case input.TierGripping:
			marker.RenderComponent.Color = s.grippingColor
		case input.TierNear:
			marker.RenderComponent.Color = s.nearColor
		default:
			marker.RenderComponent.Color = s.dimColor
		}
	}
}
