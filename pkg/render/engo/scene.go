// pkg/render/engo/scene.go

// Package engo adapts a rig session to the Engo game engine: a driver
// system that steps the rig each frame, grip markers that render the three
// visual emphasis tiers, and a HUD with both components' debug lines.
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-barspin/pkg/engine"
	"github.com/opd-ai/go-barspin/pkg/input"
)

// RigScene is the Engo scene for a rig session.
type RigScene struct {
	world *ecs.World

	rig     *engine.Rig
	anchors [2]*input.StaticAnchor

	markers *GripMarkerSystem
	hud     *HUDSystem
}

// NewRigScene creates a scene for the given rig. The anchors must be the
// same ones the rig's grip zones were built with, so the markers render the
// tiers the grip system sets.
func NewRigScene(rig *engine.Rig, leftAnchor, rightAnchor *input.StaticAnchor) *RigScene {
	return &RigScene{
		world:   &ecs.World{},
		rig:     rig,
		anchors: [2]*input.StaticAnchor{leftAnchor, rightAnchor},
	}
}

// Type returns the scene type (required by Engo)
func (scene *RigScene) Type() string {
	return "RigScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *RigScene) Preload() {
	// The HUD degrades to markers-only when the font is missing.
	_ = engo.Files.Load("fonts/hud.ttf")
}

// Setup is called when the scene starts (required by Engo)
func (scene *RigScene) Setup(u engo.Updater) {
	scene.world = &ecs.World{}

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)

	// The driver steps the rig before any presentation system reads it.
	scene.world.AddSystem(&rigDriverSystem{rig: scene.rig})

	scene.markers = NewGripMarkerSystem(scene.rig, scene.anchors, renderSystem)
	scene.world.AddSystem(scene.markers)

	scene.hud = NewHUDSystem(scene.rig, renderSystem)
	scene.world.AddSystem(scene.hud)
}

// rigDriverSystem advances the rig session once per rendered frame.
type rigDriverSystem struct {
	rig *engine.Rig
}

// Add satisfies the ecs.System interface
func (d *rigDriverSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (d *rigDriverSystem) Remove(basic ecs.BasicEntity) {}

// Update steps the rig by the frame's delta time.
func (d *rigDriverSystem) Update(dt float32) {
	d.rig.Step(float64(dt))
}
