// pkg/render/engo/hud.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-barspin/pkg/engine"
)

// HUDSystem draws the rig's diagnostic text: the grip system's and the
// mechanic's one-line summaries, refreshed every frame.
type HUDSystem struct {
	rig          *engine.Rig
	renderSystem *common.RenderSystem

	font     *common.Font
	textRows [2]*textEntity
	hudColor color.Color
}

// textEntity is one line of HUD text.
type textEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// NewHUDSystem creates the HUD and its two text rows.
func NewHUDSystem(rig *engine.Rig, renderSystem *common.RenderSystem) *HUDSystem {
	hud := &HUDSystem{
		rig:          rig,
		renderSystem: renderSystem,
		hudColor:     color.RGBA{255, 255, 255, 255},
	}

	hud.font = &common.Font{
		URL:  "fonts/hud.ttf",
		FG:   hud.hudColor,
		Size: 14,
	}
	if err := hud.font.CreatePreloaded(); err != nil {
		// Without the font the HUD stays empty; the markers still render.
		hud.font = nil
		return hud
	}

	for i := range hud.textRows {
		row := &textEntity{BasicEntity: ecs.NewBasic()}
		row.RenderComponent = common.RenderComponent{
			Drawable: common.Text{Font: hud.font, Text: ""},
			Color:    hud.hudColor,
		}
		row.RenderComponent.SetShader(common.TextHUDShader)
		row.SpaceComponent = common.SpaceComponent{
			Position: engo.Point{X: 10, Y: float32(10 + i*20)},
		}
		hud.textRows[i] = row
		renderSystem.Add(&row.BasicEntity, &row.RenderComponent, &row.SpaceComponent)
	}

	return hud
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the diagnostic text.
func (hud *HUDSystem) Update(dt float32) {
	if hud.font == nil {
		return
	}
	hud.setRow(0, hud.rig.Grips.DebugInfo())
	hud.setRow(1, hud.rig.Mechanic.DebugInfo())
}

func (hud *HUDSystem) setRow(i int, text string) {
	row := hud.textRows[i]
	row.RenderComponent.Drawable = common.Text{Font: hud.font, Text: text}
}
