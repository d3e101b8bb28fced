package gui

import (
	"fmt"

	rg "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const panelWidth = 200

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

// drawControls draws the control panel in the top right corner and applies
// whatever the user changed.
func (a *App) drawControls() {
	panelX := float32(rl.GetScreenWidth()) - panelWidth - 20
	panelY := float32(56)

	if rg.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 95, Height: 26}, toggleText(a.host.Running(), "Pause", "Resume")) {
		if a.host.Running() {
			a.host.Stop()
		} else {
			a.host.Start()
		}
	}
	if rg.Button(rl.Rectangle{X: panelX + 105, Y: panelY, Width: 95, Height: 26}, "Rotate") {
		a.host.OnRotationChanged(a.host.Rotation().Next())
	}
	panelY += 36

	if rg.Button(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth, Height: 26}, "Level") {
		a.source = nil
		a.tiltX, a.tiltY = 0, 0
	}
	panelY += 40

	rl.DrawText(fmt.Sprintf("Tilt X %+.0f", a.tiltX), int32(panelX), int32(panelY), 14, ColText)
	panelY += 18
	newX := rg.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth, Height: 18}, "", "", float32(a.tiltX), -maxTilt, maxTilt)
	panelY += 30

	rl.DrawText(fmt.Sprintf("Tilt Y %+.0f", a.tiltY), int32(panelX), int32(panelY), 14, ColText)
	panelY += 18
	newY := rg.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth, Height: 18}, "", "", float32(a.tiltY), -maxTilt, maxTilt)

	if newX != float32(a.tiltX) || newY != float32(a.tiltY) {
		a.source = nil
		a.tiltX, a.tiltY = float64(newX), float64(newY)
	}
}
