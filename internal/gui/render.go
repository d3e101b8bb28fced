package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/tiltsim/internal/physics"
)

// drawDomain outlines the area swept by the balls, walls included.
func (a *App) drawDomain() {
	l := a.host.Layout()
	b := l.Bounds
	x0, y0 := l.ToScreen(physics.Vec2{X: -b.X, Y: b.Y})
	x1, y1 := l.ToScreen(physics.Vec2{X: b.X, Y: -b.Y})
	w := x1 - x0 + float32(l.BallWidthPx)
	h := y1 - y0 + float32(l.BallHeightPx)

	for gx := int32(0); gx < int32(rl.GetScreenWidth()); gx += 40 {
		rl.DrawLine(gx, 0, gx, int32(rl.GetScreenHeight()), ColGrid)
	}
	for gy := int32(0); gy < int32(rl.GetScreenHeight()); gy += 40 {
		rl.DrawLine(0, gy, int32(rl.GetScreenWidth()), gy, ColGrid)
	}
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(w), int32(h), ColTextDim)
}

// drawBalls draws ball 0 last, in red, so it stays visible.
func (a *App) drawBalls() {
	l := a.host.Layout()
	r := float32(l.BallWidthPx) * 0.5
	positions := a.host.System().Positions()
	for i := len(positions) - 1; i >= 0; i-- {
		x, y := l.Center(positions[i])
		col := ColBall
		if i == 0 {
			col = ColLead
		}
		rl.DrawCircleV(rl.NewVector2(x, y), r, col)
	}
}
