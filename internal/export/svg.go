package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/storage"
	"github.com/san-kum/tiltsim/internal/viz"
)

// LeadColor is the stroke of particle 0, the red ball.
const LeadColor = "#ff3b30"

var trackColors = []string{"#00ff9f", "#00b8ff", "#f7d154", "#bd93f9", "#ff79c6", "#8be9fd"}

// TracksToCanvas plots every track onto a cols x rows braille canvas with
// the domain outline, the way the terminal host draws it. Returns nil when
// there is nothing to plot.
func TracksToCanvas(tracks []storage.Track, b physics.Bounds, cols, rows int) *viz.Canvas {
	if len(tracks) == 0 || b.X <= 0 || b.Y <= 0 || cols <= 0 || rows <= 0 {
		return nil
	}

	c := viz.NewCanvas(cols, rows)
	maxX, maxY := c.DotsWide()-1, c.DotsHigh()-1
	bx, by := float64(b.X), float64(b.Y)
	dot := func(p physics.Vec2) (int, int) {
		x := (float64(p.X) + bx) / (2 * bx) * float64(maxX)
		y := (by - float64(p.Y)) / (2 * by) * float64(maxY)
		return int(math.Round(x)), int(math.Round(y))
	}

	c.DrawRect(0, 0, maxX, maxY)
	for _, tr := range tracks {
		for j := 1; j < len(tr.Points); j++ {
			x0, y0 := dot(tr.Points[j-1])
			x1, y1 := dot(tr.Points[j])
			c.DrawLine(x0, y0, x1, y1)
		}
		if n := len(tr.Points); n > 0 {
			x, y := dot(tr.Points[n-1])
			c.FillCircle(x, y, 1)
		}
	}
	return c
}

// CanvasToSVG draws each set braille dot of canvas as a circle. Every dot
// cell is scale units wide.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil || scale <= 0 {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	r := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoriesToSVG draws every track inside the domain box described by b.
// Domain y grows upward, so it is flipped onto the SVG plane.
func TrajectoriesToSVG(tracks []storage.Track, b physics.Bounds, width, height int) string {
	if len(tracks) == 0 || b.X <= 0 || b.Y <= 0 || width <= 0 || height <= 0 {
		return ""
	}

	const pad = 10.0
	w := float64(width) - 2*pad
	h := float64(height) - 2*pad
	bx, by := float64(b.X), float64(b.Y)
	project := func(p physics.Vec2) (float64, float64) {
		x := pad + (float64(p.X)+bx)/(2*bx)*w
		y := pad + (by-float64(p.Y))/(2*by)*h
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444444" stroke-width="1"/>
`, width, height, width, height, pad, pad, w, h)

	// Lead particle last so it stays on top.
	for i := len(tracks) - 1; i >= 0; i-- {
		tr := tracks[i]
		if len(tr.Points) == 0 {
			continue
		}
		color := trackColors[tr.Particle%len(trackColors)]
		if tr.Particle == 0 {
			color = LeadColor
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j, p := range tr.Points {
			x, y := project(p)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(tr.Points[len(tr.Points)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", x, y, color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
