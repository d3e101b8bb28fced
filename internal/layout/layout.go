// Package layout converts screen geometry into domain bounds and maps
// simulation positions back onto the screen.
package layout

import (
	"errors"
	"fmt"

	"github.com/san-kum/tiltsim/internal/physics"
)

const (
	// DefaultBallDiameter is about half a centimetre on screen.
	DefaultBallDiameter float32 = 0.006

	metersPerInch float32 = 0.0254
)

var ErrInvalidGeometry = errors.New("layout: invalid geometry")

// Geometry describes the drawing surface.
type Geometry struct {
	WidthPx      int     `yaml:"width_px" json:"width_px"`
	HeightPx     int     `yaml:"height_px" json:"height_px"`
	XDPI         float32 `yaml:"xdpi" json:"xdpi"`
	YDPI         float32 `yaml:"ydpi" json:"ydpi"`
	BallDiameter float32 `yaml:"ball_diameter" json:"ball_diameter"`
}

func (g Geometry) Validate() error {
	switch {
	case g.WidthPx <= 0 || g.HeightPx <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidGeometry, g.WidthPx, g.HeightPx)
	case g.XDPI <= 0 || g.YDPI <= 0:
		return fmt.Errorf("%w: dpi %gx%g", ErrInvalidGeometry, g.XDPI, g.YDPI)
	case g.BallDiameter <= 0:
		return fmt.Errorf("%w: ball diameter %g", ErrInvalidGeometry, g.BallDiameter)
	}
	return nil
}

// Layout is the derived screen mapping for one Geometry.
type Layout struct {
	Geometry Geometry

	// MetersToPixelsX and MetersToPixelsY are pixels per meter.
	MetersToPixelsX float32
	MetersToPixelsY float32

	// BallWidthPx and BallHeightPx are the ball sprite size.
	BallWidthPx  int
	BallHeightPx int

	// OriginX and OriginY place a ball at simulation (0, 0).
	OriginX float32
	OriginY float32

	Bounds physics.Bounds
}

// New derives the layout for g.
func New(g Geometry) (Layout, error) {
	if err := g.Validate(); err != nil {
		return Layout{}, err
	}

	mx := g.XDPI / metersPerInch
	my := g.YDPI / metersPerInch

	bw := int(g.BallDiameter*mx + 0.5)
	bh := int(g.BallDiameter*my + 0.5)

	w := float32(g.WidthPx)
	h := float32(g.HeightPx)

	return Layout{
		Geometry:        g,
		MetersToPixelsX: mx,
		MetersToPixelsY: my,
		BallWidthPx:     bw,
		BallHeightPx:    bh,
		OriginX:         (w - float32(bw)) * 0.5,
		OriginY:         (h - float32(bh)) * 0.5,
		Bounds:          BoundsFor(w/mx, h/my, g.BallDiameter),
	}, nil
}

// BoundsFor returns the half-extents that keep a ball of the given
// diameter fully inside a widthMeters x heightMeters surface.
func BoundsFor(widthMeters, heightMeters, ballDiameter float32) physics.Bounds {
	return physics.Bounds{
		X: nonNegative((widthMeters - ballDiameter) * 0.5),
		Y: nonNegative((heightMeters - ballDiameter) * 0.5),
	}
}

// ToScreen maps a simulation position to the top-left pixel of its ball.
// Screen y grows downward, so the y axis flips.
func (l Layout) ToScreen(p physics.Vec2) (x, y float32) {
	return l.OriginX + p.X*l.MetersToPixelsX, l.OriginY - p.Y*l.MetersToPixelsY
}

// Center maps a simulation position to the pixel at the ball's centre.
func (l Layout) Center(p physics.Vec2) (x, y float32) {
	x, y = l.ToScreen(p)
	return x + float32(l.BallWidthPx)*0.5, y + float32(l.BallHeightPx)*0.5
}

// FitDPI picks a uniform DPI at which a surface of widthPx x heightPx
// spans the given physical width in meters. Hosts without a real display
// density (terminal, window) use it to choose a scale.
func FitDPI(widthPx int, widthMeters float32) float32 {
	if widthPx <= 0 || widthMeters <= 0 {
		return 0
	}
	return float32(widthPx) / widthMeters * metersPerInch
}

func nonNegative(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}
