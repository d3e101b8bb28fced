package gui

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/tiltsim/internal/layout"
	"github.com/san-kum/tiltsim/internal/sensor"
	"github.com/san-kum/tiltsim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColBall    = rl.NewColor(200, 200, 200, 255)
	ColLead    = rl.NewColor(230, 41, 55, 255)
)

const (
	maxTelemetry = 200

	// tiltRate is how fast a held arrow key tilts the device, in degrees per second.
	tiltRate = 60.0
	maxTilt  = 90.0
)

// Options configures the window host.
type Options struct {
	Width, Height int32
	FPS           int32
	// DPI is the pixel density the window pretends to have.
	DPI          float32
	BallDiameter float32
	Source       sensor.Source
	TiltX, TiltY float64
	Logger       *slog.Logger
}

type App struct {
	host         *sim.Host
	opts         Options
	source       sensor.Source
	tiltX, tiltY float64
	started      time.Time
	last         sim.Frame
	telemetry    []float64
	logger       *slog.Logger
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(opts.Width, opts.Height, "tiltsim")
	rl.SetTargetFPS(opts.FPS)
	rl.SetExitKey(0)
}

// Run opens a window and hosts the simulation until it is closed.
func Run(host *sim.Host, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = 540
	}
	if opts.Height <= 0 {
		opts.Height = 960
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.BallDiameter <= 0 {
		opts.BallDiameter = layout.DefaultBallDiameter
	}
	if opts.DPI <= 0 {
		opts.DPI = 160
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	initWindow(opts)
	defer rl.CloseWindow()

	app := &App{
		host:      host,
		opts:      opts,
		source:    opts.Source,
		tiltX:     opts.TiltX,
		tiltY:     opts.TiltY,
		started:   time.Now(),
		telemetry: make([]float64, 0, maxTelemetry),
		logger:    opts.Logger,
	}
	if err := app.resize(); err != nil {
		return err
	}

	host.Start()
	defer host.Stop()
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if err := a.Update(); err != nil {
			return err
		}
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			return nil
		}
		a.Draw()
	}
	return nil
}

func (a *App) geometry() layout.Geometry {
	return layout.Geometry{
		WidthPx:      rl.GetScreenWidth(),
		HeightPx:     rl.GetScreenHeight(),
		XDPI:         a.opts.DPI,
		YDPI:         a.opts.DPI,
		BallDiameter: a.opts.BallDiameter,
	}
}

func (a *App) resize() error {
	g := a.geometry()
	if err := a.host.OnGeometryChanged(g); err != nil {
		return fmt.Errorf("window geometry: %w", err)
	}
	a.logger.Debug("window resized", "width_px", g.WidthPx, "height_px", g.HeightPx)
	return nil
}

// Update handles input, feeds one sensor reading and advances the host.
func (a *App) Update() error {
	if rl.IsWindowResized() {
		if err := a.resize(); err != nil {
			return err
		}
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		if a.host.Running() {
			a.host.Stop()
		} else {
			a.host.Start()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.host.OnRotationChanged(a.host.Rotation().Next())
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.source = nil
		a.tiltX, a.tiltY = 0, 0
	}

	step := tiltRate * float64(rl.GetFrameTime())
	var dx, dy float64
	if rl.IsKeyDown(rl.KeyLeft) {
		dx += step
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx -= step
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= step
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += step
	}
	if dx != 0 || dy != 0 {
		a.source = nil
		a.tiltX = clampTilt(a.tiltX + dx)
		a.tiltY = clampTilt(a.tiltY + dy)
	}

	now := time.Now()
	var raw sensor.Vector
	if a.source != nil {
		raw = a.source.Sample(now.Sub(a.started).Seconds())
	} else {
		raw = sensor.NewTilt(a.tiltX, a.tiltY).Reading
	}
	nanos := now.UnixNano()
	a.host.OnSensorSample(raw.X, raw.Y, raw.Z, nanos)
	a.last = a.host.Frame(nanos)

	if a.host.Running() {
		a.telemetry = append(a.telemetry, meanSpeed(a.last))
		if len(a.telemetry) > maxTelemetry {
			a.telemetry = a.telemetry[1:]
		}
	}
	return nil
}

func clampTilt(v float64) float64 {
	return math.Max(-maxTilt, math.Min(maxTilt, v))
}

func meanSpeed(f sim.Frame) float64 {
	if len(f.Velocities) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.Velocities {
		sum += math.Hypot(float64(v.X), float64(v.Y))
	}
	return sum / float64(len(f.Velocities))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawDomain()
	a.drawBalls()
	a.DrawHUD()
	a.drawControls()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("tiltsim", 20, 20, 24, ColSelect)

	status := "RUNNING"
	col := ColSelect
	if !a.host.Running() {
		status = "PAUSED"
		col = ColTextDim
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	rl.DrawText(status, w-panelWidth-20, 24, 16, col)

	mode := "manual"
	if a.source != nil {
		mode = "source"
	}
	lines := []string{
		fmt.Sprintf("t %.2fs  frame %d", a.last.Time, a.last.Index),
		fmt.Sprintf("rotation %s", a.host.Rotation()),
		fmt.Sprintf("tilt %+.0f %+.0f (%s)", a.tiltX, a.tiltY, mode),
		fmt.Sprintf("accel %+.2f %+.2f", a.last.AccelX, a.last.AccelY),
		fmt.Sprintf("bounds %.3f x %.3f m", a.last.Bounds.X, a.last.Bounds.Y),
	}
	for i, line := range lines {
		rl.DrawText(line, 20, 56+int32(i)*18, 14, ColText)
	}

	a.DrawTelemetry(20, h-110, 200, 50)
	rl.DrawText("[SPACE] PAUSE  [R] ROTATE  [C] LEVEL  [ARROWS] TILT  [Q] QUIT", 20, h-30, 12, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-80, h-30, 12, ColTextDim)
}

func (a *App) DrawTelemetry(rectX, rectY, width, height int32) {
	if len(a.telemetry) < 2 {
		return
	}

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("v %.3f m/s", a.telemetry[len(a.telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
