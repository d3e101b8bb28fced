package sensor

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// Source produces raw accelerometer readings for a host that has no
// physical sensor. t is seconds since the session started.
type Source interface {
	Sample(t float64) Vector
}

// Constant holds the device at a fixed tilt.
type Constant struct {
	Reading Vector
}

// NewTilt returns a Constant for a device rotated xDeg about its y axis
// and yDeg about its x axis. Positive xDeg lowers the left edge, which
// reads as positive X and rolls the balls left.
func NewTilt(xDeg, yDeg float64) *Constant {
	return &Constant{Reading: tiltVector(xDeg, yDeg)}
}

func (c *Constant) Sample(float64) Vector { return c.Reading }

// Circle sweeps the tilt direction around a full turn every 1/Frequency
// seconds at a fixed tilt angle.
type Circle struct {
	TiltDeg   float64
	Frequency float64
}

func NewCircle(tiltDeg, frequency float64) *Circle {
	return &Circle{TiltDeg: tiltDeg, Frequency: frequency}
}

func (c *Circle) Sample(t float64) Vector {
	phase := 2 * math.Pi * c.Frequency * t
	return tiltVector(c.TiltDeg*math.Cos(phase), c.TiltDeg*math.Sin(phase))
}

// Shake adds seeded uniform jitter of up to Amplitude m/s² per axis to a
// base reading.
type Shake struct {
	Base      Vector
	Amplitude float32
	rng       *rand.Rand
}

func NewShake(base Vector, amplitude float32, seed int64) *Shake {
	return &Shake{Base: base, Amplitude: amplitude, rng: rand.New(rand.NewSource(seed))}
}

func (s *Shake) Sample(float64) Vector {
	j := func() float32 { return (s.rng.Float32()*2 - 1) * s.Amplitude }
	return Vector{X: s.Base.X + j(), Y: s.Base.Y + j(), Z: s.Base.Z + j()}
}

// SampleRow is one recorded accelerometer reading.
type SampleRow struct {
	Time float64 `csv:"time"`
	X    float32 `csv:"x"`
	Y    float32 `csv:"y"`
	Z    float32 `csv:"z"`
}

// Replay plays back recorded readings, holding each until the next one's
// time is reached.
type Replay struct {
	rows []SampleRow
}

func NewReplay(rows []SampleRow) (*Replay, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sensor: replay needs at least one sample")
	}
	sorted := make([]SampleRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Replay{rows: sorted}, nil
}

// LoadReplay reads a CSV file with a time,x,y,z header.
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []SampleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("reading samples %s: %w", path, err)
	}
	return NewReplay(rows)
}

// WriteSamples records rows as CSV at path.
func WriteSamples(path string, rows []SampleRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

func (r *Replay) Sample(t float64) Vector {
	i := sort.Search(len(r.rows), func(i int) bool { return r.rows[i].Time > t })
	if i > 0 {
		i--
	}
	row := r.rows[i]
	return Vector{X: row.X, Y: row.Y, Z: row.Z}
}

// Duration is the time of the last recorded reading.
func (r *Replay) Duration() float64 { return r.rows[len(r.rows)-1].Time }

func tiltVector(xDeg, yDeg float64) Vector {
	g := float64(StandardGravity)
	x := g * math.Sin(xDeg*math.Pi/180)
	y := g * math.Sin(yDeg*math.Pi/180)
	z := 0.0
	if zz := g*g - x*x - y*y; zz > 0 {
		z = math.Sqrt(zz)
	}
	return Vector{X: float32(x), Y: float32(y), Z: float32(z)}
}
