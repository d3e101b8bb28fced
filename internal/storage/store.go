package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Source    string  `json:"source"`
	Preset    string  `json:"preset,omitempty"`
	Step      string  `json:"step,omitempty"` // scenario step name
	Seed      int64   `json:"seed"`
	Particles int     `json:"particles"`
	Damping   float32 `json:"damping"`
	Rotation  int     `json:"rotation"`
	FrameRate int     `json:"frame_rate"`
	Duration  float64 `json:"duration"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Frames    int                `json:"frames"`
	Samples   uint64             `json:"samples"`
	Bounds    physics.Bounds     `json:"bounds"`
	Metrics   map[string]float64 `json:"metrics"`
	RunInfo
}

// TraceRow is one particle in one frame.
type TraceRow struct {
	Frame    int     `csv:"frame"`
	Time     float64 `csv:"time"`
	Particle int     `csv:"particle"`
	X        float32 `csv:"x"`
	Y        float32 `csv:"y"`
	VX       float32 `csv:"vx"`
	VY       float32 `csv:"vy"`
	AccelX   float32 `csv:"accel_x"`
	AccelY   float32 `csv:"accel_y"`
}

// TraceRows flattens frames into rows in frame, then particle, order.
func TraceRows(frames []sim.Frame) []TraceRow {
	rows := make([]TraceRow, 0)
	for i, f := range frames {
		rows = append(rows, frameRows(i, f)...)
	}
	return rows
}

func frameRows(index int, f sim.Frame) []TraceRow {
	rows := make([]TraceRow, 0, len(f.Positions))
	for p := range f.Positions {
		rows = append(rows, TraceRow{
			Frame:    index,
			Time:     f.Time,
			Particle: p,
			X:        f.Positions[p].X,
			Y:        f.Positions[p].Y,
			VX:       f.Velocities[p].X,
			VY:       f.Velocities[p].Y,
			AccelX:   f.AccelX,
			AccelY:   f.AccelY,
		})
	}
	return rows
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Source, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Frames:    len(result.Frames),
		Samples:   result.Samples,
		Metrics:   result.Metrics,
		RunInfo:   info,
	}
	if n := len(result.Frames); n > 0 {
		meta.Bounds = result.Frames[n-1].Bounds
	}

	metaPath := filepath.Join(runDir, metadataFile)
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	tracePath := filepath.Join(runDir, traceFile)
	f, err := os.Create(tracePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rows := TraceRows(result.Frames)
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return "", fmt.Errorf("writing trace: %w", err)
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]TraceRow, error) {
	tracePath := filepath.Join(s.baseDir, runID, traceFile)
	file, err := os.Open(tracePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows := make([]TraceRow, 0)
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return rows, nil
}

// Track is one particle's path through a run.
type Track struct {
	Particle int
	Times    []float64
	Points   []physics.Vec2
}

// Tracks groups trace rows by particle, in particle order.
func Tracks(rows []TraceRow) []Track {
	byParticle := make(map[int]*Track)
	ids := make([]int, 0)
	for _, r := range rows {
		tr, ok := byParticle[r.Particle]
		if !ok {
			tr = &Track{Particle: r.Particle}
			byParticle[r.Particle] = tr
			ids = append(ids, r.Particle)
		}
		tr.Times = append(tr.Times, r.Time)
		tr.Points = append(tr.Points, physics.Vec2{X: r.X, Y: r.Y})
	}
	sort.Ints(ids)

	out := make([]Track, len(ids))
	for i, id := range ids {
		out[i] = *byParticle[id]
	}
	return out
}
