package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sim"
)

func testResult() *sim.Result {
	b := physics.Bounds{X: 0.03, Y: 0.05}
	return &sim.Result{
		Frames: []sim.Frame{
			{
				Time:       0,
				Bounds:     b,
				Positions:  []physics.Vec2{{X: 0.01, Y: 0.02}, {X: -0.01, Y: 0}},
				Velocities: []physics.Vec2{{}, {}},
			},
			{
				Time:       0.5,
				AccelX:     1,
				Bounds:     b,
				Positions:  []physics.Vec2{{X: 0.03, Y: 0.02}, {X: -0.02, Y: 0.01}},
				Velocities: []physics.Vec2{{X: 0, Y: 0.1}, {X: -0.1, Y: 0}},
			},
		},
		Metrics: map[string]float64{"wall_contact": 0.25},
		Samples: 2,
	}
}

func testInfo() RunInfo {
	return RunInfo{Source: "tilt", Seed: 42, Particles: 2, Damping: 5, FrameRate: 2, Duration: 0.5}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "tilt_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Frames != 2 || meta.Samples != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Bounds != (physics.Bounds{X: 0.03, Y: 0.05}) {
		t.Errorf("unexpected bounds %+v", meta.Bounds)
	}
	if meta.Metrics["wall_contact"] != 0.25 {
		t.Errorf("expected wall_contact 0.25, got %f", meta.Metrics["wall_contact"])
	}

	rows, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[2].Frame != 1 || rows[2].Particle != 0 || rows[2].X != 0.03 || rows[2].VY != 0.1 || rows[2].AccelX != 1 {
		t.Errorf("unexpected row %+v", rows[2])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testInfo(), testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, traceFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestTracks(t *testing.T) {
	tracks := Tracks(TraceRows(testResult().Frames))
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[1].Particle != 1 || len(tracks[1].Points) != 2 {
		t.Errorf("unexpected track %+v", tracks[1])
	}
	if tracks[1].Points[1] != (physics.Vec2{X: -0.02, Y: 0.01}) {
		t.Errorf("unexpected point %+v", tracks[1].Points[1])
	}
}

func TestExport(t *testing.T) {
	rows := TraceRows(testResult().Frames)

	var csvBuf bytes.Buffer
	if err := ExportCSV(&csvBuf, rows); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvBuf.String()), "\n")
	if len(lines) != 5 || !strings.HasPrefix(lines[0], "frame,time,particle,x,y") {
		t.Errorf("unexpected csv output:\n%s", csvBuf.String())
	}

	var jsonBuf bytes.Buffer
	meta := &RunMetadata{ID: "run", RunInfo: testInfo()}
	if err := ExportJSON(&jsonBuf, meta, rows); err != nil {
		t.Fatalf("json export failed: %v", err)
	}
	var decoded ExportData
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Meta.ID != "run" || len(decoded.Trace) != 4 {
		t.Errorf("unexpected export %+v", decoded)
	}
}

func TestTraceWriterMatchesExport(t *testing.T) {
	frames := testResult().Frames

	var streamed bytes.Buffer
	tw := NewTraceWriter(&streamed)
	for _, f := range frames {
		if err := tw.WriteFrame(f); err != nil {
			t.Fatalf("write frame failed: %v", err)
		}
	}
	if tw.Frames() != len(frames) {
		t.Errorf("expected %d frames written, got %d", len(frames), tw.Frames())
	}

	var exported bytes.Buffer
	if err := ExportCSV(&exported, TraceRows(frames)); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	if streamed.String() != exported.String() {
		t.Errorf("streamed csv differs from export:\n%s\nvs\n%s", streamed.String(), exported.String())
	}
}
