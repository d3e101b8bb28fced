package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/tiltsim/internal/sim"
)

type ExportData struct {
	Meta  *RunMetadata `json:"meta"`
	Trace []TraceRow   `json:"trace"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, rows []TraceRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: meta, Trace: rows})
}

func ExportCSV(w io.Writer, rows []TraceRow) error {
	return gocsv.Marshal(&rows, w)
}

// TraceWriter streams frames as trace CSV, numbering them from 0 in the
// order they are written. The header goes out with the first frame.
type TraceWriter struct {
	w      io.Writer
	frames int
}

func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: w}
}

func (t *TraceWriter) WriteFrame(f sim.Frame) error {
	rows := frameRows(t.frames, f)
	var err error
	if t.frames == 0 {
		err = gocsv.Marshal(&rows, t.w)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, t.w)
	}
	if err != nil {
		return err
	}
	t.frames++
	return nil
}

// Frames is the number of frames written so far.
func (t *TraceWriter) Frames() int { return t.frames }
