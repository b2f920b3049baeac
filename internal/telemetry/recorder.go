// Package telemetry records per-tick water surface statistics as CSV.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/water"
)

// SurfaceRecord is one row of surface.csv.
type SurfaceRecord struct {
	Tick       int     `csv:"tick"`
	ElapsedMs  float64 `csv:"elapsed_ms"`
	MinHeight  float64 `csv:"min_height"`
	MaxHeight  float64 `csv:"max_height"`
	MeanHeight float64 `csv:"mean_height"`
	MaxSpeed   float64 `csv:"max_speed"`
	Energy     float64 `csv:"energy"`
	FlowTu     float32 `csv:"flow_tu"`
	FlowTv     float32 `csv:"flow_tv"`
}

// NewSurfaceRecord snapshots w at the given tick.
func NewSurfaceRecord(tick int, elapsedMs float64, w *water.Water) SurfaceRecord {
	s := w.Stats()
	tu, tv := w.Flow().Offset()
	return SurfaceRecord{
		Tick:       tick,
		ElapsedMs:  elapsedMs,
		MinHeight:  s.MinHeight,
		MaxHeight:  s.MaxHeight,
		MeanHeight: s.MeanHeight,
		MaxSpeed:   s.MaxSpeed,
		Energy:     s.Energy,
		FlowTu:     tu,
		FlowTv:     tv,
	}
}

// Recorder writes surface records into an output directory.
// A nil *Recorder is valid and discards everything.
type Recorder struct {
	dir           string
	surfaceFile   *os.File
	headerWritten bool
}

// NewRecorder creates dir and opens surface.csv inside it.
// Returns nil if dir is empty (output disabled).
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "surface.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating surface.csv: %w", err)
	}

	return &Recorder{dir: dir, surfaceFile: f}, nil
}

// Dir returns the output directory.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// WriteConfig saves the effective configuration next to the CSV.
func (r *Recorder) WriteConfig(cfg *config.Config) error {
	if r == nil {
		return nil
	}
	return cfg.SaveTo(filepath.Join(r.dir, "config.yaml"))
}

// Write appends one record to surface.csv. The header is written once.
func (r *Recorder) Write(rec SurfaceRecord) error {
	if r == nil {
		return nil
	}

	records := []SurfaceRecord{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.surfaceFile); err != nil {
			return fmt.Errorf("writing surface record: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.surfaceFile); err != nil {
		return fmt.Errorf("writing surface record: %w", err)
	}
	return nil
}

// Close flushes and closes the output file.
func (r *Recorder) Close() error {
	if r == nil || r.surfaceFile == nil {
		return nil
	}
	err := r.surfaceFile.Close()
	r.surfaceFile = nil
	return err
}

// ReadSurface loads every record from a surface.csv file.
func ReadSurface(path string) ([]SurfaceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []SurfaceRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}
