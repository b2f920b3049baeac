package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/water"
)

func TestNilRecorderDiscards(t *testing.T) {
	r, err := NewRecorder("")
	if err != nil {
		t.Fatalf("NewRecorder(\"\") error: %v", err)
	}
	if r != nil {
		t.Fatal("expected nil recorder for empty dir")
	}
	if err := r.Write(SurfaceRecord{Tick: 1}); err != nil {
		t.Errorf("nil Write: %v", err)
	}
	if err := r.WriteConfig(config.Default()); err != nil {
		t.Errorf("nil WriteConfig: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestRecorderWritesRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}

	w, err := water.New(water.DefaultConfig(0, 0, 40, 0))
	if err != nil {
		t.Fatal(err)
	}
	for tick := 1; tick <= 3; tick++ {
		w.Update(16)
		if err := r.Write(NewSurfaceRecord(tick, float64(tick)*16, w)); err != nil {
			t.Fatalf("Write tick %d: %v", tick, err)
		}
	}
	if err := r.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := ReadSurface(filepath.Join(dir, "surface.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("read %d records, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Tick != i+1 {
			t.Errorf("record %d tick = %d, want %d", i, rec.Tick, i+1)
		}
		if rec.MaxHeight < rec.MinHeight {
			t.Errorf("record %d: max %v < min %v", i, rec.MaxHeight, rec.MinHeight)
		}
	}
	if records[2].FlowTu <= records[0].FlowTu {
		t.Errorf("flow did not advance: %v -> %v", records[0].FlowTu, records[2].FlowTu)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
