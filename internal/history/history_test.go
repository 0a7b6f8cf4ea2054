package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haskel/cancerform/internal/predictor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testResult(pred int, conf float64) *predictor.Result {
	return &predictor.Result{
		Prediction: pred,
		Confidence: conf,
		Probabilities: predictor.Probabilities{
			Malignant: conf,
			Benign:    100 - conf,
		},
	}
}

func TestStore_NewEmptyData(t *testing.T) {
	data := newEmptyData()

	if data.Version != currentVersion {
		t.Errorf("expected version %d, got %d", currentVersion, data.Version)
	}

	if data.Entries == nil {
		t.Error("expected Entries to be initialized")
	}
}

func TestStore_Record(t *testing.T) {
	s := New(t.TempDir(), time.Second, 0, testLogger())

	err := s.Record([]string{"mean radius", "mean texture"}, []float64{12.3, 5}, testResult(0, 91.2))
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	entries := s.List(0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.ID == "" {
		t.Error("expected an id")
	}
	if e.Features["mean radius"] != 12.3 || e.Features["mean texture"] != 5 {
		t.Errorf("unexpected features: %v", e.Features)
	}
	if e.Order[0] != "mean radius" {
		t.Errorf("unexpected order: %v", e.Order)
	}
	if e.Result.Confidence != 91.2 {
		t.Errorf("unexpected result: %+v", e.Result)
	}
	if !s.IsDirty() {
		t.Error("expected store to be dirty")
	}
}

func TestStore_RecordRejectsMismatch(t *testing.T) {
	s := New(t.TempDir(), time.Second, 0, testLogger())

	if err := s.Record([]string{"a"}, []float64{1, 2}, testResult(1, 80)); err == nil {
		t.Error("expected error for length mismatch")
	}
	if err := s.Record([]string{"a"}, []float64{1}, nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestStore_MaxEntries(t *testing.T) {
	s := New(t.TempDir(), time.Second, 2, testLogger())

	for i := 0; i < 5; i++ {
		s.Record([]string{"a"}, []float64{float64(i)}, testResult(1, 60))
	}

	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}

	entries := s.List(0)
	if entries[0].Features["a"] != 4 || entries[1].Features["a"] != 3 {
		t.Errorf("expected newest entries kept, newest first")
	}
}

func TestStore_ListLimit(t *testing.T) {
	s := New(t.TempDir(), time.Second, 0, testLogger())
	for i := 0; i < 3; i++ {
		s.Record([]string{"a"}, []float64{float64(i)}, testResult(1, 60))
	}

	if got := len(s.List(2)); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
	if got := len(s.List(10)); got != 3 {
		t.Errorf("expected 3 entries, got %d", got)
	}
}

func TestStore_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	s := New(tmpDir, time.Second, 0, testLogger())
	s.Record([]string{"a", "b"}, []float64{1, 2}, testResult(0, 91.2))
	s.Record([]string{"a", "b"}, []float64{3, 4}, testResult(1, 70))

	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if s.IsDirty() {
		t.Error("expected clean store after save")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, dataFileName)); err != nil {
		t.Fatalf("data file should exist: %v", err)
	}

	s2 := New(tmpDir, time.Second, 0, testLogger())
	if err := s2.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if s2.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s2.Len())
	}
	if s2.List(1)[0].Features["a"] != 3 {
		t.Error("expected newest entry first after reload")
	}
}

func TestStore_LoadNonExistent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"), time.Second, 0, testLogger())

	if err := s.Load(); err != nil {
		t.Fatalf("load should not fail for missing file: %v", err)
	}
	if s.Len() != 0 {
		t.Error("expected empty store")
	}
}

func TestStore_LoadCorrupted(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, dataFileName), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(tmpDir, time.Second, 0, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load should recover from corrupted file: %v", err)
	}
	if s.Len() != 0 {
		t.Error("expected empty store")
	}
}

func TestStore_LoadNewerVersion(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"version": 99, "entries": [{"id": "x"}]}`
	if err := os.WriteFile(filepath.Join(tmpDir, dataFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(tmpDir, time.Second, 0, testLogger())
	s.Load()
	if s.Len() != 0 {
		t.Error("expected newer version to be ignored")
	}
}

func TestStore_StartStop(t *testing.T) {
	tmpDir := t.TempDir()
	s := New(tmpDir, 50*time.Millisecond, 0, testLogger())

	s.Start(context.Background())
	s.Record([]string{"a"}, []float64{1}, testResult(1, 55))

	time.Sleep(150 * time.Millisecond)

	if s.IsDirty() {
		t.Error("expected flush loop to save dirty data")
	}

	s.Record([]string{"a"}, []float64{2}, testResult(1, 55))
	if err := s.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	s2 := New(tmpDir, time.Second, 0, testLogger())
	s2.Load()
	if s2.Len() != 2 {
		t.Errorf("expected 2 persisted entries, got %d", s2.Len())
	}
}
