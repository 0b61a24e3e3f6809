package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewOutputManager_DisabledWhenDirEmpty(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager when output is disabled")
	}

	// Nil manager discards writes without error
	if err := om.WriteSession(SessionRecord{}); err != nil {
		t.Errorf("nil manager WriteSession error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager Close error: %v", err)
	}
}

func TestWriteSession_HeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	records := []SessionRecord{
		{Timestamp: "2026-01-01T00:00:00Z", PackID: "shimeji", PetID: 1, WalksTaken: 4, FinalHappiness: 72.5},
		{Timestamp: "2026-01-01T00:00:00Z", PackID: "shimeji", PetID: 2, WallClimbs: 2, FinalEnergy: 31},
	}
	for _, rec := range records {
		if err := om.WriteSession(rec); err != nil {
			t.Fatalf("WriteSession error: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		t.Fatalf("reading sessions.csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "pack_id") || !strings.Contains(lines[0], "wall_climbs") {
		t.Errorf("header missing expected columns: %s", lines[0])
	}
	if !strings.Contains(lines[1], "72.5") {
		t.Errorf("first record missing happiness value: %s", lines[1])
	}
	if strings.Contains(lines[2], "pack_id") {
		t.Errorf("header repeated on second write: %s", lines[2])
	}
}

func TestWriteSession_AppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	// First run writes header + one record
	om1, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}
	if err := om1.WriteSession(SessionRecord{PackID: "a", PetID: 1}); err != nil {
		t.Fatalf("WriteSession error: %v", err)
	}
	om1.Close()

	// Second run appends without duplicating the header
	om2, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}
	if err := om2.WriteSession(SessionRecord{PackID: "b", PetID: 2}); err != nil {
		t.Fatalf("WriteSession error: %v", err)
	}
	om2.Close()

	data, err := os.ReadFile(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		t.Fatalf("reading sessions.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records across runs, got %d lines:\n%s", len(lines), data)
	}
	if strings.Count(string(data), "pack_id") != 1 {
		t.Errorf("header should appear exactly once:\n%s", data)
	}
}
