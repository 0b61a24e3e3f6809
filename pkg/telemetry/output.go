// Package telemetry writes session statistics to CSV for later inspection.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/teknisee/shimeji/pkg/pet"
)

// SessionRecord is one row in sessions.csv, summarizing a single pet's
// lifetime over one application run.
type SessionRecord struct {
	Timestamp      string  `csv:"timestamp"`
	PackID         string  `csv:"pack_id"`
	PetID          uint64  `csv:"pet_id"`
	UptimeSeconds  float64 `csv:"uptime_seconds"`
	WalksTaken     int     `csv:"walks_taken"`
	TimesPetted    int     `csv:"times_petted"`
	SpecialActions int     `csv:"special_actions"`
	WallClimbs     int     `csv:"wall_climbs"`
	FinalHappiness float64 `csv:"final_happiness"`
	FinalEnergy    float64 `csv:"final_energy"`
}

// OutputManager appends session records to sessions.csv in the output
// directory. A nil OutputManager is valid and discards all writes, so
// callers never branch on whether stats output is enabled.
type OutputManager struct {
	dir         string
	sessionFile *os.File

	headerWritten bool
}

// NewOutputManager creates the output directory and opens sessions.csv
// for appending. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, "sessions.csv")
	info, err := os.Stat(path)
	existing := err == nil && info.Size() > 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating sessions.csv: %w", err)
	}

	return &OutputManager{
		dir:           dir,
		sessionFile:   f,
		headerWritten: existing,
	}, nil
}

// WriteSession appends one session record.
func (om *OutputManager) WriteSession(rec SessionRecord) error {
	if om == nil {
		return nil
	}

	records := []SessionRecord{rec}

	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.sessionFile); err != nil {
			return fmt.Errorf("writing session record: %w", err)
		}
		om.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.sessionFile); err != nil {
			return fmt.Errorf("writing session record: %w", err)
		}
	}

	return nil
}

// WritePets writes one record per live pet, stamped with the current time.
func (om *OutputManager) WritePets(pets []*pet.Pet, uptime time.Duration) error {
	if om == nil {
		return nil
	}

	now := time.Now().Format(time.RFC3339)
	for _, p := range pets {
		rec := SessionRecord{
			Timestamp:      now,
			PackID:         p.PackID,
			PetID:          uint64(p.ID),
			UptimeSeconds:  uptime.Seconds(),
			WalksTaken:     p.Stats.WalksTaken,
			TimesPetted:    p.Stats.TimesPetted,
			SpecialActions: p.Stats.SpecialActions,
			WallClimbs:     p.Stats.WallClimbs,
			FinalHappiness: p.Stats.Happiness,
			FinalEnergy:    p.Stats.Energy,
		}
		if err := om.WriteSession(rec); err != nil {
			return err
		}
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the session file.
func (om *OutputManager) Close() error {
	if om == nil || om.sessionFile == nil {
		return nil
	}
	return om.sessionFile.Close()
}
