package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	catalogFile    = "runs.db"
)

// Store keeps one directory per run under baseDir and indexes the runs in a
// SQLite catalog at baseDir/runs.db.
type Store struct {
	baseDir string
	catalog *Catalog
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory and opens the catalog.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	cat, err := OpenCatalog(filepath.Join(s.baseDir, catalogFile))
	if err != nil {
		return err
	}
	s.catalog = cat
	return nil
}

func (s *Store) Close() error {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Close()
}

type RunMetadata struct {
	ID         string           `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	Scenario   *config.Scenario `json:"scenario"`
	Dt         float64          `json:"dt"`
	Steps      int              `json:"steps"`
	StepsTaken int              `json:"steps_taken"`
	Final      dynamo.State     `json:"final,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Save writes a run. A partial result from a failed run is stored with the
// failure recorded in runErr. Nothing is left on disk when Save fails.
func (s *Store) Save(sc *config.Scenario, plan dynamo.Config, result *dynamo.Result, runErr error) (string, error) {
	if s.catalog == nil {
		return "", errors.New("storage: store not initialised")
	}

	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now().UTC(),
		Scenario:   sc,
		Dt:         plan.Dt,
		Steps:      plan.Steps,
		StepsTaken: result.StepsTaken,
		Final:      result.Final,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	if err := writeRun(runDir, meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := s.catalog.Record(meta); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("catalog: %w", err)
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, result *dynamo.Result) error {
	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(f, result.Times, result.Trajectory); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the most recent runs first.
func (s *Store) List(limit int) ([]CatalogEntry, error) {
	if s.catalog == nil {
		return nil, errors.New("storage: store not initialised")
	}
	return s.catalog.Recent(limit)
}

// Resolve expands a unique prefix of a run ID.
func (s *Store) Resolve(prefix string) (string, error) {
	if s.catalog == nil {
		return "", errors.New("storage: store not initialised")
	}
	return s.catalog.Resolve(prefix)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads the recorded positions and their times.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, []float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// Delete removes a run's directory and catalog entry.
func (s *Store) Delete(runID string) error {
	if strings.ContainsAny(runID, `/\`) || runID == "" {
		return fmt.Errorf("invalid run id: %q", runID)
	}
	if err := os.RemoveAll(filepath.Join(s.baseDir, runID)); err != nil {
		return err
	}
	return s.catalog.Remove(runID)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
