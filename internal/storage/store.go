package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/spacetime"
)

const (
	metadataFile = "metadata.json"
	bodiesFile   = "bodies.csv"
	frameFile    = "frame.svg"
)

var bodiesHeader = []string{"name", "x", "y", "vx", "vy", "mass", "density", "focus"}

// ErrBadRecord is returned when a bodies.csv row cannot be parsed.
var ErrBadRecord = errors.New("storage: malformed body record")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved snapshot.
type RunMetadata struct {
	ID            string    `json:"id"`
	Scene         string    `json:"scene"`
	Timestamp     time.Time `json:"timestamp"`
	Steps         uint64    `json:"steps"`
	SimTime       float64   `json:"sim_time"`
	Dt            float64   `json:"dt"`
	Integrator    string    `json:"integrator"`
	Theta         float64   `json:"theta"`
	Bodies        int       `json:"bodies"`
	InitialEnergy float64   `json:"initial_energy"`
	Energy        float64   `json:"energy"`
	EnergyDrift   float64   `json:"energy_drift"`
	HasFrame      bool      `json:"has_frame"`
}

// Save writes a snapshot directory and returns its ID. frame may be nil.
func (s *Store) Save(meta RunMetadata, bodies []spacetime.Body, frame []byte) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	name := meta.Scene
	if name == "" {
		name = "custom"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	meta.Bodies = len(bodies)
	meta.HasFrame = frame != nil

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeBodies(filepath.Join(runDir, bodiesFile), bodies); err != nil {
		return "", err
	}
	if frame != nil {
		if err := os.WriteFile(filepath.Join(runDir, frameFile), frame, 0644); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func writeBodies(path string, bodies []spacetime.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(bodiesHeader); err != nil {
		return err
	}
	for _, b := range bodies {
		row := []string{
			b.Name,
			formatFloat(b.Position.X),
			formatFloat(b.Position.Y),
			formatFloat(b.Velocity.X),
			formatFloat(b.Velocity.Y),
			formatFloat(b.Mass),
			formatFloat(b.Density),
			strconv.FormatBool(b.Focus),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable snapshot, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadBodies reads a snapshot's bodies back. Trails are not stored.
func (s *Store) LoadBodies(runID string) ([]spacetime.Body, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, bodiesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(bodiesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	if len(records) < 1 {
		return []spacetime.Body{}, nil
	}

	bodies := make([]spacetime.Body, 0, len(records)-1)
	for i, rec := range records[1:] {
		b, err := parseBody(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrBadRecord, i+1, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func parseBody(rec []string) (spacetime.Body, error) {
	var vals [6]float64
	for i := range vals {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return spacetime.Body{}, err
		}
		vals[i] = v
	}
	focus, err := strconv.ParseBool(rec[7])
	if err != nil {
		return spacetime.Body{}, err
	}
	return spacetime.Body{
		Name:     rec[0],
		Position: r2.Vec{X: vals[0], Y: vals[1]},
		Velocity: r2.Vec{X: vals[2], Y: vals[3]},
		Mass:     vals[4],
		Density:  vals[5],
		Focus:    focus,
	}, nil
}

// FramePath returns where a snapshot's SVG frame lives.
func (s *Store) FramePath(runID string) string {
	return filepath.Join(s.baseDir, runID, frameFile)
}
