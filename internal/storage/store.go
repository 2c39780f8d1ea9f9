package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var header = []string{
	"frame", "time_ms", "event", "x", "cost", "vel_x", "vel_cost",
	"wave_offset", "wave_velocity", "droplets", "splashes", "animating",
}

type Store struct {
	baseDir string
	clock   clockwork.Clock
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, clock: clockwork.NewRealClock()}
}

// NewWithClock is New with an injected clock for run IDs and timestamps.
func NewWithClock(baseDir string, clock clockwork.Clock) *Store {
	return &Store{baseDir: baseDir, clock: clock}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Script    string             `json:"script"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	FrameMs   float64            `json:"frame_ms"`
	Frames    int                `json:"frames"`
	Settled   bool               `json:"settled"`
	Truncated bool               `json:"truncated"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the trace under a new run directory and returns its ID. Name,
// Preset, Seed and FrameMs are taken from meta, and any Metrics are merged
// over the trace summary; the rest is filled in.
func (s *Store) Save(meta RunMetadata, trace *experiment.Trace) (string, error) {
	if trace == nil {
		return "", fmt.Errorf("storage: nil trace")
	}
	if meta.Name == "" {
		meta.Name = "run"
	}
	now := s.clock.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.Script = trace.Script
	meta.Frames = len(trace.Rows)
	meta.Settled = trace.Settled
	meta.Truncated = trace.Truncated
	summary := trace.Summary()
	for k, v := range meta.Metrics {
		summary[k] = v
	}
	meta.Metrics = summary

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), trace.Rows); err != nil {
		return "", err
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

func writeFrames(path string, rows []experiment.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Frame),
			formatFloat(r.TimeMs),
			r.Event,
			formatFloat(r.X),
			formatFloat(r.Cost),
			formatFloat(r.VelX),
			formatFloat(r.VelCost),
			formatFloat(r.WaveOffset),
			formatFloat(r.WaveVelocity),
			strconv.Itoa(r.Droplets),
			strconv.Itoa(r.Splashes),
			strconv.FormatBool(r.Animating),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads a run's per-frame rows. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]experiment.Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.Row{}, nil
	}

	rows := make([]experiment.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, ok := parseRow(rec)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadTrace rebuilds a trace from a stored run.
func (s *Store) LoadTrace(runID string) (*RunMetadata, *experiment.Trace, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	trace := &experiment.Trace{
		Script:    meta.Script,
		Rows:      rows,
		Settled:   meta.Settled,
		Truncated: meta.Truncated,
	}
	if v, ok := meta.Metrics["settle_frame"]; ok {
		trace.SettleFrame = int(v)
	}
	return meta, trace, nil
}

func parseRow(rec []string) (experiment.Row, bool) {
	if len(rec) != len(header) {
		return experiment.Row{}, false
	}

	var (
		row  experiment.Row
		errs []error
	)
	atoi := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}
	atof := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}

	row.Frame = atoi(rec[0])
	row.TimeMs = atof(rec[1])
	row.Event = rec[2]
	row.X = atof(rec[3])
	row.Cost = atof(rec[4])
	row.VelX = atof(rec[5])
	row.VelCost = atof(rec[6])
	row.WaveOffset = atof(rec[7])
	row.WaveVelocity = atof(rec[8])
	row.Droplets = atoi(rec[9])
	row.Splashes = atoi(rec[10])
	animating, err := strconv.ParseBool(rec[11])
	errs = append(errs, err)
	row.Animating = animating

	if errors.Join(errs...) != nil {
		return experiment.Row{}, false
	}
	return row, true
}
