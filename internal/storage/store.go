package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID           string             `json:"id"`
	Preset       string             `json:"preset,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Direction    gait.Direction     `json:"direction"`
	LockStrategy string             `json:"lock_strategy"`
	Params       gait.Params        `json:"params"`
	Ticks        int                `json:"ticks"`
	Displacement float64            `json:"displacement"`
	Completions  map[string]int     `json:"completions"`
	Metrics      map[string]float64 `json:"metrics"`
}

// NewRunID returns a sortable, unique run identifier.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.UTC().Format("20060102T150405"), uuid.NewString()[:8])
}

// Save writes metadata.json and samples.csv for a finished run. meta
// supplies the run settings; ID, Timestamp and the outcome fields are
// filled in here unless already set.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Timestamp)
	}
	meta.Ticks = result.TicksTaken
	meta.Displacement = result.Displacement
	meta.Metrics = result.Metrics
	meta.Completions = make(map[string]int)
	for reason, n := range result.Completions() {
		meta.Completions[reason.String()] = n
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
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

func samplesHeader() []string {
	header := []string{"time"}
	for _, side := range limb.Sides() {
		header = append(header, side.String())
	}
	return append(header, "phase", "index", "reason", "driven", "body_x")
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(samplesHeader()); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{strconv.FormatFloat(smp.Time, 'f', 6, 64)}
		for _, p := range smp.Progress {
			row = append(row, strconv.FormatFloat(p, 'f', 6, 64))
		}
		row = append(row,
			strconv.Itoa(int(smp.Phase)),
			strconv.Itoa(smp.Index),
			strconv.Itoa(int(smp.Reason)),
			strconv.Itoa(smp.Driven),
			strconv.FormatFloat(smp.BodyX, 'f', 6, 64),
		)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
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

// LoadSamples reads back the samples of a run. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
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
		return []sim.Sample{}, nil
	}

	width := len(samplesHeader())
	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != width {
			continue
		}
		smp, err := parseSample(record)
		if err != nil {
			continue
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, error) {
	var smp sim.Sample
	var err error

	if smp.Time, err = strconv.ParseFloat(record[0], 64); err != nil {
		return smp, err
	}
	for i := 0; i < limb.NumSides; i++ {
		if smp.Progress[i], err = strconv.ParseFloat(record[1+i], 64); err != nil {
			return smp, err
		}
	}

	ints := make([]int, 4)
	for i := range ints {
		if ints[i], err = strconv.Atoi(record[1+limb.NumSides+i]); err != nil {
			return smp, err
		}
	}
	smp.Phase = gait.MoveState(ints[0])
	smp.Index = ints[1]
	smp.Reason = gait.Reason(ints[2])
	smp.Driven = ints[3]

	if smp.BodyX, err = strconv.ParseFloat(record[len(record)-1], 64); err != nil {
		return smp, err
	}
	return smp, nil
}
