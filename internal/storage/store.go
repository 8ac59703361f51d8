// Package storage keeps headless collision runs on disk, one directory per
// run holding metadata.json and series.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/series"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("run not found")

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

// RunMetadata describes one saved run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Demo      string             `json:"demo"`
	Timestamp time.Time          `json:"timestamp"`
	Mass1     float64            `json:"m1"`
	Velocity1 float64            `json:"v1"`
	Mass2     float64            `json:"m2"`
	Velocity2 float64            `json:"v2"`
	Mode      string             `json:"mode"`
	TimeScale float64            `json:"time_scale"`
	Tick      float64            `json:"tick"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Bodies    []engine.BodyID    `json:"bodies"`
	Merges    int                `json:"merges"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the samples of rec under a fresh run id, which is
// returned and also stored in the metadata.
func (s *Store) Save(meta RunMetadata, rec *series.Recorder) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if meta.Demo == "" {
		meta.Demo = "collision"
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Bodies = rec.IDs()

	runID, runDir, err := s.newRunDir(meta.Demo, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, rec); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(demo string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", demo, ts.Unix())
	for i := 0; i < 1000; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free run id for %s", base)
}

// WriteCSV writes the samples of rec with one momentum and energy column
// per body followed by the totals.
func WriteCSV(out io.Writer, rec *series.Recorder) error {
	w := csv.NewWriter(out)

	header := []string{"time"}
	for _, id := range rec.IDs() {
		header = append(header, "p_"+string(id))
	}
	header = append(header, "p_total")
	for _, id := range rec.IDs() {
		header = append(header, "ke_"+string(id))
	}
	header = append(header, "ke_total")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range rec.Samples() {
		row := []string{format(smp.Time)}
		for _, v := range smp.Momentum {
			row = append(row, format(v))
		}
		row = append(row, format(smp.TotalMomentum))
		for _, v := range smp.Energy {
			row = append(row, format(v))
		}
		row = append(row, format(smp.TotalEnergy))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run ordered by timestamp.
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries rebuilds the recorder of a saved run.
func (s *Store) LoadSeries(runID string) (*series.Recorder, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
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

	n := len(meta.Bodies)
	rec := series.NewRecorder(meta.Bodies)
	for i := 1; i < len(records); i++ {
		row := records[i]
		if len(row) != 2*n+3 {
			continue
		}
		vals := make([]float64, len(row))
		ok := true
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		rec.Append(series.Sample{
			Time:          vals[0],
			Momentum:      vals[1 : 1+n],
			TotalMomentum: vals[1+n],
			Energy:        vals[2+n : 2+2*n],
			TotalEnergy:   vals[2+2*n],
		})
	}
	return rec, nil
}

// CopyCSV streams the stored series file of runID to w.
func (s *Store) CopyCSV(runID string, w io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}
