package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/vizlab/internal/series"
)

type ExportData struct {
	Run           RunMetadata `json:"run"`
	Steps         int         `json:"steps"`
	Times         []float64   `json:"times"`
	Momentum      [][]float64 `json:"momentum"`
	TotalMomentum []float64   `json:"total_momentum"`
	Energy        [][]float64 `json:"energy"`
	TotalEnergy   []float64   `json:"total_energy"`
}

// NewExportData lays the recorder out column by column, one momentum and
// energy column per body.
func NewExportData(meta RunMetadata, rec *series.Recorder) ExportData {
	n := len(rec.IDs())
	data := ExportData{
		Run:           meta,
		Steps:         rec.Len(),
		Times:         rec.Times(),
		Momentum:      make([][]float64, n),
		Energy:        make([][]float64, n),
		TotalMomentum: rec.Column(series.Momentum, n),
		TotalEnergy:   rec.Column(series.Energy, n),
	}
	for i := 0; i < n; i++ {
		data.Momentum[i] = rec.Column(series.Momentum, i)
		data.Energy[i] = rec.Column(series.Energy, i)
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, rec *series.Recorder) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, rec))
}
