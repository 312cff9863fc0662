package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/sim"
)

type ExportData struct {
	RunID        string             `json:"run_id,omitempty"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Direction    gait.Direction     `json:"direction"`
	Params       gait.Params        `json:"params"`
	Steps        int                `json:"steps"`
	Displacement float64            `json:"displacement"`
	Samples      []sim.Sample       `json:"samples"`
	Transitions  []gait.Transition  `json:"transitions"`
	Metrics      map[string]float64 `json:"metrics"`
}

// NewExportData collects a result and the settings that produced it.
func NewExportData(runID string, dt, duration float64, d gait.Direction, p gait.Params, result *sim.Result) ExportData {
	return ExportData{
		RunID:        runID,
		Dt:           dt,
		Duration:     duration,
		Direction:    d,
		Params:       p,
		Steps:        result.TicksTaken,
		Displacement: result.Displacement,
		Samples:      result.Samples,
		Transitions:  result.Transitions,
		Metrics:      result.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
