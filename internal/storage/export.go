package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/threebody/internal/dynamo"
)

var csvHeader = []string{"time", "x1", "y1", "x2", "y2", "x3", "y3"}

// WriteCSV writes one row per recorded step: time followed by the position
// of every body.
func WriteCSV(w io.Writer, times []float64, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, 1+len(traj.Coords))
	for i := 0; i < traj.Len(); i++ {
		row[0] = strconv.FormatFloat(times[i], 'g', -1, 64)
		for k := range traj.Coords {
			row[k+1] = strconv.FormatFloat(traj.Coords[k][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV wrote.
func ReadCSV(r io.Reader) (*dynamo.Trajectory, []float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("trajectory csv: missing header")
	}

	n := len(records) - 1
	traj := dynamo.NewTrajectory(dynamo.PositionDim, n)
	times := make([]float64, 0, n)
	x := make(dynamo.State, dynamo.PositionDim)

	for line, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("trajectory csv line %d: %w", line+2, err)
		}
		for k := range x {
			if x[k], err = strconv.ParseFloat(record[k+1], 64); err != nil {
				return nil, nil, fmt.Errorf("trajectory csv line %d: %w", line+2, err)
			}
		}
		times = append(times, t)
		if err := traj.Append(x); err != nil {
			return nil, nil, err
		}
	}
	return traj, times, nil
}

type ExportData struct {
	Run    *RunMetadata `json:"run"`
	Times  []float64    `json:"times"`
	Bodies []BodyTrack  `json:"bodies"`
	Final  []float64    `json:"final_state,omitempty"`
}

type BodyTrack struct {
	Name string    `json:"name"`
	Mass float64   `json:"mass"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// WriteJSON writes the run metadata and every body's track.
func WriteJSON(w io.Writer, meta *RunMetadata, times []float64, traj *dynamo.Trajectory, final dynamo.State) error {
	data := ExportData{
		Run:    meta,
		Times:  times,
		Bodies: make([]BodyTrack, traj.Bodies()),
		Final:  final,
	}

	for i := range data.Bodies {
		xs, ys := traj.Body(i)
		data.Bodies[i] = BodyTrack{X: xs, Y: ys}
		if meta != nil && meta.Scenario != nil && i < len(meta.Scenario.Names) {
			data.Bodies[i].Name = meta.Scenario.Names[i]
			data.Bodies[i].Mass = meta.Scenario.Masses[i]
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
