package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/slrsim/internal/experiment"
	"github.com/san-kum/slrsim/internal/storage"
)

type TraceData struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Script    string             `json:"script"`
	Preset    string             `json:"preset,omitempty"`
	Seed      uint64             `json:"seed"`
	FrameMs   float64            `json:"frame_ms"`
	Frames    int                `json:"frames"`
	Settled   bool               `json:"settled"`
	Truncated bool               `json:"truncated"`
	Metrics   map[string]float64 `json:"metrics"`
	Rows      []TraceRow         `json:"rows"`
}

type TraceRow struct {
	Frame        int     `json:"frame"`
	TimeMs       float64 `json:"time_ms"`
	Event        string  `json:"event,omitempty"`
	X            float64 `json:"x"`
	Cost         float64 `json:"cost"`
	VelX         float64 `json:"vel_x"`
	VelCost      float64 `json:"vel_cost"`
	WaveOffset   float64 `json:"wave_offset"`
	WaveVelocity float64 `json:"wave_velocity"`
	Droplets     int     `json:"droplets"`
	Splashes     int     `json:"splashes"`
	Animating    bool    `json:"animating"`
}

// TraceJSON writes a stored run with its rows as indented JSON.
func TraceJSON(w io.Writer, meta *storage.RunMetadata, trace *experiment.Trace) error {
	data := TraceData{
		ID:        meta.ID,
		Name:      meta.Name,
		Script:    meta.Script,
		Preset:    meta.Preset,
		Seed:      meta.Seed,
		FrameMs:   meta.FrameMs,
		Frames:    len(trace.Rows),
		Settled:   trace.Settled,
		Truncated: trace.Truncated,
		Metrics:   meta.Metrics,
		Rows:      make([]TraceRow, len(trace.Rows)),
	}
	for i, r := range trace.Rows {
		data.Rows[i] = TraceRow(r)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
