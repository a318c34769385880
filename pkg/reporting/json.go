package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RunSummary is the JSON document written next to the results of a grid run
type RunSummary struct {
	RunID        string         `json:"run_id"`
	TopSource    string         `json:"top_source"`
	BottomSource string         `json:"bottom_source"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	GridPoints   int            `json:"grid_points"`
	Rows         int            `json:"rows"`
	Best         []PointSummary `json:"best"`
}

// WriteRunSummaryJSON writes summary as indented JSON
func WriteRunSummaryJSON(summary RunSummary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	if err := EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
