package entities

import "time"

// RunRecord summarizes one completed automation run for the history view
type RunRecord struct {
	ID          string        `json:"id"`
	Instruction string        `json:"instruction"`
	StartURL    string        `json:"start_url,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Succeeded   bool          `json:"succeeded"`
}
