package content

import "time"

// ReconcileResult describes one orphan asset reconciliation of a category
type ReconcileResult struct {
	Category  string        `json:"category"`
	Prefix    string        `json:"prefix"`
	Documents int           `json:"documents"`
	Objects   int           `json:"objects"`
	Orphans   []string      `json:"orphans"`
	Deleted   int           `json:"deleted"`
	DryRun    bool          `json:"dry_run"`
	Guarded   bool          `json:"guarded,omitempty"` // Skipped because no document references anything
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}
