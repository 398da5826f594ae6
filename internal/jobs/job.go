package jobs

import (
	"errors"
	"time"
)

// Job status constants
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

var (
	// ErrJobNotFound is returned when a job cannot be found in the store
	ErrJobNotFound = errors.New("job not found")
)

// Job tracks a unit of long-running background work. Counters are cumulative
// and overwritten by progress updates, not accumulated from deltas.
type Job struct {
	JobID                     string                 `json:"job_id"`
	JobType                   string                 `json:"job_type"`
	Status                    string                 `json:"status"`
	Parameters                map[string]interface{} `json:"parameters,omitempty"`
	ProgressPercentage        float64                `json:"progress_percentage"`
	TotalItems                int                    `json:"total_items"`
	ProcessedItems            int                    `json:"processed_items"`
	SuccessCount              int                    `json:"success_count"`
	ErrorCount                int                    `json:"error_count"`
	Errors                    []string               `json:"errors"`
	CreatedAt                 time.Time              `json:"created_at"`
	StartedAt                 *time.Time             `json:"started_at,omitempty"`
	CompletedAt               *time.Time             `json:"completed_at,omitempty"`
	EstimatedRemainingMinutes *float64               `json:"estimated_remaining_minutes,omitempty"`
	Result                    map[string]interface{} `json:"result,omitempty"`
}

// IsTerminal reports whether the job has reached a final state.
// Terminal jobs accept no further transitions.
func (j *Job) IsTerminal() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// clone returns a deep copy so status pollers never observe a job
// record that is still being mutated under the manager's lock.
func (j *Job) clone() *Job {
	c := *j

	c.Errors = make([]string, len(j.Errors))
	copy(c.Errors, j.Errors)

	if j.Parameters != nil {
		c.Parameters = make(map[string]interface{}, len(j.Parameters))
		for k, v := range j.Parameters {
			c.Parameters[k] = v
		}
	}

	if j.Result != nil {
		c.Result = make(map[string]interface{}, len(j.Result))
		for k, v := range j.Result {
			c.Result[k] = v
		}
	}

	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	if j.EstimatedRemainingMinutes != nil {
		m := *j.EstimatedRemainingMinutes
		c.EstimatedRemainingMinutes = &m
	}

	return &c
}

// StatusCounts holds per-status job counts.
type StatusCounts struct {
	Total     int `json:"total"`
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

func (c *StatusCounts) add(status string) {
	c.Total++
	switch status {
	case StatusQueued:
		c.Queued++
	case StatusRunning:
		c.Running++
	case StatusCompleted:
		c.Completed++
	case StatusFailed:
		c.Failed++
	case StatusCancelled:
		c.Cancelled++
	}
}

// Statistics aggregates job counts by status and by job type.
type Statistics struct {
	StatusCounts
	JobTypes map[string]*StatusCounts `json:"job_types"`
}
