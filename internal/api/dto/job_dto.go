package dto

// StartValidationRequest carries the tunables of a poster validation run.
type StartValidationRequest struct {
	BatchSize          int   `form:"batch_size"`
	ConcurrentRequests int   `form:"concurrent_requests"`
	UpdateDatabase     *bool `form:"update_database"`
}

// JobCreatedResponse acknowledges a freshly queued job.
type JobCreatedResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// JobDTO is the job status payload exposed to pollers.
type JobDTO struct {
	JobID                     string                 `json:"job_id"`
	JobType                   string                 `json:"job_type"`
	Status                    string                 `json:"status"`
	ProgressPercentage        float64                `json:"progress_percentage"`
	TotalItems                int                    `json:"total_items"`
	ProcessedItems            int                    `json:"processed_items"`
	SuccessCount              int                    `json:"success_count"`
	ErrorCount                int                    `json:"error_count"`
	Errors                    []string               `json:"errors"`
	CreatedAt                 string                 `json:"created_at"`
	StartedAt                 *string                `json:"started_at,omitempty"`
	CompletedAt               *string                `json:"completed_at,omitempty"`
	EstimatedRemainingMinutes *float64               `json:"estimated_remaining_minutes,omitempty"`
	Result                    map[string]interface{} `json:"result,omitempty"`
}

// ListJobsResponse wraps a job listing.
type ListJobsResponse struct {
	Jobs []JobDTO `json:"jobs"`
}
