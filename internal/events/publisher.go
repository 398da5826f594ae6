package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/minhngo-dev/movie-catalog-be/internal/jobs"
	"github.com/minhngo-dev/movie-catalog-be/shared/rabbitmq"
)

// JobEvent is the payload published when a job reaches a terminal state.
type JobEvent struct {
	JobID          string   `json:"job_id"`
	JobType        string   `json:"job_type"`
	Status         string   `json:"status"`
	TotalItems     int      `json:"total_items"`
	ProcessedItems int      `json:"processed_items"`
	SuccessCount   int      `json:"success_count"`
	ErrorCount     int      `json:"error_count"`
	Errors         []string `json:"errors,omitempty"`
	CompletedAt    *string  `json:"completed_at,omitempty"`
}

// Publisher forwards terminal job transitions to RabbitMQ. Publishing is
// best-effort: a broker outage is logged and swallowed so job bookkeeping
// never blocks on messaging.
type Publisher struct {
	client         *rabbitmq.Client
	logger         *slog.Logger
	publishTimeout time.Duration
}

// NewPublisher creates a Publisher on top of an established RabbitMQ client.
func NewPublisher(client *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:         client,
		logger:         logger,
		publishTimeout: 5 * time.Second,
	}
}

// JobFinished implements jobs.Notifier.
func (p *Publisher) JobFinished(job *jobs.Job) {
	event := JobEvent{
		JobID:          job.JobID,
		JobType:        job.JobType,
		Status:         job.Status,
		TotalItems:     job.TotalItems,
		ProcessedItems: job.ProcessedItems,
		SuccessCount:   job.SuccessCount,
		ErrorCount:     job.ErrorCount,
		Errors:         job.Errors,
	}
	if job.CompletedAt != nil {
		completedAt := job.CompletedAt.Format(time.RFC3339)
		event.CompletedAt = &completedAt
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal job event",
			slog.String("job_id", job.JobID),
			slog.Any("error", err),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
	defer cancel()

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		p.logger.Error("Failed to publish job event",
			slog.String("job_id", job.JobID),
			slog.String("status", job.Status),
			slog.Any("error", err),
		)
		return
	}

	p.logger.Debug("Job event published",
		slog.String("job_id", job.JobID),
		slog.String("status", job.Status),
	)
}
