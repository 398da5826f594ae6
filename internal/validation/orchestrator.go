package validation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Cursor pages through the records a validation run walks, in strictly
// increasing offset order. An empty batch signals exhaustion.
type Cursor interface {
	FetchBatch(ctx context.Context, skip, limit int) ([]WorkItem, error)
	CountItems(ctx context.Context) (int, error)
}

// Sink persists per-item validity outcomes. Writes are best-effort; a sink
// failure is logged and never aborts a batch.
type Sink interface {
	SetValidity(ctx context.Context, itemID string, isValid bool) error
}

// Prober performs one external check per work item.
type Prober interface {
	Probe(ctx context.Context, item WorkItem) Result
}

// JobStore is the slice of the job manager the orchestrator reports into.
type JobStore interface {
	UpdateProgress(jobID string, processed, total, success, errorCount int, errs []string)
	CompleteJob(jobID string, result map[string]interface{})
	FailJob(jobID string, message string)
	JobCancelled(jobID string) bool
}

// OrchestratorConfig holds orchestrator configuration
type OrchestratorConfig struct {
	Cursor             Cursor
	Sink               Sink
	Prober             Prober
	Jobs               JobStore
	Logger             *slog.Logger
	DefaultBatchSize   int
	DefaultConcurrency int
	InterBatchDelay    time.Duration
}

// Orchestrator walks the catalog in pages and fans out bounded-concurrency
// poster probes per batch, reporting cumulative progress after every batch.
type Orchestrator struct {
	cursor Cursor
	sink   Sink
	prober Prober
	jobs   JobStore
	logger *slog.Logger

	defaultBatchSize   int
	defaultConcurrency int
	interBatchDelay    time.Duration
}

// NewOrchestrator creates a validation orchestrator.
func NewOrchestrator(cfg *OrchestratorConfig) *Orchestrator {
	batchSize := cfg.DefaultBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	concurrency := cfg.DefaultConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	delay := cfg.InterBatchDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	return &Orchestrator{
		cursor:             cfg.Cursor,
		sink:               cfg.Sink,
		prober:             cfg.Prober,
		jobs:               cfg.Jobs,
		logger:             cfg.Logger,
		defaultBatchSize:   batchSize,
		defaultConcurrency: concurrency,
		interBatchDelay:    delay,
	}
}

// Run drives one validation job to a terminal state. It blocks until the
// dataset is exhausted, the job is cancelled, or an orchestration-level
// error fails the job; the caller decides which goroutine it runs on.
//
// The batch limit is strictly a page size: non-positive batchSize or
// concurrency fall back to the configured defaults, there is no
// "zero means unbounded".
func (o *Orchestrator) Run(ctx context.Context, jobID string, batchSize, concurrency int, persistResults bool) {
	if batchSize <= 0 {
		batchSize = o.defaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = o.defaultConcurrency
	}

	o.logger.Info("Starting poster validation run",
		slog.String("job_id", jobID),
		slog.Int("batch_size", batchSize),
		slog.Int("concurrency", concurrency),
		slog.Bool("persist_results", persistResults),
	)

	total, err := o.cursor.CountItems(ctx)
	if err != nil {
		o.failRun(jobID, fmt.Errorf("failed to count items: %w", err))
		return
	}

	o.jobs.UpdateProgress(jobID, 0, total, 0, 0, nil)

	processed := 0
	valid := 0
	invalid := 0
	skip := 0

	for {
		// Cancellation is cooperative and observed only between batches;
		// in-flight probes of the previous batch have fully drained here.
		if o.jobs.JobCancelled(jobID) {
			o.logger.Info("Poster validation run cancelled",
				slog.String("job_id", jobID),
				slog.Int("processed", processed),
			)
			return
		}

		if ctx.Err() != nil {
			o.failRun(jobID, fmt.Errorf("run aborted: %w", ctx.Err()))
			return
		}

		batch, err := o.cursor.FetchBatch(ctx, skip, batchSize)
		if err != nil {
			o.failRun(jobID, fmt.Errorf("failed to fetch batch at offset %d: %w", skip, err))
			return
		}

		if len(batch) == 0 {
			break
		}

		results := o.validateBatch(ctx, batch, concurrency, persistResults)

		for _, result := range results {
			processed++
			if result.IsValid {
				valid++
			} else {
				invalid++
			}
		}

		o.jobs.UpdateProgress(jobID, processed, total, valid, invalid, nil)

		o.logger.Info("Processed validation batch",
			slog.String("job_id", jobID),
			slog.Int("processed", processed),
			slog.Int("total", total),
		)

		skip += batchSize

		// Short pause between batches so a busy run does not starve the
		// rest of the process.
		select {
		case <-time.After(o.interBatchDelay):
		case <-ctx.Done():
		}
	}

	var successRate float64
	if processed > 0 {
		successRate = float64(valid) / float64(processed) * 100
	}

	o.jobs.CompleteJob(jobID, map[string]interface{}{
		"processed_items": processed,
		"valid_posters":   valid,
		"invalid_posters": invalid,
		"success_rate":    successRate,
	})

	o.logger.Info("Poster validation run completed",
		slog.String("job_id", jobID),
		slog.Int("processed", processed),
		slog.Int("valid", valid),
		slog.Int("invalid", invalid),
	)
}

// ValidateOne probes a single work item without touching the sink.
func (o *Orchestrator) ValidateOne(ctx context.Context, item WorkItem) Result {
	return o.probeOne(ctx, item)
}

// RevalidateOne probes a single work item and persists the outcome.
func (o *Orchestrator) RevalidateOne(ctx context.Context, item WorkItem) (Result, error) {
	result := o.probeOne(ctx, item)

	if err := o.sink.SetValidity(ctx, item.ItemID, result.IsValid); err != nil {
		return result, fmt.Errorf("failed to persist validity for %s: %w", item.ItemID, err)
	}

	return result, nil
}

// validateBatch runs every probe of the batch concurrently, never more than
// `concurrency` in flight at once. It always returns exactly one result per
// input item.
func (o *Orchestrator) validateBatch(ctx context.Context, batch []WorkItem, concurrency int, persistResults bool) []Result {
	semaphore := make(chan struct{}, concurrency)
	results := make([]Result, len(batch))

	var wg sync.WaitGroup
	for i, item := range batch {
		wg.Add(1)
		go func(i int, item WorkItem) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = o.probeOne(ctx, item)

			if persistResults {
				if err := o.sink.SetValidity(ctx, item.ItemID, results[i].IsValid); err != nil {
					o.logger.Warn("Failed to persist validation result",
						slog.String("item_id", item.ItemID),
						slog.String("error", err.Error()),
					)
				}
			}
		}(i, item)
	}
	wg.Wait()

	return results
}

// probeOne isolates a single probe: a panicking probe still yields a result
// and never takes down its siblings.
func (o *Orchestrator) probeOne(ctx context.Context, item WorkItem) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Panic during poster probe",
				slog.String("item_id", item.ItemID),
				slog.Any("panic", r),
			)
			result = Result{
				ItemID:      item.ItemID,
				PosterURL:   item.PosterURL,
				ErrorReason: ReasonTransport,
				ErrorDetail: fmt.Sprintf("unexpected error: %v", r),
				CheckedAt:   time.Now().UTC(),
			}
		}
	}()

	return o.prober.Probe(ctx, item)
}

// failRun records an orchestration-level failure exactly once. Per-item probe
// failures never come through here; they are data inside results.
func (o *Orchestrator) failRun(jobID string, err error) {
	o.logger.Error("Poster validation run failed",
		slog.String("job_id", jobID),
		slog.String("error", err.Error()),
	)
	o.jobs.FailJob(jobID, err.Error())
}
