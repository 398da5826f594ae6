package jobs

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier receives a snapshot of every job that reaches a terminal state.
// Implementations must be best-effort; the manager ignores their outcome.
type Notifier interface {
	JobFinished(job *Job)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) JobFinished(*Job) {}

// Config holds job manager configuration
type Config struct {
	Logger          *slog.Logger
	Notifier        Notifier
	RetentionWindow time.Duration
	SweepInterval   time.Duration
}

// Manager owns all job records. Jobs live in process memory only and are
// removed by the retention sweeper once terminal and older than the
// retention window.
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	logger   *slog.Logger
	notifier Notifier

	retentionWindow time.Duration
	sweepInterval   time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}

	now func() time.Time
}

// NewManager creates a new job manager. The retention sweeper does not run
// until StartSweeper is called.
func NewManager(cfg *Config) *Manager {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Manager{
		jobs:            make(map[string]*Job),
		logger:          cfg.Logger,
		notifier:        notifier,
		retentionWindow: cfg.RetentionWindow,
		sweepInterval:   cfg.SweepInterval,
		stopChan:        make(chan struct{}),
		now:             time.Now,
	}
}

// CreateJob allocates a fresh job in the queued state with all counters zero.
func (m *Manager) CreateJob(jobType string, parameters map[string]interface{}) string {
	jobID := uuid.New().String()

	job := &Job{
		JobID:      jobID,
		JobType:    jobType,
		Status:     StatusQueued,
		Parameters: parameters,
		Errors:     []string{},
		CreatedAt:  m.now(),
	}

	m.mu.Lock()
	m.jobs[jobID] = job
	m.mu.Unlock()

	m.logger.Info("Created job",
		slog.String("job_id", jobID),
		slog.String("job_type", jobType),
	)

	return jobID
}

// UpdateProgress overwrites the job's counters with the supplied cumulative
// values. The first progress update moves a queued job to running and stamps
// started_at. No-ops if the job is unknown or already terminal.
func (m *Manager) UpdateProgress(jobID string, processed, total, success, errorCount int, errs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		m.logger.Warn("Attempted to update progress of unknown job",
			slog.String("job_id", jobID),
		)
		return
	}

	if job.IsTerminal() {
		m.logger.Warn("Attempted to update progress of terminal job",
			slog.String("job_id", jobID),
			slog.String("status", job.Status),
		)
		return
	}

	if job.Status == StatusQueued {
		job.Status = StatusRunning
		startedAt := m.now()
		job.StartedAt = &startedAt
		m.logger.Info("Job started running", slog.String("job_id", jobID))
	}

	job.ProcessedItems = processed
	job.TotalItems = total
	job.SuccessCount = success
	job.ErrorCount = errorCount
	job.Errors = append(job.Errors, errs...)

	// Leave the percentage untouched when the total is unknown.
	if total > 0 {
		job.ProgressPercentage = float64(processed) / float64(total) * 100
	}

	m.updateEstimatedRemaining(job)

	m.logger.Debug("Updated job progress",
		slog.String("job_id", jobID),
		slog.Int("processed", processed),
		slog.Int("total", total),
	)
}

// CompleteJob marks the job completed and stores its result payload.
// No-ops if the job is unknown or already terminal.
func (m *Manager) CompleteJob(jobID string, result map[string]interface{}) {
	m.mu.Lock()

	job, ok := m.jobs[jobID]
	if !ok || job.IsTerminal() {
		m.mu.Unlock()
		m.logger.Warn("Attempted to complete unknown or terminal job",
			slog.String("job_id", jobID),
		)
		return
	}

	job.Status = StatusCompleted
	completedAt := m.now()
	job.CompletedAt = &completedAt
	job.Result = result
	job.ProgressPercentage = 100
	job.EstimatedRemainingMinutes = nil
	snapshot := job.clone()
	m.mu.Unlock()

	m.logger.Info("Job completed", slog.String("job_id", jobID))
	m.notifier.JobFinished(snapshot)
}

// FailJob marks the job failed and records the error message.
// No-ops if the job is unknown or already terminal.
func (m *Manager) FailJob(jobID string, message string) {
	m.mu.Lock()

	job, ok := m.jobs[jobID]
	if !ok || job.IsTerminal() {
		m.mu.Unlock()
		m.logger.Warn("Attempted to fail unknown or terminal job",
			slog.String("job_id", jobID),
		)
		return
	}

	job.Status = StatusFailed
	completedAt := m.now()
	job.CompletedAt = &completedAt
	job.Errors = append(job.Errors, message)
	job.EstimatedRemainingMinutes = nil
	snapshot := job.clone()
	m.mu.Unlock()

	m.logger.Error("Job failed",
		slog.String("job_id", jobID),
		slog.String("error", message),
	)
	m.notifier.JobFinished(snapshot)
}

// CancelJob moves a queued or running job to cancelled and returns true.
// Returns false for unknown or already terminal jobs; cancelling a finished
// job is a no-op signal, not an error.
func (m *Manager) CancelJob(jobID string) bool {
	m.mu.Lock()

	job, ok := m.jobs[jobID]
	if !ok {
		m.mu.Unlock()
		return false
	}

	if job.Status != StatusQueued && job.Status != StatusRunning {
		m.mu.Unlock()
		return false
	}

	job.Status = StatusCancelled
	completedAt := m.now()
	job.CompletedAt = &completedAt
	job.EstimatedRemainingMinutes = nil
	snapshot := job.clone()
	m.mu.Unlock()

	m.logger.Info("Job cancelled", slog.String("job_id", jobID))
	m.notifier.JobFinished(snapshot)
	return true
}

// GetJobStatus returns a snapshot of the job. The ETA of a running job is
// recomputed fresh so pollers never see a stale estimate.
func (m *Manager) GetJobStatus(jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}

	if job.Status == StatusRunning && job.StartedAt != nil {
		m.updateEstimatedRemaining(job)
	}

	return job.clone(), nil
}

// JobCancelled reports whether the job has been cancelled. Unknown jobs
// count as cancelled so an orphaned run stops issuing batches instead of
// reporting into the void.
func (m *Manager) JobCancelled(jobID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return true
	}
	return job.Status == StatusCancelled
}

// ListJobs returns snapshots of all jobs, optionally filtered by type,
// newest first.
func (m *Manager) ListJobs(jobType string) []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if jobType != "" && job.JobType != jobType {
			continue
		}
		result = append(result, job.clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

// GetStatistics aggregates job counts by status and by job type.
func (m *Manager) GetStatistics() *Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Statistics{
		JobTypes: make(map[string]*StatusCounts),
	}

	for _, job := range m.jobs {
		stats.add(job.Status)

		typeCounts, ok := stats.JobTypes[job.JobType]
		if !ok {
			typeCounts = &StatusCounts{}
			stats.JobTypes[job.JobType] = typeCounts
		}
		typeCounts.add(job.Status)
	}

	return stats
}

// ActiveJobCount returns the number of queued or running jobs.
func (m *Manager) ActiveJobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, job := range m.jobs {
		if job.Status == StatusQueued || job.Status == StatusRunning {
			count++
		}
	}
	return count
}

// StartSweeper launches the retention sweeper goroutine. The sweeper removes
// terminal jobs created before the retention window on a fixed interval and
// never touches non-terminal jobs regardless of age.
func (m *Manager) StartSweeper() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()

		m.logger.Info("Job retention sweeper started",
			slog.Duration("interval", m.sweepInterval),
			slog.Duration("retention_window", m.retentionWindow),
		)

		for {
			select {
			case <-m.stopChan:
				m.logger.Info("Job retention sweeper stopped")
				return
			case <-ticker.C:
				m.sweepOnce()
			}
		}
	}()
}

// sweepOnce removes all terminal jobs older than the retention window.
func (m *Manager) sweepOnce() {
	cutoff := m.now().Add(-m.retentionWindow)

	m.mu.Lock()
	removed := 0
	for jobID, job := range m.jobs {
		if job.IsTerminal() && job.CreatedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			removed++
			m.logger.Debug("Swept old job", slog.String("job_id", jobID))
		}
	}
	m.mu.Unlock()

	if removed > 0 {
		m.logger.Info("Swept old jobs", slog.Int("removed", removed))
	}
}

// Stop gracefully stops the retention sweeper.
func (m *Manager) Stop() {
	close(m.stopChan)
	m.wg.Wait()
}

// updateEstimatedRemaining recomputes the ETA by linear extrapolation from
// observed throughput. Intentionally simple: the estimate drifts when
// per-item cost is non-uniform.
func (m *Manager) updateEstimatedRemaining(job *Job) {
	if job.Status != StatusRunning || job.StartedAt == nil || job.ProcessedItems == 0 {
		job.EstimatedRemainingMinutes = nil
		return
	}

	elapsedMinutes := m.now().Sub(*job.StartedAt).Minutes()

	var rate float64
	if elapsedMinutes > 0 {
		rate = float64(job.ProcessedItems) / elapsedMinutes
	}

	if rate > 0 && job.TotalItems > job.ProcessedItems {
		remaining := float64(job.TotalItems-job.ProcessedItems) / rate
		if remaining < 0 {
			remaining = 0
		}
		job.EstimatedRemainingMinutes = &remaining
	} else {
		job.EstimatedRemainingMinutes = nil
	}
}
