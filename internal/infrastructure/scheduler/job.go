package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobStatus represents the status of a snapshot job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job generates one profit/loss snapshot for a closed period.
type Job struct {
	ID         uuid.UUID
	Period     report.Period
	Range      shared.DateRange
	Trigger    string // "cron" or "manual"
	MaxRetries int

	mu          sync.Mutex
	status      JobStatus
	attempts    int
	lastError   string
	startedAt   *time.Time
	completedAt *time.Time
}

// NewJob creates a pending job.
func NewJob(period report.Period, r shared.DateRange, trigger string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Period:     period,
		Range:      r,
		Trigger:    trigger,
		MaxRetries: maxRetries,
		status:     JobStatusPending,
	}
}

func (j *Job) start(now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = JobStatusRunning
	j.attempts++
	j.startedAt = &now
	j.completedAt = nil
}

func (j *Job) finish(now time.Time, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.completedAt = &now
	if err != nil {
		j.status = JobStatusFailed
		j.lastError = err.Error()
		return
	}
	j.status = JobStatusSuccess
	j.lastError = ""
}

func (j *Job) retryable() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status == JobStatusFailed && j.attempts <= j.MaxRetries
}

func (j *Job) requeue() {
	j.mu.Lock()
	j.status = JobStatusPending
	j.mu.Unlock()
}

// JobView is a point-in-time copy of a job for status reporting.
type JobView struct {
	ID          uuid.UUID        `json:"id"`
	Period      report.Period    `json:"period"`
	Range       shared.DateRange `json:"-"`
	Trigger     string           `json:"trigger"`
	Status      JobStatus        `json:"status"`
	Attempts    int              `json:"attempts"`
	Error       string           `json:"error,omitempty"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// View snapshots the job's current state.
func (j *Job) View() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobView{
		ID:          j.ID,
		Period:      j.Period,
		Range:       j.Range,
		Trigger:     j.Trigger,
		Status:      j.status,
		Attempts:    j.attempts,
		Error:       j.lastError,
		StartedAt:   j.startedAt,
		CompletedAt: j.completedAt,
	}
}

// JobExecutor runs a job.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SnapshotGenerator persists a snapshot for a closed period.
type SnapshotGenerator interface {
	GenerateForPeriod(ctx context.Context, period report.Period, r shared.DateRange) (*report.ProfitLossSnapshot, error)
}

// SnapshotExecutor adapts a SnapshotGenerator to JobExecutor.
type SnapshotExecutor struct {
	generator SnapshotGenerator
}

func NewSnapshotExecutor(generator SnapshotGenerator) *SnapshotExecutor {
	return &SnapshotExecutor{generator: generator}
}

func (e *SnapshotExecutor) Execute(ctx context.Context, job *Job) error {
	_, err := e.generator.GenerateForPeriod(ctx, job.Period, job.Range)
	return err
}
