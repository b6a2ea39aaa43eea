package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	queueSize   = 100
	historySize = 50
)

// PoolConfig holds worker pool settings
type PoolConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryDelay        time.Duration
}

// Pool runs jobs on a fixed number of workers, retrying failures after RetryDelay.
type Pool struct {
	config   PoolConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs    chan *Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	retries sync.WaitGroup

	mu      sync.Mutex
	running bool
	history []*Job
}

// NewPool creates a stopped pool.
func NewPool(config PoolConfig, executor JobExecutor, logger *zap.Logger) *Pool {
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, queueSize),
	}
}

// Start launches the workers.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true

	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.config.MaxConcurrentJobs; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Info("Snapshot job pool started",
		zap.Int("workers", p.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", p.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers until ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.cancel()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.retries.Wait()
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Snapshot job pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Snapshot job pool stop timed out")
		return ctx.Err()
	}
}

// Running reports whether the workers are active.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Submit queues job without blocking.
func (p *Pool) Submit(job *Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return ErrSchedulerNotRunning
	}

	select {
	case p.jobs <- job:
	default:
		return ErrJobQueueFull
	}

	p.history = append(p.history, job)
	if len(p.history) > historySize {
		p.history = p.history[len(p.history)-historySize:]
	}
	p.logger.Debug("Snapshot job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("period", job.Period.String()),
	)
	return nil
}

// Recent returns views of the most recently submitted jobs, newest first.
func (p *Pool) Recent() []JobView {
	p.mu.Lock()
	defer p.mu.Unlock()

	views := make([]JobView, 0, len(p.history))
	for i := len(p.history) - 1; i >= 0; i-- {
		views = append(views, p.history[i].View())
	}
	return views
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.process(ctx, job, id)
		}
	}
}

func (p *Pool) process(ctx context.Context, job *Job, workerID int) {
	job.start(time.Now())
	fields := []zap.Field{
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("period", job.Period.String()),
		zap.String("range", job.Range.Key()),
	}
	p.logger.Info("Processing snapshot job", fields...)

	jobCtx := ctx
	if p.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.config.JobTimeout)
		defer cancel()
	}

	err := p.executor.Execute(jobCtx, job)
	job.finish(time.Now(), err)
	if err == nil {
		p.logger.Info("Snapshot job completed", fields...)
		return
	}

	p.logger.Error("Snapshot job failed", append(fields, zap.Error(err))...)
	if job.retryable() && ctx.Err() == nil {
		p.scheduleRetry(ctx, job)
	}
}

// scheduleRetry registers the retry under mu so it never races Stop's Wait.
func (p *Pool) scheduleRetry(ctx context.Context, job *Job) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.logger.Debug("Pool stopping, retry dropped", zap.String("job_id", job.ID.String()))
		return
	}
	job.requeue()
	p.retries.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.retries.Done()
		timer := time.NewTimer(p.config.RetryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		select {
		case p.jobs <- job:
		case <-ctx.Done():
		}
	}()
}
