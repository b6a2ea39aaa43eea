package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const cronTickInterval = time.Minute

// ParseDailySchedule reads the minute and hour of a "minute hour * * *" expression.
// An empty expression means 02:00.
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	if strings.TrimSpace(expr) == "" {
		return 2, 0, nil
	}
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCronSchedule, expr)
	}
	for _, f := range parts[2:] {
		if f != "*" {
			return 0, 0, fmt.Errorf("%w: only daily schedules are supported, got %q", ErrInvalidCronSchedule, expr)
		}
	}

	minute, err = strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute %q", ErrInvalidCronSchedule, parts[0])
	}
	hour, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrInvalidCronSchedule, parts[1])
	}
	return hour, minute, nil
}

// SnapshotCron submits a snapshot job for each configured period whose
// previous calendar window closed today, once a day at the configured time.
type SnapshotCron struct {
	hour, minute int
	periods      []report.Period
	maxRetries   int
	enabled      bool
	loc          *time.Location
	now          func() time.Time

	pool   *Pool
	logger *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	lastRun *time.Time
	lastDay string
}

// NewSnapshotCron builds the cron from scheduler settings. Unknown period
// names are rejected.
func NewSnapshotCron(cfg config.SchedulerConfig, loc *time.Location, executor JobExecutor, logger *zap.Logger) (*SnapshotCron, error) {
	hour, minute, err := ParseDailySchedule(cfg.DailyCronSchedule)
	if err != nil {
		return nil, err
	}
	periods := make([]report.Period, 0, len(cfg.Periods))
	for _, name := range cfg.Periods {
		p, err := report.ParsePeriod(name)
		if err != nil {
			return nil, fmt.Errorf("scheduler.periods: %w", err)
		}
		periods = append(periods, p)
	}
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := NewPool(PoolConfig{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        cfg.JobTimeout,
		RetryDelay:        cfg.RetryDelay,
	}, executor, logger)

	return &SnapshotCron{
		hour:       hour,
		minute:     minute,
		periods:    periods,
		maxRetries: cfg.RetryAttempts,
		enabled:    cfg.Enabled,
		loc:        loc,
		now:        time.Now,
		pool:       pool,
		logger:     logger,
	}, nil
}

// Start starts the worker pool and the minute ticker.
func (c *SnapshotCron) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()

	if err := c.pool.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.loop(ctx)

	c.logger.Info("Snapshot cron started",
		zap.Int("hour", c.hour),
		zap.Int("minute", c.minute),
		zap.Stringer("timezone", c.loc),
		zap.Time("next_run_at", c.NextRunAt()),
	)
	return nil
}

// Stop stops the ticker, then the pool.
func (c *SnapshotCron) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return c.pool.Stop(ctx)
}

func (c *SnapshotCron) loop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(cronTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick runs the daily submission at most once per local calendar day.
func (c *SnapshotCron) tick() {
	now := c.now().In(c.loc)
	if now.Hour() != c.hour || now.Minute() != c.minute {
		return
	}
	day := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastDay == day {
		c.mu.Unlock()
		return
	}
	c.lastDay = day
	c.mu.Unlock()

	submitted := c.submitClosed(now)
	c.logger.Info("Scheduled snapshot jobs", zap.Int("jobs", submitted))
}

// submitClosed queues a job for every configured period that closes on now.
func (c *SnapshotCron) submitClosed(now time.Time) int {
	c.markRun(now)
	n := 0
	for _, p := range c.periods {
		if !p.ClosesOn(now) {
			continue
		}
		if err := c.pool.Submit(NewJob(p, p.PreviousRange(now, c.loc), "cron", c.maxRetries)); err != nil {
			c.logger.Error("Failed to submit snapshot job", zap.String("period", p.String()), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// TriggerNow queues jobs for the previous complete window of each requested
// period, or of every configured period when none are given.
func (c *SnapshotCron) TriggerNow(periods ...report.Period) ([]JobView, error) {
	if !c.pool.Running() {
		return nil, ErrSchedulerNotRunning
	}
	if len(periods) == 0 {
		periods = c.periods
	}

	now := c.now().In(c.loc)
	c.markRun(now)

	views := make([]JobView, 0, len(periods))
	for _, p := range periods {
		if !p.IsValid() {
			return views, fmt.Errorf("%w: %q", ErrNoPeriods, p)
		}
		job := NewJob(p, p.PreviousRange(now, c.loc), "manual", c.maxRetries)
		if err := c.pool.Submit(job); err != nil {
			return views, err
		}
		views = append(views, job.View())
	}
	return views, nil
}

func (c *SnapshotCron) markRun(now time.Time) {
	c.mu.Lock()
	c.lastRun = &now
	c.mu.Unlock()
}

// NextRunAt returns the next scheduled submission time.
func (c *SnapshotCron) NextRunAt() time.Time {
	now := c.now().In(c.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), c.hour, c.minute, 0, 0, c.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Status describes the scheduler for the status endpoint.
type Status struct {
	Enabled   bool            `json:"enabled"`
	Running   bool            `json:"running"`
	Schedule  string          `json:"schedule"`
	Timezone  string          `json:"timezone"`
	Periods   []report.Period `json:"periods"`
	LastRunAt *time.Time      `json:"last_run_at,omitempty"`
	NextRunAt time.Time       `json:"next_run_at"`
	Recent    []JobView       `json:"recent_jobs"`
}

func (c *SnapshotCron) Status() Status {
	c.mu.Lock()
	running := c.running
	lastRun := c.lastRun
	c.mu.Unlock()

	return Status{
		Enabled:   c.enabled,
		Running:   running,
		Schedule:  fmt.Sprintf("daily at %02d:%02d", c.hour, c.minute),
		Timezone:  c.loc.String(),
		Periods:   append([]report.Period(nil), c.periods...),
		LastRunAt: lastRun,
		NextRunAt: c.NextRunAt(),
		Recent:    c.pool.Recent(),
	}
}
