package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped pool
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidCronSchedule is returned for cron expressions other than "minute hour * * *"
	ErrInvalidCronSchedule = errors.New("invalid cron schedule")

	// ErrNoPeriods is returned when no valid period is configured or requested
	ErrNoPeriods = errors.New("no snapshot periods selected")
)
