package handler

import (
	"errors"

	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
)

// SnapshotScheduler is the part of the snapshot cron the API exposes
type SnapshotScheduler interface {
	Status() scheduler.Status
	TriggerNow(periods ...report.Period) ([]scheduler.JobView, error)
}

// SchedulerHandler exposes scheduled snapshot generation
type SchedulerHandler struct {
	BaseHandler
	scheduler SnapshotScheduler
}

// NewSchedulerHandler creates a new SchedulerHandler
func NewSchedulerHandler(s SnapshotScheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: s}
}

// TriggerRequest selects the periods to generate now. Empty means all configured periods.
type TriggerRequest struct {
	Periods []string `json:"periods" binding:"omitempty,max=5"`
}

// TriggerResponse lists the queued jobs
type TriggerResponse struct {
	Jobs []scheduler.JobView `json:"jobs"`
}

// GetStatus godoc
// @Summary      Snapshot scheduler status
// @Tags         reports
// @Router       /reports/scheduler/status [get]
func (h *SchedulerHandler) GetStatus(c *gin.Context) {
	h.Success(c, h.scheduler.Status())
}

// Trigger godoc
// @Summary      Queue snapshot generation for the previous complete period
// @Tags         reports
// @Accept       json
// @Router       /reports/scheduler/trigger [post]
func (h *SchedulerHandler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	periods := make([]report.Period, 0, len(req.Periods))
	for _, raw := range req.Periods {
		p, err := report.ParsePeriod(raw)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		periods = append(periods, p)
	}

	jobs, err := h.scheduler.TriggerNow(periods...)
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.Conflict(c, "Snapshot scheduler is not running")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, TriggerResponse{Jobs: jobs})
}
