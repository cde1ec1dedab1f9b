package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/influmatch/backend/internal/http/dto"
	"github.com/influmatch/backend/internal/jobs"
)

// CronHandler exposes the scheduled jobs to an external scheduler. The
// routes sit behind the x-cron-secret guard, not user auth.
type CronHandler struct {
	runner *jobs.Runner
}

func NewCronHandler(runner *jobs.Runner) *CronHandler {
	return &CronHandler{runner: runner}
}

// StatusTransition runs both time-based transitions in one invocation:
// auto-open then auto-complete.
func (h *CronHandler) StatusTransition(c *fiber.Ctx) error {
	opened, err := h.runner.AutoOpen(c.Context())
	if err != nil {
		return err
	}
	completed, err := h.runner.AutoComplete(c.Context())
	if err != nil {
		return err
	}
	return dto.OK(c, fiber.Map{"autoOpen": opened, "autoComplete": completed})
}

func (h *CronHandler) OverdueDetection(c *fiber.Ctx) error {
	result, err := h.runner.OverdueDetection(c.Context())
	if err != nil {
		return err
	}
	return dto.OK(c, result)
}

func (h *CronHandler) GenerateReports(c *fiber.Ctx) error {
	result, err := h.runner.GenerateReports(c.Context())
	if err != nil {
		return err
	}
	return dto.OK(c, result)
}

func (h *CronHandler) DeadlineReminder(c *fiber.Ctx) error {
	result, err := h.runner.DeadlineReminder(c.Context())
	if err != nil {
		return err
	}
	return dto.OK(c, result)
}
