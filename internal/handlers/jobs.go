package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/workly_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/jobs"
)

type JobHandler struct {
	Jobs *jobs.Service
}

func NewJobHandler(svc *jobs.Service) *JobHandler {
	return &JobHandler{Jobs: svc}
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	var req jobs.CreateJobInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	job, err := h.Jobs.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Job created", job)
}

// Open lists open jobs ranked by how well they match the caller's skills.
func (h *JobHandler) Open(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	page, err := h.Jobs.ListOpenRanked(c.UserContext(), actor, listFilter(c))
	if err != nil {
		return err
	}
	return paged(c, page.Items, page.Meta)
}

func (h *JobHandler) Apply(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId", "job")
	if err != nil {
		return err
	}

	app, err := h.Jobs.Apply(c.UserContext(), actor, jobID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Application submitted successfully", app)
}

func (h *JobHandler) Accept(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId", "job")
	if err != nil {
		return err
	}
	workerID, err := paramUUID(c, "workerId", "worker")
	if err != nil {
		return err
	}

	job, err := h.Jobs.Accept(c.UserContext(), actor, jobID, workerID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Worker accepted successfully", job)
}

func (h *JobHandler) Complete(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId", "job")
	if err != nil {
		return err
	}

	job, err := h.Jobs.Complete(c.UserContext(), actor, jobID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Job marked as completed", job)
}

type RateReq struct {
	Rating float64 `json:"rating"`
}

func (h *JobHandler) Rate(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "jobId", "job")
	if err != nil {
		return err
	}

	var req RateReq
	if err := parseBody(c, &req); err != nil {
		return err
	}

	worker, err := h.Jobs.Rate(c.UserContext(), actor, jobID, req.Rating)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Worker rated successfully", worker)
}

func listFilter(c *fiber.Ctx) jobs.ListFilter {
	return jobs.ListFilter{
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 5),
	}
}

func (h *JobHandler) MyJobs(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	page, err := h.Jobs.MyJobs(c.UserContext(), actor, listFilter(c))
	if err != nil {
		return err
	}
	return paged(c, page.Items, page.Meta)
}

func (h *JobHandler) MyClientJobs(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	page, err := h.Jobs.MyClientJobs(c.UserContext(), actor, listFilter(c))
	if err != nil {
		return err
	}
	return paged(c, page.Items, page.Meta)
}
