package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/workly_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/workers"
)

type WorkerHandler struct {
	Workers *workers.Service
}

func NewWorkerHandler(svc *workers.Service) *WorkerHandler {
	return &WorkerHandler{Workers: svc}
}

// WorkerProfileResponse is a profile with its owner trimmed to name and phone.
type WorkerProfileResponse struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Skills     []string         `json:"skills"`
	Experience float64          `json:"experience"`
	Location   string           `json:"location"`
	HourlyRate float64          `json:"hourly_rate"`
	User       *models.UserMini `json:"user,omitempty"`
}

func toWorkerProfileResponse(p models.WorkerProfile) WorkerProfileResponse {
	return WorkerProfileResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Skills:     p.Skills,
		Experience: p.Experience,
		Location:   p.Location,
		HourlyRate: p.HourlyRate,
		User:       p.User.Mini(),
	}
}

func (h *WorkerHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	var req workers.CreateProfileInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	p, err := h.Workers.CreateProfile(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Worker profile created", toWorkerProfileResponse(*p))
}

func (h *WorkerHandler) All(c *fiber.Ctx) error {
	list, err := h.Workers.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]WorkerProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toWorkerProfileResponse(p))
	}
	return ok(c, fiber.StatusOK, "", out)
}
