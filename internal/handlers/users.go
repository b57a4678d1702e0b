package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/workly_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/users"
)

type UserHandler struct {
	Users        *users.Service
	CookieSecure bool
}

func NewUserHandler(svc *users.Service, cookieSecure bool) *UserHandler {
	return &UserHandler{Users: svc, CookieSecure: cookieSecure}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req users.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	u, err := h.Users.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "User registered successfully", fiber.Map{"user": u})
}

type LoginReq struct {
	Phone string `json:"phone"`
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, u, err := h.Users.Login(c.UserContext(), req.Phone)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(time.Duration(h.Users.Expires) * time.Minute),
	})

	return ok(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  u,
	})
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: "Lax",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	return ok(c, fiber.StatusOK, "Logged out", nil)
}

// Profile returns the caller's own record.
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	u, err := h.Users.Get(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", u)
}
