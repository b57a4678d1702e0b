package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/workly_be/internal/config"
	"github.com/Windi-Fikriyansyah/workly_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/jobs"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/users"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/workers"
	"github.com/Windi-Fikriyansyah/workly_be/internal/validator"
)

// Deps is everything the HTTP surface needs. RDB and Hub may be nil in tests;
// notifications then go nowhere and the websocket route is not mounted.
type Deps struct {
	Config config.Config
	DB     *gorm.DB
	RDB    *redis.Client
	Hub    *realtime.Hub
	Log    *zap.Logger
}

// corsConfig allows credentials (the session cookie) only for explicit origins;
// fiber refuses credentials together with a wildcard origin.
func corsConfig(origins string) cors.Config {
	origins = strings.TrimSpace(origins)
	if origins == "" {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: origins != "*",
	}
}

func NewApp(d Deps) *fiber.App {
	v := validator.New()

	var notifier notify.Notifier = notify.Nop{}
	if d.RDB != nil {
		notifier = notify.NewPublisher(d.RDB, d.Log)
	}

	userSvc := users.NewService(d.DB, d.Log, v, d.Config.JWTSecret, d.Config.JWTExpiresMin)
	workerSvc := workers.NewService(d.DB, d.Log, v)
	jobSvc := jobs.NewService(d.DB, d.Log, v, workerSvc, notifier)

	userH := NewUserHandler(userSvc, d.Config.CookieSecure)
	workerH := NewWorkerHandler(workerSvc)
	jobH := NewJobHandler(jobSvc)
	healthH := NewHealthHandler(d.DB, d.RDB)

	app := fiber.New(fiber.Config{
		AppName:      "workly",
		ErrorHandler: middleware.ErrorHandler(d.Log),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(d.Config.CORSOrigins)))

	app.Get("/", healthH.Root)
	app.Get("/health", healthH.Health)

	if d.Hub != nil {
		wsH := NewNotificationHandler(d.Hub, d.Config.JWTSecret, d.Log)
		app.Get("/ws/notifications", wsH.Upgrade, wsH.Stream())
	}

	api := app.Group("/api")
	auth := middleware.JWTAuth(d.Config.JWTSecret)
	worker := middleware.RequireRoles(models.RoleWorker)
	client := middleware.RequireRoles(models.RoleClient)

	// public
	u := api.Group("/users")
	u.Post("/register", userH.Register)
	u.Post("/login", userH.Login)
	u.Post("/logout", userH.Logout)
	u.Get("/profile", auth, userH.Profile)

	w := api.Group("/workers", auth)
	w.Post("/create", worker, workerH.Create)
	w.Get("/all", client, workerH.All)

	j := api.Group("/jobs", auth)
	j.Post("/create", client, jobH.Create)
	j.Get("/open", worker, jobH.Open)
	j.Post("/apply/:jobId", worker, jobH.Apply)
	j.Get("/my-jobs", worker, jobH.MyJobs)
	j.Get("/my-client-jobs", client, jobH.MyClientJobs)
	j.Put("/:jobId/accept/:workerId", client, jobH.Accept)
	j.Put("/:jobId/complete", client, jobH.Complete)
	j.Put("/:jobId/rate", client, jobH.Rate)

	return app
}
