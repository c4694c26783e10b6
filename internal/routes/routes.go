package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/linkupapp/linkup-backend/internal/config"
	"github.com/linkupapp/linkup-backend/internal/handlers"
	"github.com/linkupapp/linkup-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	creatorHandler *handlers.CreatorHandler,
	postHandler *handlers.PostHandler,
	subRequestHandler *handlers.SubRequestHandler,
	subscriberHandler *handlers.SubscriberHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Credential endpoints get a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	users := api.Group("/users")
	users.Post("/create", authLimiter, authHandler.Register)
	users.Post("/login", authLimiter, authHandler.Login)
	users.Post("/refresh", authHandler.Refresh)

	// Everything below requires a valid token bound to a live user.
	users.Use(middleware.JWTProtected(cfg), middleware.Authenticated(db))

	users.Post("/logout", authHandler.Logout)
	users.Get("/", userHandler.ReadAll)
	users.Get("/:userId", userHandler.ReadOne)

	// Self-scoped: the :userId in the path must be the caller.
	self := users.Group("/:userId", middleware.RequireSelf())
	self.Put("/update", userHandler.Update)
	self.Delete("/delete", userHandler.Delete)

	creators := self.Group("/creators")
	creators.Post("/", creatorHandler.Create)
	creators.Get("/readAll", creatorHandler.ReadAll)
	creators.Get("/:creatorId/readOne", creatorHandler.ReadOne)
	creators.Put("/:creatorId/update", creatorHandler.Update)
	creators.Delete("/:creatorId/delete", creatorHandler.Delete)

	posts := creators.Group("/:creatorId/posts")
	posts.Post("/create", postHandler.Create)
	posts.Get("/readAll", postHandler.ReadAll)
	posts.Get("/:postId/readOne", postHandler.ReadOne)
	posts.Delete("/:postId/deleteOne", postHandler.DeleteOne)
	posts.Delete("/deleteAll", postHandler.DeleteAll)

	subRequests := creators.Group("/:creatorId/subRequests")
	subRequests.Post("/create", subRequestHandler.Create)
	subRequests.Get("/readAll", subRequestHandler.ReadAll)
	subRequests.Get("/:subRequestId/readOne", subRequestHandler.ReadOne)
	subRequests.Delete("/:subRequestId/delete", subRequestHandler.Delete)

	subscribers := creators.Group("/:creatorId/subscribers")
	subscribers.Get("/readAll", subscriberHandler.ReadAll)
	subscribers.Get("/:subscriberId/readOne", subscriberHandler.ReadOne)
	subscribers.Delete("/:subscriberId/delete", subscriberHandler.Delete)
}
