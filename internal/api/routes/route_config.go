package routes

import (
	"KeepFresh-Backend/internal/api/handlers"
	"KeepFresh-Backend/internal/middleware"
	"KeepFresh-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App         *fiber.App
	UserHandler handlers.UserHandler
	FoodHandler handlers.FoodHandler
	Middleware  middleware.Middleware
	JWTService  jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.FoodItems()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) FoodItems() {
	foodItems := c.App.Group("/api/v1/food-items", c.Middleware.AuthMiddleware(c.JWTService))
	foodItems.Get("/expiring-summary", c.FoodHandler.GetExpiringSummary)
	foodItems.Get("/finished", c.FoodHandler.GetFinishedItems)

	// Basic CRUD operations
	foodItems.Post("", c.FoodHandler.AddFoodItem)
	foodItems.Get("", c.FoodHandler.GetFoodItems)
	foodItems.Delete("/:id", c.FoodHandler.DeleteFoodItem)

	// State transitions
	foodItems.Post("/:id/finish", c.FoodHandler.MarkFinished)
	foodItems.Post("/:id/restore", c.FoodHandler.RestoreFoodItem)

	// Special operations
	foodItems.Post("/photo", c.FoodHandler.UploadItemPhoto)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
