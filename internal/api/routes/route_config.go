package routes

import (
	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/middleware"
	"recipe-finder/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	RecipeHandler    handlers.RecipeHandler
	PublisherHandler handlers.PublisherHandler
	OAuthHandler     handlers.OAuthHandler
	SiteHandler      handlers.SiteHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.AdminRoute()
	c.RecipeRoute()
	c.AccountRoute()
	c.GuestRoute()
}

// AdminRoute is registered before RecipeRoute so fixed paths win over /recipe/:id/.
func (c *Config) AdminRoute() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminOnly()

	c.App.Get("/recipe/manage/", auth, admin, c.RecipeHandler.ManageRecipes)
	c.App.Get("/recipe/publisher/add/", auth, admin, c.PublisherHandler.GetPublishers)
	c.App.Post("/recipe/publisher/add/", auth, admin, c.PublisherHandler.ManagePublisher)

	c.App.Get("/recipe/:id/edit/", auth, admin, c.RecipeHandler.GetEditForm)
	c.App.Post("/recipe/:id/edit/", auth, admin, c.RecipeHandler.UpdateRecipe)
	c.App.Get("/recipe/:id/delete/", auth, admin, c.RecipeHandler.ConfirmDelete)
	c.App.Post("/recipe/:id/delete/", auth, admin, c.RecipeHandler.DeleteRecipe)
}

func (c *Config) RecipeRoute() {
	optional := c.Middleware.OptionalAuth(c.JWTService)
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	c.App.Get("/", optional, c.RecipeHandler.ListRecipes)
	c.App.Get("/recipe/:id/", optional, c.RecipeHandler.GetRecipeDetail)
	c.App.Post("/recipe/:id/save/", auth, c.RecipeHandler.ToggleSave)
	c.App.Get("/add-recipe/", auth, c.RecipeHandler.GetRecipeForm)
	c.App.Post("/add-recipe/", auth, c.RecipeHandler.CreateRecipe)
}

func (c *Config) AccountRoute() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	c.App.Get("/login/", c.UserHandler.LoginForm)
	c.App.Post("/login/", c.UserHandler.Login)
	c.App.Post("/register/", c.UserHandler.Register)
	c.App.Post("/logout/", auth, c.UserHandler.Logout)

	profile := c.App.Group("/profile", auth)
	{
		profile.Get("/", c.UserHandler.Profile)
		profile.Post("/update/", c.UserHandler.UpdateProfile)
		profile.Post("/update-picture/", c.UserHandler.UpdatePicture)
		profile.Post("/change-password/", c.UserHandler.ChangePassword)
	}

	c.App.Get("/auth/google/login/", c.OAuthHandler.GoogleLogin)
	c.App.Get("/auth/google/callback/", c.OAuthHandler.GoogleCallback)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", c.SiteHandler.Ping)
	c.App.Get("/about/", c.SiteHandler.About)
	c.App.Post("/contact/", c.SiteHandler.Contact)
}
