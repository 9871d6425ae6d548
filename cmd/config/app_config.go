package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/api/presenters"
	"recipe-finder/internal/api/routes"
	"recipe-finder/internal/middleware"
	"recipe-finder/internal/utils"
	"recipe-finder/internal/utils/mailing"
	"recipe-finder/internal/utils/storage"
	"recipe-finder/pkg/jwt"
	"recipe-finder/pkg/oauth"
	"recipe-finder/pkg/publisher"
	"recipe-finder/pkg/recipe"
	"recipe-finder/pkg/session"
	"recipe-finder/pkg/user"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const defaultRateLimit = 20

// Dependencies are the collaborators that talk to the outside world.
type Dependencies struct {
	S3        storage.AwsS3
	Revoker   session.Revoker
	Mailer    mailing.Mailer
	Google    oauth.GoogleProvider
	LogOutput io.Writer
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	file, err := openLogFile()
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}

	return NewAppWith(db, Dependencies{
		S3:        storage.NewAwsS3(),
		Revoker:   newRevoker(),
		Mailer:    mailing.NewMailer(),
		Google:    oauth.NewGoogleProvider(),
		LogOutput: file,
	}), nil
}

// NewAppWith wires every layer around the given collaborators.
func NewAppWith(db *gorm.DB, deps Dependencies) *fiber.App {
	utils.InitValidator()
	validator := utils.Validate

	app := fiber.New(fiber.Config{
		ErrorHandler: presenters.ErrorHandler,
		BodyLimit:    storage.MaxUploadSize + 1<<20,
	})

	app.Use(recover.New())

	if deps.LogOutput != nil {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   timezone(),
			Output:     deps.LogOutput,
		}))
	}

	if limit := utils.GetConfigInt("RATE_LIMIT_MAX", defaultRateLimit); limit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        limit,
			Expiration: 1 * time.Second,
		}))
	}

	metrics := fiberprometheus.NewWithRegistry(prometheus.NewRegistry(), "recipe-finder", "http", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// Repository
	userRepository := user.NewUserRepository(db)
	publisherRepository := publisher.NewPublisherRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	middlewares := middleware.NewMiddleware(deps.Revoker, userRepository)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, deps.S3)
	publisherService := publisher.NewPublisherService(publisherRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, publisherRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, recipeService, jwtService, deps.Revoker, deps.Google, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	publisherHandler := handlers.NewPublisherHandler(publisherService, validator)
	oauthHandler := handlers.NewOAuthHandler(deps.Google, userService, jwtService)
	siteHandler := handlers.NewSiteHandler(deps.Mailer, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		RecipeHandler:    recipeHandler,
		PublisherHandler: publisherHandler,
		OAuthHandler:     oauthHandler,
		SiteHandler:      siteHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app
}

// newRevoker falls back to a no-op store when REDIS_URL is unset, in which
// case logout only clears the cookie.
func newRevoker() session.Revoker {
	url := utils.GetConfig("REDIS_URL")
	if url == "" {
		log.Warn("REDIS_URL not set, logged out tokens stay valid until they expire")
		return session.NewNoopRevoker()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	revoker, err := session.NewRedisRevoker(ctx, url)
	if err != nil {
		log.Fatalf("error connecting to redis: %v", err)
	}
	return revoker
}

func openLogFile() (*os.File, error) {
	path := utils.GetConfig("LOG_PATH")
	if path == "" {
		path = "./logs/app.log"
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}

func timezone() string {
	if tz := utils.GetConfig("APP_TIMEZONE"); tz != "" {
		return tz
	}
	return "UTC"
}
