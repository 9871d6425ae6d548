package migration

import (
	"context"
	"errors"

	"recipe-finder/domain"
	"recipe-finder/entities"
	"recipe-finder/internal/utils"
	"recipe-finder/pkg/jwt"
	"recipe-finder/pkg/user"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entities.Models()...); err != nil {
		log.Errorf("Error migrating database: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}

// Seed creates both roles and, when ADMIN_EMAIL and ADMIN_PASSWORD are set,
// the initial administrator. Running it again changes nothing.
func Seed(ctx context.Context, db *gorm.DB) error {
	userRepository := user.NewUserRepository(db)
	userService := user.NewUserService(userRepository, jwt.NewJWTService(), nil)

	for _, elevate := range []bool{true, false} {
		if _, err := userService.ResolveRole(ctx, elevate); err != nil {
			return err
		}
	}

	email := utils.GetConfig("ADMIN_EMAIL")
	password := utils.GetConfig("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	taken, err := userRepository.IsEmailTaken(ctx, email, "")
	if err != nil {
		return err
	}
	if taken {
		return nil
	}

	username := utils.GetConfig("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	_, err = userService.CreateUser(ctx, domain.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}, true)
	if err != nil && !errors.Is(err, domain.ErrUsernameAlreadyInUse) {
		return err
	}
	if err == nil {
		log.Infof("created initial admin %s", email)
	}
	return nil
}
