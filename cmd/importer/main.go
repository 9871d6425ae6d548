// Command importer bulk loads recipes from a JSON array file. Rows whose
// recipe_id is already stored are skipped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"recipe-finder/cmd/config"
	migration "recipe-finder/cmd/database/migrate"
	"recipe-finder/domain"
	"recipe-finder/internal/utils"
	"recipe-finder/pkg/publisher"
	"recipe-finder/pkg/recipe"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	path := flag.String("file", "recipes.json", "JSON file holding an array of recipes")
	flag.Parse()

	utils.LoadConfig()
	utils.InitValidator()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("reading %s: %v", *path, err)
	}

	var rows []domain.ImportRecipeRequest
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Fatalf("parsing %s: %v", *path, err)
	}

	valid := rows[:0]
	for i, row := range rows {
		if err := utils.Validate.Struct(row); err != nil {
			log.Warnf("row %d skipped: %v", i, err)
			continue
		}
		valid = append(valid, row)
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	recipeService := recipe.NewRecipeService(recipe.NewRecipeRepository(db), publisher.NewPublisherRepository(db))
	res, err := recipeService.ImportRecipes(context.Background(), valid)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Infof("import finished: %d created, %d skipped, %d invalid", res.Created, res.Skipped, len(rows)-len(valid))
}
