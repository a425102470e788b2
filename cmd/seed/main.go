// Package main seeds the database with the default categories and tags.
//
// Categories are created per module with module-prefixed slugs so the same
// name can exist in every module. Existing rows are left untouched, so the
// command can be run repeatedly.
//
// Usage:
//
//	DB_PATH=~/PynadeHub/pynade.db go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/allan-kirui57/pynade-hub/internal/cache"
	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
	"github.com/allan-kirui57/pynade-hub/internal/service"
	"github.com/allan-kirui57/pynade-hub/internal/store/sqlite"
)

var defaultCategories = []struct {
	name        string
	description string
}{
	{"Technology", "Software, hardware and the web"},
	{"Business", "Startups, finance and marketing"},
	{"Health", "Fitness, nutrition and wellbeing"},
	{"Lifestyle", "Travel, food and culture"},
}

var defaultTags = []string{
	"AI", "Cloud", "Design", "DevOps", "Go", "JavaScript",
	"Mobile", "Open Source", "Productivity", "Python", "Remote", "Security",
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	st, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		log.Fatal("Failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer st.Close()

	c, err := cache.OpenBadger(cfg.Cache.Dir, log.Logger)
	if err != nil {
		log.Fatal("Failed to open cache", "error", err)
	}
	defer c.Close()

	taxonomy := service.NewTaxonomyService(st, c, service.TaxonomyConfig{}, log.Component("taxonomy"))
	ctx := context.Background()

	created, skipped := 0, 0
	for _, m := range domain.Modules() {
		for _, def := range defaultCategories {
			_, err := taxonomy.CreateCategory(ctx, service.CreateCategoryRequest{
				Name:        def.name,
				Slug:        string(m) + "-" + strings.ToLower(def.name),
				Description: def.description,
				Module:      m,
			})
			switch {
			case err == nil:
				created++
			case errors.Is(err, domainerrors.ErrAlreadyExists):
				skipped++
			default:
				log.Fatal("Failed to create category", "module", m, "name", def.name, "error", err)
			}
		}
	}
	fmt.Printf("Categories: %d created, %d already present\n", created, skipped)

	created, skipped = 0, 0
	for _, name := range defaultTags {
		_, err := taxonomy.CreateTag(ctx, service.CreateTagRequest{Name: name})
		switch {
		case err == nil:
			created++
		case errors.Is(err, domainerrors.ErrAlreadyExists):
			skipped++
		default:
			log.Fatal("Failed to create tag", "name", name, "error", err)
		}
	}
	fmt.Printf("Tags: %d created, %d already present\n", created, skipped)
}
