package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"futspot/internal/auth"
	"futspot/internal/config"
	"futspot/internal/database"
	"futspot/internal/logger"
	"futspot/internal/models"
	"futspot/internal/repository"
	"futspot/internal/schedule"
	"futspot/internal/search"
	"futspot/internal/service"
)

var (
	owners      = flag.Int("owners", 3, "Number of demo owners (locadores) to create")
	venuesPer   = flag.Int("venues", 2, "Venues created for each owner")
	players     = flag.Int("players", 5, "Number of demo players (jogadores) to create")
	city        = flag.String("city", "São Paulo", "City used for the generated venues")
	password    = flag.String("password", "futspot123", "Password of every generated user")
	dryRun      = flag.Bool("dry-run", false, "Show what would be generated without making changes")
	streetNames = []string{"Rua das Flores", "Avenida Paulista", "Rua Augusta", "Rua da Consolação", "Avenida Brasil"}
)

// DemoGenerator заполняет базу демонстрационными пользователями и локалами
type DemoGenerator struct {
	repos    *repository.Repositories
	services *service.Services
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting demo data generator...")

	if *dryRun {
		slog.Info("[DRY RUN] Would generate demo data",
			"owners", *owners, "venues_per_owner", *venuesPer, "players", *players, "city", *city)
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	clock, err := schedule.NewSystemClock(cfg.Timezone)
	if err != nil {
		slog.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)
	deps := service.Deps{
		Store:  repos,
		Clock:  clock,
		Tokens: auth.NewTokenManager(cfg.Auth),
	}
	// новые локалы сразу попадают в поисковый индекс
	if cfg.Elasticsearch.Enabled {
		if es, err := search.NewElasticsearchClient(cfg.Elasticsearch); err != nil {
			slog.Warn("Venue search index disabled", "error", err)
		} else {
			deps.Index = es
		}
	}

	generator := &DemoGenerator{repos: repos, services: service.NewServices(deps)}
	if err := generator.Generate(context.Background()); err != nil {
		slog.Error("Failed to generate demo data", "error", err)
		os.Exit(1)
	}

	slog.Info("Demo data generation completed successfully!")
}

func (g *DemoGenerator) Generate(ctx context.Context) error {
	for i := 1; i <= *owners; i++ {
		ownerID, created, err := g.ensureUser(ctx, fmt.Sprintf("locador%d@futspot.dev", i), fmt.Sprintf("Locador %d", i), models.RoleOwner)
		if err != nil {
			return err
		}
		if !created {
			slog.Info("Owner already exists, skipping venues", "owner_id", ownerID)
			continue
		}
		for j := 1; j <= *venuesPer; j++ {
			if err := g.createVenue(ctx, ownerID, i, j); err != nil {
				slog.Error("Failed to create venue", "owner_id", ownerID, "error", err)
			}
		}
	}

	for i := 1; i <= *players; i++ {
		if _, _, err := g.ensureUser(ctx, fmt.Sprintf("jogador%d@futspot.dev", i), fmt.Sprintf("Jogador %d", i), models.RolePlayer); err != nil {
			return err
		}
	}
	return nil
}

func (g *DemoGenerator) ensureUser(ctx context.Context, email, name, role string) (int64, bool, error) {
	existing, err := g.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up %s: %w", email, err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	resp, err := g.services.Auth.Register(ctx, models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: *password,
		Role:     role,
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to register %s: %w", email, err)
	}
	return resp.User.ID, true, nil
}

func (g *DemoGenerator) createVenue(ctx context.Context, ownerID int64, owner, n int) error {
	name := fmt.Sprintf("Arena %d-%d", owner, n)
	category := models.Categories[rand.Intn(len(models.Categories))]
	price := float64(80 + rand.Intn(13)*10)
	address := streetNames[rand.Intn(len(streetNames))]
	number := fmt.Sprintf("%d", 10+rand.Intn(990))

	open, closeAt := "06:00", "23:00"
	hours := make([]models.HoursInput, 0, 7)
	for day := 0; day < 7; day++ {
		hours = append(hours, models.HoursInput{Weekday: day, Open: true, Start: &open, End: &closeAt})
	}

	venue, err := g.services.Venues.Create(ctx, ownerID, models.VenueRequest{
		Name:        &name,
		City:        city,
		Address:     &address,
		Number:      &number,
		Category:    &category,
		HourlyPrice: &price,
		Hours:       &hours,
	})
	if err != nil {
		return err
	}

	slog.Info("Generated venue", "venue_id", venue.ID, "name", venue.Name, "category", category, "price", price)
	return nil
}
