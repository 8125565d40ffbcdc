package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

func main() {
	category := flag.Int("category", 1, "Category id to import into (1-6)")
	amount := flag.Int("amount", 10, "Number of questions to fetch (max 50)")
	difficulty := flag.String("difficulty", "", "Optional difficulty: easy, medium or hard")
	baseURL := flag.String("base-url", "https://opentdb.com", "Open Trivia DB base URL")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.Store.Driver = config.DriverPostgres
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid postgres config")
	}

	logger := logging.New(cfg.Name+"-importer", cfg.Env)

	pool, err := db.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	svc := trivia.NewService(
		repository.NewQuestionRepository(pool),
		repository.NewCategoryRepository(pool),
		trivia.ServiceOptions{},
		logger,
	)

	imp := importer.New(importer.NewOpenTDBClient(*baseURL, nil), svc, logger)
	n, err := imp.Import(ctx, *category, *amount, *difficulty)
	if err != nil {
		logger.Fatal().Err(err).Int("imported", n).Msg("import failed")
	}
	logger.Info().Int("imported", n).Msg("import complete")
}
