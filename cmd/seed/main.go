package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"beacon/internal/config"
	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/repository/postgres"
	"beacon/internal/repository/postgres/migrations"
	"beacon/internal/service"
)

// fixture is the YAML shape of a seed file: users to provision and the
// folders/files to create under them.
type fixture struct {
	Users []struct {
		ID   string      `yaml:"id"`
		Kind models.Kind `yaml:"kind"`
	} `yaml:"users"`
	Folders []struct {
		Kind models.Kind `yaml:"kind"`
		Path string      `yaml:"path"`
		User string      `yaml:"user"`
	} `yaml:"folders"`
	Files []struct {
		Kind models.Kind `yaml:"kind"`
		Path string      `yaml:"path"`
		User string      `yaml:"user"`
		Data string      `yaml:"data"`
	} `yaml:"files"`
}

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "Only run migrations, don't seed data")
	fixturePath := flag.String("fixture", "seed.yaml", "Path to the seed fixture file")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logFile, err := config.SetupLogFile(cfg.LogDir, 5)
	if err != nil {
		log.Fatalf("Failed to set up log file: %v", err)
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, logFile), &slog.HandlerOptions{
		Level: level,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Migrations run over a database/sql handle borrowed from the pool
	log.Println("Ensuring database schema is up to date...")
	db := stdlib.OpenDBFromPool(pool)
	if err := migrations.MigrateUp(db, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Schema ready")

	if *migrateOnly {
		return
	}

	data, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to read fixture %s: %v", *fixturePath, err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	files := service.NewFileService(
		postgres.NewFolderRepository(repoConfig),
		postgres.NewContentRepository(repoConfig),
		postgres.NewHistoryRepository(repoConfig),
		postgres.NewFavoriteRepository(repoConfig),
		postgres.NewActivityRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	for _, u := range fx.Users {
		if _, err := files.ProvisionUserRoots(ctx, u.Kind, u.ID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				log.Printf("User %s already provisioned, skipping", u.ID)
				continue
			}
			log.Fatalf("Failed to provision user %s: %v", u.ID, err)
		}
	}

	for _, f := range fx.Folders {
		if _, err := files.CreateFolder(ctx, f.Kind, f.Path, f.User); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				log.Printf("Folder %s already exists, skipping", f.Path)
				continue
			}
			log.Fatalf("Failed to create folder %s: %v", f.Path, err)
		}
	}

	for _, f := range fx.Files {
		_, err := files.SaveFile(ctx, &service.SaveFileRequest{
			Kind:   f.Kind,
			Path:   f.Path,
			Data:   []byte(f.Data),
			UserID: f.User,
		})
		if err != nil {
			log.Fatalf("Failed to save file %s: %v", f.Path, err)
		}
	}

	log.Printf("Seeded %d users, %d folders, %d files", len(fx.Users), len(fx.Folders), len(fx.Files))
}
