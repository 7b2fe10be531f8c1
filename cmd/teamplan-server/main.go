package main

import (
	"log"
	"os"
	"strconv"

	"github.com/existflow/teamplan/internal/fixtures"
	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/server"
	"github.com/joho/godotenv"
)

// Set with -ldflags "-X main.version=..." at build time.
var (
	version     = "dev"
	commit      = ""
	branch      = ""
	buildTime   = ""
	pipelineURL = ""
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(getenv("LOG_LEVEL", "info"))
	logCfg.FilePath = os.Getenv("LOG_FILE")
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	port := getenv("PORT", "8080")
	env := getenv("APP_ENV", "development")
	seed, _ := strconv.ParseBool(os.Getenv("SEED_DEMO"))

	cfg := server.Config{
		DatabaseURL: getenv("DATABASE_URL", "postgres://localhost:5432/teamplan?sslmode=disable"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Environment: env,
		SeedDemo:    seed,
		Build: model.BuildInfo{
			AppName:        "teamplan",
			Version:        version,
			FullVersion:    version + "+" + commit,
			Branch:         branch,
			Environment:    env,
			DeploymentTime: buildTime,
		},
	}
	if pipelineURL != "" {
		cfg.Build.PipelineURL = &pipelineURL
	}
	if day := os.Getenv("TEAM_TODAY"); day != "" {
		d, err := model.ParseWeekday(day)
		if err != nil {
			log.Fatalf("Invalid TEAM_TODAY: %v", err)
		}
		cfg.Today = d
	} else if seed {
		cfg.Today = fixtures.Today
	}
	if cfg.JWTSecret == "" && env == "development" {
		cfg.JWTSecret = "dev-secret"
		logger.Warn("JWT_SECRET not set, using an insecure development secret")
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("teamplan server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
