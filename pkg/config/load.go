package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (or .env) and fills App
// from the environment. Variables already set in the process win over the file.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	for _, name := range envFilePath {
		path, err := FindEnvFile(name)
		if err != nil {
			logger.Debug("Environment file not found", "name", name, "error", err)
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Error("Failed to load environment file", "path", path, "error", err)
			continue
		}
		logger.Info("Loaded environment file", "path", path)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

// FindEnvFile walks from the working directory up to the filesystem root and
// returns the first path holding filename (.env when empty).
func FindEnvFile(filename string) (string, error) {
	if filename == "" {
		filename = ".env"
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func loadFromEnv() (*App, error) {
	var cfg App
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}

	logger := slog.Default()
	logger.Info("App config loaded",
		"env", cfg.Env,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"db", maskValue(cfg.DB.Url),
		"auth_jwt_expiry", cfg.Auth.Jwt.Expiry,
		"bank", cfg.Bank.Country+cfg.Bank.BankCode+cfg.Bank.BranchCode,
		"interest_rate", cfg.Interest.AnnualRate,
		"event_bus", cfg.EventBus.Driver,
		"admin_token", maskValue(cfg.Admin.Token),
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
