package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	KeyStoreSQLite = "sqlite"
	KeyStoreMemory = "memory"
	KeyStoreRedis  = "redis"
)

// Config is saved as JSON. Fields tagged env can be overridden per run by
// LAZYPROJECT_* variables; those values are never written back to the file.
type Config struct {
	APIURL               string `json:"api_url" env:"LAZYPROJECT_API_URL"`
	KeyStore             string `json:"keystore" env:"LAZYPROJECT_KEYSTORE"`
	DBPath               string `json:"db_path" env:"LAZYPROJECT_DB_PATH"`
	RedisURL             string `json:"redis_url" env:"LAZYPROJECT_REDIS_URL"`
	LogLevel             string `json:"log_level" env:"LAZYPROJECT_LOG_LEVEL"`
	LogFormat            string `json:"log_format" env:"LAZYPROJECT_LOG_FORMAT"`
	LogPath              string `json:"log_path" env:"LAZYPROJECT_LOG_PATH"`
	MockEnabled          bool   `json:"mock_enabled" env:"LAZYPROJECT_MOCK_ENABLED"`
	MockPort             int    `json:"mock_port" env:"LAZYPROJECT_MOCK_PORT"`
	MockSeed             bool   `json:"mock_seed" env:"LAZYPROJECT_MOCK_SEED"`
	JWTSecret            string `json:"jwt_secret" env:"LAZYPROJECT_JWT_SECRET"`
	LogoutOnUnauthorized bool   `json:"logout_on_unauthorized" env:"LAZYPROJECT_LOGOUT_ON_UNAUTHORIZED"`
}

func Default() Config {
	return Config{
		KeyStore:  KeyStoreSQLite,
		LogLevel:  "info",
		LogFormat: "text",
		MockPort:  8080,
		MockSeed:  true,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazyproject", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// ApplyEnv overlays LAZYPROJECT_* environment variables (and a .env file in the
// working directory, when present) on top of cfg. Unset variables keep the
// value from cfg.
func ApplyEnv(cfg Config) (Config, error) {
	_ = godotenv.Load()

	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	return cfg, nil
}

// Resolve loads the file at path, applies overrides, and saves the result.
// Environment variables are applied afterwards, so they only affect the
// returned config. overrides runs again on top of the environment so command
// line flags win over both.
func Resolve(path string, overrides func(*Config)) (Config, error) {
	fileCfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if overrides != nil {
		overrides(&fileCfg)
	}

	cfg, err := ApplyEnv(fileCfg)
	if err != nil {
		return Config{}, err
	}
	if overrides != nil {
		overrides(&cfg)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	if err := Save(path, fileCfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.KeyStore {
	case KeyStoreSQLite, KeyStoreMemory:
	case KeyStoreRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis keystore")
		}
	default:
		return fmt.Errorf("unknown keystore %q", cfg.KeyStore)
	}
	if cfg.APIURL == "" && !cfg.MockEnabled {
		return fmt.Errorf("api_url is required unless the mock server is enabled")
	}
	if cfg.MockPort <= 0 || cfg.MockPort > 65535 {
		return fmt.Errorf("mock_port %d out of range", cfg.MockPort)
	}
	return nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
