package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/api"
	"github.com/Joseda-hg/lazyproject/internal/config"
	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/keystore"
	"github.com/Joseda-hg/lazyproject/internal/logging"
	"github.com/Joseda-hg/lazyproject/internal/metrics"
	"github.com/Joseda-hg/lazyproject/internal/mockapi"
	"github.com/Joseda-hg/lazyproject/internal/resource"
	"github.com/Joseda-hg/lazyproject/internal/session"
	"github.com/Joseda-hg/lazyproject/internal/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	apiFlag := flag.String("api", "", "project API base URL")
	keystoreFlag := flag.String("keystore", "", "credential store: sqlite, memory or redis")
	mockFlag := flag.Bool("mock", false, "run the bundled mock API")
	mockOnlyFlag := flag.Bool("mock-only", false, "run the mock API only")
	portFlag := flag.Int("port", 0, "mock API port")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Resolve(cfgPath, func(cfg *config.Config) {
		if *dbPathFlag != "" {
			cfg.DBPath = *dbPathFlag
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(filepath.Dir(cfgPath), "lazyproject.db")
		}
		if cfg.LogPath == "" {
			cfg.LogPath = filepath.Join(filepath.Dir(cfgPath), "lazyproject.log")
		}
		if *apiFlag != "" {
			cfg.APIURL = *apiFlag
		}
		if *keystoreFlag != "" {
			cfg.KeyStore = *keystoreFlag
		}
		if *mockFlag || *mockOnlyFlag {
			cfg.MockEnabled = true
		}
		if *portFlag != 0 {
			cfg.MockPort = *portFlag
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	logger, closeLog, err := openLogger(cfg, *mockOnlyFlag)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *mockOnlyFlag); err != nil {
		logger.WithError(err).Error("lazyproject stopped")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger, mockOnly bool) error {
	var sqlDB *sql.DB
	if cfg.KeyStore == config.KeyStoreSQLite || cfg.MockEnabled {
		opened, err := openDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer opened.Close()
		sqlDB = opened
	}

	registry := prometheus.NewRegistry()

	if cfg.MockEnabled {
		server, err := startMock(ctx, cfg, sqlDB, registry, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Mock API shutdown failed")
			}
		}()
		if cfg.APIURL == "" {
			cfg.APIURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.MockPort)
		}
	}

	if mockOnly {
		fmt.Fprintf(os.Stderr, "Mock API running at http://localhost:%d\n", cfg.MockPort)
		<-ctx.Done()
		return nil
	}

	kv, closeKV, err := openKeyStore(ctx, cfg, sqlDB)
	if err != nil {
		return err
	}
	defer closeKV()

	client := api.NewClient(cfg.APIURL,
		api.WithLogger(logger),
		api.WithMetrics(metrics.NewClientMetrics(registry)),
	)

	sess := session.New(client, kv, session.WithLogger(logger))
	sess.Restore(ctx)

	storeOpts := []resource.Option{resource.WithLogger(logger)}
	if cfg.LogoutOnUnauthorized {
		storeOpts = append(storeOpts, resource.WithUnauthorizedHandler(sess.Logout))
	}
	store := resource.New(client, kv, storeOpts...)

	return tui.Run(ctx, sess, store, logger)
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

// openLogger writes to a file while the terminal UI owns the screen.
func openLogger(cfg config.Config, toStderr bool) (*logrus.Logger, func(), error) {
	if toStderr {
		return logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr), func() {}, nil
	}
	if err := config.EnsureDir(cfg.LogPath); err != nil {
		return nil, nil, err
	}
	file, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(cfg.LogLevel, cfg.LogFormat, file), func() { _ = file.Close() }, nil
}

func openDB(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := config.EnsureDir(dbPath); err != nil {
			return nil, err
		}
	}
	return db.Open(dbPath)
}

func openKeyStore(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (keystore.Store, func(), error) {
	switch cfg.KeyStore {
	case config.KeyStoreMemory:
		return keystore.NewMemoryStore(), func() {}, nil
	case config.KeyStoreRedis:
		rdb, err := keystore.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return keystore.NewRedisStore(rdb, keystore.DefaultRedisPrefix), func() { _ = rdb.Close() }, nil
	default:
		return keystore.NewSQLStore(sqlDB), func() {}, nil
	}
}

func startMock(ctx context.Context, cfg config.Config, sqlDB *sql.DB, registry *prometheus.Registry, logger *logrus.Logger) (*mockapi.Server, error) {
	store := db.NewStore(sqlDB, nil)

	serverCfg := mockapi.DefaultConfig()
	serverCfg.JWTSecret = cfg.JWTSecret
	if serverCfg.JWTSecret == "" {
		secret, err := mockapi.LoadOrCreateSecret(ctx, keystore.NewSQLStore(sqlDB))
		if err != nil {
			return nil, err
		}
		serverCfg.JWTSecret = secret
	}
	if cfg.MockSeed {
		if err := mockapi.Seed(ctx, store, serverCfg.BcryptCost); err != nil {
			return nil, err
		}
	}

	server, err := mockapi.NewServer(store, serverCfg,
		mockapi.WithLogger(logger.WithField("component", "mockapi")),
		mockapi.WithRegistry(registry),
	)
	if err != nil {
		return nil, err
	}

	addr := fmt.Sprintf(":%d", cfg.MockPort)
	go func() {
		if err := server.Start(addr); err != nil {
			logger.WithError(err).Error("Mock API stopped")
		}
	}()
	return server, nil
}
