package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinabrahms/checkers/internal/config"
	"github.com/justinabrahms/checkers/internal/session"
	"github.com/justinabrahms/checkers/internal/web"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var showHelp bool
	var configPath string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configPath, "config", "", "Path to a config file")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogging(cfg.Development)

	if cfg.Session.Secret == config.DefaultSecret {
		log.Warn().Msg("Using the default session secret; set session.secret outside development")
	}

	store, closeStore, err := newStore(cfg.Store, cfg.Session.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session store")
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := web.NewHub()
	go hub.Run(ctx)

	service := web.NewService(
		session.NewManager(store),
		session.NewTokens(cfg.Session.Secret, cfg.Session.TTL),
		hub,
		cfg,
	)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      service.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Str("codec", cfg.Store.Codec).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupLogging(dev config.DevelopmentConfig) {
	level, err := zerolog.ParseLevel(dev.LogLevel)
	if err != nil {
		log.Warn().Str("level", dev.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if dev.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newStore(cfg config.StoreConfig, ttl time.Duration) (session.Store, func(), error) {
	codec, err := session.CodecByName(cfg.Codec)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return session.NewRedisStore(rdb, codec, cfg.KeyPrefix, ttl), func() { _ = rdb.Close() }, nil
	default:
		return session.NewMemoryStore(codec), func() {}, nil
	}
}

func showHelpMessage() {
	fmt.Println(`checkersd

DESCRIPTION:
    HTTP service for English draughts. Each browser session holds one game
    snapshot; every request loads it, applies one rules-engine operation and
    stores the result.

USAGE:
    checkersd [OPTIONS]

OPTIONS:
    -h, --help       Show this help message
    -config PATH     Read configuration from PATH instead of ./config.yaml

CONFIGURATION:
    Example config.yaml:
        server:
          host: localhost
          port: 8080
          static_dir: ./web/static

        session:
          secret: "change-me"
          cookie_name: checkers_session
          ttl: 24h

        store:
          driver: redis       # memory or redis
          codec: cbor         # json or cbor
          redis_addr: localhost:6379

        development:
          debug: true
          log_level: debug

    Every key can be overridden with CHECKERS_<SECTION>_<KEY>, for example
    CHECKERS_STORE_DRIVER=redis.

API ENDPOINTS:
    GET    /api/health         - Service health check
    POST   /api/games          - Start a new game in this session
    GET    /api/game           - Current game
    DELETE /api/game           - Discard the current game
    POST   /api/game/select    - Select a piece {"row": 5, "col": 2}
    POST   /api/game/move      - Move the selected piece {"row": 4, "col": 3}
    GET    /ws                 - Live game updates for this session

EXAMPLES:
    curl -c jar -X POST http://localhost:8080/api/games
    curl -b jar -X POST http://localhost:8080/api/game/select \
      -H "Content-Type: application/json" -d '{"row": 5, "col": 2}'`)
}
