package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/neuraq/careadmin/internal/config"
	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/domain/account"
	"github.com/neuraq/careadmin/internal/domain/loginaudit"
	"github.com/neuraq/careadmin/internal/domain/patient"
	"github.com/neuraq/careadmin/internal/domain/report"
	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/db"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "careadmin-server",
		Short:        "Palliative care admin dashboard API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// loadConfig loads and validates the configuration along with the zone used
// for dates.
func loadConfig() (*config.Config, *time.Location, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	return cfg, loc, nil
}

// openStore connects the configured backend. pool is non-nil only for the
// PostgreSQL backend.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (docstore.Store, *pgxpool.Pool, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		store, err := docstore.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")
		return store, nil, nil

	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("connected to postgres")
		return docstore.NewPostgresStore(pool), pool, nil

	default:
		store := docstore.NewMemoryStore()
		if cfg.SeedFile != "" {
			n, err := store.LoadSeedFile(cfg.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			logger.Info().Str("file", cfg.SeedFile).Int("documents", n).Msg("seeded memory store")
		} else {
			logger.Warn().Msg("memory store is empty; set SEED_FILE to load documents")
		}
		return store, nil, nil
	}
}

// openRevocations uses Redis when REDIS_URL is set so logouts survive restarts
// and are shared between replicas.
func openRevocations(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (auth.RevocationStore, func(), error) {
	if cfg.RedisURL == "" {
		mem := auth.NewMemoryRevocationStore(time.Minute)
		return mem, mem.Close, nil
	}
	client, err := auth.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("connected to redis for session revocation")
	return auth.NewRedisRevocationStore(client), func() { client.Close() }, nil
}

// buildScreens wires the four dashboard lists over store.
func buildScreens(store docstore.Store, gate *auth.DeleteGate, loc *time.Location, logger zerolog.Logger) []dashboard.Mounted {
	return []dashboard.Mounted{
		dashboard.Mount(dashboard.NewService(report.NewScreen(loc), store, gate), logger),
		dashboard.Mount(dashboard.NewService(patient.NewScreen(loc), store, gate), logger),
		dashboard.Mount(dashboard.NewService(account.NewScreen(loc), store, gate), logger),
		dashboard.Mount(dashboard.NewService(loginaudit.NewScreen(loc), store, gate), logger),
	}
}

// server holds everything newServer needs.
type server struct {
	cfg         *config.Config
	loc         *time.Location
	store       docstore.Store
	pool        *pgxpool.Pool
	sessions    *auth.SessionManager
	revocations auth.RevocationStore
	logger      zerolog.Logger
}

func newServer(s server) *echo.Echo {
	cfg, logger := s.cfg, s.logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader, dashboard.DeletePINHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit("64K"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(auth.SessionMiddleware(auth.SessionConfig{
		Manager:     s.sessions,
		Revocations: s.revocations,
		Skipper:     auth.AuthSkipper,
		Logger:      logger,
	}))
	e.Use(middleware.Audit(logger))

	// Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(cfg.StoreBackend, s.store, s.pool))

	// Auth
	loginLimit := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	})
	admin := auth.NewAdminAuthenticator(cfg.AdminUsername, cfg.AdminPasswordHash)
	auth.NewHandler(admin, s.sessions, s.revocations, logger).RegisterRoutes(e.Group("/auth"), loginLimit)

	// Dashboard
	api := e.Group("/api/v1")
	gate := auth.NewDeleteGate(cfg.DeletePIN)
	for _, m := range buildScreens(s.store, gate, s.loc, logger) {
		m.Routes.RegisterRoutes(api)
	}
	dashboard.NewOverview(s.store, logger).RegisterRoutes(api)

	if cfg.UserCreationEnabled {
		account.NewHandler(account.NewService(s.store, auth.HashPassword), logger).RegisterRoutes(api)
		logger.Info().Msg("user creation enabled")
	}

	return e
}

func runServer() error {
	cfg, loc, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	store, pool, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to connect to document store")
	}
	defer store.Close(context.Background())
	if pool != nil {
		defer pool.Close()
	}

	revocations, closeRevocations, err := openRevocations(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer closeRevocations()

	if cfg.AdminPasswordHash == "" {
		logger.Warn().Msg("ADMIN_PASSWORD_HASH is empty; admin login checks the username only")
	}

	e := newServer(server{
		cfg:         cfg,
		loc:         loc,
		store:       store,
		pool:        pool,
		sessions:    auth.NewSessionManager([]byte(cfg.SessionSigningKey), cfg.SessionIssuer, cfg.SessionTTL),
		revocations: revocations,
		logger:      logger,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("backend", cfg.StoreBackend).Str("timezone", loc.String()).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
