// @title						AgentDesk API
// @version					1.0
// @description				Admin and chat backend for configuring and running LLM agents.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/agentdesk/internal/config"
	"github.com/mtlprog/agentdesk/internal/database"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler"
	"github.com/mtlprog/agentdesk/internal/logger"
	"github.com/mtlprog/agentdesk/internal/quota"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/seed"
	"github.com/mtlprog/agentdesk/internal/service"
	"github.com/mtlprog/agentdesk/internal/telemetry"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "agentdesk",
		Usage:   "Admin and chat backend for LLM agents",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:     "jwt-secret",
						Usage:    "Secret used to sign session tokens",
						EnvVars:  []string{"JWT_SECRET", "SECRET_KEY"},
						Required: true,
					},
					&cli.IntFlag{
						Name:    "access-token-expire-minutes",
						Value:   config.DefaultAccessTokenExpireMinutes,
						Usage:   "Session token lifetime in minutes",
						EnvVars: []string{"ACCESS_TOKEN_EXPIRE_MINUTES"},
					},
					&cli.StringSliceFlag{
						Name:    "cors-allowed-origin",
						Value:   cli.NewStringSlice(config.DefaultCORSAllowedOrigin),
						Usage:   "Origin allowed to call the API from a browser (repeatable)",
						EnvVars: []string{"CORS_ALLOWED_ORIGINS"},
					},
					&cli.StringFlag{
						Name:    "redis-url",
						Usage:   "Redis URL for the free-tier message counter; stored messages are counted when empty",
						EnvVars: []string{"REDIS_URL"},
					},
					&cli.StringFlag{
						Name:    "openai-base-url",
						Usage:   "Override the OpenAI API base URL",
						EnvVars: []string{"OPENAI_BASE_URL"},
					},
					&cli.StringFlag{
						Name:    "anthropic-base-url",
						Usage:   "Override the Anthropic API base URL",
						EnvVars: []string{"ANTHROPIC_BASE_URL"},
					},
					&cli.StringFlag{
						Name:    "otel-exporter-otlp-endpoint",
						Usage:   "OTLP gRPC collector address; tracing is off when empty",
						EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin account, or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Admin email",
						EnvVars:  []string{"ADMIN_EMAIL"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Admin password",
						EnvVars:  []string{"ADMIN_PASSWORD"},
						Required: true,
					},
				},
				Action: runCreateAdmin,
			},
			{
				Name:  "seed",
				Usage: "Load API keys, agents and plans from a TOML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Seed file; the built-in data is used when empty",
						EnvVars: []string{"SEED_FILE"},
					},
				},
				Action: runSeed,
			},
			{
				Name:      "migrate",
				Usage:     "Run database migrations",
				ArgsUsage: "up|down|reset|status",
				Action:    runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// openDB connects and brings the schema up to date.
func openDB(ctx context.Context, databaseURL string) (*database.DB, error) {
	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	cfg := &config.Config{
		DatabaseURL:        c.String("database-url"),
		Port:               c.String("port"),
		JWTSecret:          c.String("jwt-secret"),
		AccessTokenTTL:     time.Duration(c.Int("access-token-expire-minutes")) * time.Minute,
		CORSAllowedOrigins: splitOrigins(c.StringSlice("cors-allowed-origin")),
		RedisURL:           c.String("redis-url"),
		OpenAIBaseURL:      c.String("openai-base-url"),
		AnthropicBaseURL:   c.String("anthropic-base-url"),
		OTLPEndpoint:       c.String("otel-exporter-otlp-endpoint"),
	}
	if cfg.Port == "" {
		cfg.Port = config.DefaultPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    config.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	db, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts handler.Options
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid redis URL: %w", err)
		}
		client := redis.NewClient(redisOpts)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts.Limiter = quota.NewRedisLimiter(client, domain.FreeMonthlyMessageCap)
		slog.Info("message quota backed by redis")
	}

	h := handler.New(db.Pool(), cfg, opts)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// splitOrigins accepts both repeated flags and a comma separated env value.
func splitOrigins(values []string) []string {
	var origins []string
	for _, v := range values {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}

func runCreateAdmin(c *cli.Context) error {
	ctx := c.Context

	db, err := openDB(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	// Token settings are irrelevant here; no token is issued.
	auth := service.NewAuthService(repository.NewUserRepository(db.Pool()), "unused", time.Minute)

	user, err := auth.EnsureAdmin(ctx, c.String("email"), c.String("password"))
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin ready", "user_id", user.ID, "email", user.Email)
	return nil
}

func runSeed(c *cli.Context) error {
	ctx := c.Context

	data, err := seed.Load(c.String("file"))
	if err != nil {
		return err
	}

	db, err := openDB(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := seed.NewSeeder(db.Pool()).Apply(ctx, data); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	return nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context

	command := c.Args().First()
	if command == "" {
		command = "up"
	}

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return database.Migrate(ctx, db.Pool(), command)
}
