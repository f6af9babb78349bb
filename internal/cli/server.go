package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"transparency-service/internal/app"
	"transparency-service/internal/config"
	"transparency-service/internal/infra/memory"
	infraopenai "transparency-service/internal/infra/openai"
	infrapg "transparency-service/internal/infra/postgres"
	infraredis "transparency-service/internal/infra/redis"
	"transparency-service/internal/questions"
	transport "transparency-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the transparency service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var store app.Store = memory.NewStore()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = infrapg.NewStore(pool)
	}

	var source questions.Source
	openaiTimeout := config.TTLDuration(cfg.OpenAI.Timeout, 30*time.Second)
	if src, err := infraopenai.NewQuestionSource(cfg.OpenAI.APIKey, cfg.OpenAI.Model, openaiTimeout); err == nil {
		source = src
	} else {
		log.Printf("AI question source disabled, category fallbacks will be used: %v", err)
	}
	assembler := questions.NewAssembler(source)

	var opts []app.Option
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := infraredis.NewReportCache(redisClient, store, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		opts = append(opts, app.WithReportCache(cache, cache))
	}

	service := app.NewTransparencyService(store, assembler, opts...)
	handler := transport.NewHandler(service)
	watchHandler := transport.NewWatchHandler(service)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/watch", watchHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting transparency service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
