package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memehub/internal/catalog"
	"memehub/internal/config"
	"memehub/internal/database"
	"memehub/internal/engine"
	"memehub/internal/handlers"
	"memehub/internal/memes"
	"memehub/internal/store"
	"memehub/internal/utils"
	"memehub/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port   int
		dbType string
		debug  bool
	)
	cmd := &cobra.Command{
		Use:           "engine",
		Short:         "Serve the meme pool over HTTP",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("db") {
				cfg.Database.Type = dbType
			}
			if debug {
				cfg.Debug = true
			}

			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port (overrides PORT)")
	cmd.Flags().StringVar(&dbType, "db", config.DBMemory, "persistence backend: memory, mongodb or sqlite (overrides DB_TYPE)")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose development logging")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openPersister returns nil for the in-memory backend.
func openPersister(ctx context.Context, cfg *config.DatabaseConfig) (database.Persister, error) {
	switch cfg.Type {
	case config.DBMemory:
		return nil, nil
	case config.DBMongo:
		return database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.DBSQLite:
		return database.NewSQLiteDB(ctx, cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
}

// app is everything behind the HTTP listener.
type app struct {
	handler http.Handler
	engine  *engine.Engine
	db      database.Persister
	cancel  context.CancelFunc
	hubDone chan struct{}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := openPersister(ctx, cfg.Database)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to open "+cfg.Database.Type, err)
	}

	var metrics *utils.MetricsCollector
	if cfg.Server.MetricsEnabled {
		metrics = utils.NewMetricsCollector("memehub")
	}

	hubCtx, cancel := context.WithCancel(context.Background())
	hub := websocket.NewHub(logger.Named("ws"))
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()

	svc := memes.NewService(store.New(store.WithSnapshotCache(cfg.Engine.SnapshotCache)), catalog.Default())
	eng := engine.NewEngine(actor.NewActorSystem(), svc, engine.Config{
		Shards:    cfg.Engine.Shards,
		Persister: db,
		Sink:      hub,
		Metrics:   metrics,
		Logger:    logger,
	})
	a := &app{engine: eng, db: db, cancel: cancel, hubDone: hubDone}

	if err := eng.Load(ctx); err != nil {
		a.close(context.Background(), logger)
		return nil, err
	}

	server := handlers.NewServer(eng, hub, metrics, logger)
	server.RequestTimeout = cfg.Server.RequestTimeout
	server.AllowedOrigins = cfg.AllowedOrigins
	a.handler = server.Routes()
	return a, nil
}

// close stops the engine first so queued writes reach the database, then
// the hub and finally the database connection.
func (a *app) close(ctx context.Context, logger *zap.Logger) {
	if err := a.engine.Stop(); err != nil {
		logger.Error("engine did not stop cleanly", zap.Error(err))
	}
	a.engine.Service().Store().Close()
	a.cancel()
	<-a.hubDone
	if a.db != nil {
		if err := a.db.Close(ctx); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("db", cfg.Database.Type),
			zap.Int("shards", cfg.Engine.Shards))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			a.close(context.Background(), logger)
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	a.close(shutdownCtx, logger)
	return nil
}
