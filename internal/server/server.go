package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/graphview/internal/queue"
	mid "github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/internal/storage"
	"github.com/finsight/graphview/internal/util"
	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/graph"
	"github.com/finsight/graphview/pkg/logger"
	"github.com/finsight/graphview/pkg/store/base"
	pgstore "github.com/finsight/graphview/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiURL := util.GetEnv("GRAPH_API_URL")
	if apiURL == "" {
		logger.Fatal("GRAPH_API_URL is not set")
	}
	apiClient := api.NewClient(api.NewClientParams{BaseURL: apiURL})
	state := graph.NewState()

	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	var conn *pgxpool.Pool
	var store base.SnapshotStore
	if databaseURL := util.GetEnv("DATABASE_URL"); databaseURL != "" {
		m, err := migrate.New("file://migrations", databaseURL)
		if err != nil {
			logger.Fatal("Failed to init migrations", "err", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("Failed to run migrations", "err", err)
		}

		conn, err = pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer conn.Close()
		store = pgstore.NewSnapshotStore(conn)
	}

	app := &mid.App{
		API:   apiClient,
		State: state,
		Build: graph.BuildParams{Parallelism: int(util.GetEnvNumeric("GRAPH_FETCH_PARALLELISM", 8))},
		Store: store,
		Key:   key,
	}

	if util.GetEnv("RABBITMQ_HOST") != "" {
		que := queue.Init()
		defer que.Close()
		c, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(c, []string{queue.ReloadQueue}); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = c
	}

	if util.GetEnv("AWS_ENDPOINT") != "" {
		app.S3 = storage.NewS3Client(ctx)
	}

	restoreOrLoad(ctx, app)

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// restoreOrLoad seeds the in-memory snapshot: from the newest persisted
// snapshot when a store is configured, otherwise with a background load from
// the upstream API. Startup never blocks on the upstream being reachable.
func restoreOrLoad(ctx context.Context, app *mid.App) {
	if app.Store != nil {
		snap, err := app.Store.LatestSnapshot(ctx)
		if err == nil {
			app.State.Set(snap.Graph)
			logger.Info("[Server] Restored snapshot", "snapshot_id", snap.ID, "nodes", snap.NodeCount, "edges", snap.EdgeCount)
			return
		}
		if !errors.Is(err, base.ErrNoSnapshot) {
			logger.Warn("[Server] Failed to restore snapshot", "err", err)
		}
	}

	go func() {
		if _, err := app.State.Reload(ctx, app.API, app.Build); err != nil {
			logger.Warn("[Server] Initial graph load failed", "err", err)
		}
	}()
}
