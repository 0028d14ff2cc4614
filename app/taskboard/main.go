package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/taskboard/app/taskboard/config"
	"github.com/jrazmi/taskboard/bridge/scaffolding/mid"
	"github.com/jrazmi/taskboard/bridge/usecases/taskboardbridge"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskfilestore"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskpgxstore"
	"github.com/jrazmi/taskboard/core/usecases/taskstore"
	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/infrastructure/workers"
	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/telemetry"
)

var build = "develop"
var appName = "TASKBOARD"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("reading .env:", err)
	}

	log, err := logger.NewFromEnv(appName)
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	log = log.With("service", appName, "build", build)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	storeCfg, err := config.LoadStoreOptions(appName)
	if err != nil {
		return err
	}

	// :*: FIXTURE SOURCE :*:
	var storer tasksrepo.Storer
	switch storeCfg.FixtureSource {
	case config.SourcePostgres:
		pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithTracer(postgresdb.NewLoggingQueryTracer(log.Logger)))
		if err != nil {
			return fmt.Errorf("configuring postgres support: %w", err)
		}
		defer func() {
			log.InfoContext(ctx, "shutdown", "status", "closing database connection")
			pg.Close()
		}()
		storer = taskpgxstore.NewStore(log, pg, storeCfg.FixtureName)
		log.InfoContext(ctx, "init", "fixture_source", config.SourcePostgres, "fixture_name", storeCfg.FixtureName)

	default:
		if storeCfg.FixturePath != "" {
			storer = taskfilestore.NewFromPath(log, storeCfg.FixturePath)
		} else {
			storer = taskfilestore.NewDefault(log)
		}
		log.InfoContext(ctx, "init", "fixture_source", config.SourceFile, "fixture_path", storeCfg.FixturePath)
	}

	// :*: REPOSITORIES & STORE :*:
	repo := tasksrepo.NewRepository(log, storer, storeCfg.RepositoryOptions()...)
	store := taskstore.New(repo, storeCfg.TaskstoreOptions(log)...)

	// :*: STATUS WORKERS :*:
	resolver := taskstore.NewResolver(log, store)
	pool, err := workers.NewFromEnv[taskstore.Pending](appName, resolver,
		workers.WithName("status-updates"),
		workers.WithMaxRetries(1),
		workers.WithLogger(log),
		workers.WithMetrics(workers.NewInMemoryMetrics()),
	)
	if err != nil {
		return fmt.Errorf("configuring workers: %w", err)
	}
	pool.AddPreProcessHooks(workers.LogStartHook[taskstore.Pending](log))
	pool.AddPostProcessHooks(workers.LogEndHook[taskstore.Pending](log))
	resolver.OnEnqueue(pool.Wake)

	poolErrors := make(chan error, 1)
	go func() {
		poolErrors <- pool.Start(ctx)
	}()
	defer pool.Stop()

	// Initial load. A failure is left in the store's error slot for the
	// dashboard to show.
	if err := store.FetchTasks(ctx); err != nil {
		log.WarnContext(ctx, "startup", "status", "initial fetch failed", "err", err)
	}

	// :*: WEB :*:
	cfg := config.Taskboard{
		Build:     build,
		Logger:    log,
		Telemetry: telemetry.NewTelemetry(),
		Store:     storeCfg,
	}
	handler, err := webHandler(cfg, taskboardbridge.Config{
		Log:           log,
		Store:         store,
		Resolver:      resolver,
		WorkerMetrics: pool.GetMetrics,
	})
	if err != nil {
		return err
	}

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, logger.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.Run(ctx)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "shutdown", "status", "shutdown complete")
		return nil

	case err := <-poolErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("status workers: %w", err)
		}
		return <-serverErrors
	}
}

func webHandler(cfg config.Taskboard, bridgeCfg taskboardbridge.Config) (http.Handler, error) {
	h, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(cfg.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithDefaultHeaders(map[string]string{"X-Taskboard-Build": cfg.Build}),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger, cfg.Telemetry),
			mid.Errors(cfg.Logger),
			mid.Metrics(),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("web handler: %w", err)
	}

	taskboardbridge.AddHttpRoutes(h.Group(config.ApiRoute), bridgeCfg)

	return h, nil
}
