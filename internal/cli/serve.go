package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/internal/server"
	"github.com/matzehuels/slidesmith/pkg/cache"
	"github.com/matzehuels/slidesmith/pkg/history"
	"github.com/matzehuels/slidesmith/pkg/observability"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// Environment variables read by serve when the matching flag is unset.
const (
	envRedisAddr = "SLIDESMITH_REDIS_ADDR"
	envMongoURI  = "SLIDESMITH_MONGO_URI"
	envHistoryDB = "SLIDESMITH_HISTORY_DB"
)

// mongoDatabase is the database history records are stored in.
const mongoDatabase = "slidesmith"

// serveOpts holds the serve command's flags.
type serveOpts struct {
	addr      string
	redis     string
	mongo     string
	historyDB string
	fontsDir  string
	maxBody   int64
	timeout   time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP composition API",
		Long: `Serve exposes composition over HTTP:

  GET  /healthz        liveness and build info
  GET  /v1/themes      registered themes
  POST /v1/compose     compose a deck (?format=svg,pdf&refresh=true)
  GET  /v1/runs        recent runs (?limit=N)
  GET  /v1/runs/{id}   one run

Results are cached in Redis when --redis is set, otherwise on disk. Runs
are recorded in MongoDB when --mongo is set, otherwise in SQLite.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", os.Getenv(envRedisAddr), "Redis address or URL for the cache (env "+envRedisAddr+")")
	cmd.Flags().StringVar(&opts.mongo, "mongo", os.Getenv(envMongoURI), "MongoDB URI for run history (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.historyDB, "history-db", os.Getenv(envHistoryDB), "SQLite run history path (env "+envHistoryDB+")")
	cmd.Flags().StringVar(&opts.fontsDir, "fonts-dir", "", "additional directory to search for fonts")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cc, err := serveCache(ctx, opts.redis)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, nil, logger)
	runner.Fonts = newFonts(logger, opts.fontsDir)
	defer runner.Close()

	store, err := serveHistory(ctx, opts)
	if err != nil {
		return err
	}
	runner.History = store

	counters := observability.NewCounters()
	observability.Register(counters.Hooks())

	srv := server.New(runner,
		server.WithLogger(logger),
		server.WithCounters(counters),
		server.WithMaxBodyBytes(opts.maxBody),
		server.WithTimeout(opts.timeout),
	)
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	return srv.ListenAndServe(ctx, opts.addr)
}

func serveCache(ctx context.Context, redisAddr string) (cache.Cache, error) {
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	return newCache(false)
}

func serveHistory(ctx context.Context, opts serveOpts) (history.Store, error) {
	if opts.mongo != "" {
		return history.OpenMongo(ctx, opts.mongo, mongoDatabase)
	}
	return openHistory(ctx, opts.historyDB)
}

// displayAddr turns a bare port address into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
