package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwheel/internal/server"
	"github.com/matzehuels/chartwheel/pkg/cache"
	"github.com/matzehuels/chartwheel/pkg/observability"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
)

// serveOpts holds serve command options.
type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	noCache       bool
	shutdown      time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:          ":8080",
		redisPassword: os.Getenv("CHARTWHEEL_REDIS_PASSWORD"),
		shutdown:      10 * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  POST /v1/wheels            build a wheel from layers, settings and a template
  POST /v1/aspects           compute aspect sets only
  GET  /v1/templates         list builtin templates
  GET  /v1/templates/{name}  show one template
  GET  /healthz              liveness

Results are cached in Redis when --redis is given, otherwise in the local
cache directory. The Redis password is read from CHARTWHEEL_REDIS_PASSWORD.`,
		Example: `  chartwheel serve --addr :9000
  chartwheel serve --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis host:port for a shared cache")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&opts.shutdown, "shutdown-timeout", opts.shutdown, "grace period for in-flight requests")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheScope)
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger,
		server.WithAddr(opts.addr),
		server.WithTimeouts(10*time.Second, 30*time.Second, opts.shutdown),
	)
	printInfo("Serving on %s", opts.addr)
	return srv.ListenAndServe(ctx)
}

// serveCache picks Redis, the file cache, or no cache.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache || opts.redisAddr == "" {
		return newCache(opts.noCache)
	}
	store, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(opts.redisAddr),
		cache.WithRedisPassword(opts.redisPassword),
		cache.WithRedisDB(opts.redisDB),
		cache.WithRedisPrefix(appName),
	)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", opts.redisAddr, "db", opts.redisDB)
	return store, nil
}
