package cli

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fpminer/internal/server"
	"github.com/matzehuels/fpminer/pkg/cache"
	"github.com/matzehuels/fpminer/pkg/observability/metrics"
	"github.com/matzehuels/fpminer/pkg/pipeline"
	"github.com/matzehuels/fpminer/pkg/report"
)

// serveFlags configures the API server and its backends.
type serveFlags struct {
	addr       string
	redisURL   string
	mongoURI   string
	mongoDB    string
	keyPrefix  string
	reportsDir string
	maxBody    int64
	timeout    time.Duration
	noCache    bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{
		redisURL: os.Getenv("FPMINER_REDIS_URL"),
		mongoURI: os.Getenv("FPMINER_MONGO_URI"),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for mining, tree rendering and run reports.

Results are cached in Redis when --redis-url is set and on disk otherwise.
Reports are stored in MongoDB when --mongo-uri is set and on disk otherwise.
Prometheus metrics are served at /metrics.`,
		Example: `  # Local server with file backends
  fpminer serve --addr :8080

  # Shared backends
  fpminer serve --redis-url redis://localhost:6379/0 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", server.DefaultAddr, "listen address")
	f.StringVar(&flags.redisURL, "redis-url", flags.redisURL, "Redis URL for the result cache [$FPMINER_REDIS_URL]")
	f.StringVar(&flags.mongoURI, "mongo-uri", flags.mongoURI, "MongoDB URI for run reports [$FPMINER_MONGO_URI]")
	f.StringVar(&flags.mongoDB, "mongo-db", report.DefaultMongoDatabase, "MongoDB database")
	f.StringVar(&flags.keyPrefix, "key-prefix", "", "prefix for all cache keys")
	f.StringVar(&flags.reportsDir, "reports-dir", "", "report directory when MongoDB is not used")
	f.Int64Var(&flags.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	f.DurationVar(&flags.timeout, "timeout", server.DefaultMineTimeout, "per-request mining timeout")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	runner, err := c.serverRunner(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	metrics.New(prometheus.DefaultRegisterer).Register()

	srv := server.New(runner, prometheus.DefaultGatherer, c.Logger, server.Config{
		Addr:         flags.addr,
		MaxBodyBytes: flags.maxBody,
		MineTimeout:  flags.timeout,
	})
	return srv.Run(ctx)
}

// serverRunner connects the configured cache and report backends.
func (c *CLI) serverRunner(ctx context.Context, flags serveFlags) (*pipeline.Runner, error) {
	var (
		store cache.Cache
		err   error
	)
	switch {
	case flags.noCache:
		store = cache.NewNullCache()
	case flags.redisURL != "":
		c.Logger.Info("connecting to redis cache")
		store, err = cache.NewRedisCache(ctx, cache.RedisConfig{URL: flags.redisURL})
	default:
		store, err = newCache(false)
	}
	if err != nil {
		return nil, err
	}

	var reports report.Store
	if flags.mongoURI != "" {
		c.Logger.Info("connecting to mongodb reports", "database", flags.mongoDB)
		reports, err = report.NewMongoStore(ctx, report.MongoConfig{URI: flags.mongoURI, Database: flags.mongoDB})
	} else {
		var fs *report.FileStore
		fs, err = report.NewFileStore(flags.reportsDir)
		if err == nil {
			c.Logger.Info("using file reports", "dir", fs.Path())
			reports = fs
		}
	}
	if err != nil {
		store.Close()
		return nil, err
	}

	var keyer cache.Keyer
	if flags.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), flags.keyPrefix)
	}
	return pipeline.NewRunner(store, keyer, reports, c.Logger), nil
}
