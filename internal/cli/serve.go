package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shadergraph/internal/server"
	"github.com/matzehuels/shadergraph/pkg/cache"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		redisAddr   string
		redisDB     int
		keyPrefix   string
		noCache     bool
		uniforms    []string
		reqTimeout  time.Duration
		maxBodySize int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graph compilation over HTTP",
		Long: `Serve graph compilation over HTTP.

Endpoints:
  GET  /healthz      liveness and build info
  GET  /v1/nodes     node catalog (?class=...)
  POST /v1/compile   JSON graph document -> {"source", "cached", ...}
  POST /v1/graph     JSON graph document -> diagram (?format=svg|dot)

With --redis the compiled shaders are cached in Redis and shared between
instances; otherwise the local file cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.Config.ListenAddr != "" {
				addr = c.Config.ListenAddr
			}
			if !cmd.Flags().Changed("redis") && c.Config.RedisAddr != "" {
				redisAddr = c.Config.RedisAddr
			}
			if len(uniforms) == 0 {
				uniforms = c.Config.Uniforms
			}

			var (
				backend cache.Cache
				where   string
				err     error
			)
			switch {
			case noCache:
				backend, where = cache.NewNullCache(), "disabled"
				printWarning("Caching disabled, every request recompiles")
			case redisAddr != "":
				where = fmt.Sprintf("redis://%s/%d", redisAddr, redisDB)
				spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Connecting to Redis at %s...", redisAddr))
				spinner.Start()
				backend, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, DB: redisDB})
				if err != nil {
					spinner.StopWithError("Redis unreachable")
					return err
				}
				spinner.Stop()
				printSuccess("Connected to Redis at %s", redisAddr)
			default:
				if backend, err = c.newCache(false); err != nil {
					return err
				}
				if where, err = c.cacheDir(); err != nil {
					where = "disabled"
				}
			}

			logger := c.Logger.WithPrefix("server")
			runner := pipeline.NewRunner(
				cache.Instrument(backend, "shader"),
				cache.NewScopedKeyer(nil, keyPrefix),
				logger,
			)
			if c.Config.CacheTTL.Duration > 0 {
				runner.TTL = c.Config.CacheTTL.Duration
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:           addr,
				Runner:         runner,
				Registry:       nodes.Builtin(),
				Logger:         logger,
				Uniforms:       uniforms,
				RequestTimeout: reqTimeout,
				MaxBodyBytes:   maxBodySize,
			})

			printInfo("Serving on %s", addr)
			printKeyValue("Cache", where)
			printKeyValue("Key prefix", keyPrefix)
			if len(uniforms) > 0 {
				printKeyValue("Uniforms", strings.Join(uniforms, ", "))
			}
			printNextStep("Try", fmt.Sprintf("curl -s localhost%s/v1/nodes", addr))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultListenAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared cache (host:port)")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", appName+":", "prefix for cache keys")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringArrayVarP(&uniforms, "uniform", "u", nil, "uniform declaration applied to every request, repeatable")
	cmd.Flags().DurationVar(&reqTimeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().Int64Var(&maxBodySize, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}
