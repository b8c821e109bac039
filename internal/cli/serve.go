package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MusicFlow-app/HandFlow/internal/config"
	"github.com/MusicFlow-app/HandFlow/internal/server"
	"github.com/MusicFlow-app/HandFlow/pkg/buildinfo"
	"github.com/MusicFlow-app/HandFlow/pkg/cache"
	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
	"github.com/MusicFlow-app/HandFlow/pkg/store"
)

// janitorInterval is how often expired uploads are swept from the store.
const janitorInterval = time.Minute

// serveCommand creates the serve command running the web interface.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HandFlow web interface",
		Long: `Run the HandFlow web interface.

The server accepts MuseScore uploads in the browser and compiles them to
tablature. Configuration comes from $HANDFLOW_CONFIG (or
~/.config/handflow/config.toml) with HANDFLOW_* environment overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the configured server.addr)")

	return cmd
}

// runServe builds the configured stack and serves until the context ends.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", cfg.Store.Backend, err)
	}
	defer st.Close()

	cch, err := newServerCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize %s cache: %w", cfg.Cache.Backend, err)
	}

	keyer := cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":")
	runner := pipeline.NewRunner(cch, keyer, c.Logger)
	defer runner.Close()

	srv, err := server.New(cfg.Server, st, runner, c.Logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	go store.RunJanitor(ctx, st, janitorInterval)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	printInfo("Serving on %s", StyleLink.Render(displayURL(cfg.Server.Addr)))
	printDetail("store %s, cache %s, uploads expire after %s", cfg.Store.Backend, cfg.Cache.Backend, cfg.Server.ScoreTTL)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	printNewline()
	printSuccess("Server stopped")
	return nil
}

// newStore builds the configured score store backend.
func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(cfg.Path)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// newServerCache builds the configured pipeline cache backend.
func newServerCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "file":
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	case "memory":
		return cache.NewMemoryCache(), nil
	case "off":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// displayURL turns a listen address into something clickable.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
