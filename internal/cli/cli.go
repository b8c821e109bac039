package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/MusicFlow-app/HandFlow/pkg/buildinfo"
	"github.com/MusicFlow-app/HandFlow/pkg/cache"
	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// appName names the binary for display and for the cache directory
// under ~/.cache.
const appName = "handflow"

// Log levels re-exported so main.go can pick one without importing
// charmbracelet/log itself.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI State
// =============================================================================

// CLI carries the state shared by every subcommand.
type CLI struct {
	Logger *log.Logger
}

// New builds a CLI writing logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel adjusts the logger after flag parsing.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand assembles the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "handflow",
		Short: "HandFlow compiles MuseScore files into handpan tablature",
		Long: `HandFlow reads MuseScore archives, maps the notes onto a handpan
scale layout, finds the transposition that puts the most notes on the
drum, and emits color-coded tablature.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(
		c.compileCommand(),
		c.partsCommand(),
		c.scalesCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)
	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner builds a pipeline runner backed by the on-disk cache, or by
// the null cache when the user passed --no-cache. Keys carry the build
// version: the file cache outlives binary upgrades, and an upgrade can
// change the embedded catalog or the rendered markup.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		// No resolvable home directory still leaves the pipeline usable.
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// decodeScore decodes an archive outside the full pipeline. The logger
// comes from the context so every command decoding standalone gets the
// same progress line.
func decodeScore(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*score.Document, error) {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	sw := newStopwatch(logger)
	doc, err := runner.Decode(ctx, opts)
	if err != nil {
		return nil, err
	}
	sw.done(fmt.Sprintf("Decoded %d parts", len(doc.Parts)))
	return doc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir resolves the on-disk cache location: XDG_CACHE_HOME when set,
// ~/.cache/handflow otherwise.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// parseFormats splits a comma-separated format list, defaulting to HTML.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	return strings.Split(s, ",")
}
