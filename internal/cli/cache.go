package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compile cache",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// cacheClearCommand sweeps every entry. The file cache stores entries
// one level deep in hash-prefix shards, so clearing is a walk over the
// shard directories.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached decode and render artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}

			shards, err := os.ReadDir(dir)
			if os.IsNotExist(err) {
				printInfo("Nothing to clear")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read cache dir: %w", err)
			}

			count := 0
			var freed int64
			for _, shard := range shards {
				if !shard.IsDir() {
					continue
				}
				sub := filepath.Join(dir, shard.Name())
				entries, err := os.ReadDir(sub)
				if err != nil {
					continue
				}
				for _, e := range entries {
					if info, err := e.Info(); err == nil {
						freed += info.Size()
					}
					if err := os.Remove(filepath.Join(sub, e.Name())); err == nil {
						count++
					}
				}
				_ = os.Remove(sub)
			}

			if count == 0 {
				printInfo("Nothing to clear")
				return nil
			}
			printSuccess("Removed %d cache entries", count)
			printDetail("%s freed from %s", byteCount(freed), dir)
			return nil
		},
	}
}

// cachePathCommand prints where entries live, for scripting around the
// cache.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// byteCount renders n in binary units for human output.
func byteCount(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
