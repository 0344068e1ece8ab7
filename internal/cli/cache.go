package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache(cmd.Context())
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo(c.Out, "Cache is empty")
				return nil
			}
			printSuccess(c.Out, "Cleared %d cached entries", count)
			printDetail(c.Out, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, fc.Dir())
			return nil
		},
	}
}

// fileCache opens the configured cache, which must be the file backend.
func (c *CLI) fileCache(ctx context.Context) (*cache.FileCache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	opts := cfg.CacheOptions()
	if opts.Backend != "" && opts.Backend != cache.BackendFile {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"cache commands manage the file backend; configured backend is %q", opts.Backend)
	}
	cc, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cc.(*cache.FileCache), nil
}
