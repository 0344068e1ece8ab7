package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the stacklayout CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the command context and is what library code
// sees through log.FromContext.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, args []string) error {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	return c.execute(ctx, root)
}

// execute wires --verbose and the context logger into root and runs it.
func (c *CLI) execute(ctx context.Context, root *cobra.Command) error {
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	return root.ExecuteContext(ctx)
}
