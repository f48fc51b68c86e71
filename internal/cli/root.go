// Package cli provides the jsonstudio command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/jsonstudio/internal/config"
	"github.com/agenthands/jsonstudio/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// stdinName is the file argument that reads standard input.
const stdinName = "-"

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsonstudio",
		Short: "Inspect, compare and convert JSON documents",
		Long: `jsonstudio works on JSON files from the terminal: structural diffs with
move detection, tree and table views, YAML and CSV conversion, JSONPath
queries and formatting.

Every FILE argument accepts "-" for standard input.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "log level for diagnostics on stderr (debug|info|warn|error)")

	root.AddCommand(
		newDiffCmd(),
		newTreeCmd(),
		newTableCmd(),
		newConvertCmd(),
		newQueryCmd(),
		newFmtCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}

// commandLogger logs to stderr when --log-level is set and discards otherwise.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		return logging.Discard()
	}
	return logging.New(config.LogConfig{Level: level, Format: "text"}, cmd.ErrOrStderr())
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "jsonstudio v%s\n", Version)
		},
	}
}
