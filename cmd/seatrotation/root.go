package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/seat-rotation/internal/logging"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "seatrotation",
		Short:         "Fair seat rotation service",
		Long:          "seatrotation manages rotating seat assignments for small groups:\nit plans the next working day's arrangement from the committed history\nand serves the HTTP API backed by SQLite.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newLogger := func() *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return logging.NewJSONLogger(os.Stdout, level)
	}

	cmd.AddCommand(newServeCmd(newLogger))
	cmd.AddCommand(newPlanCmd(newLogger))
	cmd.AddCommand(newMigrateCmd(newLogger))

	return cmd
}
