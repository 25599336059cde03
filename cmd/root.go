package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "profiler",
	Short: "Data analysis style assessment",
	Long:  "Profiler asks five questions about how you work with data and places you on the analytical/communication quadrant.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command with ctx, which is canceled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: ./profiler.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides store.path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// runApp builds dependencies and launches the terminal UI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd, false)
	if err != nil {
		return err
	}
	defer d.Close()

	d.log.Info("starting terminal ui", zap.String("version", version))
	return app.Run(cmd.Context(), d.host, d.log)
}
