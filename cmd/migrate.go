package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/config"
	"github.com/abhisek/profiler/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and optionally import a legacy database",
	Long: "Migrate creates the users and results tables in the configured store. " +
		"With --from it also copies every user and result from a database written " +
		"by the original application, keeping ids. Rows already present are skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		from, _ := cmd.Flags().GetString("from")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg, true)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer log.Sync()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		log.Info("schema ready", zap.String("store", st.Dialect()))

		if from == "" {
			return nil
		}
		if cfg.Store.Driver != config.DriverPostgres && cfg.Store.Path == from {
			return errors.New("--from must differ from the target database")
		}

		data, err := store.ReadLegacy(ctx, from)
		if err != nil {
			return err
		}
		stats, err := store.Import(ctx, st.Importer(), data)
		if err != nil {
			return fmt.Errorf("import %s: %w", from, err)
		}
		log.Info("legacy import finished",
			zap.String("from", from),
			zap.Int("respondents_imported", stats.RespondentsImported),
			zap.Int("respondents_skipped", stats.RespondentsSkipped),
			zap.Int("results_imported", stats.ResultsImported),
			zap.Int("results_skipped", stats.ResultsSkipped),
		)
		fmt.Printf("Respondents: %d imported, %d skipped\n", stats.RespondentsImported, stats.RespondentsSkipped)
		fmt.Printf("Results:     %d imported, %d skipped\n", stats.ResultsImported, stats.ResultsSkipped)
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("from", "", "Legacy SQLite database to import")
}
