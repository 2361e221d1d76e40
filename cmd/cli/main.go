package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/clipstash/pkg/config"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/core/services"
	"github.com/wadjakorntonsri/clipstash/pkg/logger"
)

type app struct {
	cfg  *config.Config
	log  *zap.Logger
	db   *sqlite.Database
	repo *sqlite.SQLiteRepository
}

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "clipstash-cli",
		Short:         "Maintenance commands for the clip store",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.DatabaseURL, "database", cfg.DatabaseURL, "database URL")

	root.AddCommand(
		newExportCmd(a),
		newImportCmd(a),
		newPurgeCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	log, err := logger.New(a.cfg.AppEnv, a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = log

	db, err := sqlite.New(cmd.Context(), a.cfg.DatabaseURL, a.cfg.DBMaxOpenConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.db = db
	a.repo = sqlite.NewSQLiteRepository(db, log.Named("repository"))
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every stored clip as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clips, err := a.repo.Dump(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := writeRecords(cmd.OutOrStdout(), clips); err != nil {
				return err
			}
			a.log.Info("export finished", zap.Int("clips", len(clips)))
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load clips from an export file, skipping short codes already present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			imported, skipped, err := importRecords(cmd.Context(), a.repo, f, a.log)
			if err != nil {
				return err
			}
			a.log.Info("import finished", zap.Int("imported", imported), zap.Int("skipped", skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d clips, skipped %d\n", imported, skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete clips whose expiry has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service := services.NewClipService(a.repo, domain.RealClock{}, a.log.Named("service"))
			n, err := service.PurgeExpired(cmd.Context())
			if err != nil {
				return fmt.Errorf("purge: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired clips at %s\n", n, time.Now().UTC().Format(time.RFC3339))
			return nil
		},
	}
}
