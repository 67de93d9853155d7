package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellbook/internal/dataset"
	"github.com/jackzampolin/spellbook/internal/output"
	"github.com/jackzampolin/spellbook/internal/store"
	"github.com/jackzampolin/spellbook/internal/svcctx"
	"github.com/jackzampolin/spellbook/internal/validate"
)

var exportPaths pathOverrides

type exportResult struct {
	Spells   int    `json:"spells" yaml:"spells"`
	Database string `json:"database" yaml:"database"`
}

func (r exportResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Exported %d spells to %s\n", r.Spells, r.Database)
	return err
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a SQLite snapshot of the dataset",
	Long: `Write the validated dataset to a SQLite database. The previous snapshot
is replaced in a single transaction.

The dataset must pass validation first.

Examples:
  spellbook export
  spellbook export --db ./spells.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		cfg := svc.Config.Get()
		datasetPath := exportPaths.apply(cfg.Paths).Dataset

		report, err := validate.Run(ctx, validate.Config{DatasetPath: datasetPath})
		if err != nil {
			return err
		}
		if !report.OK() {
			if err := output.To(os.Stderr, output.FormatText, report); err != nil {
				return err
			}
			return report.Err()
		}

		spells, err := dataset.Load(datasetPath)
		if err != nil {
			return err
		}

		dbPath := sqlitePath(cfg, exportPaths, svc.Home)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
		st, err := store.New(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ReplaceAll(ctx, spells); err != nil {
			return err
		}
		svcctx.LoggerFrom(ctx).Info("exported dataset", "spells", len(spells), "path", dbPath)

		return output.Output(exportResult{Spells: len(spells), Database: dbPath})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPaths.sqlite, "db", "", "database file (default: paths.sqlite or ~/.spellbook/exports/spells.db)")
	exportCmd.Flags().StringVar(&exportPaths.dataset, "dataset", "", "dataset file (default: paths.dataset)")

	rootCmd.AddCommand(exportCmd)
}
