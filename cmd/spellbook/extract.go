package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellbook/internal/config"
	"github.com/jackzampolin/spellbook/internal/extract"
	"github.com/jackzampolin/spellbook/internal/output"
	"github.com/jackzampolin/spellbook/internal/svcctx"
	"github.com/jackzampolin/spellbook/internal/watch"
)

var (
	extractPaths pathOverrides
	extractWatch bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Generate the spell dataset from the rulebook",
	Long: `Extract the level 0-2 spells from the rulebook .docx and write the
JSON dataset.

Spell names are cross-checked against the chapter PDF and the canon list
when they are available; a missing secondary source only produces a warning.

With --watch, the dataset is regenerated whenever the rulebook changes, and
config file edits apply to the next regeneration.

Examples:
  spellbook extract
  spellbook extract --docx book.docx --output spells.json
  spellbook extract --pdf 7-Magias.pdf --canon canon.yaml
  spellbook extract --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := runExtract(ctx, svc.Config.Get()); err != nil {
			return err
		}
		if !extractWatch {
			return nil
		}
		return watchExtract(ctx, svc.Config)
	},
}

// runExtract performs one extraction run under its own run id.
func runExtract(ctx context.Context, cfg *config.Config) error {
	logger := svcctx.LoggerFrom(ctx).With("run_id", uuid.NewString())
	ctx = svcctx.WithLogger(ctx, logger)

	result, err := extract.Run(ctx, extractConfig(cfg, extractPaths))
	if err != nil {
		return err
	}
	return output.Output(result)
}

// watchExtract regenerates the dataset on every rulebook change until the
// context is cancelled.
func watchExtract(ctx context.Context, cfgMgr *config.Manager) error {
	logger := svcctx.LoggerFrom(ctx)

	if cfgMgr.FileUsed() != "" {
		cfgMgr.OnChange(func(*config.Config) {
			logger.Info("config reloaded", "path", cfgMgr.FileUsed())
		})
		cfgMgr.WatchConfig()
	}

	wcfg := watchConfig(cfgMgr.Get(), extractPaths)
	wcfg.RetryIf = func(err error) bool {
		// The document may be mid-save; a readable document without spells
		// will not improve by waiting.
		return !errors.Is(err, extract.ErrNoSpells)
	}

	w, err := watch.New(wcfg, func(ctx context.Context) error {
		return runExtract(ctx, cfgMgr.Get())
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func init() {
	extractCmd.Flags().StringVar(&extractPaths.docx, "docx", "", "rulebook .docx (default: paths.docx)")
	extractCmd.Flags().StringVar(&extractPaths.pdf, "pdf", "", "spells chapter PDF for cross-checking (default: paths.pdf)")
	extractCmd.Flags().StringVar(&extractPaths.canon, "canon", "", "canonical name list for cross-checking (default: paths.canon)")
	extractCmd.Flags().StringVar(&extractPaths.dataset, "output", "", "dataset file to write (default: paths.dataset)")
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false, "regenerate when the rulebook changes")

	rootCmd.AddCommand(extractCmd)
}
