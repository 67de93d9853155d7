package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellbook/internal/crosscheck"
	"github.com/jackzampolin/spellbook/internal/dataset"
	"github.com/jackzampolin/spellbook/internal/output"
)

var crosscheckPaths pathOverrides

var crosscheckCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Compare dataset spell names with secondary sources",
	Long: `Compare the names in the generated dataset with the names found in the
spells chapter PDF and the canonical name list.

This is a diagnostic: differences never fail the command. It fails only when
the dataset itself cannot be read.

Examples:
  spellbook crosscheck
  spellbook crosscheck --pdf 7-Magias.pdf
  spellbook crosscheck --canon canon.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		cfg := svc.Config.Get()

		spells, err := dataset.Load(crosscheckPaths.apply(cfg.Paths).Dataset)
		if err != nil {
			return err
		}
		names := make([]string, len(spells))
		for i, s := range spells {
			names[i] = s.Name
		}

		reports := crosscheck.Run(cmd.Context(), crosscheckConfig(cfg, crosscheckPaths), names)
		if reports == nil {
			reports = crosscheck.Reports{}
		}
		return output.Output(reports)
	},
}

func init() {
	crosscheckCmd.Flags().StringVar(&crosscheckPaths.pdf, "pdf", "", "spells chapter PDF (default: paths.pdf)")
	crosscheckCmd.Flags().StringVar(&crosscheckPaths.canon, "canon", "", "canonical name list (default: paths.canon)")
	crosscheckCmd.Flags().StringVar(&crosscheckPaths.dataset, "dataset", "", "dataset file (default: paths.dataset)")

	rootCmd.AddCommand(crosscheckCmd)
}
