package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellbook/internal/output"
	"github.com/jackzampolin/spellbook/internal/validate"
)

var validatePaths pathOverrides

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the generated spell dataset",
	Long: `Validate the dataset at paths.dataset.

The level summary is always printed. Every violation is listed and the
command exits with status 1 when there is at least one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}

		report, err := validate.Run(cmd.Context(), validateConfig(svc.Config.Get(), validatePaths))
		if err != nil {
			return err
		}
		if err := output.Output(report); err != nil {
			return err
		}
		return report.Err()
	},
}

func init() {
	validateCmd.Flags().StringVar(&validatePaths.dataset, "dataset", "", "dataset file (default: paths.dataset)")

	rootCmd.AddCommand(validateCmd)
}
