package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellbook/internal/config"
	"github.com/jackzampolin/spellbook/internal/output"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage spellbook configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default configuration to ~/.spellbook/config.yaml (or the
--home directory). An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		h := svc.Home

		if h.ConfigExists() && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", h.ConfigPath())
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, config file and SPELLBOOK_*
environment variables are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}

		format := output.GetFormat()
		if format == output.FormatText {
			if f := svc.Config.FileUsed(); f != "" {
				fmt.Printf("# %s\n", f)
			} else {
				fmt.Println("# defaults (no config file)")
			}
			format = output.FormatYAML
		}
		return output.To(os.Stdout, format, svc.Config.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
