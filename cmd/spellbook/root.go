package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spellbook/internal/config"
	"github.com/jackzampolin/spellbook/internal/home"
	"github.com/jackzampolin/spellbook/internal/output"
	"github.com/jackzampolin/spellbook/internal/svcctx"
	"github.com/jackzampolin/spellbook/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "spellbook",
	Short: "Spell dataset extractor and validator",
	Long: `Spellbook builds the spell dataset (levels 0-2) from the Portuguese
2024 Player's Handbook and keeps it honest.

The pipeline includes:
  - Extraction of the spells chapter from the rulebook .docx
  - Cross-checking spell names against the chapter PDF or a curated list
  - Validation of the generated JSON dataset
  - SQLite export of the dataset`,
	Version:           version.GitRelease,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.spellbook/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "spellbook home directory (default: ~/.spellbook)",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text", "output format: text, json or yaml",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// setup builds the services every command runs with and attaches them to
// the command context.
func setup(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	output.SetFormat(format)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	h, err := home.New(homeDir)
	if err != nil {
		return err
	}

	cfgMgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return err
	}
	if f := cfgMgr.FileUsed(); f != "" {
		logger.Debug("loaded config", "path", f)
	}

	ctx := svcctx.WithServices(cmd.Context(), &svcctx.Services{
		Logger: logger,
		Home:   h,
		Config: cfgMgr,
	})
	cmd.SetContext(ctx)
	return nil
}

// services returns the services attached by setup.
func services(cmd *cobra.Command) (*svcctx.Services, error) {
	svc := svcctx.ServicesFrom(cmd.Context())
	if svc == nil || svc.Config == nil {
		return nil, fmt.Errorf("services not initialized")
	}
	return svc, nil
}
