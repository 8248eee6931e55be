package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lovemirror-backend/internal/config"
	"lovemirror-backend/internal/scoring"
)

const version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lovemirror",
	Short: "Love Mirror API",
	Long: `Love Mirror scores relationship self-assessments, compares partners
and measures how far a self-image sits from what others see.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.xml", "path to the XML configuration")
	rootCmd.AddCommand(serveCmd, migrateCmd, scoreCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.APIConfig, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newScorer overlays the configured tables file, if any, on the defaults.
func newScorer(cfg *config.APIConfig) (*scoring.Scorer, error) {
	if cfg.Scoring.TablesFile == "" {
		return scoring.Default(), nil
	}
	tables, err := scoring.LoadTables(cfg.Scoring.TablesFile)
	if err != nil {
		return nil, err
	}
	return scoring.New(nil, tables), nil
}

func printStartUpBanner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	myFigure := figure.NewFigure("LOVE MIRROR", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("LOVE MIRROR API (v%s)\n\n", version)
}
