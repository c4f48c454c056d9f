// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperwiz CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperwiz/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// logger is the process-wide structured logger, configured in PersistentPreRunE.
var logger = slog.New(slog.DiscardHandler)

// rootCmd is the base command for the paperwiz CLI.
var rootCmd = &cobra.Command{
	Use:   "paperwiz",
	Short: "Research assistant for finding, citing and comparing papers",
	Long: `paperwiz turns a research question (or an uploaded document) into a list
of candidate papers, then renders citations, BibTeX, summaries and comparisons
for any selection of them.

Use "search" for a one-shot run that prints to stdout, or "tui" for the
interactive terminal front end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paperwiz.yaml or ~/.config/paperwiz/paperwiz.yaml)")
	pf.BoolP("verbose", "v", false, "log debug output to stderr")
	pf.String("backend-url", "", "search backend endpoint (search.url)")
	pf.String("provider", "", "fallback text generator: none, openai, claude, ollama (generator.provider)")
	pf.String("model", "", "generator model (generator.model)")
	pf.String("document-backend", "", "document extraction: native or markitdown (document.backend)")

	_ = viper.BindPFlag("search.url", pf.Lookup("backend-url"))
	_ = viper.BindPFlag("generator.provider", pf.Lookup("provider"))
	_ = viper.BindPFlag("generator.model", pf.Lookup("model"))
	_ = viper.BindPFlag("document.backend", pf.Lookup("document-backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperwiz")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperwiz"))
		}
	}

	viper.SetEnvPrefix("PAPERWIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
