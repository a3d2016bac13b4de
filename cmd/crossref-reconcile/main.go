// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the crossref-reconcile CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the crossref-reconcile CLI.
var rootCmd = &cobra.Command{
	Use:   "crossref-reconcile",
	Short: "Reconcile bibliographic citations against Crossref",
	Long: `crossref-reconcile matches free-text citations (title plus optional author,
type, and year) against records in the Crossref catalog and returns ranked
candidates with confidence scores.

Run "serve" to expose the reconciliation protocol over HTTP for
data-cleaning tools, or "reconcile" for one-shot matching from the
command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded environment from .env")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./crossref-reconcile.yaml or ~/.config/crossref-reconcile/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("crossref-reconcile")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "crossref-reconcile"))
		}
	}

	viper.SetDefault("server.port", types.DefaultPort)
	viper.SetDefault("server.domain", "http://localhost:8000")
	viper.SetDefault("catalog.timeout", "30s")
	viper.SetDefault("catalog.user_agent", "crossref-reconcile/"+version)
	viper.SetDefault("match.threshold", types.DefaultThreshold)
	viper.SetDefault("match.max_candidates", types.DefaultMaxCandidates)

	viper.SetEnvPrefix("CROSSREF_RECONCILE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The bare DOMAIN variable is honored for deployments that only set
	// the service's public URL.
	_ = viper.BindEnv("server.domain", "CROSSREF_RECONCILE_SERVER_DOMAIN", "DOMAIN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		Server: types.ServerConfig{
			Port:   viper.GetInt("server.port"),
			Domain: viper.GetString("server.domain"),
		},
		Catalog: types.CatalogConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("catalog.timeout"),
				UserAgent: viper.GetString("catalog.user_agent"),
			},
			Mailto: viper.GetString("catalog.mailto"),
		},
		Match: types.MatchConfig{
			Threshold:     viper.GetInt("match.threshold"),
			MaxCandidates: viper.GetInt("match.max_candidates"),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
