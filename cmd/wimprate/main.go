// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wimprate CLI, a reference
// calculator for elastic WIMP-nucleus differential scattering rates.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the wimprate CLI.
var rootCmd = &cobra.Command{
	Use:   "wimprate",
	Short: "Elastic WIMP-nucleus differential rate calculator",
	Long: `wimprate computes the theoretical differential event rate dR/dE for
elastic dark-matter-nucleus scattering: spin-independent and
spin-dependent interactions, optional massive mediators and
momentum-dependent couplings, against the standard halo model.

Rates are per unit detector mass, time, and recoil energy, for direct
comparison against detector data. Structure-function tables for
spin-dependent scattering ship with the binary and can be replaced
through the tables subcommand.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wimprate.yaml or ~/.config/wimprate/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wimprate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wimprate"))
		}
	}

	viper.SetEnvPrefix("WIMPRATE")
	viper.AutomaticEnv()

	viper.SetDefault("material", "Xe")
	viper.SetDefault("tables.db", "wimprate.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
