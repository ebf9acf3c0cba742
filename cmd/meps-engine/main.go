// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the meps-engine CLI.
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

// rootCmd is the base command for the meps-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "meps-engine",
	Short: "Retrieve and convert MEPS public use files",
	Long: `meps-engine resolves MEPS public use file requests (a file identifier
such as h171, or a year plus file type such as 2014 FYC) to SAS transport
files, reading from a local directory when the file is present and falling
back to the AHRQ download site or an S3 mirror otherwise.

Decoded datasets can be printed, exported to JSONL, CSV, or Parquet, and
are tracked in a local cache catalog.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./meps-engine.yaml or ~/.config/meps-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("meps-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "meps-engine"))
		}
	}

	viper.SetEnvPrefix("MEPS_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// flagOr returns the flag value when set, otherwise the viper value for
// key, otherwise fallback. Lets config files and MEPS_ENGINE_* env vars
// supply defaults without overriding explicit flags.
func flagOr(cmd *cobra.Command, flag, key, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
