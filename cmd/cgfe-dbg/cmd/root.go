// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

// Package cmd implements the cgfe-dbg command tree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Moustachego/CGFE/pkg/logging"
	"github.com/Moustachego/CGFE/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "cgfe-dbg")

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cgfe-dbg",
	Short: "Port-range to TCAM ternary pattern compiler",
	Long: `cgfe-dbg compiles integer port ranges from packet classification
rules into minimal ternary pattern sets for TCAM installation, using
the SRGE, DIRPE or CGFE range encodings.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Fatalf prints the Printf formatted message to stderr and exits the
// program.
func Fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", fmt.Sprintf(msg, args...))
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.SetGlobalNormalizationFunc(normalizeFlags)
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.cgfe-dbg.yaml)")
	flags.String("log-level", "info", "Log level (trace, debug, info, warning, error)")
	flags.String("log-format", logging.LogFormatText, "Log format (text, json)")
	flags.String("scheme", "cgfe", "Range encoding scheme (srge, dirpe, cgfe, baseline)")
	flags.IntP("chunk-width", "c", 2, "Chunk bit-width for dirpe and cgfe (1, 2, 4 or 8)")
	if err := viper.BindPFlags(flags); err != nil {
		log.WithError(err).Fatal("Failed to bind flags")
	}
}

// normalizeFlags accepts underscores in flag names as dashes.
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".cgfe-dbg")
		}
	}
	viper.SetEnvPrefix("cgfe")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField(logfields.Path, viper.ConfigFileUsed()).Debug("Using config file")
	}

	if err := logging.SetLogLevelFromString(viper.GetString("log-level")); err != nil {
		Fatalf("%s", err)
	}
	if err := logging.SetLogFormat(viper.GetString("log-format")); err != nil {
		Fatalf("%s", err)
	}
}
