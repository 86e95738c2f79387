/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/analysis/sector"
	compareCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/compare"
	exportCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/export"
	importCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/importcmd"
	lapCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/lap"
	migrateCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/migrate"
	parseCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/parse"
	sessionsCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/sessions"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	versionCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/version"
	watchCmd "github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/watch"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/config"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/version"
)

const envPrefix = "ITA"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "ita",
	Short:   "Telemetry analyzer for iRacing recordings",
	Long:    `Decodes .ibt telemetry and .blap/.olap best lap files and compares laps.`,
	Version: version.FullVersion,

	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ita.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/telemetry",
		"Connection string for the database")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"info",
		"controls the log level for sql methods")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"filter rules for log output, e.g. \"info+:* debug+:ibt\"")
	rootCmd.PersistentFlags().StringVarP(&config.Output,
		"output",
		"o",
		util.OutputText,
		"output format of results (text, json, yaml)")
	rootCmd.PersistentFlags().IntVar(&config.SectorCount,
		"sectors",
		sector.DefaultCount,
		"number of equal distance sectors per lap")
	rootCmd.PersistentFlags().StringVar(&config.CacheDuration,
		"cache",
		"",
		"keep decoded files for this duration (e.g. 5m), empty disables the cache")

	// add commands here
	rootCmd.AddCommand(parseCmd.NewParseCmd())
	rootCmd.AddCommand(lapCmd.NewLapCmd())
	rootCmd.AddCommand(compareCmd.NewCompareCmd())
	rootCmd.AddCommand(exportCmd.NewExportCmd())
	rootCmd.AddCommand(importCmd.NewImportCmd())
	rootCmd.AddCommand(sessionsCmd.NewSessionsCmd())
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(watchCmd.NewWatchCmd())
	rootCmd.AddCommand(versionCmd.NewVersionCmd())
}

func setupLogger() error {
	logger, err := util.NewLogger(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log filter: %w", err)
	}
	log.ResetDefault(logger)
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ita" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ita")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to ITA_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
