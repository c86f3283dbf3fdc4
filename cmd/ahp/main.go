// Package main is the ahp command line tool. It evaluates decision problems
// described in YAML, explores reweighting, and keeps a local history.
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

var rootCmd = &cobra.Command{
	Use:   "ahp",
	Short: "Rank alternatives with the Analytic Hierarchy Process",
	Long: `ahp turns pairwise judgments or star ratings into criterion weights and a
ranked list of alternatives, reporting how consistent the judgments were.

Problems are YAML files listing criteria, alternatives and judgments. Saved
decisions go to a local SQLite history that the history command reads.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ahp.yaml or ~/.config/ahp/ahp.yaml)")
	rootCmd.PersistentFlags().String("db", defaultHistoryPath(), "SQLite history file")
	rootCmd.PersistentFlags().Float64("score-scale", 100, "multiplier applied to display scores")
	rootCmd.PersistentFlags().Int("score-precision", 1, "decimals kept in display scores")
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("score_scale", rootCmd.PersistentFlags().Lookup("score-scale"))
	_ = viper.BindPFlag("score_precision", rootCmd.PersistentFlags().Lookup("score-precision"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ahp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ahp"))
		}
	}

	viper.SetEnvPrefix("AHP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "decisions.db"
	}
	return filepath.Join(home, ".local", "share", "ahp", "decisions.db")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of ahp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ahp %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
