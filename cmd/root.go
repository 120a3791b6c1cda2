// Package cmd implements the command-line interface for Jam Hot. It
// provides the root command and subcommands for scraping recipes,
// collecting training images, and curating the recipe collection.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcurate "github.com/DawsonJay/jam-hot-project/cmd/curate"
	cmdimages "github.com/DawsonJay/jam-hot-project/cmd/images"
	cmdscrape "github.com/DawsonJay/jam-hot-project/cmd/scrape"
	cmdsources "github.com/DawsonJay/jam-hot-project/cmd/sources"
	"github.com/DawsonJay/jam-hot-project/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "jamhot",
		Short: "Jam recipe and fruit image acquisition pipeline",
		Long: `Jam Hot collects jam recipes from cooking sites and fruit
photos from image search, validates both, and curates the recipe
collection down to the best recipes per fruit combination.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	// Parse flags early to pick up --config and --debug before viper reads.
	_ = rootCmd.ParseFlags(os.Args[1:])

	initConfig()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(cmdscrape.Command())
	rootCmd.AddCommand(cmdimages.Command())
	rootCmd.AddCommand(cmdcurate.Command())
	rootCmd.AddCommand(cmdsources.Command())
}

// initConfig wires viper to the config file, environment, and defaults.
func initConfig() {
	config.InitViper(cfgFile)

	// Config file is optional; defaults and environment cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: could not read config file: %v\n", err)
		}
	}

	if debug {
		viper.Set("logger.level", "debug")
	}
}
