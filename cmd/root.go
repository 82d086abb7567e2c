package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/errors"
	"github.com/conneroisu/inkpot/internal/logging"
)

// DefaultConfigFile is the configuration file looked up in the working
// directory when neither --config nor INKPOT_CONFIG_FILE is given.
const DefaultConfigFile = ".inkpot.yml"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkpot",
	Short: "A small in-memory blog engine",
	Long: `Inkpot serves a blog of categories, posts and comments held in memory.
Records can be seeded from a YAML file, browsed as HTML pages, read through
a JSON API and followed live over a websocket.

Quick Start:
  inkpot init                    Write .inkpot.yml and seed.yml
  inkpot serve                   Start the blog server
  inkpot list posts              Print the posts of the seed file
  inkpot validate                Check config and seed references

Command Aliases:
  serve (s), list (l), init (i)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .inkpot.yml, can also use INKPOT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig selects the configuration file and enables INKPOT_ environment
// overrides.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag
//  2. INKPOT_CONFIG_FILE environment variable
//  3. .inkpot.yml in the current directory
//
// A missing or unreadable file is not fatal; defaults apply instead.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("INKPOT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".inkpot")
	}

	// INKPOT_SERVER_PORT, INKPOT_SEED_FILE, INKPOT_LOGGING_LEVEL, ...
	viper.SetEnvPrefix("INKPOT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configPath names the configuration file in suggestions.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return DefaultConfigFile
}

// loadConfig loads the configuration, turning failures into an
// EnhancedError with suggestions.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		ctx := &errors.SuggestionContext{ConfigPath: configPath()}
		return nil, errors.NewEnhancedError(
			"Failed to load configuration",
			err,
			errors.ConfigurationError(err.Error(), ctx),
		)
	}
	return cfg, nil
}

// newLogger builds the process logger from the logging section of cfg.
func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, w)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens when
// the command runs so that commands sharing a key do not override each
// other's flags.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// commandContext returns the context of cmd, or a background context when
// the command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
