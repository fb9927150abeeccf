// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the adsbib CLI. adsbib turns a file
// of LaTeX bibitem fragments into a bibliography by resolving each journal,
// volume and page against NASA ADS and appending the exported citation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/adsbib/internal/ads"
	"github.com/pdiddy/adsbib/internal/logging"
	"github.com/pdiddy/adsbib/internal/secrets"
	"github.com/pdiddy/adsbib/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger writes diagnostics to stderr. It is replaced in PersistentPreRunE
// once the log flags are parsed.
var logger = zerolog.Nop()

var validate = validator.New(validator.WithRequiredStructEnabled())

// rootCmd is the base command for the adsbib CLI.
var rootCmd = &cobra.Command{
	Use:   "adsbib",
	Short: "Build a bibliography from bibitem fragments via NASA ADS",
	Long: `adsbib reads citation lines such as \bibitem[X]{k} \MNRAS,473,2590 and
resolves each journal, volume and page to an ADS bibcode, then appends the
exported BibTeX (or another ADS export format) to an output file.

The main subcommand is resolve. search and export expose the two ADS calls
directly, check inspects a generated .bib file, and history lists runs
recorded in the ledger.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		logger = logging.New(os.Stderr, logging.Config{Level: level, Format: format})
		log.Logger = logger

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug().Int("count", len(s)).Msg("Loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./adsbib.yaml or ~/.config/adsbib/adsbib.yaml)")
	rootCmd.PersistentFlags().String("token", "", "ADS API token (overrides config, environment and .secrets/)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	viper.SetDefault("ads.search_url", ads.DefaultSearchURL)
	viper.SetDefault("ads.export_url", ads.DefaultExportURL)
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", ads.DefaultUserAgent)
	viper.SetDefault("search.rows", ads.DefaultRows)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("adsbib")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "adsbib"))
		}
	}

	viper.SetEnvPrefix("ADSBIB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadADSConfig assembles and validates the client configuration. The
// token comes from --token, then viper (ads.token or ADSBIB_ADS_TOKEN),
// then the secrets resolver.
func loadADSConfig(cmd *cobra.Command) (types.ADSConfig, error) {
	cfg := types.ADSConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		SearchURL: viper.GetString("ads.search_url"),
		ExportURL: viper.GetString("ads.export_url"),
		Rows:      viper.GetInt("search.rows"),
	}

	token, source := tokenFromFlags(cmd)
	if token == "" {
		home, _ := os.UserHomeDir()
		token, source = secrets.Resolver{Loaded: loadedSecrets, Home: home}.Resolve()
	}
	if token == "" {
		return cfg, fmt.Errorf("%w: no ADS API token; use --token, ADSBIB_ADS_TOKEN, ADS_API_TOKEN or .secrets/%s",
			ads.ErrConfig, secrets.TokenFile)
	}
	cfg.Token = token
	logger.Debug().Str("source", string(source)).Msg("Using ADS token")

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ads.ErrConfig, err)
	}
	return cfg, nil
}

func tokenFromFlags(cmd *cobra.Command) (string, secrets.Source) {
	if t, _ := cmd.Flags().GetString("token"); strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t), secrets.SourceFlag
	}
	if t := strings.TrimSpace(viper.GetString("ads.token")); t != "" {
		return t, secrets.SourceConfig
	}
	return "", secrets.SourceNone
}

func newClient(cmd *cobra.Command) (*ads.Client, error) {
	cfg, err := loadADSConfig(cmd)
	if err != nil {
		return nil, err
	}
	return ads.NewClient(cfg), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
