package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/brewdb/brewerydb"
	"github.com/s0up4200/brewdb/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = zerolog.Nop()
	client  *brewerydb.Client

	// Command flags
	filterExpr string
	preset     string
	showURI    bool
	rawOutput  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "brewdb",
	Short: "Query the BreweryDB catalog of breweries, beers and styles",
	Long: `brewdb is a CLI for the BreweryDB API. It lists and looks up breweries,
beers, styles, categories and glassware, searches the catalog, and can
filter the returned records with expressions.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version command and user agent
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to returned records")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	rootCmd.PersistentFlags().BoolVar(&showURI, "show-uri", false, "print the request URI (API key redacted) to stderr")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "print the raw response body")

	// Add subcommands
	rootCmd.AddCommand(breweriesCmd)
	rootCmd.AddCommand(breweryCmd)
	rootCmd.AddCommand(beersCmd)
	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(glasswareCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = newClient()
	if err != nil {
		return fmt.Errorf("failed to create BreweryDB client: %w", err)
	}

	return nil
}

// newClient builds a client from the loaded configuration
func newClient() (*brewerydb.Client, error) {
	opts := []brewerydb.Option{
		brewerydb.WithBaseURL(cfg.BreweryDB.BaseURL),
		brewerydb.WithFormat(brewerydb.Format(cfg.BreweryDB.Format)),
	}

	if cfg.BreweryDB.VerifyTLS {
		opts = append(opts, brewerydb.WithTLSVerify())
	}

	userAgent := cfg.BreweryDB.UserAgent
	if userAgent == "" {
		userAgent = "brewdb/" + version
	}
	opts = append(opts, brewerydb.WithUserAgent(userAgent))

	return brewerydb.NewClient(cfg.BreweryDB.APIKey, logger, opts...)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseID parses a positive record id from a command argument
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// getFilterExpression determines the filter expression to use, if any
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := cfg.Filter.Presets[strings.ToLower(preset)]; ok {
			return presetFilter.Expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, nil
}
