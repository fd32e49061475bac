package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/config"
	"github.com/klabast/wb-services/holiday-planner/internal/logging"
	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configFile string
	dataFile   string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the holiday-planner command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "holiday-planner",
		Short: "Daily plans, achievements and ratings for a holiday period",
		Long: `holiday-planner keeps per-day plans, achievements, a 0-10 rating and notes
in a single JSON file. It serves the mobile REST API, runs a terminal
dashboard and prints statistics or exports from the same file.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", config.DefaultConfigFile, "Path to YAML config file")
	pf.StringVar(&opts.dataFile, "data", "", "Path to the data file (default holiday_data.json)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")

	cmd.AddCommand(
		newServeCommand(opts),
		newTUICommand(opts),
		newStatsCommand(opts),
		newExportCommand(opts),
		newHashPasswordCommand(opts),
	)
	return cmd
}

// Execute loads .env and runs the root command
func Execute() int {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig resolves flags > env > file > defaults
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return config.Config{}, err
	}
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup loads config and builds the logger and store
func (o *rootOptions) setup(cmd *cobra.Command) (config.Config, *zap.Logger, *planner.Store, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	store := planner.NewStore(cfg.DataFile, planner.WithLogger(log))
	return cfg, log, store, nil
}
