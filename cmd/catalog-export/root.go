package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/core"
	"github.com/saturnines/catalog-export/pkg/logging"
	"github.com/saturnines/catalog-export/pkg/metrics"
)

// Version is set at build time with -ldflags.
var Version = "dev"

const defaultConfigFile = "export.yaml"

var (
	cfgFile     string
	envFile     string
	metricsFile string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "catalog-export",
	Short: "Export a Luigi's Box catalog to CSV",
	Long: `Download every catalog item from the Luigi's Box content export API
and write it to a single CSV file.

Credentials are read from TRACKER_ID and API_KEY. A .env file in the
working directory is loaded first when present.`,
	Args:          cobra.NoArgs,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExport,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "export config file (optional)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading credentials")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Output: os.Stderr}
	if verbose {
		logCfg.Level = "debug"
	}
	logging.Setup(logCfg)

	keys, err := config.LoadCredentials(cfg.Credentials)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	exporter, err := core.NewExporter(cfg, keys, core.WithMetrics(m))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, runErr := exporter.Run(ctx)

	// metrics are dumped for failed runs too
	if path := metricsPath(cfg); path != "" {
		if err := metrics.WriteTextfile(path, reg); err != nil && runErr == nil {
			return err
		}
	}

	return runErr
}

// loadConfig reads path, or falls back to defaults when the default file is absent.
func loadConfig(path string, explicit bool) (*config.Export, error) {
	loader := config.NewDefaultLoader()
	if !explicit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return loader.Parse(nil)
		}
	}
	return loader.Load(path)
}

func metricsPath(cfg *config.Export) string {
	if metricsFile != "" {
		return metricsFile
	}
	return cfg.MetricsFile
}

