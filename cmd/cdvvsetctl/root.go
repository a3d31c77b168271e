// Command cdvvsetctl drives internal/kvstore end to end: it is the thing
// that actually calls cdvvset's pure functions with a replica id, a
// persisted clock, and a logger — the core algebra package itself never
// does any of that.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/aidenlippert/zerostate/libs/cdvvset/internal/kvstore"
	"github.com/aidenlippert/zerostate/libs/cdvvset/internal/metrics"
	"github.com/aidenlippert/zerostate/libs/cdvvset/internal/telemetry"
)

var (
	cfgFile string
	logger  *zap.Logger
	store   *kvstore.Store
	metr    *metrics.CDVVSetMetrics
)

var tracer = otel.Tracer("cdvvsetctl")

var rootCmd = &cobra.Command{
	Use:   "cdvvsetctl",
	Short: "Inspect and drive a compact dotted version vector set store",
	Long: `cdvvsetctl is a small CLI over internal/kvstore, a file-backed
key-value store whose values are cdvvset.Clock[string, string]. It exists
to exercise the cdvvset algebra end to end: put, get, merge, resolve,
and inspect a key's causal history from the command line.`,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cdvvsetctl.yaml)")
	rootCmd.PersistentFlags().String("store-dir", "./data/cdvvset", "directory holding one JSON file per key")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, console)")
	rootCmd.PersistentFlags().String("replica-id", "", "replica id to write events as (random uuid if omitted)")

	_ = viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("replica_id", rootCmd.PersistentFlags().Lookup("replica-id"))

	rootCmd.AddCommand(putCmd, getCmd, mergeCmd, resolveCmd, inspectCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cdvvsetctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.cdvvsetctl")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CDVVSETCTL")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = telemetry.NewLogger(&telemetry.Config{
		Level:            viper.GetString("log_level"),
		Format:           viper.GetString("log_format"),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err = kvstore.Open(&kvstore.Config{BaseDir: viper.GetString("store_dir")}, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	metr = metrics.NewCDVVSetMetrics(metrics.Default())
	return nil
}

// replicaID returns the configured --replica-id, or a freshly generated
// UUID if the flag was left empty — a fresh invocation from a new machine
// should still get a stable-for-the-run, globally unique id.
func replicaID() string {
	if id := viper.GetString("replica_id"); id != "" {
		return id
	}
	return uuid.NewString()
}

// telemetryLogger returns the process logger with ctx's trace context
// (if any) correlated in, so a sync or resolve that silently drops a
// sibling is traceable end to end.
func telemetryLogger(ctx context.Context) *zap.Logger {
	return telemetry.WithTraceContext(ctx, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
