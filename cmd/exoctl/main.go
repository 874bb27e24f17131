package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chrissnell/eukleides/internal/constants"
	"github.com/chrissnell/eukleides/internal/log"
	"github.com/chrissnell/eukleides/pkg/classifier"
	"github.com/chrissnell/eukleides/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "exoctl",
	Short: "Resolve and classify exoplanet systems from the command line",
	Long: `exoctl resolves the orbit of a single star / single planet system,
asks the remote classifier whether a candidate is a real planet and runs
whole CSV datasets through the batch classifier.

Every flag can also be set in the config file or through an EXOCTL_*
environment variable, e.g. EXOCTL_ENDPOINT.`,
	Version:       constants.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(viper.GetBool("debug"))
	},
}

func init() {
	cobra.OnInitialize(initViper)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("endpoint", "", "Classifier base URL (default "+config.DefaultClassifierEndpoint+")")
	rootCmd.PersistentFlags().String("batch-endpoint", "", "Batch classifier base URL (defaults to --endpoint when that is set)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultClassifierTimeout, "Classifier request timeout")
	rootCmd.PersistentFlags().String("output", "text", "Output format: text or json")
	rootCmd.PersistentFlags().Bool("debug", false, "Turn on debugging output")

	for _, name := range []string{"endpoint", "batch-endpoint", "timeout", "output", "debug"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(presetsCmd)
}

func initViper() {
	viper.SetEnvPrefix("exoctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// newClassifier builds a classifier client from the bound flags.
func newClassifier() (*classifier.Client, error) {
	cfg := config.ConfigData{Classifier: config.ClassifierData{
		Endpoint:      viper.GetString("endpoint"),
		BatchEndpoint: viper.GetString("batch-endpoint"),
	}}
	config.ApplyDefaults(&cfg)

	return classifier.NewClient(classifier.Config{
		Endpoint:      cfg.Classifier.Endpoint,
		BatchEndpoint: cfg.Classifier.BatchEndpoint,
		Timeout:       viper.GetDuration("timeout"),
	}, log.GetSugaredLogger())
}

func wantJSON() bool {
	return viper.GetString("output") == "json"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	err := rootCmd.ExecuteContext(ctx)
	log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	if viper.GetBool("debug") {
		fmt.Fprintf(os.Stderr, "done in %s\n", time.Since(start).Round(time.Millisecond))
	}
}
