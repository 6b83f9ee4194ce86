package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/sentinel/config"
)

// appName is the name of the application used in CLI usage output
const appName = "sentinel"

// k is the global koanf instance used for flag management
var k *koanf.Koanf

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          appName,
	Short:        "detect dangling DNS records that expose subdomains to takeover",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cobra.CheckErr(initCmdFlags(cmd))
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down gracefully...")
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	k = koanf.New(".")
	rootCmd.PersistentFlags().Bool("pretty", false, "enable pretty (human readable) logging output")
	rootCmd.PersistentFlags().Bool("debug", false, "debug logging output")
	rootCmd.PersistentFlags().String("config", config.DefaultConfigFilePath, "config file location")
}

// initCmdFlags loads the flags of cmd, including inherited ones, into the koanf instance
func initCmdFlags(cmd *cobra.Command) error {
	return k.Load(posflag.Provider(cmd.Flags(), k.Delim(), k), nil)
}

// setupLogging configures zerolog based on the debug and pretty flags
func setupLogging() {
	level := zerolog.InfoLevel
	if k.Bool("debug") {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	if k.Bool("pretty") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// loadConfig reads the config file named by --config and applies the logging flags to it
func loadConfig() (*config.Config, error) {
	path := k.String("config")

	cfg, err := config.Load(&path)
	if err != nil {
		return nil, err
	}

	cfg.Server.Debug = cfg.Server.Debug || k.Bool("debug")
	cfg.Server.Pretty = cfg.Server.Pretty || k.Bool("pretty")

	return cfg, nil
}
