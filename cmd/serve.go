package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/sentinel/internal/api"
	"github.com/theopenlane/sentinel/internal/metrics"
)

// serveCmd is the cobra command that starts the sentinel API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the sentinel api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve initializes dependencies and starts the sentinel API server
func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	s, err := setupScanner(cfg, m)
	if err != nil {
		return fmt.Errorf("setting up scanner: %w", err)
	}

	defer func() { _ = s.Close() }()

	handler := api.NewRouter(s, m, api.RouterOptions{
		MaxBodySize:   cfg.Server.MaxBodySize,
		MaxCandidates: cfg.Server.MaxCandidates,
		Timeout:       cfg.Server.ScanTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Bool("metrics", m != nil).
		Int("fingerprints", s.Fingerprints().Len()).Msg("starting sentinel service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
