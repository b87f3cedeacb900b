package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	adapthttp "bodymetrics/internal/adapter/http"
	"bodymetrics/internal/app"
	"bodymetrics/internal/config"
	"bodymetrics/internal/domain"
)

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = time.Hour

var (
	serveAddr        string
	serveWebDir      string
	serveDisableAuth bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("web-dir") {
			cfg.WebDir = serveWebDir
		}
		if cmd.Flags().Changed("disable-auth") {
			cfg.DisableAuth = serveDisableAuth
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (overrides ADDR)")
	serveCmd.Flags().StringVar(&serveWebDir, "web-dir", "web", "Directory with the web UI (overrides WEB_DIR)")
	serveCmd.Flags().BoolVar(&serveDisableAuth, "disable-auth", false, "Serve every request as a single local user")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := cfg.Logger()
	slog.SetDefault(logger)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	authSvc := app.NewAuthService(st.users, st.sessions,
		app.WithSessionTTL(cfg.SessionTTL),
		app.WithAuthLogger(logger))

	opts := []adapthttp.Option{adapthttp.WithLogger(logger)}
	if cfg.OIDC.Enabled() {
		oc, err := newOIDC(ctx, cfg.OIDC)
		if err != nil {
			return err
		}
		opts = append(opts, adapthttp.WithOIDC(oc))
		logger.Info("sso enabled", "issuer", cfg.OIDC.Issuer)
	}

	srv := adapthttp.New(adapthttp.Services{
		Auth:          authSvc,
		Weight:        app.NewWeightService(st.weights),
		Measurements:  app.NewMeasurementService(st.measurements),
		BloodPressure: app.NewBloodPressureService(st.bloodPressure),
		Profile:       app.NewProfileService(st.profiles),
		Insights:      st.insightsService(logger),
	}, cfg.WebDir, opts...)
	if cfg.DisableAuth {
		srv = srv.WithoutAuth()
		logger.Warn("authentication disabled")
	}

	go sweepSessions(ctx, st.sessions, logger)

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "storage", cfg.Storage)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

func newOIDC(ctx context.Context, c config.OIDC) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, c.Issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider: %w", err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func sweepSessions(ctx context.Context, sessions domain.SessionRepository, logger *slog.Logger) {
	t := time.NewTicker(sessionSweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				logger.Warn("delete expired sessions", "error", err)
			}
		}
	}
}
