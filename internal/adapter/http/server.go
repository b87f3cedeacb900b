package adapthttp

import (
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"bodymetrics/internal/app"
)

// Services groups the application services the HTTP adapter drives.
type Services struct {
	Auth          *app.AuthService
	Weight        *app.WeightService
	Measurements  *app.MeasurementService
	BloodPressure *app.BloodPressureService
	Profile       *app.ProfileService
	Insights      *app.InsightsService
}

// OIDCConfig holds the SSO provider wiring. The zero value disables SSO.
type OIDCConfig struct {
	Enabled      bool
	OAuth2Config *oauth2.Config
	Provider     *oidc.Provider
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	authSvc       *app.AuthService
	weight        *app.WeightService
	measurements  *app.MeasurementService
	bloodPressure *app.BloodPressureService
	profile       *app.ProfileService
	insights      *app.InsightsService

	oidcConfig  OIDCConfig
	log         *slog.Logger
	webDir      string
	disableAuth bool
}

// Option configures a Server.
type Option func(*Server)

// WithOIDC enables SSO login through the given provider.
func WithOIDC(c OIDCConfig) Option {
	return func(s *Server) { s.oidcConfig = c }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string, opts ...Option) *Server {
	s := &Server{
		authSvc:       svc.Auth,
		weight:        svc.Weight,
		measurements:  svc.Measurements,
		bloodPressure: svc.BloodPressure,
		profile:       svc.Profile,
		insights:      svc.Insights,
		log:           slog.Default(),
		webDir:        webDir,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WithoutAuth disables authentication; every request acts as user 1.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/weight/today", s.handleWeightToday)
	protected.HandleFunc("/weight/recent", s.handleWeightRecent)
	protected.HandleFunc("/weight/undo-last", s.handleWeightUndoLast)

	protected.HandleFunc("/measurements", s.handleMeasurements)
	protected.HandleFunc("/blood-pressure", s.handleBloodPressure)
	protected.HandleFunc("/profile", s.handleProfile)

	protected.HandleFunc("/analytics/statistics", s.handleStatistics)
	protected.HandleFunc("/analytics/insights", s.handleInsights)
	protected.HandleFunc("/analytics/assessment", s.handleAssessment)
	protected.HandleFunc("/analytics/daily", s.handleDaily)

	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
