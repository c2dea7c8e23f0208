package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	accessgate "lawdesk/contexts/identity-access/access-gate"
	gateentities "lawdesk/contexts/identity-access/access-gate/domain/entities"
	gateerrors "lawdesk/contexts/identity-access/access-gate/domain/errors"
	gatehttp "lawdesk/contexts/identity-access/access-gate/transport/http"
	signalservice "lawdesk/contexts/realtime-signals/signal-service"
	signalerrors "lawdesk/contexts/realtime-signals/signal-service/domain/errors"
	signalhttp "lawdesk/contexts/realtime-signals/signal-service/transport/http"
	"lawdesk/internal/shared/netguard"
	"lawdesk/internal/shared/tenantctx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "lawdesk/internal/platform/httpserver/docs"
)

// Options carries the server knobs that come from process configuration.
type Options struct {
	Addr string

	// QueueProcessSecret authorizes machine-to-machine queue triggers; empty
	// disables secret mode entirely.
	QueueProcessSecret string
	QueueAllowlist     netguard.Allowlist
	Production         bool

	StreamRateLimit  int
	StreamRateWindow time.Duration
}

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	gate    accessgate.Module
	signals signalservice.Module
	opts    Options
}

func New(
	gate accessgate.Module,
	signals signalservice.Module,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.StreamRateLimit <= 0 {
		opts.StreamRateLimit = 30
	}
	if opts.StreamRateWindow <= 0 {
		opts.StreamRateWindow = time.Minute
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		gate:    gate,
		signals: signals,
		opts:    opts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.opts.Addr,
	)
	return http.ListenAndServe(s.opts.Addr, s.mux)
}

// Handler exposes the routing table for in-process tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("POST /api/authz/v1/check", s.handleAuthzCheck)

	s.mux.HandleFunc("GET /api/realtime/signals", s.handleSignalStream)
	s.mux.HandleFunc("POST /api/realtime/signals/touch", s.handleSignalTouch)
	s.mux.HandleFunc("GET /api/realtime/diagnostics", s.handleSignalDiagnostics)

	s.mux.HandleFunc("POST /api/queue/process", s.handleQueueProcess)
}

func (s *Server) handleAuthzCheck(w http.ResponseWriter, r *http.Request) {
	tc, r, err := s.establishContext(r)
	if err != nil {
		s.writeGateError(w, err)
		return
	}

	var req gatehttp.CheckPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGateHTTPError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Permission) == "" {
		writeGateHTTPError(w, http.StatusBadRequest, "invalid_permission", "permission is required")
		return
	}

	resp := s.gate.Handler.CheckPermissionHandler(r.Context(), tc, req)
	writeJSON(w, http.StatusOK, resp)
}

// establishContext authenticates the demo identity headers, verifies the
// membership through the access gate, and attaches the resulting tenant
// context to the request. Every tenant-scoped handler goes through here; no
// handler reads identity headers directly.
func (s *Server) establishContext(r *http.Request) (tenantctx.TenantContext, *http.Request, error) {
	tenantID := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if tenantID == "" || userID == "" {
		return tenantctx.TenantContext{}, r, gateerrors.NewAuthError()
	}

	tc, err := s.gate.ActiveContext.Establish(r.Context(), tenantID, userID)
	if err != nil {
		return tenantctx.TenantContext{}, r, err
	}
	return tc, r.WithContext(tenantctx.WithTenantContext(r.Context(), tc)), nil
}

// writeGateError renders access-gate failures. Permission denials always go
// through PublicErrorMessage so internal permission keys never reach clients.
func (s *Server) writeGateError(w http.ResponseWriter, err error) {
	var authErr *gateerrors.AuthError
	var permErr *gateerrors.PermissionError
	switch {
	case errors.As(err, &authErr):
		writeGateHTTPError(w, http.StatusUnauthorized, "unauthorized", authErr.Message)
	case errors.As(err, &permErr):
		writeGateHTTPError(w, http.StatusForbidden, "forbidden",
			gateerrors.PublicErrorMessage(err, "insufficient permission"))
	case errors.Is(err, gateerrors.ErrInvalidTenantID),
		errors.Is(err, gateerrors.ErrInvalidUserID),
		errors.Is(err, gateerrors.ErrInvalidPermission),
		errors.Is(err, gateerrors.ErrInvalidRateKey):
		writeGateHTTPError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeGateHTTPError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writeSignalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, signalerrors.ErrInvalidTenantID),
		errors.Is(err, signalerrors.ErrInvalidKind),
		errors.Is(err, signalerrors.ErrInvalidSince):
		writeSignalHTTPError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeSignalHTTPError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGateHTTPError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, gatehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeSignalHTTPError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, signalhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// writeRateLimitHeaders mirrors the limiter decision so well-behaved clients
// can pace themselves without ever hitting the 429.
func writeRateLimitHeaders(w http.ResponseWriter, decision gateentities.RateLimitDecision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	if decision.RetryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfterSeconds))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
