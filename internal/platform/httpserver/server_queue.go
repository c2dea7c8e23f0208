package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	gatecommands "lawdesk/contexts/identity-access/access-gate/application/commands"
	signaladapter "lawdesk/contexts/realtime-signals/signal-service/adapters/http"
	signalcommands "lawdesk/contexts/realtime-signals/signal-service/application/commands"
	signalentities "lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	signalhttp "lawdesk/contexts/realtime-signals/signal-service/transport/http"
	"lawdesk/internal/shared/netguard"
)

const queueProcessRateLimit = 10

type queueProcessRequest struct {
	TenantID string          `json:"tenantId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type queueProcessResponse struct {
	Accepted bool                      `json:"accepted"`
	Signal   signalhttp.SignalEventDTO `json:"signal"`
}

// handleQueueProcess godoc
// @Summary Trigger queued background processing
// @Description Bumps the QUEUE_CHANGED signal for a tenant. Accepts either the shared X-Queue-Secret (restricted to the configured IP allowlist) or an authenticated admin.
// @Tags internal
// @Accept json
// @Produce json
// @Param X-Queue-Secret header string false "Shared queue trigger secret"
// @Param request body queueProcessRequest true "Tenant whose queue changed"
// @Success 202 {object} queueProcessResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/queue/process [post]
func (s *Server) handleQueueProcess(w http.ResponseWriter, r *http.Request) {
	var req queueProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSignalHTTPError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	req.TenantID = strings.TrimSpace(req.TenantID)
	if req.TenantID == "" {
		writeSignalHTTPError(w, http.StatusBadRequest, "invalid_request", "tenantId is required")
		return
	}

	if secret := r.Header.Get("X-Queue-Secret"); secret != "" {
		if !s.authorizeQueueSecret(w, r, secret) {
			return
		}
		s.touchQueueSignal(w, r, req)
		return
	}

	// No secret presented: fall back to an authenticated tenant admin.
	tc, r, err := s.establishContext(r)
	if err != nil {
		s.writeGateError(w, err)
		return
	}
	if err := s.gate.CheckPermission.Require(tc, "admin:access"); err != nil {
		s.writeGateError(w, err)
		return
	}
	if tc.TenantID != req.TenantID {
		writeGateHTTPError(w, http.StatusForbidden, "forbidden", "no access to this workspace")
		return
	}

	decision := s.gate.EnforceRateLimit.Execute(r.Context(), gatecommands.EnforceRateLimitInput{
		Context: tc,
		Action:  "queue.process",
		Limit:   queueProcessRateLimit,
	})
	if !decision.Allowed {
		writeGateHTTPError(w, http.StatusTooManyRequests, "rate_limited", decision.Error)
		return
	}

	s.touchQueueSignal(w, r, req)
}

// authorizeQueueSecret validates secret-mode triggers. In production a missing
// or unparseable allowlist fails closed; development keeps working without one
// so local tooling is not blocked.
func (s *Server) authorizeQueueSecret(w http.ResponseWriter, r *http.Request, secret string) bool {
	if s.opts.QueueProcessSecret == "" {
		writeSignalHTTPError(w, http.StatusUnauthorized, "unauthorized", "queue trigger is not configured")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.opts.QueueProcessSecret)) != 1 {
		writeSignalHTTPError(w, http.StatusUnauthorized, "unauthorized", "invalid queue secret")
		return false
	}

	allowlist := s.opts.QueueAllowlist
	misconfigured := !allowlist.Configured() || len(allowlist.InvalidEntries) > 0
	if s.opts.Production && misconfigured {
		s.logger.Error("queue trigger refused, allowlist misconfigured in production",
			"event", "http_queue_allowlist_misconfigured",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"invalid_entries", strings.Join(allowlist.InvalidEntries, ","),
		)
		writeSignalHTTPError(w, http.StatusServiceUnavailable, "unavailable", "queue trigger unavailable")
		return false
	}
	if allowlist.Configured() {
		ip, ok := netguard.ClientIP(r)
		if !ok || !allowlist.Contains(ip) {
			s.logger.Warn("queue trigger refused, caller not in allowlist",
				"event", "http_queue_ip_refused",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"remote_addr", r.RemoteAddr,
			)
			writeSignalHTTPError(w, http.StatusForbidden, "forbidden", "caller address not allowed")
			return false
		}
	}
	return true
}

func (s *Server) touchQueueSignal(w http.ResponseWriter, r *http.Request, req queueProcessRequest) {
	signal, err := s.signals.Touch.Execute(r.Context(), signalcommands.TouchSignalInput{
		TenantID: req.TenantID,
		Kind:     signalentities.KindQueueChanged,
		Payload:  req.Payload,
	})
	if err != nil {
		s.writeSignalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, queueProcessResponse{
		Accepted: true,
		Signal:   signaladapter.ToSignalEventDTO(signal),
	})
}
