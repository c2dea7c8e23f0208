package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gatecommands "lawdesk/contexts/identity-access/access-gate/application/commands"
	signaladapter "lawdesk/contexts/realtime-signals/signal-service/adapters/http"
	signalqueries "lawdesk/contexts/realtime-signals/signal-service/application/queries"
	signalentities "lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	signalerrors "lawdesk/contexts/realtime-signals/signal-service/domain/errors"
	signalhttp "lawdesk/contexts/realtime-signals/signal-service/transport/http"
	"lawdesk/internal/platform/metrics"
	"lawdesk/internal/shared/events"
)

const (
	streamPingInterval = 15 * time.Second

	// Durable re-read cadence. The bus drops events for slow subscribers, so
	// every open stream polls the repository and recovers the high-water mark
	// within one interval.
	defaultStreamPollInterval = 3 * time.Second
	minStreamPollInterval     = time.Second
	maxStreamPollInterval     = 10 * time.Second
)

// handleSignalStream godoc
// @Summary Stream tenant change signals
// @Description Server-sent events stream of per-(tenant, kind) version bumps. Replays durable rows newer than `since`, then stays live. Reconnect with Last-Event-ID to suppress replayed duplicates.
// @Tags realtime-signals
// @Produce text/event-stream
// @Param X-Tenant-Id header string true "Tenant id"
// @Param X-User-Id header string true "User id"
// @Param since query string true "RFC 3339 timestamp to catch up from"
// @Param kind query string false "Restrict the stream to one signal kind"
// @Param pollMs query int false "Durable re-read interval in milliseconds (1000-10000, default 3000)"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 429 {object} httptransport.ErrorResponse
// @Router /api/realtime/signals [get]
func (s *Server) handleSignalStream(w http.ResponseWriter, r *http.Request) {
	tc, r, err := s.establishContext(r)
	if err != nil {
		s.writeGateError(w, err)
		return
	}
	if err := s.gate.CheckPermission.Require(tc, "task:view"); err != nil {
		s.writeGateError(w, err)
		return
	}

	query := r.URL.Query()
	sinceRaw := strings.TrimSpace(query.Get("since"))
	if sinceRaw == "" {
		s.writeSignalDomainError(w, signalerrors.ErrInvalidSince)
		return
	}
	since, err := time.Parse(time.RFC3339, sinceRaw)
	if err != nil {
		s.writeSignalDomainError(w, signalerrors.ErrInvalidSince)
		return
	}
	kindFilter := strings.TrimSpace(query.Get("kind"))
	if kindFilter != "" && !signalentities.ValidKind(kindFilter) {
		writeSignalHTTPError(w, http.StatusBadRequest, "invalid_kind", "unknown signal kind")
		return
	}
	pollInterval := defaultStreamPollInterval
	if pollRaw := strings.TrimSpace(query.Get("pollMs")); pollRaw != "" {
		pollMs, parseErr := strconv.Atoi(pollRaw)
		if parseErr != nil || pollMs <= 0 {
			writeSignalHTTPError(w, http.StatusBadRequest, "invalid_poll_ms", "pollMs must be a positive integer of milliseconds")
			return
		}
		pollInterval = time.Duration(pollMs) * time.Millisecond
		if pollInterval < minStreamPollInterval {
			pollInterval = minStreamPollInterval
		}
		if pollInterval > maxStreamPollInterval {
			pollInterval = maxStreamPollInterval
		}
	}

	decision, err := s.gate.CheckRateLimit.Execute(r.Context(), gatecommands.CheckRateLimitInput{
		Key:    "realtime:signals:" + tc.TenantID + ":" + tc.User.ID,
		Limit:  s.opts.StreamRateLimit,
		Window: s.opts.StreamRateWindow,
	})
	if err != nil {
		writeSignalHTTPError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeRateLimitHeaders(w, decision)
	if !decision.Allowed {
		writeSignalHTTPError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, please retry later")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSignalHTTPError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming is not supported")
		return
	}

	// Last-Event-ID carries the highest version the client already rendered.
	// Only meaningful for single-kind streams: versions are independent
	// counters per (tenant, kind).
	var resumeVersion uint64
	if lastEventID := strings.TrimSpace(r.Header.Get("Last-Event-ID")); lastEventID != "" && kindFilter != "" {
		if parsed, parseErr := strconv.ParseUint(lastEventID, 10, 64); parseErr == nil {
			resumeVersion = parsed
		}
	}

	kinds := signalentities.AllKinds()
	if kindFilter != "" {
		kinds = []string{kindFilter}
	}

	// Subscribe before the catch-up read so a touch landing between the read
	// and the subscription is never lost; version de-dup below removes the
	// overlap instead.
	ctx := r.Context()
	live := make(chan events.SignalEnvelope, 256)
	unsubscribes := make([]func(), 0, len(kinds))
	for _, kind := range kinds {
		unsubscribe, subErr := s.signals.Bus.Subscribe(tc.TenantID, kind, func(event events.SignalEnvelope) {
			select {
			case live <- event:
			case <-ctx.Done():
			}
		})
		if subErr != nil {
			for _, u := range unsubscribes {
				u()
			}
			writeSignalHTTPError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		unsubscribes = append(unsubscribes, unsubscribe)
	}
	defer func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.OpenSignalStreams.Inc()
	defer metrics.OpenSignalStreams.Dec()

	stream := sseWriter{w: w, flusher: flusher}
	stream.send("ready", "", mustJSON(map[string]any{
		"tenantId": tc.TenantID,
		"kind":     kindFilter,
		"since":    since.UTC().Format(time.RFC3339),
		"pollMs":   pollInterval.Milliseconds(),
	}))

	// lastSeen tracks the highest version emitted per kind on this stream so
	// the replay/live overlap collapses to exactly-once per version.
	lastSeen := make(map[string]uint64, len(kinds))
	if resumeVersion > 0 {
		lastSeen[kindFilter] = resumeVersion
	}

	rows, err := s.signals.ReadSince.Execute(ctx, signalqueries.ReadSinceQuery{
		TenantID: tc.TenantID,
		Kind:     kindFilter,
		Since:    since,
	})
	if err != nil {
		// Headers are already on the wire; close the stream and let the
		// client reconnect with the same `since`.
		s.logger.Error("signal catch-up failed, closing stream",
			"event", "http_signal_catchup_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"tenant_id", tc.TenantID,
			"error", err.Error(),
		)
		return
	}
	for _, row := range rows {
		if row.Version <= lastSeen[row.Kind] {
			continue
		}
		lastSeen[row.Kind] = row.Version
		stream.send("signal", strconv.FormatUint(row.Version, 10), mustJSON(signaladapter.ToSignalEventDTO(row)))
	}

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()
	poll := time.NewTicker(pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-live:
			if event.Version <= lastSeen[event.Kind] {
				continue
			}
			lastSeen[event.Kind] = event.Version
			stream.send("signal", strconv.FormatUint(event.Version, 10), mustJSON(signalhttp.SignalEventDTO{
				TenantID:  event.TenantID,
				Kind:      event.Kind,
				Version:   event.Version,
				UpdatedAt: event.UpdatedAt,
				Payload:   event.Payload,
			}))
		case <-poll.C:
			// Durable re-read: a bus notification dropped for this stream is
			// recovered here because the repository row always carries the
			// latest committed version.
			for _, kind := range kinds {
				signal, found, pollErr := s.signals.Get.Execute(ctx, signalqueries.GetSignalQuery{
					TenantID: tc.TenantID,
					Kind:     kind,
				})
				if pollErr != nil || !found {
					continue
				}
				if signal.Version <= lastSeen[signal.Kind] {
					continue
				}
				lastSeen[signal.Kind] = signal.Version
				stream.send("signal", strconv.FormatUint(signal.Version, 10), mustJSON(signaladapter.ToSignalEventDTO(signal)))
			}
		case now := <-ping.C:
			stream.send("ping", "", mustJSON(map[string]string{
				"now": now.UTC().Format(time.RFC3339),
			}))
		}
	}
}

func (s *Server) handleSignalTouch(w http.ResponseWriter, r *http.Request) {
	tc, r, err := s.establishContext(r)
	if err != nil {
		s.writeGateError(w, err)
		return
	}
	if err := s.gate.CheckPermission.Require(tc, "admin:access"); err != nil {
		s.writeGateError(w, err)
		return
	}

	decision, err := s.gate.CheckRateLimit.Execute(r.Context(), gatecommands.CheckRateLimitInput{
		Key:    "realtime:signals:touch:" + tc.TenantID + ":" + tc.User.ID,
		Limit:  s.opts.StreamRateLimit,
		Window: s.opts.StreamRateWindow,
	})
	if err != nil {
		writeSignalHTTPError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeRateLimitHeaders(w, decision)
	if !decision.Allowed {
		writeSignalHTTPError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, please retry later")
		return
	}

	var req signalhttp.TouchSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSignalHTTPError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	resp, err := s.signals.Handler.TouchSignalHandler(r.Context(), tc.TenantID, req)
	if err != nil {
		s.writeSignalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignalDiagnostics(w http.ResponseWriter, r *http.Request) {
	tc, r, err := s.establishContext(r)
	if err != nil {
		s.writeGateError(w, err)
		return
	}
	if err := s.gate.CheckPermission.Require(tc, "admin:audit"); err != nil {
		s.writeGateError(w, err)
		return
	}

	resp, err := s.signals.Handler.DiagnosticsHandler(r.Context(), tc.TenantID)
	if err != nil {
		s.writeSignalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// send writes one server-sent event frame. The id line is emitted first so
// browsers record it before dispatching the event.
func (sw sseWriter) send(event, id string, data []byte) {
	if id != "" {
		fmt.Fprintf(sw.w, "id: %s\n", id)
	}
	fmt.Fprintf(sw.w, "event: %s\n", event)
	fmt.Fprintf(sw.w, "data: %s\n\n", data)
	sw.flusher.Flush()
}

func mustJSON(payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return []byte("{}")
	}
	return data
}
