package httpadapter

import (
	"context"
	"log/slog"

	application "lawdesk/contexts/realtime-signals/signal-service/application"
	"lawdesk/contexts/realtime-signals/signal-service/application/commands"
	"lawdesk/contexts/realtime-signals/signal-service/application/queries"
	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	httptransport "lawdesk/contexts/realtime-signals/signal-service/transport/http"
)

// Handler maps HTTP DTOs to signal-service commands/queries. The streaming
// endpoint itself lives in the platform http server because it owns the
// text/event-stream response lifecycle.
type Handler struct {
	Touch       commands.TouchSignalUseCase
	ReadSince   queries.ReadSinceUseCase
	Diagnostics queries.DiagnosticsUseCase
	Logger      *slog.Logger
}

// TouchSignalHandler godoc
// @Summary Touch a tenant signal
// @Description Bumps the version of one (tenant, kind) signal and notifies live subscribers. Admin capability required.
// @Tags realtime-signals
// @Accept json
// @Produce json
// @Param X-Tenant-Id header string true "Tenant id"
// @Param X-User-Id header string true "User id"
// @Param request body httptransport.TouchSignalRequest true "Signal to touch"
// @Success 200 {object} httptransport.TouchSignalResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/realtime/signals/touch [post]
func (h Handler) TouchSignalHandler(
	ctx context.Context,
	tenantID string,
	request httptransport.TouchSignalRequest,
) (httptransport.TouchSignalResponse, error) {
	signal, err := h.Touch.Execute(ctx, commands.TouchSignalInput{
		TenantID: tenantID,
		Kind:     request.Kind,
		Payload:  request.Payload,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("touch signal request failed",
			"event", "signal_http_touch_failed",
			"module", "realtime-signals/signal-service",
			"layer", "transport",
			"tenant_id", tenantID,
			"kind", request.Kind,
			"error", err.Error(),
		)
		return httptransport.TouchSignalResponse{}, err
	}
	return httptransport.TouchSignalResponse{Signal: ToSignalEventDTO(signal)}, nil
}

// DiagnosticsHandler godoc
// @Summary Live signal channel diagnostics
// @Description Lists bus channels with subscriber counts and durable versions. Admin capability required.
// @Tags realtime-signals
// @Produce json
// @Param X-Tenant-Id header string true "Tenant id"
// @Param X-User-Id header string true "User id"
// @Success 200 {object} httptransport.DiagnosticsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/realtime/diagnostics [get]
func (h Handler) DiagnosticsHandler(ctx context.Context, tenantID string) (httptransport.DiagnosticsResponse, error) {
	reports, err := h.Diagnostics.Execute(ctx, tenantID)
	if err != nil {
		return httptransport.DiagnosticsResponse{}, err
	}
	out := httptransport.DiagnosticsResponse{Channels: make([]httptransport.ChannelReportDTO, 0, len(reports))}
	for _, report := range reports {
		out.Channels = append(out.Channels, httptransport.ChannelReportDTO{
			TenantID:    report.TenantID,
			Kind:        report.Kind,
			Subscribers: report.Subscribers,
			Version:     report.Version,
		})
	}
	return out, nil
}

// ToSignalEventDTO converts a durable signal row to its wire shape.
func ToSignalEventDTO(signal entities.TenantSignal) httptransport.SignalEventDTO {
	return httptransport.SignalEventDTO{
		TenantID:  signal.TenantID,
		Kind:      signal.Kind,
		Version:   signal.Version,
		UpdatedAt: signal.UpdatedAt,
		Payload:   signal.Payload,
	}
}
