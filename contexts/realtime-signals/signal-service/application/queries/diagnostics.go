package queries

import (
	"context"
	"sort"
	"strings"

	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	"lawdesk/contexts/realtime-signals/signal-service/ports"
)

// ChannelReport combines a live bus channel with its durable high-water mark.
type ChannelReport struct {
	TenantID    string
	Kind        string
	Subscribers int
	Version     uint64
}

// DiagnosticsUseCase reports bus channel occupancy for operators. Gated on an
// admin capability at the transport layer.
type DiagnosticsUseCase struct {
	Inspector ports.BusInspector
	Repo      ports.SignalRepository
}

func (u DiagnosticsUseCase) Execute(ctx context.Context, tenantFilter string) ([]ChannelReport, error) {
	if u.Inspector == nil {
		return nil, nil
	}
	tenantFilter = strings.TrimSpace(tenantFilter)

	var reports []ChannelReport
	for _, channel := range u.Inspector.Diagnostics() {
		if tenantFilter != "" && channel.TenantID != tenantFilter {
			continue
		}
		report := ChannelReport{
			TenantID:    channel.TenantID,
			Kind:        channel.Kind,
			Subscribers: channel.Subscribers,
		}
		if u.Repo != nil && entities.ValidKind(channel.Kind) {
			if signal, found, err := u.Repo.Get(ctx, channel.TenantID, channel.Kind); err == nil && found {
				report.Version = signal.Version
			}
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].TenantID != reports[j].TenantID {
			return reports[i].TenantID < reports[j].TenantID
		}
		return reports[i].Kind < reports[j].Kind
	})
	return reports, nil
}
