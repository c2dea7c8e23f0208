package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements the signal repository port on Postgres. The
// tenant_signals table holds exactly one row per (tenant_id, kind).
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type tenantSignalModel struct {
	TenantID  string    `gorm:"column:tenant_id;primaryKey"`
	Kind      string    `gorm:"column:kind;primaryKey"`
	Version   int64     `gorm:"column:version"`
	Payload   []byte    `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (tenantSignalModel) TableName() string { return "tenant_signals" }

// Touch performs the upsert-with-increment in one statement. The RETURNING
// clause hands back the committed version so concurrent touches each observe
// their own distinct value.
func (r *Repository) Touch(ctx context.Context, tenantID, kind string, payload json.RawMessage, now time.Time) (entities.TenantSignal, error) {
	row := tenantSignalModel{
		TenantID:  strings.TrimSpace(tenantID),
		Kind:      kind,
		Version:   1,
		Payload:   payload,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	assignments := map[string]any{
		"version":    gorm.Expr("tenant_signals.version + 1"),
		"updated_at": row.UpdatedAt,
	}
	if payload != nil {
		assignments["payload"] = []byte(payload)
	}

	tx := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "kind"}},
			DoUpdates: clause.Assignments(assignments),
		},
		clause.Returning{},
	).Create(&row)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			// Two first-touches can race the insert; the loser retries and
			// lands on the increment path.
			retry := r.db.WithContext(ctx).Clauses(
				clause.OnConflict{
					Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "kind"}},
					DoUpdates: clause.Assignments(assignments),
				},
				clause.Returning{},
			).Create(&row)
			if retry.Error == nil {
				return toEntity(row), nil
			}
			tx = retry
		}
		return entities.TenantSignal{}, r.logError("signal_repo_touch_failed", tx.Error,
			"tenant_id", tenantID, "kind", kind)
	}
	return toEntity(row), nil
}

func (r *Repository) ReadSince(ctx context.Context, tenantID, kind string, since time.Time) ([]entities.TenantSignal, error) {
	tx := r.db.WithContext(ctx).Model(&tenantSignalModel{}).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		Where("updated_at > ?", since.UTC())
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}

	var rows []tenantSignalModel
	if err := tx.Order("updated_at ASC, kind ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("signal_repo_read_since_failed", err,
			"tenant_id", tenantID, "kind", kind)
	}

	items := make([]entities.TenantSignal, 0, len(rows))
	for _, row := range rows {
		items = append(items, toEntity(row))
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, tenantID, kind string) (entities.TenantSignal, bool, error) {
	var row tenantSignalModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		Where("kind = ?", kind).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.TenantSignal{}, false, nil
		}
		return entities.TenantSignal{}, false, r.logError("signal_repo_get_failed", err,
			"tenant_id", tenantID, "kind", kind)
	}
	return toEntity(row), true, nil
}

func toEntity(row tenantSignalModel) entities.TenantSignal {
	var version uint64
	if row.Version > 0 {
		version = uint64(row.Version)
	}
	return entities.TenantSignal{
		TenantID:  row.TenantID,
		Kind:      row.Kind,
		Version:   version,
		UpdatedAt: row.UpdatedAt,
		Payload:   json.RawMessage(row.Payload),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "realtime-signals/signal-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("signal repository operation failed", fields...)
	return err
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
