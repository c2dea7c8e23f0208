package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lawdesk/contexts/identity-access/access-gate/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements the membership and rate-limit ports on Postgres.
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

type userModel struct {
	ID       string `gorm:"column:id;primaryKey"`
	Email    string `gorm:"column:email"`
	Role     string `gorm:"column:role"`
	IsActive bool   `gorm:"column:is_active"`
}

func (userModel) TableName() string { return "users" }

type membershipModel struct {
	TenantID string `gorm:"column:tenant_id;primaryKey"`
	UserID   string `gorm:"column:user_id;primaryKey"`
	Role     string `gorm:"column:role"`
	Status   string `gorm:"column:status"`
}

func (membershipModel) TableName() string { return "tenant_memberships" }

type rateWindowModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	WindowStart time.Time `gorm:"column:window_start;primaryKey"`
	Count       int64     `gorm:"column:count"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (rateWindowModel) TableName() string { return "api_rate_limits" }

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, false, nil
		}
		return entities.User{}, false, r.logError("gate_repo_get_user_failed", err, "user_id", userID)
	}
	return entities.User{ID: row.ID, Email: row.Email, Role: row.Role, IsActive: row.IsActive}, true, nil
}

func (r *Repository) GetMembership(ctx context.Context, tenantID, userID string) (entities.Membership, bool, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, false, nil
		}
		return entities.Membership{}, false, r.logError("gate_repo_get_membership_failed", err,
			"tenant_id", tenantID, "user_id", userID)
	}
	return entities.Membership{TenantID: row.TenantID, UserID: row.UserID, Role: row.Role, Status: row.Status}, true, nil
}

// IncrementWindow upserts the (key, window_start) counter in one statement so
// concurrent requests for the same key serialize inside Postgres rather than
// racing a read-then-write.
func (r *Repository) IncrementWindow(ctx context.Context, key string, windowStart, expiresAt time.Time) (int64, error) {
	row := rateWindowModel{
		Key:         strings.TrimSpace(key),
		WindowStart: windowStart.UTC(),
		Count:       1,
		ExpiresAt:   expiresAt.UTC(),
	}
	tx := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}, {Name: "window_start"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":      gorm.Expr("api_rate_limits.count + 1"),
				"expires_at": row.ExpiresAt,
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "count"}}},
	).Create(&row)
	if tx.Error != nil {
		if isSerializationFailure(tx.Error) {
			// Retry once; a competing first-insert can still conflict under
			// serializable isolation.
			retry := r.db.WithContext(ctx).Clauses(
				clause.OnConflict{
					Columns: []clause.Column{{Name: "key"}, {Name: "window_start"}},
					DoUpdates: clause.Assignments(map[string]any{
						"count":      gorm.Expr("api_rate_limits.count + 1"),
						"expires_at": row.ExpiresAt,
					}),
				},
				clause.Returning{Columns: []clause.Column{{Name: "count"}}},
			).Create(&row)
			if retry.Error == nil {
				return row.Count, nil
			}
			tx = retry
		}
		return 0, r.logError("gate_repo_increment_window_failed", tx.Error, "window_start", windowStart)
	}
	return row.Count, nil
}

func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&rateWindowModel{})
	if tx.Error != nil {
		return 0, r.logError("gate_repo_delete_expired_failed", tx.Error)
	}
	return tx.RowsAffected, nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/access-gate",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("access gate repository operation failed", fields...)
	return err
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
