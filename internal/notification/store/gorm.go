package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/notification"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type notificationRecord struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Type          string            `gorm:"size:16;not null"`
	Template      string            `gorm:"size:64;not null"`
	Recipient     string            `gorm:"size:320;not null;index:idx_notifications_recipient_created,priority:1"`
	Subject       string            `gorm:"size:255"`
	Body          string            `gorm:"type:text;not null"`
	Data          map[string]any    `gorm:"serializer:json;type:jsonb"`
	Status        string            `gorm:"size:16;not null"`
	SentAt        *time.Time
	DeliveredAt   *time.Time
	FailureReason string            `gorm:"type:text"`
	Metadata      map[string]string `gorm:"serializer:json;type:jsonb"`
	CreatedAt     time.Time         `gorm:"not null;index:idx_notifications_recipient_created,priority:2,sort:desc"`
	UpdatedAt     time.Time         `gorm:"not null"`
}

func (notificationRecord) TableName() string {
	return "notifications"
}

// Open connects gorm to Postgres with the pool settings of cfg.
func Open(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	log.Info("notification database connected", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// AutoMigrate creates or updates the notifications table.
func (r *GormRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&notificationRecord{})
}

func (r *GormRepository) Create(ctx context.Context, n *notification.Notification) error {
	rec := toRecord(n)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var rec notificationRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *GormRepository) FindByRecipient(ctx context.Context, recipient string, limit int) ([]*notification.Notification, error) {
	var recs []notificationRecord
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*notification.Notification, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func (r *GormRepository) Update(ctx context.Context, n *notification.Notification) error {
	rec := toRecord(n)
	result := r.db.WithContext(ctx).
		Model(&notificationRecord{ID: n.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(&rec)
	if result.Error != nil {
		return fmt.Errorf("failed to update notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func toRecord(n *notification.Notification) notificationRecord {
	return notificationRecord{
		ID:            n.ID,
		Type:          string(n.Type),
		Template:      string(n.Template),
		Recipient:     n.Recipient,
		Subject:       n.Subject,
		Body:          n.Body,
		Data:          n.Data,
		Status:        string(n.Status),
		SentAt:        n.SentAt,
		DeliveredAt:   n.DeliveredAt,
		FailureReason: n.FailureReason,
		Metadata:      n.Metadata,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func (r *notificationRecord) toDomain() *notification.Notification {
	return &notification.Notification{
		ID:            r.ID,
		Type:          notification.Type(r.Type),
		Template:      notification.Template(r.Template),
		Recipient:     r.Recipient,
		Subject:       r.Subject,
		Body:          r.Body,
		Data:          r.Data,
		Status:        notification.Status(r.Status),
		SentAt:        r.SentAt,
		DeliveredAt:   r.DeliveredAt,
		FailureReason: r.FailureReason,
		Metadata:      r.Metadata,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
