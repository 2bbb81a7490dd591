package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shebeka_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBulk(ctx context.Context, notifications []*models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	FindUserNotifications(ctx context.Context, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
	GetUserNotificationStats(ctx context.Context, userID string) (*NotificationStats, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

type NotificationCriteria struct {
	UnreadOnly bool
	Page       int
	Limit      int
}

type NotificationStats struct {
	Total  int64
	Unread int64
	Read   int64
	ByType map[models.NotificationType]int64
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	if err := validateNotification(notification); err != nil {
		return err
	}
	return conn(ctx, r.db).Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBulk(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if err := validateNotification(n); err != nil {
			return err
		}
	}
	return conn(ctx, r.db).CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := conn(ctx, r.db).First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(ctx context.Context, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := conn(ctx, r.db).Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.Limit).
		Offset(offset(criteria.Page, criteria.Limit)).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result := conn(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) GetUserNotificationStats(ctx context.Context, userID string) (*NotificationStats, error) {
	stats := &NotificationStats{ByType: make(map[models.NotificationType]int64)}

	var typeStats []struct {
		Type   models.NotificationType
		Count  int64
		Unread int64
	}

	err := conn(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Select("type, COUNT(*) AS count, SUM(CASE WHEN is_read THEN 0 ELSE 1 END) AS unread").
		Group("type").
		Scan(&typeStats).Error
	if err != nil {
		return nil, err
	}

	for _, ts := range typeStats {
		stats.ByType[ts.Type] = ts.Count
		stats.Total += ts.Count
		stats.Unread += ts.Unread
	}
	stats.Read = stats.Total - stats.Unread

	return stats, nil
}

func validateNotification(n *models.Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidNotificationData)
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidNotificationData, n.Type)
	}
	if n.Title == "" || n.Message == "" {
		return fmt.Errorf("%w: title and message are required", ErrInvalidNotificationData)
	}
	return nil
}
