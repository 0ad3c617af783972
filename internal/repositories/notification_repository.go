package repositories

import (
	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Rows are append-only; the read flag is the only mutable field.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID string) ([]models.Notification, error)
	GetUnreadCount(recipientID string) (int64, error)
	// MarkRead marks the given ids read for the recipient. Ids already read
	// or owned by someone else are left untouched; repeating the call is a
	// no-op.
	MarkRead(recipientID string, notificationIDs []string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", recipientID).
		Preload("Sender").
		Preload("Post.Author").
		Preload("Comment.Author").
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = false", recipientID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkRead(recipientID string, notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND user_id = ?", notificationIDs, recipientID).
		Update("read", true).Error
}
