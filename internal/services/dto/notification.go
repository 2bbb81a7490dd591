package dto

import "time"

// ---------------- Requests ----------------

type SystemAlertRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,max=1000,dive,required"`
	Title   string   `json:"title" validate:"notblank,max=100"`
	Message string   `json:"message" validate:"notblank,max=2000"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"userId"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	RelatedID   *string                `json:"relatedId,omitempty"`
	RelatedType *string                `json:"relatedType,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
	IsRead      bool                   `json:"isRead"`
	ReadAt      *time.Time             `json:"readAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

type NotificationListResponse struct {
	Message       string                  `json:"message"`
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unreadCount"`
	Pagination    Pagination              `json:"pagination"`
}

type NotificationStatsResponse struct {
	Total  int64            `json:"total"`
	Unread int64            `json:"unread"`
	Read   int64            `json:"read"`
	ByType map[string]int64 `json:"byType"`
}

type NotificationMessageResponse struct {
	Message      string                `json:"message"`
	Notification *NotificationResponse `json:"notification"`
}

type NotificationStatsMessageResponse struct {
	Message string                     `json:"message"`
	Stats   *NotificationStatsResponse `json:"stats"`
}

type MarkAllReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type SystemAlertResponse struct {
	Message string `json:"message"`
	Sent    int    `json:"sent"`
}

// ---------------- Criteria ----------------

// NotificationCriteria - фильтр списка уведомлений пользователя
type NotificationCriteria struct {
	Page       int
	Limit      int
	UnreadOnly bool
}
