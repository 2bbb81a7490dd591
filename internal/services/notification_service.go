package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services/dto"
	"shebeka_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// Pusher доставляет событие всем активным соединениям пользователя (websocket hub)
type Pusher interface {
	PushToUser(userID string, event interface{}) error
}

// PushEvent - формат сообщения в websocket
type PushEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type NotificationService interface {
	// Fan-out: ошибки логируются и не возвращаются
	NotifyApplicationStatus(ctx context.Context, application *models.Application, jobTitle string) *dto.NotificationResponse
	NotifyNewJobMatch(ctx context.Context, job *models.Job, company string, userIDs []string) int
	NotifyInterviewInvite(ctx context.Context, application *models.Application, jobTitle, date string) *dto.NotificationResponse
	NotifyJobExpiring(ctx context.Context, job *models.Job, now time.Time) *dto.NotificationResponse
	SendSystemAlert(ctx context.Context, req *dto.SystemAlertRequest) (*dto.SystemAlertResponse, error)

	// Recipient operations
	GetUserNotifications(ctx context.Context, userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	GetUserNotificationStats(ctx context.Context, userID string) (*dto.NotificationStatsResponse, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pusher           Pusher
}

// NewNotificationService; pusher может быть nil, тогда уведомления только сохраняются
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	pusher Pusher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
	}
}

// ---------------- Fan-out ----------------

func (s *notificationService) NotifyApplicationStatus(ctx context.Context, application *models.Application, jobTitle string) *dto.NotificationResponse {
	return s.dispatch(ctx, models.NotificationApplicationUpdate, application.ApplierID, application.ID,
		templateParams{JobTitle: jobTitle, Status: application.Status},
		map[string]interface{}{
			"status":        application.Status,
			"jobTitle":      jobTitle,
			"jobId":         application.JobID,
			"applicationId": application.ID,
		},
	)
}

func (s *notificationService) NotifyInterviewInvite(ctx context.Context, application *models.Application, jobTitle, date string) *dto.NotificationResponse {
	return s.dispatch(ctx, models.NotificationInterviewInvite, application.ApplierID, application.JobID,
		templateParams{JobTitle: jobTitle, Date: date},
		map[string]interface{}{
			"jobTitle":      jobTitle,
			"applicationId": application.ID,
			"interviewDate": date,
		},
	)
}

func (s *notificationService) NotifyJobExpiring(ctx context.Context, job *models.Job, now time.Time) *dto.NotificationResponse {
	daysLeft := 1
	if job.ExpiresAt != nil {
		if d := int(math.Ceil(job.ExpiresAt.Sub(now).Hours() / 24)); d > 1 {
			daysLeft = d
		}
	}
	return s.dispatch(ctx, models.NotificationJobExpiring, job.RecruiterID, job.ID,
		templateParams{JobTitle: job.Title, DaysLeft: daysLeft},
		map[string]interface{}{
			"jobTitle":  job.Title,
			"expiresAt": job.ExpiresAt,
		},
	)
}

// NotifyNewJobMatch создает уведомления пачкой; возвращает число созданных
func (s *notificationService) NotifyNewJobMatch(ctx context.Context, job *models.Job, company string, userIDs []string) int {
	if len(userIDs) == 0 {
		return 0
	}

	params := templateParams{JobTitle: job.Title, Company: company}
	data := marshalData(ctx, map[string]interface{}{"jobTitle": job.Title, "company": company})

	batch := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		n, err := renderNotification(models.NotificationNewJobMatch, userID, job.ID, params)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to render notification", err, "type", models.NotificationNewJobMatch)
			return 0
		}
		n.Data = data
		batch = append(batch, n)
	}

	if err := s.notificationRepo.CreateBulk(ctx, batch); err != nil {
		logger.CtxWithError(ctx, "Failed to create job match notifications", err, "job_id", job.ID, "recipients", len(batch))
		return 0
	}

	for _, n := range batch {
		s.push(ctx, n)
	}
	return len(batch)
}

func (s *notificationService) SendSystemAlert(ctx context.Context, req *dto.SystemAlertRequest) (*dto.SystemAlertResponse, error) {
	userIDs := uniqueStrings(req.UserIDs)

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(users) == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	params := templateParams{Title: strings.TrimSpace(req.Title), Message: strings.TrimSpace(req.Message)}
	batch := make([]*models.Notification, 0, len(users))
	for _, u := range users {
		n, err := renderNotification(models.NotificationSystemAlert, u.ID, "", params)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		batch = append(batch, n)
	}

	if err := s.notificationRepo.CreateBulk(ctx, batch); err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, n := range batch {
		s.push(ctx, n)
	}

	logger.CtxInfo(ctx, "System alert sent", "recipients", len(batch))
	return &dto.SystemAlertResponse{Message: "System alert sent", Sent: len(batch)}, nil
}

// dispatch - общий путь одиночного уведомления: шаблон, запись, push
func (s *notificationService) dispatch(
	ctx context.Context,
	kind models.NotificationType,
	userID, relatedID string,
	params templateParams,
	data map[string]interface{},
) *dto.NotificationResponse {
	n, err := renderNotification(kind, userID, relatedID, params)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to render notification", err, "type", kind)
		return nil
	}
	n.Data = marshalData(ctx, data)

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.CtxWithError(ctx, "Failed to create notification", err,
			"type", kind,
			"recipient_id", userID,
			"related_id", relatedID,
		)
		return nil
	}

	return s.push(ctx, n)
}

func (s *notificationService) push(ctx context.Context, n *models.Notification) *dto.NotificationResponse {
	resp := buildNotificationResponse(n)
	if s.pusher == nil {
		return resp
	}
	if err := s.pusher.PushToUser(n.UserID, PushEvent{Type: "notification", Data: resp}); err != nil {
		logger.CtxWithError(ctx, "Failed to push notification", err, "recipient_id", n.UserID, "notification_id", n.ID)
	}
	return resp
}

func marshalData(ctx context.Context, data map[string]interface{}) datatypes.JSON {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to marshal notification data", err)
		return nil
	}
	return datatypes.JSON(raw)
}

// ---------------- Recipient operations ----------------

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	page, limit := normalizePage(criteria.Page, criteria.Limit, defaultNotificationLimit, maxNotificationLimit)

	notifications, total, err := s.notificationRepo.FindUserNotifications(ctx, userID, repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Pagination:    dto.NewPagination(page, limit, total),
	}, nil
}

func (s *notificationService) findOwned(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if n.UserID != userID {
		return nil, apperrors.ErrNotResourceOwner
	}
	return n, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.findOwned(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	if err := s.notificationRepo.MarkAsRead(ctx, n.ID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return updated, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	n, err := s.findOwned(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(ctx, n.ID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetUserNotificationStats(ctx context.Context, userID string) (*dto.NotificationStatsResponse, error) {
	stats, err := s.notificationRepo.GetUserNotificationStats(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	byType := make(map[string]int64, len(stats.ByType))
	for t, count := range stats.ByType {
		byType[string(t)] = count
	}

	return &dto.NotificationStatsResponse{
		Total:  stats.Total,
		Unread: stats.Unread,
		Read:   stats.Read,
		ByType: byType,
	}, nil
}
