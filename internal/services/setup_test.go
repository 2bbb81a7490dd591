package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/email"
	"shebeka_backend/internal/imageprocessor"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/storage"
	"shebeka_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPusher запоминает события вместо websocket
type recordingPusher struct {
	mu     sync.Mutex
	events map[string][]PushEvent
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{events: make(map[string][]PushEvent)}
}

func (p *recordingPusher) PushToUser(userID string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[userID] = append(p.events[userID], event.(PushEvent))
	return nil
}

func (p *recordingPusher) For(userID string) []PushEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[userID]
}

// failingNotificationRepo - хранилище уведомлений, которое всегда падает на запись
type failingNotificationRepo struct {
	repositories.NotificationRepository
}

var errNotificationStoreDown = errors.New("notification store unavailable")

func (failingNotificationRepo) Create(context.Context, *models.Notification) error {
	return errNotificationStoreDown
}

func (failingNotificationRepo) CreateBulk(context.Context, []*models.Notification) error {
	return errNotificationStoreDown
}

type testEnv struct {
	db            *gorm.DB
	pusher        *recordingPusher
	tokens        *auth.TokenManager
	storage       *storage.LocalStorage
	auth          AuthService
	jobs          JobService
	applications  ApplicationService
	notifications NotificationService
	users         UserService
}

type envOption func(*envConfig)

type envConfig struct {
	notificationRepo func(db *gorm.DB) repositories.NotificationRepository
}

func withNotificationRepo(f func(db *gorm.DB) repositories.NotificationRepository) envOption {
	return func(c *envConfig) { c.notificationRepo = f }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{notificationRepo: repositories.NewNotificationRepository}
	for _, o := range opts {
		o(&cfg)
	}

	db := testutil.NewTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	notificationRepo := cfg.notificationRepo(db)

	files, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	renderer, err := email.NewTemplateManager()
	require.NoError(t, err)

	pusher := newRecordingPusher()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	notifications := NewNotificationService(notificationRepo, userRepo, pusher)

	return &testEnv{
		db:            db,
		pusher:        pusher,
		tokens:        tokens,
		storage:       files,
		auth:          NewAuthService(userRepo, tokens, email.NewLogProvider(renderer)),
		jobs:          NewJobService(jobRepo, userRepo, notifications),
		applications:  NewApplicationService(applicationRepo, jobRepo, userRepo, notifications),
		notifications: notifications,
		users: NewUserService(userRepo, repositories.NewTransactor(db), files, imageprocessor.NewProcessor(85), UploadLimits{
			ResumeMaxSize: 1 << 20,
			AvatarMaxSize: 1 << 20,
		}),
	}
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Role: u.Role}
}

func (e *testEnv) notificationsOf(t *testing.T, userID string) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, e.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error)
	return list
}
