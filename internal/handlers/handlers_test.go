package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shebeka_backend/internal/auth"
	"shebeka_backend/internal/imageprocessor"
	"shebeka_backend/internal/middleware"
	"shebeka_backend/internal/models"
	"shebeka_backend/internal/repositories"
	"shebeka_backend/internal/services"
	"shebeka_backend/internal/storage"
	"shebeka_backend/internal/testutil"
	"shebeka_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	files, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	notifications := services.NewNotificationService(notificationRepo, userRepo, nil)
	authService := services.NewAuthService(userRepo, tokens, nil)
	userService := services.NewUserService(userRepo, repositories.NewTransactor(db), files,
		imageprocessor.NewProcessor(85), services.UploadLimits{ResumeMaxSize: 1 << 20, AvatarMaxSize: 1 << 20})

	base := NewBaseHandler(validator.New())
	app := &AppHandlers{
		AuthHandler:         NewAuthHandler(base, authService),
		JobHandler:          NewJobHandler(base, services.NewJobService(jobRepo, userRepo, notifications)),
		ApplicationHandler:  NewApplicationHandler(base, services.NewApplicationService(applicationRepo, jobRepo, userRepo, notifications)),
		NotificationHandler: NewNotificationHandler(base, notifications),
		UserHandler:         NewUserHandler(base, userService),
		UploadHandler:       NewUploadHandler(base, userService, 2<<20),
	}

	router := gin.New()
	app.RegisterRoutes(router.Group("/api/v1"), RouteMiddlewares{
		Auth: middleware.AuthMiddleware(authService),
	})

	return &testAPI{router: router, db: db, tokens: tokens}
}

func (a *testAPI) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := a.tokens.GenerateToken(u.ID, u.Role)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.SendRequest(t, a.router, method, path, body, token)
}

func TestAuthHandlers_RegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Ann Applier", "email": "ann@example.com", "password": "secret123", "role": "APPLIER",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		Message string `json:"message"`
		User    struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	testutil.DecodeJSON(t, w, &registered)
	assert.Equal(t, "User registered successfully", registered.Message)
	assert.Equal(t, "APPLIER", registered.User.Role)

	w = api.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Ann", "email": "bad-email", "password": "1", "role": "ADMIN",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var validation apiError
	testutil.DecodeJSON(t, w, &validation)
	assert.Equal(t, "VALIDATION_FAILED", validation.Error.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ann@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	testutil.DecodeJSON(t, w, &login)
	assert.Equal(t, "Login successful", login.Message)

	w = api.do(t, http.MethodGet, "/api/v1/users/profile", nil, login.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ann@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/notifications", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var e apiError
	testutil.DecodeJSON(t, w, &e)
	assert.Equal(t, "No token, authorization denied", e.Error.Message)

	w = api.do(t, http.MethodGet, "/api/v1/notifications", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	applier := testutil.CreateUser(t, api.db, "Ann Applier", models.UserRoleApplier)
	w = api.do(t, http.MethodPost, "/api/v1/jobs", map[string]string{
		"title": "x", "description": "y", "location": "z",
	}, api.tokenFor(t, applier))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplicationFlow_OverHTTP(t *testing.T) {
	api := newTestAPI(t)

	recruiter := testutil.CreateUser(t, api.db, "Rita Recruiter", models.UserRoleRecruiter)
	applier := testutil.CreateUser(t, api.db, "Ann Applier", models.UserRoleApplier)
	recruiterToken := api.tokenFor(t, recruiter)
	applierToken := api.tokenFor(t, applier)

	w := api.do(t, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
		"title":       "Backend Engineer",
		"description": "Build APIs",
		"location":    "Almaty",
		"category":    "Engineering",
		"tags":        []string{"Go"},
	}, recruiterToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Message string `json:"message"`
		Job     struct {
			ID string `json:"id"`
		} `json:"job"`
	}
	testutil.DecodeJSON(t, w, &created)
	assert.Equal(t, "Job created successfully", created.Message)
	jobID := created.Job.ID

	w = api.do(t, http.MethodGet, "/api/v1/jobs?category=Engineering&limit=5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs       []map[string]interface{} `json:"jobs"`
		Pagination struct {
			Current    int  `json:"current"`
			TotalPages int  `json:"totalPages"`
			Total      int  `json:"total"`
			HasNext    bool `json:"hasNext"`
		} `json:"pagination"`
	}
	testutil.DecodeJSON(t, w, &list)
	assert.Len(t, list.Jobs, 1)
	assert.Equal(t, 1, list.Pagination.TotalPages)
	assert.False(t, list.Pagination.HasNext)

	w = api.do(t, http.MethodPost, "/api/v1/applications/job/"+jobID+"/apply", map[string]string{"coverLetter": "Hi"}, applierToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var applied struct {
		Application struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"application"`
	}
	testutil.DecodeJSON(t, w, &applied)
	assert.Equal(t, "PENDING", applied.Application.Status)
	applicationID := applied.Application.ID

	w = api.do(t, http.MethodPost, "/api/v1/applications/job/"+jobID+"/apply", nil, applierToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/applications/"+applicationID+"/status", map[string]string{"status": "HIRED"}, recruiterToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/applications/"+applicationID+"/status", map[string]string{"status": "ACCEPTED"}, applierToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/applications/"+applicationID+"/status", map[string]string{"status": "ACCEPTED"}, recruiterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/v1/notifications", nil, applierToken)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Message       string `json:"message"`
		UnreadCount   int    `json:"unreadCount"`
		Notifications []struct {
			ID      string `json:"id"`
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"notifications"`
	}
	testutil.DecodeJSON(t, w, &inbox)
	assert.Equal(t, "Notifications fetched successfully", inbox.Message)
	assert.Equal(t, 1, inbox.UnreadCount)
	require.Len(t, inbox.Notifications, 1)
	assert.Contains(t, inbox.Notifications[0].Message, "Congratulations")

	notificationID := inbox.Notifications[0].ID
	w = api.do(t, http.MethodPut, "/api/v1/notifications/"+notificationID+"/read", nil, recruiterToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(t, http.MethodPut, "/api/v1/notifications/"+notificationID+"/read", nil, applierToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/applications/stats", nil, recruiterToken)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Stats struct {
			Total    int            `json:"total"`
			ByStatus map[string]int `json:"byStatus"`
		} `json:"stats"`
	}
	testutil.DecodeJSON(t, w, &stats)
	assert.Equal(t, 1, stats.Stats.Total)
	assert.Equal(t, 1, stats.Stats.ByStatus["ACCEPTED"])

	w = api.do(t, http.MethodPut, "/api/v1/applications/"+applicationID+"/withdraw", nil, applierToken)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSystemAlert_AdminOnly(t *testing.T) {
	api := newTestAPI(t)

	admin := testutil.CreateUser(t, api.db, "Root Admin", models.UserRoleAdmin)
	applier := testutil.CreateUser(t, api.db, "Ann Applier", models.UserRoleApplier)
	body := map[string]interface{}{"userIds": []string{applier.ID}, "title": "Maintenance", "message": "Tonight"}

	w := api.do(t, http.MethodPost, "/api/v1/notifications/system", body, api.tokenFor(t, applier))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/notifications/system", body, api.tokenFor(t, admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/v1/notifications/stats", nil, api.tokenFor(t, applier))
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Stats struct {
			Total  int            `json:"total"`
			ByType map[string]int `json:"byType"`
		} `json:"stats"`
	}
	testutil.DecodeJSON(t, w, &stats)
	assert.Equal(t, 1, stats.Stats.Total)
	assert.Equal(t, 1, stats.Stats.ByType["SYSTEM_ALERT"])
}

func TestUserHandlers_SkillsAndPublicProfile(t *testing.T) {
	api := newTestAPI(t)

	applier := testutil.CreateUser(t, api.db, "Ann Applier", models.UserRoleApplier)
	recruiter := testutil.CreateUser(t, api.db, "Rita Recruiter", models.UserRoleRecruiter)
	token := api.tokenFor(t, applier)

	w := api.do(t, http.MethodPost, "/api/v1/users/skills", map[string]string{"skill": "Go"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(t, http.MethodPost, "/api/v1/users/skills", map[string]string{"skill": "Go"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/users/resume", map[string]string{"resumeUrl": ""}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/users/public/"+applier.ID, nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/users/public/"+applier.ID, nil, api.tokenFor(t, recruiter))
	require.Equal(t, http.StatusOK, w.Code)
	var public struct {
		User struct {
			Skills []string `json:"skills"`
		} `json:"user"`
	}
	testutil.DecodeJSON(t, w, &public)
	assert.Equal(t, []string{"Go"}, public.User.Skills)

	w = api.do(t, http.MethodDelete, "/api/v1/users/skills/Go", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUploadHandler_Resume(t *testing.T) {
	api := newTestAPI(t)
	applier := testutil.CreateUser(t, api.db, "Ann Applier", models.UserRoleApplier)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/resume/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+api.tokenFor(t, applier))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		URL string `json:"url"`
	}
	testutil.DecodeJSON(t, w, &resp)
	assert.Contains(t, resp.URL, "/uploads/resumes/"+applier.ID+"/")

	w = api.do(t, http.MethodPost, "/api/v1/users/resume/upload", nil, api.tokenFor(t, applier))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
