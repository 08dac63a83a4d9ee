package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/auth"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/database"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/identity"
	"github.com/yukikurage/fest-registration-api/internal/logging"
	"github.com/yukikurage/fest-registration-api/internal/middleware"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"github.com/yukikurage/fest-registration-api/internal/services"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@fest.test"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return "https://cdn.fest.test/" + key, nil
}

func (m *memoryStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.fest.test/" + key + "?signed", nil
}

type handlerEnv struct {
	db     *gorm.DB
	router *gin.Engine
	store  *memoryStore
}

func setupHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	store := &memoryStore{objects: map[string][]byte{}}
	userRepo := repository.NewUserRepository(db, nil)
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	eventService := services.NewEventService(eventRepo, store)
	adminService := services.NewAdminQueryService(registrationRepo, eventService)
	continuation := auth.NewContinuation([]byte("test-secret"), constants.ContinuationTTL)
	responder := NewResponder(logging.Nop(), false)

	set := &Set{
		Auth:    NewAuthHandler(services.NewAuthService(userRepo, []string{testAdminEmail}), responder),
		Profile: NewProfileHandler(services.NewProfileService(userRepo), continuation, responder),
		Events:  NewEventHandler(eventService, adminService, responder),
		Registrations: NewRegistrationHandler(
			services.NewRegistrationService(userRepo, eventRepo, registrationRepo, identity.NewRegistrationIDGenerator(nil)),
			continuation, responder),
		Admin: NewAdminHandler(adminService,
			services.NewPaymentService(registrationRepo, eventRepo),
			services.NewExportService(registrationRepo, store),
			responder),
		Analytics: NewAnalyticsHandler(services.NewAnalyticsService(registrationRepo, eventRepo, userRepo, nil), responder),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.Use(middleware.RequestID(logging.Nop()))
	RegisterRoutes(r, set)

	return &handlerEnv{db: db, router: r, store: store}
}

// do sends a JSON request and returns the recorder.
func (e *handlerEnv) do(t *testing.T, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup creates an account and returns its session cookies.
func (e *handlerEnv) signup(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": "supersecret",
		"name":     "Test User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

// participant signs up and completes the profile.
func (e *handlerEnv) participant(t *testing.T, email, usn string) []*http.Cookie {
	t.Helper()
	cookies := e.signup(t, email)
	w := e.do(t, http.MethodPut, "/api/profile", map[string]any{
		"phone":      "9876543210",
		"college":    "Institute",
		"department": "CSE",
		"usn":        usn,
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return cookies
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireAPIError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) apierrors.APIError {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	apiErr := decode[apierrors.APIError](t, w)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
