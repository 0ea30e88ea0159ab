package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skynix/contact-service/internal/api/http/handlers"
	"github.com/skynix/contact-service/internal/auth"
	"github.com/skynix/contact-service/internal/cache"
	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/events"
	"github.com/skynix/contact-service/internal/observability"
	"github.com/skynix/contact-service/internal/queue"
	"github.com/skynix/contact-service/internal/repository"
	"github.com/skynix/contact-service/internal/service"
)

const adminPassword = "correct horse"

type testServer struct {
	app *fiber.App
	mr  *miniredis.Miniredis
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, mutate func(cfg *config.Config, health map[string]handlers.Pinger)) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := auth.HashPassword(adminPassword, bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "contact-test", Version: "test", RequestTimeoutSeconds: 5},
		Auth:      config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, AdminEmail: "admin@skynix.com", AdminPasswordHash: hash},
		RateLimit: config.RateLimitConfig{MaxSubmissions: 100, Window: time.Minute},
		Redis:     config.RedisConfig{NotificationQueue: "contact:notifications"},
	}
	health := map[string]handlers.Pinger{"redis": pingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })}
	if mutate != nil {
		mutate(cfg, health)
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, queue.NewPublisher(rdb, cfg.Redis.NotificationQueue, logger), logger, cfg.Notification).RegisterHandlers()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	app := NewServer(ServerDependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Submissions: service.NewSubmissionService(service.SubmissionDependencies{
			Repo:       repository.NewMemorySubmissionRepository(),
			Cache:      cache.NewSubmissionCache(rdb, time.Minute),
			Dispatcher: dispatcher,
			Metrics:    metrics,
			Logger:     logger,
		}),
		Auth:   service.NewAuthService(cfg.Auth, tokens),
		Tokens: tokens,
		Health: health,
	})
	return &testServer{app: app, mr: mr}
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (*nethttp.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	resp, raw := s.do(t, nethttp.MethodPost, "/auth/admin/login",
		`{"email":"admin@skynix.com","password":"`+adminPassword+`"}`, "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
	var out struct {
		Data struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Data.Token)
	assert.True(t, out.Data.ExpiresAt.After(time.Now()))
	return out.Data.Token
}

const validSubmission = `{"name":" Jordan Lee ","email":"jordan@acme.io","phoneNumber":null,"companyName":"Acme","message":"We need a new platform built."}`

func TestServer_SubmitAndRead(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, nethttp.MethodPost, "/api/submissions", validSubmission, "")
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"data":{"id":1}}`, string(raw))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	token := s.login(t)

	resp, raw = s.do(t, nethttp.MethodGet, "/api/admin/submissions", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Jordan Lee", list.Data[0]["name"])
	assert.Nil(t, list.Data[0]["phoneNumber"])
	assert.Equal(t, "Acme", list.Data[0]["companyName"])

	resp, raw = s.do(t, nethttp.MethodGet, "/api/admin/submissions/1", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"email":"jordan@acme.io"`)

	items, err := s.mr.List("contact:notifications")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestServer_SubmitValidationFailed(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, nethttp.MethodPost, "/api/submissions", `{"name":"","email":"x","message":"hi"}`, "")
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, map[string]any{
		"name":    "required",
		"email":   "invalid format",
		"message": "too short",
	}, body.Error.Details)
}

func TestServer_SubmitTooLong(t *testing.T) {
	s := newTestServer(t, nil)

	payload := `{"name":"` + strings.Repeat("a", 201) + `","email":"a@b.co","message":"long enough message"}`
	resp, raw := s.do(t, nethttp.MethodPost, "/api/submissions", payload, "")
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "too long", body.Error.Details["name"])
}

func TestServer_SubmitOptionalFieldsTooLong(t *testing.T) {
	s := newTestServer(t, nil)

	payload := `{"name":"Jordan","email":"a@b.co","message":"long enough message",` +
		`"phoneNumber":"` + strings.Repeat("1", 51) + `","companyName":"` + strings.Repeat("c", 201) + `"}`
	resp, raw := s.do(t, nethttp.MethodPost, "/api/submissions", payload, "")
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode, string(raw))

	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, map[string]any{"phoneNumber": "too long", "companyName": "too long"}, body.Error.Details)

	payload = `{"name":"Jordan","email":"a@b.co","message":"long enough message",` +
		`"phoneNumber":"` + strings.Repeat("1", 50) + `","companyName":null}`
	resp, raw = s.do(t, nethttp.MethodPost, "/api/submissions", payload, "")
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(raw))
}

func TestServer_SubmitMalformedJSON(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, nethttp.MethodPost, "/api/submissions", `{"name":`, "")
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "invalid payload")
}

func TestServer_RateLimited(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config, _ map[string]handlers.Pinger) {
		cfg.RateLimit = config.RateLimitConfig{MaxSubmissions: 2, Window: time.Minute}
	})

	for i := 0; i < 2; i++ {
		resp, _ := s.do(t, nethttp.MethodPost, "/api/submissions", validSubmission, "")
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	}
	resp, raw := s.do(t, nethttp.MethodPost, "/api/submissions", validSubmission, "")
	assert.Equal(t, nethttp.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(raw), "RATE_LIMITED")
}

func TestServer_AdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, nethttp.MethodGet, "/api/admin/submissions", "", "")
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "UNAUTHORIZED")

	resp, _ = s.do(t, nethttp.MethodGet, "/api/admin/submissions", "", "not-a-jwt")
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestServer_GetUnknownAndInvalidID(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	resp, raw := s.do(t, nethttp.MethodGet, "/api/admin/submissions/99", "", token)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)

	resp, _ = s.do(t, nethttp.MethodGet, "/api/admin/submissions/abc", "", token)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestServer_LoginRejected(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.do(t, nethttp.MethodPost, "/auth/admin/login", `{"email":"admin@skynix.com","password":"nope"}`, "")
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp, raw := s.do(t, nethttp.MethodPost, "/auth/admin/login", `{"email":"not-an-email"}`, "")
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "invalid format", body.Error.Details["email"])
	assert.Equal(t, "required", body.Error.Details["password"])
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.do(t, nethttp.MethodGet, "/health/live", "", "")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, raw := s.do(t, nethttp.MethodGet, "/health/ready", "", "")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"redis":"ok"`)
}

func TestServer_HealthNotReady(t *testing.T) {
	s := newTestServer(t, func(_ *config.Config, health map[string]handlers.Pinger) {
		health["postgres"] = pingFunc(func(context.Context) error { return errors.New("postgres not configured") })
	})

	resp, raw := s.do(t, nethttp.MethodGet, "/health/ready", "", "")
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(raw), "DEPENDENCY_UNAVAILABLE")
}

func TestServer_MetricsAndUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.do(t, nethttp.MethodGet, "/nope", "", "")
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	_, _ = s.do(t, nethttp.MethodPost, "/api/submissions", validSubmission, "")
	resp, raw := s.do(t, nethttp.MethodGet, "/metrics", "", "")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `contact_submissions_total{result="created"} 1`)
}
