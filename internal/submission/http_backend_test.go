package submission

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skynix/contact-service/internal/domain"
)

func startServer(t *testing.T, register func(app *fiber.App)) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	register(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func liveRoute(app *fiber.App) {
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
}

func TestHTTPBackend_SubmitContact(t *testing.T) {
	var received map[string]any
	baseURL := startServer(t, func(app *fiber.App) {
		liveRoute(app)
		app.Post("/api/submissions", func(c *fiber.Ctx) error {
			if err := json.Unmarshal(c.Body(), &received); err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": 42}})
		})
	})

	backend, err := HTTPConnector{BaseURL: baseURL, Timeout: 2 * time.Second}.Connect(context.Background())
	require.NoError(t, err)

	id, err := backend.SubmitContact(context.Background(), SubmitRequest{
		Name:        "Jordan Lee",
		Email:       "jordan@acme.io",
		PhoneNumber: domain.Absent[string](),
		CompanyName: domain.Present("Acme"),
		Message:     "We need a new platform built.",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	assert.Equal(t, "Jordan Lee", received["name"])
	assert.Contains(t, received, "phoneNumber")
	assert.Nil(t, received["phoneNumber"])
	assert.Equal(t, "Acme", received["companyName"])
}

func TestHTTPBackend_ErrorStatusBecomesTransportError(t *testing.T) {
	baseURL := startServer(t, func(app *fiber.App) {
		liveRoute(app)
		app.Post("/api/submissions", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fiber.Map{"code": "INTERNAL_ERROR", "message": "internal server error"},
			})
		})
	})

	backend, err := HTTPConnector{BaseURL: baseURL}.Connect(context.Background())
	require.NoError(t, err)

	_, err = backend.SubmitContact(context.Background(), SubmitRequest{Name: "x"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, fiber.StatusInternalServerError, te.Status)
	assert.Contains(t, te.Error(), "INTERNAL_ERROR")
}

func TestHTTPConnector_UnreachableBackend(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = HTTPConnector{BaseURL: "http://" + addr, Timeout: time.Second}.Connect(context.Background())
	assert.True(t, IsTransport(err))
}

func TestHTTPConnector_RequiresBaseURL(t *testing.T) {
	_, err := HTTPConnector{}.Connect(context.Background())
	assert.Error(t, err)
}

func TestHTTPBackend_AdminListingUsesToken(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	baseURL := startServer(t, func(app *fiber.App) {
		liveRoute(app)
		app.Post("/auth/admin/login", func(c *fiber.Ctx) error {
			var body map[string]string
			if err := json.Unmarshal(c.Body(), &body); err != nil {
				return err
			}
			if body["email"] != "admin@skynix.com" || body["password"] != "s3cret" {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			return c.JSON(fiber.Map{"data": fiber.Map{"token": "tok-123", "expires_at": ts}})
		})
		guard := func(c *fiber.Ctx) error {
			if c.Get(fiber.HeaderAuthorization) != "Bearer tok-123" {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			return c.Next()
		}
		app.Get("/api/admin/submissions", guard, func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"data": []fiber.Map{
				{"id": 2, "name": "B", "email": "b@x.io", "message": "second message", "phoneNumber": nil, "companyName": "Acme", "timestamp": ts},
				{"id": 1, "name": "A", "email": "a@x.io", "message": "first message", "timestamp": ts},
			}})
		})
		app.Get("/api/admin/submissions/:id", guard, func(c *fiber.Ctx) error {
			if c.Params("id") != "1" {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": fiber.Map{"code": "NOT_FOUND", "message": "submission not found"},
				})
			}
			return c.JSON(fiber.Map{"data": fiber.Map{"id": 1, "name": "A", "email": "a@x.io", "message": "first message", "timestamp": ts}})
		})
	})

	backend, err := HTTPConnector{
		BaseURL:       baseURL + "/",
		AdminEmail:    "admin@skynix.com",
		AdminPassword: "s3cret",
	}.Connect(context.Background())
	require.NoError(t, err)

	items, err := backend.GetAllSubmissions(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.False(t, items[0].PhoneNumber.IsPresent())
	assert.Equal(t, domain.Present("Acme"), items[0].CompanyName)
	assert.True(t, items[1].Timestamp.Equal(ts))

	one, err := backend.GetSubmission(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "A", one.Name)

	_, err = backend.GetSubmission(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPConnector_BadCredentials(t *testing.T) {
	baseURL := startServer(t, func(app *fiber.App) {
		liveRoute(app)
		app.Post("/auth/admin/login", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"code": "UNAUTHORIZED", "message": "invalid credentials"},
			})
		})
	})

	_, err := HTTPConnector{BaseURL: baseURL, AdminEmail: "a@b.co", AdminPassword: "nope"}.Connect(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "login", te.Op)
	assert.Equal(t, fiber.StatusUnauthorized, te.Status)
}

func TestHTTPBackend_CancelledContext(t *testing.T) {
	b := &HTTPBackend{baseURL: "http://127.0.0.1:1", timeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.SubmitContact(ctx, SubmitRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
