package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skynix/contact-service/internal/domain"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPConnector connects to the contact service over HTTP. When admin
// credentials are set it logs in so the listing endpoints can be used.
type HTTPConnector struct {
	BaseURL       string
	AdminEmail    string
	AdminPassword string
	Timeout       time.Duration
}

// Connect checks liveness and, if configured, obtains an admin token.
func (c HTTPConnector) Connect(ctx context.Context) (Backend, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("base url not configured")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	b := &HTTPBackend{baseURL: strings.TrimRight(c.BaseURL, "/"), timeout: timeout}

	if err := b.do(ctx, "connect", fiber.Get(b.url("/health/live")), nil); err != nil {
		return nil, err
	}

	if c.AdminEmail != "" {
		var out struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		agent := fiber.Post(b.url("/auth/admin/login")).JSON(map[string]string{
			"email":    c.AdminEmail,
			"password": c.AdminPassword,
		})
		if err := b.do(ctx, "login", agent, &out); err != nil {
			return nil, err
		}
		b.token = out.Token
	}
	return b, nil
}

// HTTPBackend implements Backend against the contact service HTTP API.
type HTTPBackend struct {
	baseURL string
	token   string
	timeout time.Duration
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SubmitContact POST /api/submissions.
func (b *HTTPBackend) SubmitContact(ctx context.Context, req SubmitRequest) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := b.do(ctx, "submit", fiber.Post(b.url("/api/submissions")).JSON(req), &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// GetAllSubmissions GET /api/admin/submissions.
func (b *HTTPBackend) GetAllSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	var out []domain.ContactSubmission
	if err := b.do(ctx, "list", b.authorized(fiber.Get(b.url("/api/admin/submissions"))), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSubmission GET /api/admin/submissions/:id.
func (b *HTTPBackend) GetSubmission(ctx context.Context, id int64) (domain.ContactSubmission, error) {
	var out domain.ContactSubmission
	path := "/api/admin/submissions/" + strconv.FormatInt(id, 10)
	if err := b.do(ctx, "get", b.authorized(fiber.Get(b.url(path))), &out); err != nil {
		return domain.ContactSubmission{}, err
	}
	return out, nil
}

func (b *HTTPBackend) url(path string) string {
	return b.baseURL + path
}

func (b *HTTPBackend) authorized(a *fiber.Agent) *fiber.Agent {
	if b.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+b.token)
	}
	return a
}

// do runs the request and decodes the "data" member of the response into out.
func (b *HTTPBackend) do(ctx context.Context, op string, a *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return &TransportError{Op: op, Err: err}
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	a.Timeout(timeout)

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return &TransportError{Op: op, Err: errors.Join(errs...)}
	}

	var env envelope
	var decodeErr error
	if len(body) > 0 {
		decodeErr = json.Unmarshal(body, &env)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		if status == http.StatusNotFound && op == "get" {
			return ErrNotFound
		}
		cause := errors.New(http.StatusText(status))
		if decodeErr == nil && env.Error != nil {
			cause = fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return &TransportError{Op: op, Status: status, Err: cause}
	}
	if decodeErr != nil {
		return &TransportError{Op: op, Status: status, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Status: status, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
