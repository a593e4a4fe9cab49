package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/analysis"
	"github.com/scorelens/scoreboard-gateway/internal/credential"
	"github.com/scorelens/scoreboard-gateway/internal/rate"
)

// --- Mock Service ---

type mockService struct {
	setCredentialFn    func(ctx context.Context, raw string) error
	clearCredentialFn  func(ctx context.Context) error
	rotateCredentialFn func(ctx context.Context) error
	analyzeFn          func(ctx context.Context, image []byte) (*analysis.Result, error)
	statusFn           func(ctx context.Context) credential.Status
	canCallNow         bool
}

func (m *mockService) SetCredential(ctx context.Context, raw string) error {
	if m.setCredentialFn != nil {
		return m.setCredentialFn(ctx, raw)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockService) ClearCredential(ctx context.Context) error {
	if m.clearCredentialFn != nil {
		return m.clearCredentialFn(ctx)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockService) RotateCredential(ctx context.Context) error {
	if m.rotateCredentialFn != nil {
		return m.rotateCredentialFn(ctx)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockService) Analyze(ctx context.Context, image []byte) (*analysis.Result, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, image)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockService) Status(ctx context.Context) credential.Status {
	if m.statusFn != nil {
		return m.statusFn(ctx)
	}
	return credential.Status{}
}

func (m *mockService) CanCallNow() bool {
	return m.canCallNow
}

// --- Test Helpers ---

func newTestApp(svc Service) *fiber.App {
	app := fiber.New()
	handler := NewGatewayHandler(zap.NewNop(), svc)
	v1 := app.Group("/api/v1")
	v1.Put("/credential", handler.SetCredentialHandler)
	v1.Delete("/credential", handler.ClearCredentialHandler)
	v1.Post("/credential/rotate", handler.RotateCredentialHandler)
	v1.Get("/status", handler.StatusHandler)
	v1.Post("/analyze", handler.AnalyzeHandler)
	return app
}

func jsonRequest(method, path, body string) *http.Request {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var result ErrorResponse
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &result))
	return result
}

func intPtr(n int) *int { return &n }

// --- SetCredentialHandler Tests ---

func TestSetCredentialHandler_Success(t *testing.T) {
	var stored string
	svc := &mockService{
		setCredentialFn: func(ctx context.Context, raw string) error {
			stored = raw
			return nil
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPut, "/api/v1/credential", `{"key": "sk-ant-REDACTED"}`)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "sk-ant-REDACTED", stored)
}

func TestSetCredentialHandler_InvalidJSON(t *testing.T) {
	app := newTestApp(&mockService{})

	req := jsonRequest(http.MethodPut, "/api/v1/credential", "{invalid")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetCredentialHandler_MissingKey(t *testing.T) {
	app := newTestApp(&mockService{})

	req := jsonRequest(http.MethodPut, "/api/v1/credential", `{"key": ""}`)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Error, "key is required")
}

func TestSetCredentialHandler_MalformedKey(t *testing.T) {
	svc := &mockService{
		setCredentialFn: func(ctx context.Context, raw string) error {
			return fmt.Errorf("%w: unexpected prefix", credential.ErrInvalidFormat)
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPut, "/api/v1/credential", `{"key": "pk-wrong-prefix-0000000000"}`)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetCredentialHandler_StoreUnavailable(t *testing.T) {
	svc := &mockService{
		setCredentialFn: func(ctx context.Context, raw string) error {
			return credential.ErrStoreUnavailable
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPut, "/api/v1/credential", `{"key": "sk-ant-REDACTED"}`)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

// --- ClearCredentialHandler Tests ---

func TestClearCredentialHandler_Success(t *testing.T) {
	svc := &mockService{
		clearCredentialFn: func(ctx context.Context) error { return nil },
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodDelete, "/api/v1/credential", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

// --- RotateCredentialHandler Tests ---

func TestRotateCredentialHandler_NothingStored(t *testing.T) {
	svc := &mockService{
		rotateCredentialFn: func(ctx context.Context) error {
			return credential.ErrItemNotFound
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/credential/rotate", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRotateCredentialHandler_Success(t *testing.T) {
	svc := &mockService{
		rotateCredentialFn: func(ctx context.Context) error { return nil },
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/credential/rotate", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

// --- AnalyzeHandler Tests ---

func analyzeBody(image []byte) string {
	return fmt.Sprintf(`{"image": %q}`, base64.StdEncoding.EncodeToString(image))
}

func TestAnalyzeHandler_Success(t *testing.T) {
	clock := "10:32"
	svc := &mockService{
		analyzeFn: func(ctx context.Context, image []byte) (*analysis.Result, error) {
			assert.Equal(t, []byte("fake-png"), image)
			return &analysis.Result{
				HomeTeam:   &analysis.TeamScore{Score: intPtr(85)},
				AwayTeam:   &analysis.TeamScore{Score: intPtr(78)},
				Period:     intPtr(3),
				Clock:      &clock,
				Confidence: 0.95,
			}, nil
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", analyzeBody([]byte("fake-png")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result analysis.Result
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.Equal(t, 85, *result.HomeTeam.Score)
	assert.Equal(t, 78, *result.AwayTeam.Score)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestAnalyzeHandler_MissingImage(t *testing.T) {
	app := newTestApp(&mockService{})

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", `{}`)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Error, "image is required")
}

func TestAnalyzeHandler_NotBase64(t *testing.T) {
	app := newTestApp(&mockService{})

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", `{"image": "not%%base64!"}`)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Error, "base64")
}

func TestAnalyzeHandler_NoCredential(t *testing.T) {
	svc := &mockService{
		analyzeFn: func(ctx context.Context, image []byte) (*analysis.Result, error) {
			return nil, analysis.ErrNoCredential
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", analyzeBody([]byte("img")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAnalyzeHandler_RateLimited(t *testing.T) {
	svc := &mockService{
		analyzeFn: func(ctx context.Context, image []byte) (*analysis.Result, error) {
			return nil, rate.ErrLimitExceeded
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", analyzeBody([]byte("img")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestAnalyzeHandler_UpstreamOutage(t *testing.T) {
	svc := &mockService{
		analyzeFn: func(ctx context.Context, image []byte) (*analysis.Result, error) {
			return nil, &analysis.UnexpectedStatusError{Code: 503}
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", analyzeBody([]byte("img")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestAnalyzeHandler_TransportFailure(t *testing.T) {
	svc := &mockService{
		analyzeFn: func(ctx context.Context, image []byte) (*analysis.Result, error) {
			return nil, &analysis.TransportError{Err: fmt.Errorf("connection refused")}
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", analyzeBody([]byte("img")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestAnalyzeHandler_NotAnImage(t *testing.T) {
	svc := &mockService{
		analyzeFn: func(ctx context.Context, image []byte) (*analysis.Result, error) {
			return nil, analysis.ErrImageProcessing
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", analyzeBody([]byte("plain text")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// --- StatusHandler Tests ---

func TestStatusHandler(t *testing.T) {
	svc := &mockService{
		statusFn: func(ctx context.Context) credential.Status {
			return credential.Status{
				IsAvailable:   true,
				HasCredential: true,
				IsReady:       true,
			}
		},
		canCallNow: true,
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodGet, "/api/v1/status", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result StatusResponse
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.True(t, result.IsAvailable)
	assert.True(t, result.HasCredential)
	assert.True(t, result.IsReady)
	assert.True(t, result.CanCallNow)
	assert.Empty(t, result.LastError)
}

func TestStatusHandler_Degraded(t *testing.T) {
	svc := &mockService{
		statusFn: func(ctx context.Context) credential.Status {
			return credential.Status{
				IsAvailable: false,
				LastError:   "store unavailable",
			}
		},
	}
	app := newTestApp(svc)

	req := jsonRequest(http.MethodGet, "/api/v1/status", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result StatusResponse
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.False(t, result.IsAvailable)
	assert.False(t, result.IsReady)
	assert.Equal(t, "store unavailable", result.LastError)
}
