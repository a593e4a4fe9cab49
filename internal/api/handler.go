package api

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/analysis"
	"github.com/scorelens/scoreboard-gateway/internal/credential"
	"github.com/scorelens/scoreboard-gateway/internal/rate"
	"github.com/scorelens/scoreboard-gateway/internal/securestore"
)

// Service defines the gateway operations needed by the handler.
type Service interface {
	SetCredential(ctx context.Context, raw string) error
	ClearCredential(ctx context.Context) error
	RotateCredential(ctx context.Context) error
	Analyze(ctx context.Context, image []byte) (*analysis.Result, error)
	Status(ctx context.Context) credential.Status
	CanCallNow() bool
}

// GatewayHandler handles HTTP API requests for gateway operations.
type GatewayHandler struct {
	logger  *zap.Logger
	service Service
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(logger *zap.Logger, service Service) *GatewayHandler {
	return &GatewayHandler{
		logger:  logger,
		service: service,
	}
}

// SetCredentialHandler stores a new API key, replacing any existing one.
func (h *GatewayHandler) SetCredentialHandler(c *fiber.Ctx) error {
	var req SetCredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	if err := h.service.SetCredential(c.Context(), req.Key); err != nil {
		h.logger.Error("api.set_credential.failed", zap.Error(err))
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearCredentialHandler removes the stored API key. Removing an absent
// key succeeds.
func (h *GatewayHandler) ClearCredentialHandler(c *fiber.Ctx) error {
	if err := h.service.ClearCredential(c.Context()); err != nil {
		h.logger.Error("api.clear_credential.failed", zap.Error(err))
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RotateCredentialHandler retires the stored key. The caller must supply
// a replacement before the next analysis call.
func (h *GatewayHandler) RotateCredentialHandler(c *fiber.Ctx) error {
	if err := h.service.RotateCredential(c.Context()); err != nil {
		h.logger.Error("api.rotate_credential.failed", zap.Error(err))
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AnalyzeHandler runs one scoreboard analysis call.
func (h *GatewayHandler) AnalyzeHandler(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "image must be base64 encoded"})
	}

	result, err := h.service.Analyze(c.Context(), image)
	if err != nil {
		h.logger.Error("api.analyze.failed", zap.Error(err))
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// StatusHandler reports credential and rate state.
func (h *GatewayHandler) StatusHandler(c *fiber.Ctx) error {
	st := h.service.Status(c.Context())
	return c.Status(fiber.StatusOK).JSON(StatusResponse{
		IsAvailable:   st.IsAvailable,
		HasCredential: st.HasCredential,
		IsReady:       st.IsReady,
		CanCallNow:    h.service.CanCallNow(),
		LastError:     st.LastError,
	})
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(ErrorResponse{Error: err.Error()})
}

// statusFor maps the gateway's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var backendErr *securestore.BackendError
	switch {
	case errors.Is(err, analysis.ErrNoCredential),
		errors.Is(err, analysis.ErrInvalidCredential):
		return fiber.StatusUnauthorized
	case errors.Is(err, rate.ErrLimitExceeded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, credential.ErrInvalidInput),
		errors.Is(err, credential.ErrInvalidFormat),
		errors.Is(err, credential.ErrEncodingFailed),
		errors.Is(err, analysis.ErrImageProcessing),
		errors.Is(err, analysis.ErrMalformedRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, credential.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, credential.ErrStoreUnavailable),
		errors.Is(err, securestore.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrServerError),
		errors.Is(err, analysis.ErrInvalidResponseShape),
		errors.Is(err, analysis.ErrParsing):
		return fiber.StatusBadGateway
	case errors.As(err, &backendErr):
		return fiber.StatusServiceUnavailable
	default:
		var statusErr *analysis.UnexpectedStatusError
		var transportErr *analysis.TransportError
		if errors.As(err, &statusErr) || errors.As(err, &transportErr) {
			return fiber.StatusBadGateway
		}
		return fiber.StatusInternalServerError
	}
}
