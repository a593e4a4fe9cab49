// Package service is the process-wide access point over the gateway,
// consumed by the transport layer. Constructed once at startup; Reset
// handles the logout path.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/analysis"
	"github.com/scorelens/scoreboard-gateway/internal/credential"
	"github.com/scorelens/scoreboard-gateway/internal/metrics"
	"github.com/scorelens/scoreboard-gateway/internal/rate"
	"github.com/scorelens/scoreboard-gateway/internal/security"
	"github.com/scorelens/scoreboard-gateway/pkg/model"
)

// EventPublisher emits analysis lifecycle events. Optional; a nil publisher
// disables events without affecting calls.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, payload model.AnalysisCompleted) error
}

// Facade exposes the gateway's capabilities to the rest of the application.
type Facade struct {
	logger  *zap.Logger
	creds   credential.Store
	limiter rate.Limiter
	gateway *analysis.Gateway
	events  EventPublisher
}

// New wires the facade. events may be nil.
func New(logger *zap.Logger, creds credential.Store, limiter rate.Limiter, gateway *analysis.Gateway, events EventPublisher) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Facade{
		logger:  logger,
		creds:   creds,
		limiter: limiter,
		gateway: gateway,
		events:  events,
	}
}

// SetCredential validates and stores a raw API key.
func (f *Facade) SetCredential(ctx context.Context, raw string) error {
	err := f.creds.Store(ctx, raw)
	metrics.IncCredentialOp("store", opStatus(err))
	return err
}

// ClearCredential removes every stored credential.
func (f *Facade) ClearCredential(ctx context.Context) error {
	err := f.creds.ClearAll(ctx)
	metrics.IncCredentialOp("clear", opStatus(err))
	return err
}

// RotateCredential removes the existing credential, forcing the caller to
// supply a new one.
func (f *Facade) RotateCredential(ctx context.Context) error {
	err := f.creds.Rotate(ctx)
	metrics.IncCredentialOp("rotate", opStatus(err))
	return err
}

// HasValidCredential reports whether a stored credential exists and still
// passes format validation.
func (f *Facade) HasValidCredential(ctx context.Context) bool {
	key, err := f.creds.Retrieve(ctx)
	if err != nil {
		return false
	}
	_, err = security.ValidateKeyFormat(key)
	return err == nil
}

// CanCallNow reports whether the rate budget currently admits a call.
func (f *Facade) CanCallNow() bool {
	return f.limiter.CanCall()
}

// Analyze runs one guarded analysis call and emits the completion event.
func (f *Facade) Analyze(ctx context.Context, image []byte) (*analysis.Result, error) {
	start := time.Now()
	res, err := f.gateway.Analyze(ctx, image)
	outcome := outcomeLabel(err)

	metrics.AnalysisRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.ObserveDuration(metrics.AnalysisDuration, start, outcome)
	if errors.Is(err, rate.ErrLimitExceeded) {
		metrics.RateLimitedTotal.Inc()
	}
	if err != nil {
		return nil, err
	}

	if f.events != nil {
		payload := model.AnalysisCompleted{
			RequestID:  uuid.NewString(),
			Confidence: res.Confidence,
			Period:     res.Period,
			Clock:      res.Clock,
		}
		if res.HomeTeam != nil {
			payload.HomeScore = res.HomeTeam.Score
		}
		if res.AwayTeam != nil {
			payload.AwayScore = res.AwayTeam.Score
		}
		// Event delivery is best-effort; a bus outage never fails the call.
		if pubErr := f.events.PublishAnalysisCompleted(ctx, payload); pubErr != nil {
			f.logger.Warn("service.event_publish_failed", zap.Error(pubErr))
		}
	}
	return res, nil
}

// Status returns the current security snapshot for display.
func (f *Facade) Status(ctx context.Context) credential.Status {
	return f.creds.Status(ctx)
}

// Reset clears credentials, the rate window and the cached result (logout).
func (f *Facade) Reset(ctx context.Context) error {
	if err := f.creds.ClearAll(ctx); err != nil {
		return err
	}
	f.limiter.Reset()
	f.gateway.ClearLast()
	f.logger.Info("service.reset")
	return nil
}

func opStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, analysis.ErrNoCredential):
		return "no_credential"
	case errors.Is(err, analysis.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, rate.ErrLimitExceeded):
		return "rate_limited"
	case errors.Is(err, analysis.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, analysis.ErrImageProcessing):
		return "image_processing"
	case errors.Is(err, analysis.ErrServerError):
		return "server_error"
	case errors.Is(err, analysis.ErrInvalidResponseShape):
		return "invalid_response"
	case errors.Is(err, analysis.ErrParsing):
		return "parsing"
	default:
		var statusErr *analysis.UnexpectedStatusError
		var transportErr *analysis.TransportError
		if errors.As(err, &statusErr) {
			return "upstream_status"
		}
		if errors.As(err, &transportErr) {
			return "transport"
		}
		return "other"
	}
}
