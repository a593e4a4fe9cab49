// Package analysis orchestrates a single external scoreboard-analysis call
// under credential, allow-list and rate-budget guards, with a closed error
// taxonomy.
package analysis

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/credential"
	"github.com/scorelens/scoreboard-gateway/internal/rate"
	"github.com/scorelens/scoreboard-gateway/internal/security"
)

// Gateway runs analysis calls. Concurrent calls are independent; they share
// only the credential slot, the rate window and the last-result cache. The
// gateway keeps at most the last result and the last error, never a history.
type Gateway struct {
	logger  *zap.Logger
	creds   credential.Store
	limiter rate.Limiter
	client  *Client

	mu         sync.Mutex
	lastResult *Result
	lastErr    error
}

// NewGateway wires the gateway over its collaborators.
func NewGateway(logger *zap.Logger, creds credential.Store, limiter rate.Limiter, client *Client) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		logger:  logger,
		creds:   creds,
		limiter: limiter,
		client:  client,
	}
}

// Analyze performs one guarded external call. All guards run synchronously
// before any network I/O, so validation failures consume no budget. The rate
// budget is consumed before dispatch; an abandoned in-flight call does not
// refund it.
func (g *Gateway) Analyze(ctx context.Context, image []byte) (*Result, error) {
	requestID := uuid.NewString()
	log := g.logger.With(zap.String("request_id", requestID))

	key, err := g.creds.Retrieve(ctx)
	if err != nil {
		return nil, g.fail(log, ErrNoCredential)
	}
	if _, err := security.ValidateKeyFormat(key); err != nil {
		return nil, g.fail(log, ErrInvalidCredential)
	}

	if !security.ValidateURL(g.client.Endpoint()) {
		return nil, g.fail(log, ErrInvalidURL)
	}

	mediaType, err := imageMediaType(image)
	if err != nil {
		return nil, g.fail(log, err)
	}

	// Budget is consumed before dispatch so a slow request cannot let extra
	// concurrent calls slip through.
	if !g.limiter.RecordCall() {
		return nil, g.fail(log, rate.ErrLimitExceeded)
	}

	body, err := g.client.Analyze(ctx, key, image, mediaType)
	if err != nil {
		return nil, g.fail(log, err)
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, g.fail(log, err)
	}

	g.setLast(result, nil)
	log.Info("analysis.completed", zap.Float64("confidence", result.Confidence))
	return result, nil
}

// LastResult returns the most recent successful result, if any.
func (g *Gateway) LastResult() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastResult
}

// LastError returns the most recent failure, if any.
func (g *Gateway) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// ClearLast drops the cached result and error (logout path).
func (g *Gateway) ClearLast() {
	g.mu.Lock()
	g.lastResult = nil
	g.lastErr = nil
	g.mu.Unlock()
}

func (g *Gateway) setLast(res *Result, err error) {
	g.mu.Lock()
	g.lastResult = res
	g.lastErr = err
	g.mu.Unlock()
}

// fail records and logs a failure with credential-shaped substrings stripped
// before anything reaches the log sink.
func (g *Gateway) fail(log *zap.Logger, err error) error {
	g.setLast(nil, err)
	security.LogRedacted(log, zap.WarnLevel, "analysis.failed: "+err.Error())
	return err
}

// imageMediaType sniffs the payload and rejects anything that is not an
// image.
func imageMediaType(image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrImageProcessing
	}
	mediaType := http.DetectContentType(image)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", ErrImageProcessing
	}
	return mediaType, nil
}
