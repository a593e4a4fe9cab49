// Package credential owns the single API-credential slot: validation before
// persistence, rotation, and typed failure reporting. The underlying
// encryption at rest belongs to the securestore backends.
package credential

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/security"
	"github.com/scorelens/scoreboard-gateway/internal/securestore"
)

// DefaultAccount is the fixed account identifier for the analysis credential.
const DefaultAccount = "api-credential"

// Status is a read-only snapshot of credential health, derived on demand.
type Status struct {
	IsAvailable   bool   `json:"is_available"`
	HasCredential bool   `json:"has_credential"`
	LastError     string `json:"last_error,omitempty"`
	IsReady       bool   `json:"is_ready"`
}

// Store is the capability surface the rest of the service consumes.
type Store interface {
	Store(ctx context.Context, raw string) error
	Retrieve(ctx context.Context) (string, error)
	Has(ctx context.Context) bool
	Delete(ctx context.Context) error
	Rotate(ctx context.Context) error
	ClearAll(ctx context.Context) error
	Status(ctx context.Context) Status
}

// Manager is the production Store. All mutating operations serialize on one
// mutex: two concurrent rotations can never both observe the same prior state.
type Manager struct {
	mu      sync.Mutex
	backend securestore.Store
	account string
	logger  *zap.Logger
	lastErr error
}

// NewManager wires a Manager over a secure-store backend.
func NewManager(backend securestore.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		backend: backend,
		account: DefaultAccount,
		logger:  logger,
	}
}

// Store sanitizes and validates raw, then persists it. Storing over an
// existing credential supersedes it; the two never coexist.
func (m *Manager) Store(ctx context.Context, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := security.Sanitize(raw)
	if key == "" {
		return m.fail(ErrInvalidInput)
	}
	kind, err := security.ValidateKeyFormat(key)
	if err != nil {
		if errors.Is(err, security.ErrEmptyKey) {
			return m.fail(ErrInvalidInput)
		}
		return m.fail(wrapf(ErrInvalidFormat, err))
	}
	if !utf8.ValidString(key) {
		return m.fail(ErrEncodingFailed)
	}

	if err := m.backend.Put(ctx, m.account, []byte(key)); err != nil {
		return m.fail(m.mapStoreErr("store", err))
	}

	m.lastErr = nil
	m.logger.Info("credential.stored", zap.String("kind", string(kind)))
	return nil
}

// Retrieve returns the stored credential exactly as persisted.
func (m *Manager) Retrieve(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	secret, err := m.backend.Get(ctx, m.account)
	if err != nil {
		return "", m.fail(m.mapStoreErr("retrieve", err))
	}
	if !utf8.Valid(secret) {
		return "", m.fail(ErrDecodingFailed)
	}
	m.lastErr = nil
	return string(secret), nil
}

// Has reports credential presence. It never returns an error; any backend
// failure reads as absent.
func (m *Manager) Has(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok, err := m.backend.Exists(ctx, m.account)
	if err != nil {
		return false
	}
	return ok
}

// Delete removes the credential. Deleting an absent credential is a no-op
// success.
func (m *Manager) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(ctx)
}

// Rotate atomically removes an existing credential, forcing the caller to
// re-establish trust. It never auto-creates a replacement; rotating an empty
// slot fails with ErrItemNotFound.
func (m *Manager) Rotate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := m.backend.Exists(ctx, m.account)
	if err != nil {
		return m.fail(m.mapStoreErr("retrieve", err))
	}
	if !ok {
		return m.fail(ErrItemNotFound)
	}
	if err := m.deleteLocked(ctx); err != nil {
		return err
	}
	m.logger.Info("credential.rotated")
	return nil
}

// ClearAll removes every credential this manager owns. Idempotent when empty.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteLocked(ctx); err != nil {
		return err
	}
	m.logger.Info("credential.cleared")
	return nil
}

// Status derives the current snapshot; it is never stored.
func (m *Manager) Status(ctx context.Context) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	available := m.backend.Ping(ctx) == nil
	has := false
	if available {
		if ok, err := m.backend.Exists(ctx, m.account); err == nil {
			has = ok
		}
	}

	st := Status{
		IsAvailable:   available,
		HasCredential: has,
	}
	if m.lastErr != nil {
		st.LastError = security.RedactError(m.lastErr)
	}
	st.IsReady = available && has && m.lastErr == nil
	return st
}

func (m *Manager) deleteLocked(ctx context.Context) error {
	err := m.backend.Delete(ctx, m.account)
	if err != nil && !errors.Is(err, securestore.ErrNotFound) {
		return m.fail(m.mapStoreErr("delete", err))
	}
	m.lastErr = nil
	return nil
}

// mapStoreErr translates secure-store failures into the credential taxonomy.
func (m *Manager) mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, securestore.ErrNotFound):
		return ErrItemNotFound
	case errors.Is(err, securestore.ErrCorrupt):
		return wrapf(ErrCorruptData, err)
	}
	var be *securestore.BackendError
	if errors.As(err, &be) {
		return &OpError{Op: op, Code: be.Code, Err: be.Err}
	}
	if errors.Is(err, securestore.ErrUnavailable) {
		return ErrStoreUnavailable
	}
	return &OpError{Op: op, Err: err}
}

// fail records lastErr (redacted at read time) and logs it redacted.
// ErrItemNotFound is an expected state, not a fault; it is surfaced to the
// caller but not retained as the store's last error.
func (m *Manager) fail(err error) error {
	if !errors.Is(err, ErrItemNotFound) {
		m.lastErr = err
		security.LogRedacted(m.logger, zap.WarnLevel, "credential operation failed: "+err.Error())
	}
	return err
}
