package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/linenloft/backend/internal/domain/shipping"
)

const (
	// shiprocketTokenValidity is the validity window Shiprocket states for a
	// login token: 10 days.
	shiprocketTokenValidity = 240 * time.Hour
	// shiprocketTokenBuffer is subtracted from the expiry when deciding
	// whether a cached token is still usable.
	shiprocketTokenBuffer = 5 * time.Minute
)

// shiprocketSession is the cached credential. It is replaced wholesale on
// refresh, never partially mutated.
type shiprocketSession struct {
	token     string
	expiresAt time.Time
}

// SessionManager owns the Shiprocket bearer token: it returns a cached token
// while it is valid and otherwise performs a login, guaranteeing at most one
// in-flight login across concurrent callers. Failed logins are never cached,
// so the next caller retries.
type SessionManager struct {
	config     *ShiprocketConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu      sync.RWMutex
	session *shiprocketSession
	group   singleflight.Group

	now func() time.Time
}

// NewSessionManager creates a session manager for the given configuration.
// The configuration is not validated here; a missing credential fails the
// token request, not construction.
func NewSessionManager(config *ShiprocketConfig, logger *zap.Logger) *SessionManager {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SessionManager{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// GetValidToken returns a bearer token that is valid for at least the buffer
// window. Concurrent callers racing a cold or expired cache share a single
// login call and all observe its result.
func (m *SessionManager) GetValidToken(ctx context.Context) (string, error) {
	if err := m.config.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", shipping.ErrCarrierNotConfigured, err)
	}

	if token, ok := m.cachedToken(); ok {
		return token, nil
	}

	// The singleflight key is constant: there is one session per manager.
	v, err, _ := m.group.Do("login", func() (any, error) {
		// A racer may have refreshed while we waited on the group.
		if token, ok := m.cachedToken(); ok {
			return token, nil
		}
		return m.login(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached session so the next caller logs in again. Used
// when the carrier rejects a token before its stated expiry.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

// cachedToken returns the cached token if it is still inside the validity
// window minus the safety buffer. Reads never block on a refresh.
func (m *SessionManager) cachedToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.token == "" {
		return "", false
	}
	if !m.now().Before(m.session.expiresAt.Add(-shiprocketTokenBuffer)) {
		return "", false
	}
	return m.session.token, true
}

// login performs the Shiprocket auth call and atomically replaces the cached
// session on success.
func (m *SessionManager) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(shiprocketAuthRequest{
		Email:    m.config.Email,
		Password: m.config.Password,
	})
	if err != nil {
		return "", fmt.Errorf("shiprocket: failed to marshal login request: %w", err)
	}

	url := m.config.BaseURL + "/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("shiprocket: failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shipping.ErrCarrierAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCarrierResponseSize))
	if err != nil {
		return "", fmt.Errorf("shiprocket: failed to read login response: %w", err)
	}

	var auth shiprocketAuthResponse
	if resp.StatusCode >= 400 || json.Unmarshal(body, &auth) != nil || auth.Token == "" {
		detail := carrierErrorMessage(body)
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", shipping.ErrCarrierAuthFailed, detail)
	}

	session := &shiprocketSession{
		token:     auth.Token,
		expiresAt: m.now().Add(shiprocketTokenValidity),
	}
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	m.logger.Info("Shiprocket session refreshed",
		zap.Time("expires_at", session.expiresAt))

	return session.token, nil
}
