package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/seongbear/document-edit-ai/internal/domain"
)

const (
	// ConnectorName is the connector that holds the OneDrive grant.
	ConnectorName = "onedrive"

	tokenOp = "get access token"

	// cached tokens are reused right up to their declared expiry
	cacheLeeway = time.Nanosecond
)

// ConnectorConfig locates the connector service and the identity presented to it.
type ConnectorConfig struct {
	// Hostname of the connectors API. A value with a scheme is used as the base URL.
	Hostname       string
	ReplIdentity   string
	WebReplRenewal string
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// ConnectorTokenSource exchanges the workspace identity for the OneDrive
// access token held by the connectors API. Every call hits the network;
// wrap it with NewCachedTokenSource.
type ConnectorTokenSource struct {
	baseURL        string
	replIdentity   string
	webReplRenewal string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewConnectorTokenSource creates a token source for the connectors API.
func NewConnectorTokenSource(cfg ConnectorConfig) *ConnectorTokenSource {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.Hostname
	if baseURL != "" && !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	return &ConnectorTokenSource{
		baseURL:        strings.TrimRight(baseURL, "/"),
		replIdentity:   cfg.ReplIdentity,
		webReplRenewal: cfg.WebReplRenewal,
		httpClient:     httpClient,
		logger:         logger,
	}
}

// NewCachedTokenSource reuses a token until its declared expiry.
// Safe for concurrent use.
func NewCachedTokenSource(src oauth2.TokenSource) oauth2.TokenSource {
	return oauth2.ReuseTokenSourceWithExpiry(nil, src, cacheLeeway)
}

// NewStaticTokenSource always returns the same bearer token.
func NewStaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

// identityHeader returns the X_REPLIT_TOKEN value, preferring the workspace identity.
func (s *ConnectorTokenSource) identityHeader() (string, error) {
	switch {
	case s.replIdentity != "":
		return "repl " + s.replIdentity, nil
	case s.webReplRenewal != "":
		return "depl " + s.webReplRenewal, nil
	default:
		return "", errors.New("X_REPLIT_TOKEN not found for repl/depl")
	}
}

type connectionResponse struct {
	Items []connectionItem `json:"items"`
}

type connectionItem struct {
	Settings connectionSettings `json:"settings"`
}

type connectionSettings struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   json.RawMessage `json:"expires_at"`
	OAuth       struct {
		Credentials struct {
			AccessToken string `json:"access_token"`
		} `json:"credentials"`
	} `json:"oauth"`
}

// Token fetches a fresh access token from the connectors API.
// When no expiry can be determined the token is returned already expired,
// so a cache never reuses it.
func (s *ConnectorTokenSource) Token() (*oauth2.Token, error) {
	identity, err := s.identityHeader()
	if err != nil {
		return nil, &domain.AuthError{Op: tokenOp, Err: err}
	}
	if s.baseURL == "" {
		return nil, &domain.AuthError{Op: tokenOp, Err: errors.New("REPLIT_CONNECTORS_HOSTNAME is not set")}
	}

	query := url.Values{}
	query.Set("include_secrets", "true")
	query.Set("connector_names", ConnectorName)
	endpoint := fmt.Sprintf("%s/api/v2/connection?%s", s.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.AuthError{Op: tokenOp, Err: fmt.Errorf("failed to create connection request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X_REPLIT_TOKEN", identity)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &domain.AuthError{Op: tokenOp, Err: fmt.Errorf("failed to get connection: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.AuthError{Op: tokenOp, Err: fmt.Errorf("failed to read connection response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.AuthError{Op: tokenOp, Err: fmt.Errorf("failed to get connection: %d", resp.StatusCode)}
	}

	var conn connectionResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&conn); err != nil {
		return nil, &domain.AuthError{Op: tokenOp, Err: fmt.Errorf("failed to decode connection response: %w", err)}
	}
	if len(conn.Items) == 0 {
		return nil, &domain.AuthError{Op: tokenOp, Err: errors.New("OneDrive not connected")}
	}

	settings := conn.Items[0].Settings
	accessToken := settings.AccessToken
	if accessToken == "" {
		accessToken = settings.OAuth.Credentials.AccessToken
	}
	if accessToken == "" {
		return nil, &domain.AuthError{Op: tokenOp, Err: errors.New("OneDrive not connected")}
	}

	expiry, source := tokenExpiry(settings.ExpiresAt, accessToken)
	s.logger.Debug("onedrive token fetched", "expiry", expiry, "expiry_source", source)

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

// tokenExpiry resolves the token lifetime from the connector's expires_at,
// then the token's own exp claim. A token with neither expires now.
func tokenExpiry(expiresAt json.RawMessage, accessToken string) (time.Time, string) {
	if t, ok := parseExpiresAt(expiresAt); ok {
		return t, "expires_at"
	}
	if t, ok := jwtExpiry(accessToken); ok {
		return t, "jwt"
	}
	return time.Now(), "none"
}

var expiresAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

func parseExpiresAt(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		// epoch seconds
		secs, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || secs <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(secs), 0), true
	}

	for _, layout := range expiresAtLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// jwtExpiry reads the exp claim without verifying the signature.
func jwtExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
