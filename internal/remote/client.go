// Package remote is the hosted backend: a REST table of work entries behind
// email/password authentication. It implements store.Backend and
// session.Authenticator.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/hours-calendar/internal/session"
)

// BackendName is recorded in sessions created by this package.
const BackendName = "remote"

var (
	// ErrUnauthorized is returned when the service rejects the session token.
	ErrUnauthorized = errors.New("session expired, sign in again")
	// ErrNotFound is returned when an entry ID matches no row.
	ErrNotFound = errors.New("entry not found")
)

// Config locates the service.
type Config struct {
	URL      string
	APIKey   string
	ClientID string
	TokenURL string
	Timeout  time.Duration
}

// TokenStore loads the session and persists refreshed tokens.
type TokenStore interface {
	Load() (session.Session, error)
	SaveToken(tok *oauth2.Token) error
}

// Client talks to the hosted backend.
type Client struct {
	cfg      Config
	base     *http.Client
	sessions TokenStore
	log      *slog.Logger
}

// New returns a client for cfg. sessions may be nil for sign-in only use.
func New(cfg Config, sessions TokenStore, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &Client{
		cfg: cfg,
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &apiKeyTransport{key: cfg.APIKey, base: http.DefaultTransport},
		},
		sessions: sessions,
		log:      log,
	}
}

// apiKeyTransport adds the project key every request needs.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.key == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("apikey", t.key)
	return t.base.RoundTrip(r)
}

func (c *Client) session() (session.Session, error) {
	if c.sessions == nil {
		return session.Session{}, session.ErrNoSession
	}
	s, err := c.sessions.Load()
	if err != nil {
		return session.Session{}, err
	}
	if s.Backend != BackendName || s.Token == nil {
		return session.Session{}, session.ErrNoSession
	}
	return s, nil
}

// CurrentUser returns the user of the saved remote session, "" when signed
// out. It does not contact the service.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	s, err := c.session()
	if errors.Is(err, session.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

// authorized returns an HTTP client that refreshes and saves the token.
func (c *Client) authorized(ctx context.Context) (*http.Client, error) {
	s, err := c.session()
	if errors.Is(err, session.ErrNoSession) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	ctx = c.withHTTPClient(ctx)
	ts := &savingTokenSource{
		ts:    c.oauth2Config().TokenSource(ctx, s.Token),
		last:  s.Token.AccessToken,
		store: c.sessions,
		log:   c.log,
	}
	return oauth2.NewClient(ctx, ts), nil
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := hc.Do(req)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	c.log.Debug("remote call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("service error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
