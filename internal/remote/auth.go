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

// oauth2Config returns the password-grant config for the auth service.
func (c *Client) oauth2Config() *oauth2.Config {
	tokenURL := c.cfg.TokenURL
	if tokenURL == "" {
		tokenURL = c.cfg.URL + "/auth/v1/token"
	}
	return &oauth2.Config{
		ClientID: c.cfg.ClientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// withHTTPClient makes oauth2 use the apikey-carrying client for token calls.
func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.base)
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignIn exchanges email and password for a token and resolves the user.
func (c *Client) SignIn(ctx context.Context, email, password string) (session.Session, error) {
	email, err := session.CheckCredentials(email, password, false)
	if err != nil {
		return session.Session{}, err
	}
	tok, err := c.oauth2Config().PasswordCredentialsToken(c.withHTTPClient(ctx), email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil &&
			(re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized) {
			return session.Session{}, session.ErrInvalidCredentials
		}
		return session.Session{}, fmt.Errorf("token request failed: %w", err)
	}

	var u authUser
	hc := oauth2.NewClient(c.withHTTPClient(ctx), oauth2.StaticTokenSource(tok))
	if err := c.do(ctx, hc, http.MethodGet, "/auth/v1/user", nil, nil, &u); err != nil {
		return session.Session{}, fmt.Errorf("resolving user: %w", err)
	}
	if u.ID == "" {
		return session.Session{}, errors.New("auth service returned no user id")
	}
	if u.Email == "" {
		u.Email = email
	}
	c.log.Info("signed in", "email", u.Email)
	return session.Session{
		UserID:    u.ID,
		Email:     u.Email,
		Backend:   BackendName,
		Token:     tok,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SignUp registers the account and signs in with it.
func (c *Client) SignUp(ctx context.Context, email, password string) (session.Session, error) {
	email, err := session.CheckCredentials(email, password, true)
	if err != nil {
		return session.Session{}, err
	}
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return session.Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/auth/v1/signup", bytes.NewReader(body))
	if err != nil {
		return session.Session{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.base.Do(req)
	if err != nil {
		return session.Session{}, fmt.Errorf("signup request failed: %w", err)
	}
	msg, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case strings.Contains(strings.ToLower(string(msg)), "already registered"):
		return session.Session{}, session.ErrEmailTaken
	default:
		return session.Session{}, fmt.Errorf("signup error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return c.SignIn(ctx, email, password)
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts    oauth2.TokenSource
	last  string
	store TokenStore
	log   *slog.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.SaveToken(tok); err != nil {
			s.log.Warn("could not save refreshed token", "err", err)
		}
	}
	return tok, nil
}
