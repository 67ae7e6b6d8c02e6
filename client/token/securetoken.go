package token

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"reservas-edge/internal/clock"
)

const DefaultSecureTokenEndpoint = "https://securetoken.googleapis.com/v1/token"

// margem antes da expiração em que um token em cache deixa de ser reaproveitado
const expirySkew = 5 * time.Minute

// SecureTokenIdentity troca um refresh token por ID tokens no endpoint de
// secure token do provedor de identidade (grant_type=refresh_token).
type SecureTokenIdentity struct {
	apiKey   string
	endpoint string
	http     *http.Client
	clk      clock.Clock

	mu           sync.Mutex
	refreshToken string
	idToken      string
	expiresAt    time.Time
}

type SecureTokenOptions struct {
	APIKey       string
	RefreshToken string
	// Endpoint vazio usa DefaultSecureTokenEndpoint.
	Endpoint   string
	HTTPClient *http.Client
	Clock      clock.Clock
}

func NewSecureTokenIdentity(opts SecureTokenOptions) *SecureTokenIdentity {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultSecureTokenEndpoint
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &SecureTokenIdentity{
		apiKey:       opts.APIKey,
		endpoint:     opts.Endpoint,
		http:         opts.HTTPClient,
		clk:          clock.Or(opts.Clock),
		refreshToken: strings.TrimSpace(opts.RefreshToken),
	}
}

func (s *SecureTokenIdentity) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken != ""
}

func (s *SecureTokenIdentity) SignOut(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = ""
	s.idToken = ""
	s.expiresAt = time.Time{}
	return nil
}

type secureTokenResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type secureTokenError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *SecureTokenIdentity) Token(ctx context.Context, force bool) (string, error) {
	s.mu.Lock()
	refresh := s.refreshToken
	if refresh == "" {
		s.mu.Unlock()
		return "", ErrNotSignedIn
	}
	if !force && s.idToken != "" && s.clk.Now().Add(expirySkew).Before(s.expiresAt) {
		tok := s.idToken
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()

	res, err := s.exchange(ctx, refresh)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// SignOut durante a troca vence: o token obtido é descartado.
	if s.refreshToken == "" {
		return "", ErrNotSignedIn
	}
	if res.RefreshToken != "" {
		s.refreshToken = res.RefreshToken
	}
	s.idToken = res.IDToken
	secs, _ := strconv.Atoi(res.ExpiresIn)
	s.expiresAt = s.clk.Now().Add(time.Duration(secs) * time.Second)
	return s.idToken, nil
}

func (s *SecureTokenIdentity) exchange(ctx context.Context, refresh string) (secureTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)

	endpoint := s.endpoint
	if s.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(s.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return secureTokenResponse{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return secureTokenResponse{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return secureTokenResponse{}, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e secureTokenError
		_ = json.Unmarshal(body, &e)
		if e.Error.Message != "" {
			return secureTokenResponse{}, fmt.Errorf("token endpoint: %s (status %d)", e.Error.Message, resp.StatusCode)
		}
		return secureTokenResponse{}, fmt.Errorf("token endpoint: status %d", resp.StatusCode)
	}

	var out secureTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return secureTokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if out.IDToken == "" {
		return secureTokenResponse{}, fmt.Errorf("token endpoint: empty id_token")
	}
	return out, nil
}
