package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reservas-edge/internal/clock"
	"reservas-edge/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 15 * time.Second

// BearerSource é a parte do token.Provider usada pelo cliente.
type BearerSource interface {
	Bearer(ctx context.Context, force bool) (string, error)
	Logout(ctx context.Context) error
}

type Options struct {
	BaseURL string
	// HTTPClient nil cria um http.Client com Timeout (padrão 15s).
	HTTPClient *http.Client
	Timeout    time.Duration

	Tokens    BearerSource
	Session   Session
	LoginPath string

	Retry RetryPolicy
	// Pace, se definido, segura cada envio até haver vaga no limiter.
	Pace *rate.Limiter

	Clock  clock.Clock
	Logger *zap.Logger
}

// Client é seguro para uso concorrente; cada chamada lógica tem seu próprio
// Request e suas tentativas são estritamente sequenciais.
type Client struct {
	base      string
	http      *http.Client
	tokens    BearerSource
	session   Session
	loginPath string
	retry     RetryPolicy
	pace      *rate.Limiter
	clk       clock.Clock
	log       *zap.Logger
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Session == nil {
		opts.Session = noSession{}
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy()
	}
	return &Client{
		base:      opts.BaseURL,
		http:      opts.HTTPClient,
		tokens:    opts.Tokens,
		session:   opts.Session,
		loginPath: opts.LoginPath,
		retry:     opts.Retry,
		pace:      opts.Pace,
		clk:       clock.Or(opts.Clock),
		log:       logging.OrNop(opts.Logger),
	}
}

// Do executa a chamada com retry. Devolve a resposta 2xx ou o erro da última
// tentativa (*Error na maioria dos casos).
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	callID := uuid.NewString()
	log := c.log.With(zap.String("call_id", callID), zap.String("method", req.Method), zap.String("path", req.Path))

	for {
		c.authorize(ctx, req, log)

		resp, apiErr := c.send(ctx, req, callID)
		if apiErr == nil {
			log.Debug("api call succeeded", zap.Int("attempt", req.RetryCount+1), zap.Int("status", resp.StatusCode))
			return resp, nil
		}
		var err error = apiErr
		log.Debug("api call failed", zap.Int("attempt", req.RetryCount+1), zap.Int("status", apiErr.StatusCode), zap.Error(err))

		if ctx.Err() != nil || isPaceError(apiErr) {
			return nil, err
		}

		c.intercept(ctx, apiErr, log)

		// desativação encerra a sessão: não é falha transitória
		if apiErr.Deactivated() || !c.retry.ShouldRetry(req) {
			return nil, err
		}

		req.RetryCount++
		delay := c.retry.Delay(req.RetryCount)
		log.Info("retrying api call", zap.Int("retry", req.RetryCount), zap.Duration("backoff", delay))
		if werr := sleep(ctx, c.clk, delay); werr != nil {
			return nil, fmt.Errorf("api: retry aborted: %w (last error: %w)", werr, err)
		}

		c.refresh(ctx, req, log)
	}
}

// DoJSON envia in (se não for nil) como JSON e decodifica a resposta em out
// (se não for nil).
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = b
	}

	resp, err := c.Do(ctx, NewRequest(method, path, body))
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	return decodeJSON(resp, out)
}

// authorize é o interceptor de request.
func (c *Client) authorize(ctx context.Context, req *Request, log *zap.Logger) {
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.Bearer(ctx, true)
	if err != nil {
		log.Debug("forced token refresh failed, trying cache", zap.Error(err))
		tok, err = c.tokens.Bearer(ctx, false)
		if err != nil {
			log.Warn("no bearer token available", zap.Error(err))
			tok = ""
		}
	}
	setBearer(req, tok)
}

// refresh renova o token antes de reenviar uma chamada que falhou.
func (c *Client) refresh(ctx context.Context, req *Request, log *zap.Logger) {
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.Bearer(ctx, true)
	if err != nil {
		log.Warn("token refresh before retry failed", zap.Error(err))
		return
	}
	setBearer(req, tok)
}

func setBearer(req *Request, tok string) {
	if tok == "" {
		req.Header.Del("Authorization")
		return
	}
	req.Header.Set("Authorization", "Bearer "+tok)
}

type paceError struct{ err error }

func (e paceError) Error() string { return "pace: " + e.err.Error() }
func (e paceError) Unwrap() error { return e.err }

func isPaceError(e *Error) bool {
	_, ok := e.Err.(paceError)
	return ok
}

func (c *Client) send(ctx context.Context, req *Request, callID string) (*Response, *Error) {
	if c.pace != nil {
		if err := c.pace.Wait(ctx); err != nil {
			return nil, &Error{Err: paceError{err}}
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, resolve(c.base, req.Path), body)
	if err != nil {
		return nil, &Error{Err: err}
	}
	httpReq.Header = req.Header.Clone()
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", callID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Header: resp.Header, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, resp.Header, data)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// intercept é o interceptor de resposta: só efeitos colaterais, o erro segue
// para o chamador (ou para o retry) sem alteração.
func (c *Client) intercept(ctx context.Context, e *Error, log *zap.Logger) {
	if e.Deactivated() {
		log.Warn("user deactivated, ending session")
		c.session.Alert(deactivatedAlert)
		c.logout(ctx, log)
		c.session.Navigate(LoginURL(c.loginPath, ReasonDeactivated))
		return
	}

	if e.StatusCode != http.StatusUnauthorized {
		return
	}
	current := c.session.CurrentPath()
	if current == c.loginPath {
		return
	}
	c.session.RememberPath(current)

	switch e.Message {
	case MessageTokenExpired:
		c.session.Navigate(LoginURL(c.loginPath, ReasonExpired))
	case MessageTokenRevoked:
		c.logout(ctx, log)
		c.session.Navigate(LoginURL(c.loginPath, ReasonRevoked))
	default:
		c.session.Navigate(LoginURL(c.loginPath, ReasonAuthError))
	}
	log.Info("unauthorized response, redirected to login", zap.String("message", e.Message))
}

func (c *Client) logout(ctx context.Context, log *zap.Logger) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Logout(ctx); err != nil {
		log.Warn("logout failed", zap.Error(err))
	}
}
