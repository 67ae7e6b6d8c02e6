package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeUserDeactivated = "AUTH_USER_DEACTIVATED"

	MessageTokenExpired = "Token expired"
	MessageTokenRevoked = "Token revoked"
)

// ErrUnexpectedBody marca respostas que deveriam ser JSON mas não são
// (tipicamente uma página HTML de erro de um proxy).
var ErrUnexpectedBody = errors.New("api: response body is not JSON")

// Error é a falha de uma tentativa. StatusCode 0 indica falha de transporte.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Header     http.Header
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return "api: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api: status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Deactivated() bool { return e.Code == CodeUserDeactivated }

// ParseFailure informa se o corpo não pôde ser lido como JSON.
func (e *Error) ParseFailure() bool { return errors.Is(e.Err, ErrUnexpectedBody) }

// errorBody aceita {"code","message"} e {"data":{"code","message"}}.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"data"`
}

func newStatusError(status int, header http.Header, body []byte) *Error {
	e := &Error{StatusCode: status, Header: header, Body: body}

	var eb errorBody
	// campo não confiável: corpo ilegível vira erro genérico, nunca pânico
	if err := json.Unmarshal(body, &eb); err != nil {
		return e
	}
	e.Code, e.Message = eb.Code, eb.Message
	if eb.Data != nil {
		if eb.Data.Code != "" {
			e.Code = eb.Data.Code
		}
		if eb.Data.Message != "" {
			e.Message = eb.Data.Message
		}
	}
	e.Code = strings.TrimSpace(e.Code)
	e.Message = strings.TrimSpace(e.Message)
	return e
}

// decodeJSON marca erros de sintaxe com ErrUnexpectedBody e deixa os demais intactos.
func decodeJSON(resp *Response, out any) error {
	err := json.Unmarshal(resp.Body, out)
	if err == nil {
		return nil
	}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return &Error{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       resp.Body,
			Err:        fmt.Errorf("%w: %w", ErrUnexpectedBody, err),
		}
	}
	return fmt.Errorf("api: decode response: %w", err)
}
