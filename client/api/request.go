package api

import (
	"net/http"
	"net/url"
	"strings"
)

// Request é uma chamada lógica. RetryCount acompanha a chamada durante toda a
// sequência de tentativas e não é enviado como header.
//
// Um Request não deve ser usado por duas chamadas Do ao mesmo tempo.
type Request struct {
	Method string
	// Path relativo à BaseURL do cliente, ou URL absoluta.
	Path   string
	Header http.Header
	Body   []byte

	RetryCount int
}

func NewRequest(method, path string, body []byte) *Request {
	return &Request{Method: method, Path: path, Header: make(http.Header), Body: body}
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func resolve(base, path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
