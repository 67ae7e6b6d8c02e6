package session

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(h http.Handler, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestMiddleware_LoginWithSessionRedirectsHomeWithoutQuery(t *testing.T) {
	gate := NewGate(Config{CookieName: "session", AuthPaths: []string{"/login", "/signup"}, HomePath: "/"})
	var seen []Decision
	h := Middleware(Options{
		Gate:       gate,
		OnDecision: func(_ *http.Request, d Decision) { seen = append(seen, d) },
	})(http.NotFoundHandler())

	w := serve(h, "http://app.example/login?next=https://evil.example", &http.Cookie{Name: "session", Value: "tok"})
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "http://app.example/" {
		t.Fatalf("expected redirect to home without query, got %q", got)
	}
	if len(seen) != 1 || seen[0].Action != RedirectHome {
		t.Fatalf("expected one redirect_home decision, got %v", seen)
	}
}

func TestMiddleware_PrivateWithoutSessionRedirectsToLogin(t *testing.T) {
	h := Middleware(Options{Gate: NewGate(Config{})})(http.NotFoundHandler())

	w := serve(h, "http://app.example/reservas?id=7", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "http://app.example/login" {
		t.Fatalf("unexpected location %q", got)
	}
}

func TestMiddleware_EmptyCookieCountsAsAbsent(t *testing.T) {
	h := Middleware(Options{Gate: NewGate(Config{})})(http.NotFoundHandler())

	w := serve(h, "http://app.example/mesas", &http.Cookie{Name: "session", Value: " "})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect for empty cookie, got %d", w.Code)
	}
}

func TestMiddleware_AllowsPrivateWithSession(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(Options{Gate: NewGate(Config{CookieName: "firebase-auth-token"})})(next)

	w := serve(h, "http://app.example/dashboard", &http.Cookie{Name: "firebase-auth-token", Value: "jwt"})
	if w.Code != http.StatusOK || !called {
		t.Fatalf("expected passthrough, got %d called=%v", w.Code, called)
	}
}

func TestRedirectURL_UsesForwardedProtoAndTLS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://app.example/x?y=1", nil)
	r.Header.Set("X-Forwarded-Proto", "https, http")
	if got := RedirectURL(r, "/login"); got != "https://app.example/login" {
		t.Fatalf("unexpected url %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "http://app.example/x", nil)
	r.TLS = &tls.ConnectionState{}
	if got := RedirectURL(r, "/dashboard"); got != "https://app.example/dashboard" {
		t.Fatalf("unexpected url %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "http://app.example/x", nil)
	r.Header.Set("X-Forwarded-Proto", "javascript")
	if got := RedirectURL(r, "/login"); got != "http://app.example/login" {
		t.Fatalf("unexpected url %q", got)
	}
}
