package session

import (
	"net/http"
	"net/url"
	"strings"

	"reservas-edge/internal/logging"

	"go.uber.org/zap"
)

type Options struct {
	Gate   *Gate
	Logger *zap.Logger
	// OnDecision é chamado para toda decisão (ex: gravar estatísticas).
	OnDecision func(r *http.Request, d Decision)
}

// HasCredential informa se o cookie de sessão está presente e não vazio.
func HasCredential(r *http.Request, cookieName string) bool {
	c, err := r.Cookie(cookieName)
	return err == nil && strings.TrimSpace(c.Value) != ""
}

// RedirectURL monta a URL absoluta do destino a partir da origem da própria
// requisição. Query e fragmento nunca são copiados.
func RedirectURL(r *http.Request, target string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0]); p == "http" || p == "https" {
		scheme = p
	}

	u := url.URL{
		Scheme: scheme,
		Host:   r.Host,
		Path:   target,
	}
	return u.String()
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	gate := opts.Gate
	if gate == nil {
		gate = NewGate(Config{})
	}
	log := logging.OrNop(opts.Logger)
	cookie := gate.Config().CookieName

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := gate.Decide(r.URL.Path, HasCredential(r, cookie))
			if opts.OnDecision != nil {
				opts.OnDecision(r, d)
			}
			if d.Action == Allow {
				next.ServeHTTP(w, r)
				return
			}

			log.Debug("session redirect",
				zap.String("path", r.URL.Path),
				zap.String("action", d.Action.String()),
				zap.String("target", d.Target),
			)
			http.Redirect(w, r, RedirectURL(r, d.Target), http.StatusFound)
		})
	}
}
