package api

import "net/url"

// Motivos enviados para a página de login.
const (
	ReasonDeactivated = "deactivated"
	ReasonExpired     = "expired"
	ReasonRevoked     = "revoked"
	ReasonAuthError   = "auth_error"
)

const deactivatedAlert = "Your account has been deactivated. Please contact your administrator."

// Session recebe os efeitos colaterais de fim de sessão (no navegador: alert,
// sessionStorage e window.location). Alert deve bloquear até o usuário ver a mensagem.
type Session interface {
	CurrentPath() string
	// RememberPath guarda o caminho para voltar depois do login.
	RememberPath(path string)
	Alert(msg string)
	Navigate(target string)
}

// LoginURL monta "<loginPath>?reason=<reason>".
func LoginURL(loginPath, reason string) string {
	u := url.URL{Path: loginPath}
	q := url.Values{}
	q.Set("reason", reason)
	u.RawQuery = q.Encode()
	return u.String()
}

type noSession struct{}

func (noSession) CurrentPath() string { return "" }
func (noSession) RememberPath(string) {}
func (noSession) Alert(string)        {}
func (noSession) Navigate(string)     {}
