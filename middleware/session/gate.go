package session

import "strings"

type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

type Decision struct {
	Action Action
	// Target é o caminho de destino quando Action != Allow.
	Target string
}

type Config struct {
	CookieName string
	// AuthPaths são as páginas de autenticação (login, cadastro...).
	AuthPaths []string
	LoginPath string
	HomePath  string
}

// Gate aplica as regras de roteamento por estado de autenticação.
type Gate struct {
	cfg Config
}

func NewGate(cfg Config) *Gate {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}
	if len(cfg.AuthPaths) == 0 {
		cfg.AuthPaths = []string{cfg.LoginPath}
	}
	return &Gate{cfg: cfg}
}

func (g *Gate) Config() Config { return g.cfg }

// IsAuthPath casa o caminho exato ou qualquer subcaminho ("/login/callback").
func (g *Gate) IsAuthPath(path string) bool {
	for _, p := range g.cfg.AuthPaths {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// Decide aplica, em ordem:
//   - página de auth com sessão -> home
//   - página fora de auth sem sessão -> login
//   - qualquer outro caso -> segue
func (g *Gate) Decide(path string, hasSession bool) Decision {
	auth := g.IsAuthPath(path)
	switch {
	case auth && hasSession:
		return Decision{Action: RedirectHome, Target: g.cfg.HomePath}
	case !auth && !hasSession:
		return Decision{Action: RedirectLogin, Target: g.cfg.LoginPath}
	default:
		return Decision{Action: Allow}
	}
}
