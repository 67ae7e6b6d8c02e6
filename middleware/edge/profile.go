package edge

import (
	"fmt"
	"strings"

	"reservas-edge/middleware/session"
)

// Profile agrupa a configuração do gate de sessão e os caminhos que não passam
// pelo pipeline.
type Profile struct {
	Name    string
	Session session.Config
	// Exclude são prefixos de caminho que ignoram rate limit e sessão.
	Exclude []string
}

// Assets estáticos, otimização de imagens, favicon e pasta pública.
var staticExclusions = []string{
	"/_next/static/",
	"/_next/image",
	"/favicon.ico",
	"/public/",
}

// DefaultProfile lê o cookie "session" e manda usuários autenticados para "/".
var DefaultProfile = Profile{
	Name: "default",
	Session: session.Config{
		CookieName: "session",
		AuthPaths:  []string{"/login", "/signup"},
		LoginPath:  "/login",
		HomePath:   "/",
	},
	Exclude: staticExclusions,
}

// FirebaseProfile lê o cookie "firebase-auth-token", também libera /api/ e manda
// usuários autenticados para "/dashboard".
var FirebaseProfile = Profile{
	Name: "firebase",
	Session: session.Config{
		CookieName: "firebase-auth-token",
		AuthPaths:  []string{"/login", "/signup", "/forgot-password"},
		LoginPath:  "/login",
		HomePath:   "/dashboard",
	},
	Exclude: append(append([]string{}, staticExclusions...), "/api/"),
}

func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultProfile, nil
	case "firebase":
		return FirebaseProfile, nil
	default:
		return Profile{}, fmt.Errorf("unknown gate profile %q", name)
	}
}

// Excluded informa se path casa algum prefixo de exclusão.
func (p Profile) Excluded(path string) bool {
	for _, prefix := range p.Exclude {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
