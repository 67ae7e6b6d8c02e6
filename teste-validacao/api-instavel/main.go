// api-instavel simula uma API de reservas que falha de propósito, para validar
// o cliente resiliente na mão (reservasctl --base-url http://localhost:8081).
//
//	GET /reservations?fail=N   500 nas N primeiras tentativas de cada X-Request-ID
//	GET /expired               401 {"message":"Token expired"}
//	GET /revoked               401 {"message":"Token revoked"}
//	GET /deactivated           403 {"code":"AUTH_USER_DEACTIVATED"}
//	GET /html                  200 com corpo HTML
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type attempts struct {
	mu    sync.Mutex
	calls map[string]int
}

func (a *attempts) next(id string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[id]++
	return a.calls[id]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	seen := &attempts{calls: map[string]int{}}

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/reservations", func(w http.ResponseWriter, r *http.Request) {
		fail, _ := strconv.Atoi(r.URL.Query().Get("fail"))
		n := seen.next(r.Header.Get("X-Request-ID"))
		if n <= fail {
			fmt.Printf("Log: tentativa %d de %s falhou de propósito\n", n, r.Header.Get("X-Request-ID"))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "instável"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":   []map[string]any{{"id": 1, "room": "A-101"}},
			"attempt": n,
		})
	})
	r.Get("/expired", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	r.Get("/revoked", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token revoked"})
	})
	r.Get("/deactivated", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"data": map[string]string{"code": "AUTH_USER_DEACTIVATED", "message": "User is deactivated"},
		})
	})
	r.Get("/html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<h1>Tela do Sistema</h1><p>Isto não é JSON.</p>")
	})

	fmt.Println("API instável rodando em http://localhost:8081")
	if err := http.ListenAndServe(":8081", r); err != nil {
		fmt.Printf("Erro ao subir o servidor: %s\n", err)
	}
}
