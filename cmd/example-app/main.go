package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservas-edge/internal/logging"
	"reservas-edge/middleware/edge"
	"reservas-edge/middleware/ratelimit"
	"reservas-edge/middleware/ratelimit/infra"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Exemplo: pipeline de borda injetado direto no webserver (sem proxy), com o
// perfil do cookie firebase-auth-token.
func main() {
	log, err := logging.New(os.Getenv("LOG_LEVEL"), "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(edge.Middleware(edge.Options{
		Profile:   edge.FirebaseProfile,
		RateLimit: ratelimit.Options{Store: infra.NewWindowStore(infra.DefaultWindow)},
		Logger:    log,
	}))

	r.Get("/login", loginPage)
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		// só para demonstração: qualquer POST "loga"
		http.SetCookie(w, &http.Cookie{Name: "firebase-auth-token", Value: "demo", Path: "/", HttpOnly: true})
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/signup", page("Signup"))
	r.Get("/forgot-password", page("Forgot password"))
	r.Get("/dashboard", page("Dashboard"))
	r.Get("/reservations", page("Reservations"))
	r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("example app listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}

var reasons = map[string]string{
	"expired":     "Your session expired. Please sign in again.",
	"revoked":     "Your session was revoked. Please sign in again.",
	"deactivated": "Your account has been deactivated.",
	"auth_error":  "Please sign in to continue.",
}

func loginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	banner := ""
	if msg, ok := reasons[r.URL.Query().Get("reason")]; ok {
		banner = "<p class=\"banner\">" + html.EscapeString(msg) + "</p>"
	}
	fmt.Fprintf(w, "<h1>Login</h1>%s<form method=\"post\"><button>Sign in</button></form>", banner)
}

func page(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(title))
	}
}
