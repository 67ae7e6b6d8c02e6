package main

import (
	"fmt"
	"io"
	"net/url"
	"sync"
)

// terminalSession leva os efeitos de fim de sessão para o terminal:
// alert vai para stderr e a navegação vira uma dica de novo login.
type terminalSession struct {
	out io.Writer

	mu         sync.Mutex
	current    string
	remembered string
}

// newTerminalSession começa "parada" no caminho chamado, que é o que o
// cliente guarda para depois do login.
func newTerminalSession(out io.Writer, path string) *terminalSession {
	return &terminalSession{out: out, current: path}
}

func (s *terminalSession) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *terminalSession) RememberPath(path string) {
	s.mu.Lock()
	s.remembered = path
	s.mu.Unlock()
}

func (s *terminalSession) Alert(msg string) {
	fmt.Fprintf(s.out, "alert: %s\n", msg)
}

func (s *terminalSession) Navigate(target string) {
	u, err := url.Parse(target)
	if err != nil {
		fmt.Fprintf(s.out, "session ended: %s\n", target)
		return
	}

	s.mu.Lock()
	s.current = u.Path
	from := s.remembered
	s.mu.Unlock()

	reason := u.Query().Get("reason")
	if from != "" {
		fmt.Fprintf(s.out, "session ended (%s) while calling %s: sign in again\n", reason, from)
		return
	}
	fmt.Fprintf(s.out, "session ended (%s): sign in again\n", reason)
}
