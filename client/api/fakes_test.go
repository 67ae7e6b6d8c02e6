package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// events é compartilhado entre fakes para verificar a ordem dos efeitos.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func (e *events) count(prefix string) int {
	n := 0
	for _, s := range e.all() {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type fakeTokens struct {
	ev        *events
	mu        sync.Mutex
	n         int
	forceErr  error
	cachedErr error
	cached    string
	logouts   int
}

func (f *fakeTokens) Bearer(_ context.Context, force bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if force {
		if f.forceErr != nil {
			return "", f.forceErr
		}
		f.n++
		return fmt.Sprintf("t%d", f.n), nil
	}
	if f.cachedErr != nil {
		return "", f.cachedErr
	}
	return f.cached, nil
}

func (f *fakeTokens) Logout(context.Context) error {
	f.mu.Lock()
	f.logouts++
	f.mu.Unlock()
	if f.ev != nil {
		f.ev.add("logout")
	}
	return nil
}

type fakeSession struct {
	ev         *events
	mu         sync.Mutex
	current    string
	remembered []string
}

func (s *fakeSession) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *fakeSession) RememberPath(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remembered = append(s.remembered, p)
}

func (s *fakeSession) Alert(msg string) { s.ev.add("alert") }

// Navigate também atualiza o caminho atual, como o navegador faria.
func (s *fakeSession) Navigate(target string) {
	s.ev.add("navigate:" + target)
	if u, err := url.Parse(target); err == nil {
		s.mu.Lock()
		s.current = u.Path
		s.mu.Unlock()
	}
}

// blockingClock nunca dispara After; serve para testar cancelamento.
// waiting fecha na primeira espera.
type blockingClock struct {
	waiting chan struct{}
	once    sync.Once
}

func newBlockingClock() *blockingClock {
	return &blockingClock{waiting: make(chan struct{})}
}

func (c *blockingClock) Now() time.Time { return time.Unix(0, 0) }

func (c *blockingClock) After(time.Duration) <-chan time.Time {
	c.once.Do(func() { close(c.waiting) })
	return make(chan time.Time)
}

var errOffline = errors.New("identity offline")
