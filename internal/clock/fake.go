package clock

import (
	"sync"
	"time"
)

// Fake é um relógio controlado manualmente.
//
// After não bloqueia: registra o atraso pedido, avança o relógio por ele e
// dispara na hora. Isso mantém loops de retry determinísticos nos testes.
type Fake struct {
	mu      sync.Mutex
	current time.Time
	waits   []time.Duration
}

func NewFake(start time.Time) *Fake {
	return &Fake{current: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.waits = append(f.waits, d)
	if d > 0 {
		f.current = f.current.Add(d)
	}
	ch := make(chan time.Time, 1)
	ch <- f.current
	return ch
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

// Waits devolve uma cópia dos atrasos pedidos via After, em ordem.
func (f *Fake) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.waits))
	copy(out, f.waits)
	return out
}
