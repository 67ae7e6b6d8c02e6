package infra

import (
	"sync"
	"time"

	"reservas-edge/middleware/ratelimit/domain"
)

const DefaultWindow = 60 * time.Second

// WindowStore é um contador de janela fixa por chave, protegido por um único mutex.
//
// Cada Hit varre o mapa inteiro e remove janelas vencidas (O(n) por requisição).
// Aceitável porque o conjunto de clientes ativos num processo é pequeno.
//
// O estado vive só neste processo: com várias réplicas do gateway cada uma conta
// separadamente. Um backend compartilhado deve implementar domain.WindowStore.
type WindowStore struct {
	mu      sync.Mutex
	records map[domain.Key]*domain.WindowRecord
	window  time.Duration
}

func NewWindowStore(window time.Duration) *WindowStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &WindowStore{
		records: make(map[domain.Key]*domain.WindowRecord),
		window:  window,
	}
}

func (s *WindowStore) Window() time.Duration { return s.window }

// Hit implementa domain.WindowStore.
func (s *WindowStore) Hit(key domain.Key, now time.Time) domain.WindowRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	rec, ok := s.records[key]
	if !ok {
		rec = &domain.WindowRecord{WindowStart: now}
		s.records[key] = rec
	} else if rec.Expired(now, s.window) {
		rec.WindowStart = now
		rec.Count = 0
	}
	rec.Count++

	return *rec
}

// Len devolve quantas chaves estão no mapa (inclui vencidas ainda não varridas).
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *WindowStore) sweepLocked(now time.Time) {
	for k, rec := range s.records {
		if rec.Expired(now, s.window) {
			delete(s.records, k)
		}
	}
}
