package domain

// Camada de domínio do rate limit (janela fixa por cliente).
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

type Key string

// AnonymousKey é usada quando a requisição não traz identificação do cliente.
// Todos os clientes anônimos compartilham o mesmo contador.
const AnonymousKey Key = "anonymous"

// WindowRecord é o estado de um cliente: início da janela e quantas
// requisições foram vistas desde então.
type WindowRecord struct {
	WindowStart time.Time
	Count       int
}

// Expired informa se a janela de tamanho window já passou em now.
func (r WindowRecord) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(r.WindowStart) > window
}

// WindowStore conta requisições por chave em janelas fixas.
//
// Hit deve executar varredura, busca/criação e incremento como uma única seção
// crítica: duas chamadas concorrentes para a mesma chave nunca observam o mesmo
// Count. O registro devolvido já inclui a requisição atual.
//
// Observação: o estado é local ao processo. Várias instâncias do gateway não
// compartilham contadores.
type WindowStore interface {
	Hit(key Key, now time.Time) WindowRecord
	Window() time.Duration
}

type Decision struct {
	Allowed bool

	// Valores dos headers de monitoramento (X-RateLimit-*).
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
