package domain

import (
	"context"
	"time"
)

// Outcome é o resultado do pipeline de borda para uma requisição.
type Outcome string

const (
	OutcomeAdmitted      Outcome = "admitted"
	OutcomeRejected      Outcome = "rejected"
	OutcomeRedirectLogin Outcome = "redirect_login"
	OutcomeRedirectHome  Outcome = "redirect_home"
	// OutcomeShed: passou pela borda mas o upstream estava sem vaga.
	OutcomeShed Outcome = "shed"
)

// StatsEvent representa um evento de decisão na borda.
//
// Method/Path são strings genéricas, sem dependência de HTTP.
//
// Observação: cuidado com cardinalidade (ex.: salvar Key/Path sem controle pode
// explodir o número de chaves no Redis).
type StatsEvent struct {
	Key     Key
	Outcome Outcome

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas da borda.
//
// O middleware trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
