package application

import (
	"context"
	"time"

	"reservas-edge/middleware/ratelimit/domain"
)

func noRelease() {}

// ShedService decide se uma requisição que já passou pela borda ainda cabe no
// upstream. Não conhece HTTP.
type ShedService struct {
	Pool domain.SlotPool
	// MaxWait <= 0 espera enquanto o cliente esperar.
	MaxWait time.Duration
}

// Admit devolve o release da vaga. Sem vaga dentro de MaxWait devolve
// domain.ErrNoSlot; se o cliente desistiu antes, devolve o erro do próprio ctx.
// Em erro o release é um no-op.
func (s ShedService) Admit(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return noRelease, nil
	}

	waitCtx := ctx
	if s.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.MaxWait)
		defer cancel()
	}

	release, err := s.Pool.Acquire(waitCtx)
	switch {
	case err == nil && release != nil:
		return release, nil
	case ctx.Err() != nil:
		return noRelease, ctx.Err()
	default:
		return noRelease, domain.ErrNoSlot
	}
}
