package infra

import (
	"context"
	"sync"

	"reservas-edge/middleware/ratelimit/domain"
)

// ChanPool é um semáforo em channel: cada vaga é um struct{} no buffer.
type ChanPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*ChanPool)(nil)

func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Capacity() int { return cap(p.sem) }
func (p *ChanPool) InUse() int    { return len(p.sem) }

func (p *ChanPool) Acquire(ctx context.Context) (func(), error) {
	// ctx já encerrado não disputa vaga, mesmo que haja uma livre
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
