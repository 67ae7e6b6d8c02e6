package domain

import (
	"context"
	"errors"
)

// ErrNoSlot indica que o upstream ficou sem vaga durante toda a espera permitida.
var ErrNoSlot = errors.New("no upstream slot available")

// SlotPool limita quantas requisições admitidas ficam em voo no upstream.
//
// Acquire bloqueia até haver vaga ou até o ctx encerrar (devolvendo ctx.Err()).
// O release devolvido pode ser chamado mais de uma vez; só a primeira conta.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), err error)
	Capacity() int
	InUse() int
}
