// Package clock abstrai o tempo para que janelas de rate limit e backoff de
// retry possam ser testados sem dormir.
package clock

import "time"

type Clock interface {
	Now() time.Time
	// After dispara uma vez depois de d (d <= 0 dispara imediatamente).
	After(d time.Duration) <-chan time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Or devolve c, ou Real quando c é nil.
func Or(c Clock) Clock {
	if c == nil {
		return Real{}
	}
	return c
}
