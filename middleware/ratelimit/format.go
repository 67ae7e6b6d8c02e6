// utilitário pequeno para formatação de valores numéricos em headers.

package ratelimit

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// formatEpochMillis formata t como milissegundos desde a época (X-RateLimit-Reset).
func formatEpochMillis(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }

// formatSeconds arredonda para baixo, com mínimo de 1s (Retry-After: 0 faria o cliente martelar).
func formatSeconds(d time.Duration) string {
	s := int(d / time.Second)
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
