package feed

import (
	"fmt"
	"time"
)

// CachePolicy selects between always hitting the backend and reusing a
// validated response for a bounded time
type CachePolicy struct {
	Revalidate time.Duration
}

// NoStore always revalidates with the backend
func NoStore() CachePolicy {
	return CachePolicy{}
}

// RevalidateEvery reuses a response for at most d
func RevalidateEvery(d time.Duration) CachePolicy {
	if d < 0 {
		d = 0
	}
	return CachePolicy{Revalidate: d}
}

// Cacheable reports whether responses may be reused
func (p CachePolicy) Cacheable() bool {
	return p.Revalidate > 0
}

func (p CachePolicy) String() string {
	if !p.Cacheable() {
		return "no-store"
	}
	return fmt.Sprintf("revalidate=%ds", int(p.Revalidate.Seconds()))
}
