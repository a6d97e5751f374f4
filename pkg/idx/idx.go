// Package idx generates correlation identifiers: lexicographically
// sortable, timestamp-embedding IDs used to tie together log lines about
// the same request or authentication token without ever logging the
// sensitive value itself (an HTTP request ID, a token's CorrelationID).
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID-based correlation identifier.
type ID string

// Zero is the zero value ID; treat it as "no correlation id available"
// rather than a placeholder to hand to callers.
const Zero ID = ""

var (
	globalOnce sync.Once
	global     *generator
)

// generator produces IDs from a monotonic entropy source, safe for
// concurrent use.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) New() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), g.entropy)
	return ID(u.String())
}

func initGlobal() {
	global = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a new correlation ID using the current time and a monotonic
// entropy source.
func New() ID {
	globalOnce.Do(initGlobal)
	return global.New()
}

// String returns the canonical string form.
func (id ID) String() string { return string(id) }
