// Pacote ids gera identificadores ULID; a ordenação lexicográfica segue a
// ordem de criação, o que mantém os resultados importados em sequência.
package ids

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

func NewGenerator() *Generator {
	return &Generator{
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorAt fixa o relógio; útil em testes que comparam ordenação.
func NewGeneratorAt(now func() time.Time) *Generator {
	g := NewGenerator()
	g.now = now
	return g
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now().UTC()), g.entropy).String()
}

// Fill atribui um novo ID quando o ponteiro aponta para valor vazio.
func Fill[T ~string](g *Generator, id *T) T {
	if *id == "" {
		*id = T(g.New())
	}
	return *id
}
