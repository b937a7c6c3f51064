// Pacote health expõe o readyz do worker: banco, Redis e backlog da fila.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type CheckFunc func(ctx context.Context) error

type check struct {
	name string
	fn   CheckFunc
}

// Checker roda as checagens na ordem em que foram adicionadas e para na
// primeira falha.
type Checker struct {
	checks  []check
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{timeout: timeout}
}

// Add ignora checagens nulas para que dependências opcionais possam ser
// passadas sem if no main.
func (c *Checker) Add(name string, fn CheckFunc) *Checker {
	if fn != nil {
		c.checks = append(c.checks, check{name: name, fn: fn})
	}
	return c
}

func DBCheck(db *sql.DB) CheckFunc {
	if db == nil {
		return nil
	}
	return db.PingContext
}

func RedisCheck(client *redis.Client) CheckFunc {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// BacklogCheck falha quando a fila acumula mais de max eventos.
func BacklogCheck(length func(context.Context) (int64, error), max int64) CheckFunc {
	if length == nil || max <= 0 {
		return nil
	}
	return func(ctx context.Context) error {
		n, err := length(ctx)
		if err != nil {
			return err
		}
		if n > max {
			return fmt.Errorf("backlog de %d eventos", n)
		}
		return nil
	}
}

func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()

		for _, ch := range c.checks {
			if err := ch.fn(ctx); err != nil {
				http.Error(w, ch.name+" unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
