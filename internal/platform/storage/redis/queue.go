package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/apuracao/internal/domain"
	"github.com/marcelojr/apuracao/internal/platform/metrics"
)

// Queue publica e consome ResultsChanged numa lista Redis.
//
// Com coalesce > 0, cada votação/eleição tem no máximo um evento pendente: a
// publicação grava um marcador com SET NX e o consumo o remove antes de
// chamar o handler. Uma importação em lotes gera então um único recálculo,
// e alterações feitas durante o recálculo enfileiram um novo evento.
type Queue struct {
	client   *redis.Client
	key      string
	coalesce time.Duration
}

func NewQueue(client *redis.Client, key string, coalesce time.Duration) *Queue {
	return &Queue{
		client:   client,
		key:      key,
		coalesce: coalesce,
	}
}

func (q *Queue) Publish(ctx context.Context, event domain.ResultsChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis fila: falha serializando evento: %w", err)
	}

	if q.coalesce > 0 {
		ok, err := q.client.SetNX(ctx, q.pendingKey(event), 1, q.coalesce).Result()
		if err != nil {
			return fmt.Errorf("redis fila: falha ao marcar pendente: %w", err)
		}
		if !ok {
			metrics.IncEventCoalesced(string(event.Kind))
			return nil
		}
	}

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		if q.coalesce > 0 {
			q.client.Del(ctx, q.pendingKey(event))
		}
		return fmt.Errorf("redis fila: falha ao enfileirar evento: %w", err)
	}
	return nil
}

func (q *Queue) Consume(ctx context.Context, handler func(context.Context, domain.ResultsChanged) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Timeout curto no BRPOP para respeitar o contexto.
		res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("redis fila: falha ao consumir evento: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var event domain.ResultsChanged
		if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
			return fmt.Errorf("redis fila: payload invalido: %w", err)
		}

		if q.coalesce > 0 {
			if err := q.client.Del(ctx, q.pendingKey(event)).Err(); err != nil {
				return fmt.Errorf("redis fila: falha ao liberar pendente: %w", err)
			}
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

// Len é usado pelo readyz e pela métrica de backlog.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis fila: tamanho: %w", err)
	}
	return n, nil
}

func (q *Queue) pendingKey(event domain.ResultsChanged) string {
	return fmt.Sprintf("%s:pending:%s:%s", q.key, event.Kind, event.ID)
}

var _ domain.EventQueue = (*Queue)(nil)
