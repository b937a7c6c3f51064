// Pacote worker recalcula os resumos a partir dos eventos de alteração de
// resultados consumidos da fila Redis.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcelojr/apuracao/internal/app/summary"
	"github.com/marcelojr/apuracao/internal/domain"
	"github.com/marcelojr/apuracao/internal/platform/metrics"
)

var ErrUnknownKind = errors.New("tipo de evento desconhecido")

// RefreshProcessor atualiza as colunas resumidas das eleições e descarta o
// resumo em cache. Votações não têm colunas resumidas; só o cache muda.
type RefreshProcessor struct {
	elections domain.ElectionRepository
	cache     domain.SummaryCache
	clock     domain.Clock
	log       *slog.Logger
}

func NewRefreshProcessor(elections domain.ElectionRepository, cache domain.SummaryCache, clock domain.Clock, log *slog.Logger) *RefreshProcessor {
	if log == nil {
		log = slog.Default()
	}
	return &RefreshProcessor{
		elections: elections,
		cache:     cache,
		clock:     clock,
		log:       log,
	}
}

func (p *RefreshProcessor) Process(ctx context.Context, event domain.ResultsChanged) error {
	start := p.clock.Now()
	kind := string(event.Kind)

	if !event.PublishedAt.IsZero() {
		metrics.ObserveEventLag(start.Sub(event.PublishedAt).Seconds())
	}

	key, ok := summary.KeyFor(event)
	if !ok || event.ID == "" {
		metrics.IncEventProcessed(kind, "ignored")
		return fmt.Errorf("worker: %w: %q", ErrUnknownKind, event.Kind)
	}

	if event.Kind == domain.ChangeElection {
		if err := p.elections.RefreshSummaries(ctx, domain.ElectionID(event.ID)); err != nil {
			metrics.IncEventProcessed(kind, "error")
			return fmt.Errorf("worker: recalcular eleicao %s: %w", event.ID, err)
		}
	}

	if p.cache != nil {
		if err := p.cache.Invalidate(ctx, key); err != nil {
			metrics.IncEventProcessed(kind, "error")
			return fmt.Errorf("worker: invalidar %s: %w", key, err)
		}
	}

	elapsed := p.clock.Now().Sub(start)
	metrics.IncEventProcessed(kind, "ok")
	metrics.ObserveRefreshDuration(kind, elapsed.Seconds())
	p.log.Debug("resumo recalculado", "kind", kind, "id", event.ID, "duration", elapsed.Round(time.Millisecond))

	return nil
}

// Handler adapta Process para o consumo da fila: erros são registrados e o
// consumo segue, para que um evento ruim não pare o worker.
func (p *RefreshProcessor) Handler() func(context.Context, domain.ResultsChanged) error {
	return func(ctx context.Context, event domain.ResultsChanged) error {
		if err := p.Process(ctx, event); err != nil {
			p.log.Error("erro ao processar evento", "kind", event.Kind, "id", event.ID, "err", err)
		}
		return nil
	}
}
