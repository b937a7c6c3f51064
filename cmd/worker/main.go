// Worker que consome os eventos de alteração de resultados, recalcula os
// resumos no Postgres e invalida o cache; expõe /metrics e /readyz.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/marcelojr/apuracao/internal/app/worker"
	"github.com/marcelojr/apuracao/internal/platform/clock"
	"github.com/marcelojr/apuracao/internal/platform/config"
	"github.com/marcelojr/apuracao/internal/platform/health"
	"github.com/marcelojr/apuracao/internal/platform/logger"
	"github.com/marcelojr/apuracao/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/apuracao/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/apuracao/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN(), postgresstorage.DefaultPoolOptions())
	if err != nil {
		logger.Fatal("falha ao conectar no postgres", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Fila e cache vivem na mesma instância Redis.
	redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	queue := redisstorage.NewQueue(redisClient, cfg.EventsKey, cfg.EventsCoalesce)
	cache := redisstorage.NewCache(redisClient, cfg.CacheKeyPrefix, cfg.CacheTTL)
	elections := postgresstorage.NewElectionRepository(db, nil)
	processor := worker.NewRefreshProcessor(elections, cache, clock.NewSystemClock(), logger.L())

	checker := health.NewChecker(0).
		Add("database", health.DBCheck(sqlDB)).
		Add("redis", health.RedisCheck(redisClient)).
		Add("queue", health.BacklogCheck(queue.Len, cfg.ReadyMaxBacklog))

	g, gctx := errgroup.WithContext(ctx)

	if cfg.WorkerMetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/readyz", checker.ReadyHandler())
		srv := &http.Server{Addr: cfg.WorkerMetricsAddress, Handler: mux}

		g.Go(func() error {
			logger.Info("worker metrics ouvindo", "addr", cfg.WorkerMetricsAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		logger.Info("worker iniciado, aguardando eventos", "key", cfg.EventsKey)
		err := queue.Consume(gctx, processor.Handler())
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("worker finalizado com erro", "err", err)
	}

	logger.Info("worker finalizado")
}
