package health

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func setupRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func serve(ctx context.Context, c *Checker) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/readyz", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	c.ReadyHandler().ServeHTTP(w, req)
	return w
}

func TestReadyHandler_QuandoTodosServicosDisponiveis_DeveRetornar200OK(t *testing.T) {
	checker := NewChecker(0).
		Add("database", DBCheck(setupDB(t))).
		Add("redis", RedisCheck(setupRedis(t))).
		Add("queue", BacklogCheck(func(context.Context) (int64, error) { return 3, nil }, 10))

	w := serve(context.Background(), checker)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestReadyHandler_QuandoDependenciasNulas_DevePularChecagem(t *testing.T) {
	checker := NewChecker(0).
		Add("database", DBCheck(nil)).
		Add("redis", RedisCheck(nil)).
		Add("queue", BacklogCheck(nil, 10))

	w := serve(context.Background(), checker)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, checker.checks)
}

func TestReadyHandler_QuandoDBIndisponivel_DeveRetornar503(t *testing.T) {
	db := setupDB(t)
	db.Close()

	checker := NewChecker(0).
		Add("database", DBCheck(db)).
		Add("redis", RedisCheck(setupRedis(t)))

	w := serve(context.Background(), checker)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "database unavailable\n", w.Body.String())
}

func TestReadyHandler_QuandoRedisIndisponivel_DeveRetornar503(t *testing.T) {
	client := setupRedis(t)
	client.Close()

	checker := NewChecker(0).
		Add("database", DBCheck(setupDB(t))).
		Add("redis", RedisCheck(client))

	w := serve(context.Background(), checker)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "redis unavailable\n", w.Body.String())
}

func TestReadyHandler_QuandoBacklogAcimaDoLimite_DeveRetornar503(t *testing.T) {
	checker := NewChecker(0).
		Add("queue", BacklogCheck(func(context.Context) (int64, error) { return 11, nil }, 10))

	w := serve(context.Background(), checker)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "queue unavailable\n", w.Body.String())
}

func TestReadyHandler_QuandoVariasFalhas_DeveRetornarPrimeira(t *testing.T) {
	failing := func(context.Context) error { return errors.New("falhou") }
	checker := NewChecker(0).
		Add("database", failing).
		Add("redis", failing)

	w := serve(context.Background(), checker)

	assert.Equal(t, "database unavailable\n", w.Body.String())
}

func TestReadyHandler_QuandoContextoCancelado_DeveInterromper(t *testing.T) {
	checker := NewChecker(0).Add("database", DBCheck(setupDB(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := serve(ctx, checker)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "database unavailable\n", w.Body.String())
}
