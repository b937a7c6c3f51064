package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resumo struct {
	Title   string            `json:"title"`
	Yeas    float64           `json:"yeas"`
	Entity  map[int64]float64 `json:"entity"`
	Counted *bool             `json:"counted"`
}

func TestCache_SetEGet_QuandoValido_DeveDevolverMesmoValor(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, "resumo", time.Minute)
	ctx := context.Background()

	counted := true
	in := resumo{Title: "Votacao", Yeas: 62.5, Entity: map[int64]float64{1701: 60}, Counted: &counted}

	// Act
	require.NoError(t, cache.Set(ctx, "votacao:1", in))
	var out resumo
	ok, err := cache.Get(ctx, "votacao:1", &out)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
	assert.True(t, mr.Exists("resumo:votacao:1"))
	assert.Equal(t, time.Minute, mr.TTL("resumo:votacao:1"))
}

func TestCache_Get_QuandoChaveNaoExiste_DeveRetornarFalso(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewCache(client, "resumo", time.Minute)

	var out resumo
	ok, err := cache.Get(context.Background(), "inexistente", &out)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Get_QuandoPayloadInvalido_DeveRetornarErro(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, "resumo", 0)
	require.NoError(t, mr.Set("resumo:quebrado", "{nao e json"))

	var out resumo
	ok, err := cache.Get(context.Background(), "quebrado", &out)

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCache_Get_QuandoExpirado_DeveRetornarFalso(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, "resumo", 10*time.Second)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "eleicao:1", resumo{Title: "Eleicao"}))

	mr.FastForward(11 * time.Second)

	var out resumo
	ok, err := cache.Get(ctx, "eleicao:1", &out)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Invalidate_DeveRemoverSomenteChavesInformadas(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, "resumo", 0)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", resumo{}))
	require.NoError(t, cache.Set(ctx, "b", resumo{}))

	require.NoError(t, cache.Invalidate(ctx, "a", "inexistente"))
	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists("resumo:a"))
	assert.True(t, mr.Exists("resumo:b"))
}

func TestCache_key_QuandoPrefixVazio_DeveRetornarChaveSemPrefixo(t *testing.T) {
	client, _ := setupRedis(t)

	assert.Equal(t, "minha-chave", NewCache(client, "", 0).key("minha-chave"))
	assert.Equal(t, "prefixo:minha-chave", NewCache(client, "prefixo", 0).key("minha-chave"))
}
