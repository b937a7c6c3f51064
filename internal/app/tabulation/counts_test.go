package tabulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/apuracao/internal/domain"
)

func TestCounts_CenarioCompleto_DeveCalcularTodasAsMetricas(t *testing.T) {
	c := FromResult(domain.BallotResult{
		Yeas:           Int64(600),
		Nays:           Int64(400),
		Empty:          Int64(0),
		Invalid:        Int64(0),
		EligibleVoters: Int64(2000),
		Counted:        true,
	})

	assert.Equal(t, 60.0, c.YeasPercentage())
	assert.Equal(t, 40.0, c.NaysPercentage())
	require.NotNil(t, c.Accepted())
	assert.True(t, *c.Accepted())
	assert.Equal(t, int64(1000), c.CastBallots())
	assert.Equal(t, 50.0, c.Turnout())
}

func TestYeasPercentage_QuandoHaVotosDecisivos_DeveSomarCemComNays(t *testing.T) {
	for yeas := int64(0); yeas <= 40; yeas++ {
		for nays := int64(0); nays <= 40; nays++ {
			if yeas+nays == 0 {
				continue
			}
			sum := YeasPercentage(yeas, nays) + NaysPercentage(yeas, nays)
			assert.InDelta(t, 100.0, sum, 1e-9, "yeas=%d nays=%d", yeas, nays)
		}
	}
}

func TestYeasPercentage_QuandoSemVotosDecisivos_DeveSerZero(t *testing.T) {
	assert.Equal(t, 0.0, YeasPercentage(0, 0))
	assert.Equal(t, 100.0, NaysPercentage(0, 0))

	var empty Counts
	assert.Equal(t, 0.0, empty.YeasPercentage())
	assert.Equal(t, 100.0, empty.NaysPercentage())
}

func TestAccepted_QuandoNaoContado_DeveSerNil(t *testing.T) {
	cases := [][2]int64{{0, 0}, {10, 1}, {1, 10}, {5, 5}}
	for _, tc := range cases {
		assert.Nil(t, Accepted(false, tc[0], tc[1]), "yeas=%d nays=%d", tc[0], tc[1])
	}
}

func TestAccepted_QuandoEmpate_DeveSerRejeitado(t *testing.T) {
	got := Accepted(true, 500, 500)
	require.NotNil(t, got)
	assert.False(t, *got)

	got = Accepted(true, 501, 500)
	require.NotNil(t, got)
	assert.True(t, *got)
}

func TestTurnout_QuandoSemEleitores_DeveSerZero(t *testing.T) {
	assert.Equal(t, 0.0, Turnout(1000, 0))

	c := Counts{Yeas: Int64(10), Nays: Int64(5)}
	assert.Equal(t, 0.0, c.Turnout())
}

func TestTurnout_QuandoDadosInconsistentes_PodePassarDeCem(t *testing.T) {
	assert.Equal(t, 200.0, Turnout(20, 10))
}

func TestCastBallots_QuandoTudoNulo_DeveSerZero(t *testing.T) {
	assert.Equal(t, int64(0), CastBallots(nil, nil, nil, nil))
	assert.Equal(t, int64(7), CastBallots(Int64(3), nil, Int64(4), nil))
}
