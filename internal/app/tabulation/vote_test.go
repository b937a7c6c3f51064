package tabulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/apuracao/internal/domain"
)

func result(entity int64, counted bool, yeas, nays int64) domain.BallotResult {
	return domain.BallotResult{
		EntityID:       entity,
		Counted:        counted,
		Yeas:           Int64(yeas),
		Nays:           Int64(nays),
		Empty:          Int64(1),
		Invalid:        Int64(1),
		EligibleVoters: Int64(2 * (yeas + nays)),
	}
}

func ballot(t domain.BallotType, results ...domain.BallotResult) domain.Ballot {
	return domain.Ballot{Type: t, Results: results}
}

func TestBallotCounts_QuandoVariosResultados_DeveSomarContagens(t *testing.T) {
	b := ballot(domain.BallotProposal,
		result(1, true, 100, 50),
		result(2, true, 20, 30),
	)

	c := BallotCounts(b)
	assert.Equal(t, int64(120), *c.Yeas)
	assert.Equal(t, int64(80), *c.Nays)
	assert.Equal(t, int64(204), c.CastBallots())
	assert.Equal(t, 60.0, c.YeasPercentage())
	assert.Equal(t, 51.0, c.Turnout())
	assert.True(t, c.Counted)

	yeas, err := BallotAggregate(b, AttrYeas)
	require.NoError(t, err)
	assert.Equal(t, int64(120), yeas)
}

func TestBallotCounted_QuandoSemResultados_DeveSerVerdadeiro(t *testing.T) {
	assert.True(t, BallotCounted(nil))
	assert.False(t, BallotCounted([]domain.BallotResult{result(1, true, 1, 0), result(2, false, 0, 0)}))
}

func TestVoteCounted_QuandoSemCedulas_DeveSerFalso(t *testing.T) {
	assert.False(t, VoteCounted(domain.Vote{}))
	assert.Equal(t, AnswerUnknown, VoteAnswer(domain.Vote{}))
}

func TestVoteAnswer_QuandoCedulaSimples_DeveRetornarAceitoOuRejeitado(t *testing.T) {
	accepted := domain.Vote{Ballots: []domain.Ballot{ballot(domain.BallotProposal, result(1, true, 60, 40))}}
	rejected := domain.Vote{Ballots: []domain.Ballot{ballot(domain.BallotProposal, result(1, true, 40, 40))}}
	pending := domain.Vote{Ballots: []domain.Ballot{ballot(domain.BallotProposal, result(1, false, 60, 40))}}

	assert.Equal(t, AnswerAccepted, VoteAnswer(accepted))
	assert.Equal(t, AnswerRejected, VoteAnswer(rejected))
	assert.Equal(t, AnswerUnknown, VoteAnswer(pending))
}

func TestVoteAnswer_QuandoVariantes_DeveAplicarDesempate(t *testing.T) {
	yes := func(t domain.BallotType) domain.Ballot { return ballot(t, result(1, true, 70, 30)) }
	no := func(t domain.BallotType) domain.Ballot { return ballot(t, result(1, true, 30, 70)) }

	cases := []struct {
		name    string
		ballots []domain.Ballot
		want    Answer
	}{
		{"ambas aprovadas, desempate pela proposta", []domain.Ballot{yes(domain.BallotProposal), yes(domain.BallotCounterProposal), yes(domain.BallotTieBreaker)}, AnswerProposal},
		{"ambas aprovadas, desempate pela contraproposta", []domain.Ballot{yes(domain.BallotProposal), yes(domain.BallotCounterProposal), no(domain.BallotTieBreaker)}, AnswerCounterProposal},
		{"somente proposta", []domain.Ballot{yes(domain.BallotProposal), no(domain.BallotCounterProposal), yes(domain.BallotTieBreaker)}, AnswerProposal},
		{"somente contraproposta", []domain.Ballot{no(domain.BallotProposal), yes(domain.BallotCounterProposal), yes(domain.BallotTieBreaker)}, AnswerCounterProposal},
		{"nenhuma", []domain.Ballot{no(domain.BallotProposal), no(domain.BallotCounterProposal), yes(domain.BallotTieBreaker)}, AnswerRejected},
		{"ordem de cadastro invertida", []domain.Ballot{no(domain.BallotTieBreaker), yes(domain.BallotCounterProposal), yes(domain.BallotProposal)}, AnswerCounterProposal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VoteAnswer(domain.Vote{Ballots: tc.ballots}))
		})
	}
}

func TestVoteYeasPercentage_QuandoContrapropostaVence_DeveMostrarContraproposta(t *testing.T) {
	v := domain.Vote{Ballots: []domain.Ballot{
		ballot(domain.BallotProposal, result(1, true, 30, 70)),
		ballot(domain.BallotCounterProposal, result(1, true, 80, 20)),
		ballot(domain.BallotTieBreaker, result(1, true, 50, 50)),
	}}

	assert.Equal(t, 80.0, VoteYeasPercentage(v))
	assert.Equal(t, 20.0, VoteNaysPercentage(v))
}

func TestVoteYeasPercentage_QuandoRejeitada_DeveMostrarProposta(t *testing.T) {
	v := domain.Vote{Ballots: []domain.Ballot{
		ballot(domain.BallotProposal, result(1, true, 30, 70)),
		ballot(domain.BallotCounterProposal, result(1, true, 40, 60)),
		ballot(domain.BallotTieBreaker, result(1, true, 50, 50)),
	}}

	assert.Equal(t, 30.0, VoteYeasPercentage(v))
}

func TestVoteYeasPercentage_QuandoSemContraproposta_DeveSomarCedulas(t *testing.T) {
	v := domain.Vote{Ballots: []domain.Ballot{
		ballot(domain.BallotProposal, result(1, true, 30, 10), result(2, false, 10, 50)),
	}}

	assert.Equal(t, 40.0, VoteYeasPercentage(v))

	sum, err := VoteAggregate(v, AttrNays)
	require.NoError(t, err)
	assert.Equal(t, int64(60), sum)
}

func TestVoteProgress_QuandoVariantes_DeveDividirPeloNumeroDeCedulas(t *testing.T) {
	v := domain.Vote{Ballots: []domain.Ballot{
		ballot(domain.BallotProposal, result(1, true, 1, 0), result(2, false, 0, 0)),
		ballot(domain.BallotCounterProposal, result(1, true, 1, 0), result(2, false, 0, 0)),
		ballot(domain.BallotTieBreaker, result(1, true, 1, 0), result(2, false, 0, 0)),
	}}

	assert.Equal(t, Progress{Counted: 1, Total: 2}, VoteProgress(v))
	assert.Equal(t, Progress{Counted: 1, Total: 2}, BallotProgress(v.Ballots[0]))
	assert.Equal(t, Progress{}, VoteProgress(domain.Vote{}))
}

func TestPercentageByEntity_QuandoEntidadeNaoContada_NaoDeveTerPercentual(t *testing.T) {
	b := ballot(domain.BallotProposal,
		result(1, true, 30, 10),
		result(1, true, 10, 50),
		result(2, false, 10, 0),
		result(3, true, 0, 0),
	)

	got := PercentageByEntity(b)
	require.Len(t, got, 3)

	require.NotNil(t, got[1].YeasPercentage)
	assert.True(t, got[1].Counted)
	assert.Equal(t, 40.0, *got[1].YeasPercentage)
	assert.Equal(t, 60.0, *got[1].NaysPercentage)

	assert.False(t, got[2].Counted)
	assert.Nil(t, got[2].YeasPercentage)

	require.NotNil(t, got[3].YeasPercentage)
	assert.Equal(t, 0.0, *got[3].YeasPercentage)
	assert.Equal(t, 100.0, *got[3].NaysPercentage)
}
