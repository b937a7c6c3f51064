package tabulation

import (
	"sort"

	"github.com/marcelojr/apuracao/internal/domain"
)

type Answer string

const (
	AnswerUnknown         Answer = ""
	AnswerAccepted        Answer = "accepted"
	AnswerRejected        Answer = "rejected"
	AnswerProposal        Answer = "proposal"
	AnswerCounterProposal Answer = "counter-proposal"
)

// Progress indica quantas entidades já foram contadas do total esperado.
type Progress struct {
	Counted int `json:"counted"`
	Total   int `json:"total"`
}

// EntityPercentage é o resultado de uma entidade; percentuais só existem
// quando a entidade foi contada.
type EntityPercentage struct {
	Counted        bool     `json:"counted"`
	YeasPercentage *float64 `json:"yeas_percentage,omitempty"`
	NaysPercentage *float64 `json:"nays_percentage,omitempty"`
}

// BallotCounted é verdadeiro quando todos os resultados foram contados,
// inclusive quando ainda não há resultado algum.
func BallotCounted(results []domain.BallotResult) bool {
	for _, r := range results {
		if !r.Counted {
			return false
		}
	}
	return true
}

// VoteCounted exige ao menos uma cédula e todas contadas.
func VoteCounted(v domain.Vote) bool {
	if len(v.Ballots) == 0 {
		return false
	}
	for _, b := range v.Ballots {
		if !BallotCounted(b.Results) {
			return false
		}
	}
	return true
}

// BallotCounts soma os resultados da cédula.
func BallotCounts(b domain.Ballot) Counts {
	var yeas, nays, empty, invalid, eligible int64
	for _, r := range b.Results {
		yeas += value(r.Yeas)
		nays += value(r.Nays)
		empty += value(r.Empty)
		invalid += value(r.Invalid)
		eligible += value(r.EligibleVoters)
	}
	return Counts{
		Yeas:           &yeas,
		Nays:           &nays,
		Empty:          &empty,
		Invalid:        &invalid,
		EligibleVoters: &eligible,
		Counted:        BallotCounted(b.Results),
	}
}

// VoteCounts soma as cédulas da votação.
func VoteCounts(v domain.Vote) Counts {
	var yeas, nays, empty, invalid, eligible int64
	for _, b := range v.Ballots {
		c := BallotCounts(b)
		yeas += value(c.Yeas)
		nays += value(c.Nays)
		empty += value(c.Empty)
		invalid += value(c.Invalid)
		eligible += value(c.EligibleVoters)
	}
	return Counts{
		Yeas:           &yeas,
		Nays:           &nays,
		Empty:          &empty,
		Invalid:        &invalid,
		EligibleVoters: &eligible,
		Counted:        VoteCounted(v),
	}
}

// BallotAggregate soma um atributo sobre os resultados da cédula.
func BallotAggregate(b domain.Ballot, attr Attribute) (int64, error) {
	get, err := BallotResultAttribute(attr)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range b.Results {
		total += get(r)
	}
	return total, nil
}

// VoteAggregate soma um atributo sobre todas as cédulas da votação.
func VoteAggregate(v domain.Vote, attr Attribute) (int64, error) {
	var total int64
	for _, b := range v.Ballots {
		sum, err := BallotAggregate(b, attr)
		if err != nil {
			return 0, err
		}
		total += sum
	}
	return total, nil
}

// Variant separa as cédulas na ordem proposta, contraproposta e desempate.
// Contraproposta e desempate só existem quando a votação tem três cédulas.
func Variant(v domain.Vote) (proposal, counterProposal, tieBreaker *domain.Ballot) {
	if len(v.Ballots) == 0 {
		return nil, nil, nil
	}
	ballots := make([]domain.Ballot, len(v.Ballots))
	copy(ballots, v.Ballots)
	sort.SliceStable(ballots, func(i, j int) bool {
		return ballotRank(ballots[i].Type) < ballotRank(ballots[j].Type)
	})

	proposal = &ballots[0]
	if len(ballots) == 3 {
		counterProposal = &ballots[1]
		tieBreaker = &ballots[2]
	}
	return proposal, counterProposal, tieBreaker
}

func ballotRank(t domain.BallotType) int {
	switch t {
	case domain.BallotProposal:
		return 0
	case domain.BallotCounterProposal:
		return 1
	case domain.BallotTieBreaker:
		return 2
	default:
		return 3
	}
}

// VoteAnswer decide o resultado da votação. Com contraproposta, o desempate
// só é consultado quando proposta e contraproposta foram aprovadas.
func VoteAnswer(v domain.Vote) Answer {
	if !VoteCounted(v) {
		return AnswerUnknown
	}
	proposal, counter, tie := Variant(v)
	if proposal == nil {
		return AnswerUnknown
	}

	if counter == nil {
		if isAccepted(*proposal) {
			return AnswerAccepted
		}
		return AnswerRejected
	}

	proposalAccepted := isAccepted(*proposal)
	counterAccepted := isAccepted(*counter)
	switch {
	case proposalAccepted && counterAccepted:
		if isAccepted(*tie) {
			return AnswerProposal
		}
		return AnswerCounterProposal
	case proposalAccepted:
		return AnswerProposal
	case counterAccepted:
		return AnswerCounterProposal
	default:
		return AnswerRejected
	}
}

// VoteYeasPercentage mostra a proposta vencedora quando há contraproposta;
// sem ela, usa a soma das cédulas.
func VoteYeasPercentage(v domain.Vote) float64 {
	_, counter, _ := Variant(v)
	if counter == nil {
		return VoteCounts(v).YeasPercentage()
	}

	proposal, _, _ := Variant(v)
	subject := *counter
	switch VoteAnswer(v) {
	case AnswerProposal, AnswerRejected:
		subject = *proposal
	}
	return BallotCounts(subject).YeasPercentage()
}

func VoteNaysPercentage(v domain.Vote) float64 {
	return 100 - VoteYeasPercentage(v)
}

func BallotProgress(b domain.Ballot) Progress {
	p := Progress{Total: len(b.Results)}
	for _, r := range b.Results {
		if r.Counted {
			p.Counted++
		}
	}
	return p
}

// VoteProgress assume que as cédulas de uma votação com variantes chegam
// juntas por entidade, por isso divide pelo número de cédulas.
func VoteProgress(v domain.Vote) Progress {
	if len(v.Ballots) == 0 {
		return Progress{}
	}
	var counted, total int
	for _, b := range v.Ballots {
		p := BallotProgress(b)
		counted += p.Counted
		total += p.Total
	}
	divider := len(v.Ballots)
	return Progress{Counted: counted / divider, Total: total / divider}
}

// PercentageByEntity agrupa os resultados por entidade. A entidade só conta
// como contada quando todas as suas linhas estão contadas.
func PercentageByEntity(b domain.Ballot) map[int64]EntityPercentage {
	type acc struct {
		yeas, nays int64
		counted    bool
	}
	grouped := make(map[int64]*acc)
	for _, r := range b.Results {
		a, ok := grouped[r.EntityID]
		if !ok {
			a = &acc{counted: true}
			grouped[r.EntityID] = a
		}
		a.yeas += value(r.Yeas)
		a.nays += value(r.Nays)
		a.counted = a.counted && r.Counted
	}

	result := make(map[int64]EntityPercentage, len(grouped))
	for id, a := range grouped {
		ep := EntityPercentage{Counted: a.counted}
		if a.counted {
			yeas := YeasPercentage(a.yeas, a.nays)
			nays := 100 - yeas
			ep.YeasPercentage = &yeas
			ep.NaysPercentage = &nays
		}
		result[id] = ep
	}
	return result
}

func isAccepted(b domain.Ballot) bool {
	accepted := BallotCounts(b).Accepted()
	return accepted != nil && *accepted
}
