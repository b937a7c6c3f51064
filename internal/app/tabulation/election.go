package tabulation

import "github.com/marcelojr/apuracao/internal/domain"

// ElectionCounts é a soma dos resultados de uma eleição (ou um único resultado).
type ElectionCounts struct {
	EligibleVoters  int64 `json:"eligible_voters"`
	ReceivedBallots int64 `json:"received_ballots"`
	BlankBallots    int64 `json:"blank_ballots"`
	InvalidBallots  int64 `json:"invalid_ballots"`
	BlankVotes      int64 `json:"blank_votes"`
	InvalidVotes    int64 `json:"invalid_votes"`
}

func FromElectionResult(r domain.ElectionResult) ElectionCounts {
	return ElectionCounts{
		EligibleVoters:  r.EligibleVoters,
		ReceivedBallots: r.ReceivedBallots,
		BlankBallots:    r.BlankBallots,
		InvalidBallots:  r.InvalidBallots,
		BlankVotes:      r.BlankVotes,
		InvalidVotes:    r.InvalidVotes,
	}
}

func SumElectionResults(results []domain.ElectionResult) ElectionCounts {
	var c ElectionCounts
	for _, r := range results {
		c.EligibleVoters += r.EligibleVoters
		c.ReceivedBallots += r.ReceivedBallots
		c.BlankBallots += r.BlankBallots
		c.InvalidBallots += r.InvalidBallots
		c.BlankVotes += r.BlankVotes
		c.InvalidVotes += r.InvalidVotes
	}
	return c
}

func (c ElectionCounts) UnaccountedBallots() int64 {
	return c.BlankBallots + c.InvalidBallots
}

func (c ElectionCounts) AccountedBallots() int64 {
	return c.ReceivedBallots - c.UnaccountedBallots()
}

// Turnout da eleição considera as cédulas recebidas, não só as válidas.
func (c ElectionCounts) Turnout() float64 {
	return Turnout(c.ReceivedBallots, c.EligibleVoters)
}

// AccountedVotes vale para cada resultado: cada cédula válida carrega um voto
// por cadeira em disputa.
func (c ElectionCounts) AccountedVotes(numberOfMandates int64) int64 {
	return numberOfMandates*c.AccountedBallots() - c.BlankVotes - c.InvalidVotes
}

func ElectionAggregate(e domain.Election, attr Attribute) (int64, error) {
	get, err := ElectionResultAttribute(attr)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range e.Results {
		total += get(r)
	}
	return total, nil
}

// ElectionCounted só é verdadeiro quando o total de entidades é conhecido e
// todas foram contadas.
func ElectionCounted(e domain.Election) bool {
	total, counted := value(e.TotalEntities), value(e.CountedEntities)
	if total == 0 || counted == 0 {
		return false
	}
	return total == counted
}

func ElectionProgress(e domain.Election) Progress {
	return Progress{
		Counted: int(value(e.CountedEntities)),
		Total:   int(value(e.TotalEntities)),
	}
}

func AllocatedMandates(candidates []domain.Candidate) int64 {
	var n int64
	for _, c := range candidates {
		if c.Elected {
			n++
		}
	}
	return n
}

// PartyVotesPercentage é zero quando o partido não tem total de referência.
func PartyVotesPercentage(p domain.PartyResult) float64 {
	if p.TotalVotes == 0 {
		return 0
	}
	return 100 * float64(p.Votes) / float64(p.TotalVotes)
}
