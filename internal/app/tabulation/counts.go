// Pacote tabulation concentra as fórmulas de apuração calculadas em memória.
// Cada fórmula tem uma expressão SQL equivalente em storage/postgres; as duas
// formas precisam produzir o mesmo número para os mesmos dados.
package tabulation

import "github.com/marcelojr/apuracao/internal/domain"

// Counts reúne as contagens de um resultado, cédula ou votação.
// Campos nulos valem zero em todas as fórmulas.
type Counts struct {
	Yeas           *int64
	Nays           *int64
	Empty          *int64
	Invalid        *int64
	EligibleVoters *int64
	Counted        bool
}

func FromResult(r domain.BallotResult) Counts {
	return Counts{
		Yeas:           r.Yeas,
		Nays:           r.Nays,
		Empty:          r.Empty,
		Invalid:        r.Invalid,
		EligibleVoters: r.EligibleVoters,
		Counted:        r.Counted,
	}
}

func (c Counts) YeasPercentage() float64 {
	return YeasPercentage(value(c.Yeas), value(c.Nays))
}

func (c Counts) NaysPercentage() float64 {
	return NaysPercentage(value(c.Yeas), value(c.Nays))
}

func (c Counts) Accepted() *bool {
	return Accepted(c.Counted, value(c.Yeas), value(c.Nays))
}

func (c Counts) CastBallots() int64 {
	return CastBallots(c.Yeas, c.Nays, c.Empty, c.Invalid)
}

func (c Counts) Turnout() float64 {
	return Turnout(c.CastBallots(), value(c.EligibleVoters))
}

// YeasPercentage desconsidera brancos e nulos. Sem votos decisivos o divisor
// vira 1 e o resultado é 0%.
func YeasPercentage(yeas, nays int64) float64 {
	divisor := yeas + nays
	if divisor == 0 {
		divisor = 1
	}
	return 100 * float64(yeas) / float64(divisor)
}

// NaysPercentage é sempre o complemento de YeasPercentage.
func NaysPercentage(yeas, nays int64) float64 {
	return 100 - YeasPercentage(yeas, nays)
}

// Accepted devolve nil enquanto a contagem não é final; empate não aprova.
func Accepted(counted bool, yeas, nays int64) *bool {
	if !counted {
		return nil
	}
	accepted := yeas > nays
	return &accepted
}

func CastBallots(yeas, nays, empty, invalid *int64) int64 {
	return value(yeas) + value(nays) + value(empty) + value(invalid)
}

// Turnout é zero quando não há eleitores aptos.
func Turnout(cast, eligibleVoters int64) float64 {
	if eligibleVoters == 0 {
		return 0
	}
	return 100 * float64(cast) / float64(eligibleVoters)
}

func value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// Int64 é um atalho para montar contagens opcionais.
func Int64(v int64) *int64 {
	return &v
}
