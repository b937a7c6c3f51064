package tabulation

import (
	"errors"
	"fmt"

	"github.com/marcelojr/apuracao/internal/domain"
)

var ErrUnknownAttribute = errors.New("atributo desconhecido")

// Attribute nomeia uma coluna somável. Os nomes coincidem com as colunas do
// banco para que a forma SQL use o mesmo identificador.
type Attribute string

const (
	AttrVotes            Attribute = "votes"
	AttrNumberOfMandates Attribute = "number_of_mandates"

	AttrYeas           Attribute = "yeas"
	AttrNays           Attribute = "nays"
	AttrEmpty          Attribute = "empty"
	AttrInvalid        Attribute = "invalid"
	AttrEligibleVoters Attribute = "eligible_voters"

	AttrReceivedBallots Attribute = "received_ballots"
	AttrBlankBallots    Attribute = "blank_ballots"
	AttrInvalidBallots  Attribute = "invalid_ballots"
	AttrBlankVotes      Attribute = "blank_votes"
	AttrInvalidVotes    Attribute = "invalid_votes"
)

func ListAttribute(attr Attribute) (func(domain.List) int64, error) {
	switch attr {
	case AttrVotes:
		return func(l domain.List) int64 { return l.Votes }, nil
	case AttrNumberOfMandates:
		return func(l domain.List) int64 { return l.NumberOfMandates }, nil
	}
	return nil, fmt.Errorf("%w: lista.%s", ErrUnknownAttribute, attr)
}

func BallotResultAttribute(attr Attribute) (func(domain.BallotResult) int64, error) {
	switch attr {
	case AttrYeas:
		return func(r domain.BallotResult) int64 { return value(r.Yeas) }, nil
	case AttrNays:
		return func(r domain.BallotResult) int64 { return value(r.Nays) }, nil
	case AttrEmpty:
		return func(r domain.BallotResult) int64 { return value(r.Empty) }, nil
	case AttrInvalid:
		return func(r domain.BallotResult) int64 { return value(r.Invalid) }, nil
	case AttrEligibleVoters:
		return func(r domain.BallotResult) int64 { return value(r.EligibleVoters) }, nil
	}
	return nil, fmt.Errorf("%w: resultado.%s", ErrUnknownAttribute, attr)
}

func ElectionResultAttribute(attr Attribute) (func(domain.ElectionResult) int64, error) {
	switch attr {
	case AttrEligibleVoters:
		return func(r domain.ElectionResult) int64 { return r.EligibleVoters }, nil
	case AttrReceivedBallots:
		return func(r domain.ElectionResult) int64 { return r.ReceivedBallots }, nil
	case AttrBlankBallots:
		return func(r domain.ElectionResult) int64 { return r.BlankBallots }, nil
	case AttrInvalidBallots:
		return func(r domain.ElectionResult) int64 { return r.InvalidBallots }, nil
	case AttrBlankVotes:
		return func(r domain.ElectionResult) int64 { return r.BlankVotes }, nil
	case AttrInvalidVotes:
		return func(r domain.ElectionResult) int64 { return r.InvalidVotes }, nil
	}
	return nil, fmt.Errorf("%w: resultado eleicao.%s", ErrUnknownAttribute, attr)
}
