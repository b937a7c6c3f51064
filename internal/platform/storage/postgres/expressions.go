package postgres

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/marcelojr/apuracao/internal/app/tabulation"
)

// As expressões abaixo espelham as fórmulas de tabulation. A ordem dos
// operandos e o CAST para DOUBLE PRECISION são os mesmos do cálculo em Go,
// assim Postgres e SQLite devolvem o mesmo float64.

const hundred = "CAST(100 AS DOUBLE PRECISION)"

func coalesce(table, column string) string {
	return fmt.Sprintf("COALESCE(%s.%s, 0)", table, column)
}

// YeasPercentageExpr usa NULLIF/COALESCE para trocar divisor zero por 1.
func YeasPercentageExpr(table string) clause.Expr {
	yeas, nays := coalesce(table, "yeas"), coalesce(table, "nays")
	return clause.Expr{SQL: fmt.Sprintf(
		"(%s * %s / COALESCE(NULLIF(%s + %s, 0), 1))",
		hundred, yeas, yeas, nays,
	)}
}

func NaysPercentageExpr(table string) clause.Expr {
	return clause.Expr{SQL: fmt.Sprintf("(100 - %s)", YeasPercentageExpr(table).SQL)}
}

// AcceptedExpr devolve NULL enquanto o resultado não foi contado.
func AcceptedExpr(table string) clause.Expr {
	return clause.Expr{SQL: fmt.Sprintf(
		"(CASE WHEN %s.counted THEN %s > %s ELSE NULL END)",
		table, coalesce(table, "yeas"), coalesce(table, "nays"),
	)}
}

func CastBallotsExpr(table string) clause.Expr {
	return clause.Expr{SQL: fmt.Sprintf(
		"(%s + %s + %s + %s)",
		coalesce(table, "yeas"), coalesce(table, "nays"),
		coalesce(table, "empty"), coalesce(table, "invalid"),
	)}
}

func TurnoutExpr(table string) clause.Expr {
	eligible := coalesce(table, "eligible_voters")
	return clause.Expr{SQL: fmt.Sprintf(
		"(CASE WHEN %s = 0 THEN 0 ELSE %s * %s / %s END)",
		eligible, hundred, CastBallotsExpr(table).SQL, eligible,
	)}
}

// BallotCountedExpr é verdadeiro quando nenhum resultado da cédula está pendente.
func BallotCountedExpr() clause.Expr {
	return clause.Expr{SQL: "((SELECT COUNT(*) FROM ballot_results " +
		"WHERE ballot_results.ballot_id = ballots.id AND NOT ballot_results.counted) = 0)"}
}

// ConnectionAggregateExpr soma o atributo das listas diretamente ligadas a
// list_connections; conexões sem listas somam zero.
func ConnectionAggregateExpr(attr tabulation.Attribute) (clause.Expr, error) {
	if _, err := tabulation.ListAttribute(attr); err != nil {
		return clause.Expr{}, err
	}
	return clause.Expr{SQL: fmt.Sprintf(
		"(SELECT CAST(COALESCE(SUM(lists.%s), 0) AS BIGINT) FROM lists WHERE lists.connection_id = list_connections.id)",
		attr,
	)}, nil
}

func BallotAggregateExpr(attr tabulation.Attribute) (clause.Expr, error) {
	if _, err := tabulation.BallotResultAttribute(attr); err != nil {
		return clause.Expr{}, err
	}
	return clause.Expr{SQL: fmt.Sprintf(
		"(SELECT CAST(COALESCE(SUM(ballot_results.%s), 0) AS BIGINT) FROM ballot_results WHERE ballot_results.ballot_id = ballots.id)",
		attr,
	)}, nil
}

func VoteAggregateExpr(attr tabulation.Attribute) (clause.Expr, error) {
	if _, err := tabulation.BallotResultAttribute(attr); err != nil {
		return clause.Expr{}, err
	}
	return clause.Expr{SQL: fmt.Sprintf(
		"(SELECT CAST(COALESCE(SUM(r.%s), 0) AS BIGINT) FROM ballot_results r JOIN ballots b ON b.id = r.ballot_id WHERE b.vote_id = votes.id)",
		attr,
	)}, nil
}

func ElectionAggregateExpr(attr tabulation.Attribute) (clause.Expr, error) {
	if _, err := tabulation.ElectionResultAttribute(attr); err != nil {
		return clause.Expr{}, err
	}
	return clause.Expr{SQL: fmt.Sprintf(
		"(SELECT CAST(COALESCE(SUM(election_results.%s), 0) AS BIGINT) FROM election_results WHERE election_results.election_id = elections.id)",
		attr,
	)}, nil
}

func AccountedBallotsExpr(table string) clause.Expr {
	return clause.Expr{SQL: fmt.Sprintf(
		"(%s - (%s + %s))",
		coalesce(table, "received_ballots"), coalesce(table, "blank_ballots"), coalesce(table, "invalid_ballots"),
	)}
}

func ElectionTurnoutExpr(table string) clause.Expr {
	eligible := coalesce(table, "eligible_voters")
	return clause.Expr{SQL: fmt.Sprintf(
		"(CASE WHEN %s = 0 THEN 0 ELSE %s * %s / %s END)",
		eligible, hundred, coalesce(table, "received_ballots"), eligible,
	)}
}

// AccountedVotesExpr depende do número de cadeiras da eleição dona do resultado.
func AccountedVotesExpr() clause.Expr {
	return clause.Expr{SQL: fmt.Sprintf(
		"((SELECT elections.number_of_mandates FROM elections WHERE elections.id = election_results.election_id) * %s - %s - %s)",
		AccountedBallotsExpr("election_results").SQL,
		coalesce("election_results", "blank_votes"),
		coalesce("election_results", "invalid_votes"),
	)}
}
