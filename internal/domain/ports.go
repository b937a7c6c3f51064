package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("registro nao encontrado")

// BallotMetrics é o retrato de uma cédula calculado dentro do banco.
type BallotMetrics struct {
	BallotID       BallotID
	Type           BallotType
	Counted        bool
	Yeas           int64
	Nays           int64
	Empty          int64
	Invalid        int64
	EligibleVoters int64
	CastBallots    int64
	YeasPercentage float64
	NaysPercentage float64
	Turnout        float64
	Accepted       *bool
}

// ConnectionTotals é a contribuição direta de uma conexão (somente suas listas).
type ConnectionTotals struct {
	ConnectionID     ConnectionID
	Votes            int64
	NumberOfMandates int64
}

// ElectionTotals são os resultados somados de uma eleição, com os derivados
// calculados no banco.
type ElectionTotals struct {
	EligibleVoters   int64
	ReceivedBallots  int64
	BlankBallots     int64
	InvalidBallots   int64
	BlankVotes       int64
	InvalidVotes     int64
	AccountedBallots int64
	Turnout          float64
}

type VoteRepository interface {
	Create(ctx context.Context, vote Vote) (Vote, error)
	FindByID(ctx context.Context, id VoteID) (Vote, error)
	BallotMetrics(ctx context.Context, id VoteID) ([]BallotMetrics, error)
	RankResults(ctx context.Context, ballotID BallotID, limit int) ([]BallotResult, error)
}

type ElectionRepository interface {
	Create(ctx context.Context, election Election) (Election, error)
	FindByID(ctx context.Context, id ElectionID) (Election, error)
	ConnectionTree(ctx context.Context, id ElectionID) ([]ListConnection, error)
	ConnectionTotals(ctx context.Context, id ElectionID) (map[ConnectionID]ConnectionTotals, error)
	Totals(ctx context.Context, id ElectionID) (ElectionTotals, error)
	AccountedVotes(ctx context.Context, id ElectionID) (map[ResultID]int64, error)
	RefreshSummaries(ctx context.Context, id ElectionID) error
}

type SummaryCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

type EventQueue interface {
	Publish(ctx context.Context, event ResultsChanged) error
	Consume(ctx context.Context, handler func(context.Context, ResultsChanged) error) error
}

type Clock interface {
	Now() time.Time
}
