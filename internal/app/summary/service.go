// Pacote summary monta os resumos lidos pela camada de visualização a partir
// dos repositórios, com cache opcional.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcelojr/apuracao/internal/app/tabulation"
	"github.com/marcelojr/apuracao/internal/domain"
	"github.com/marcelojr/apuracao/internal/platform/metrics"
)

var (
	ErrVoteNotFound     = errors.New("votacao nao encontrada")
	ErrElectionNotFound = errors.New("eleicao nao encontrada")
)

type BallotSummary struct {
	ID             domain.BallotID                       `json:"id"`
	Type           domain.BallotType                     `json:"type"`
	Counted        bool                                  `json:"counted"`
	Accepted       *bool                                 `json:"accepted"`
	Yeas           int64                                 `json:"yeas"`
	Nays           int64                                 `json:"nays"`
	Empty          int64                                 `json:"empty"`
	Invalid        int64                                 `json:"invalid"`
	EligibleVoters int64                                 `json:"eligible_voters"`
	CastBallots    int64                                 `json:"cast_ballots"`
	YeasPercentage float64                               `json:"yeas_percentage"`
	NaysPercentage float64                               `json:"nays_percentage"`
	Turnout        float64                               `json:"turnout"`
	Progress       tabulation.Progress                   `json:"progress"`
	Entities       map[int64]tabulation.EntityPercentage `json:"entities"`
}

type VoteSummary struct {
	ID             domain.VoteID       `json:"id"`
	Title          string              `json:"title"`
	Date           time.Time           `json:"date"`
	Counted        bool                `json:"counted"`
	Answer         tabulation.Answer   `json:"answer"`
	YeasPercentage float64             `json:"yeas_percentage"`
	NaysPercentage float64             `json:"nays_percentage"`
	Progress       tabulation.Progress `json:"progress"`
	Ballots        []BallotSummary     `json:"ballots"`
}

// ConnectionSummary traz a contribuição própria do nó (Votes) e a da
// subárvore inteira (TotalVotes).
type ConnectionSummary struct {
	ID                    domain.ConnectionID `json:"id"`
	ConnectionID          string              `json:"connection_id"`
	Votes                 int64               `json:"votes"`
	NumberOfMandates      int64               `json:"number_of_mandates"`
	TotalVotes            int64               `json:"total_votes"`
	TotalNumberOfMandates int64               `json:"total_number_of_mandates"`
	Lists                 []string            `json:"lists"`
	Children              []ConnectionSummary `json:"children"`
}

type ElectionSummary struct {
	ID                domain.ElectionID     `json:"id"`
	Title             string                `json:"title"`
	Type              domain.ElectionType   `json:"type"`
	NumberOfMandates  int64                 `json:"number_of_mandates"`
	AllocatedMandates int64                 `json:"allocated_mandates"`
	Counted           bool                  `json:"counted"`
	Progress          tabulation.Progress   `json:"progress"`
	Totals            domain.ElectionTotals `json:"totals"`
	Connections       []ConnectionSummary   `json:"connections"`
}

// RankedResult é uma linha do ranking de entidades por percentual de sim.
type RankedResult struct {
	EntityID       int64   `json:"entity_id"`
	Group          string  `json:"group"`
	Counted        bool    `json:"counted"`
	YeasPercentage float64 `json:"yeas_percentage"`
	NaysPercentage float64 `json:"nays_percentage"`
}

type Service struct {
	votes     domain.VoteRepository
	elections domain.ElectionRepository
	cache     domain.SummaryCache
	log       *slog.Logger
}

// NewService aceita cache nulo; sem ele os resumos são sempre recalculados.
func NewService(votes domain.VoteRepository, elections domain.ElectionRepository, cache domain.SummaryCache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		votes:     votes,
		elections: elections,
		cache:     cache,
		log:       log,
	}
}

func (s *Service) VoteSummary(ctx context.Context, id domain.VoteID) (VoteSummary, error) {
	var out VoteSummary
	if s.fromCache(ctx, "vote", VoteKey(id), &out) {
		return out, nil
	}

	v, err := s.votes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return VoteSummary{}, ErrVoteNotFound
		}
		return VoteSummary{}, fmt.Errorf("summary: votacao %s: %w", id, err)
	}

	out = BuildVoteSummary(v)
	s.toCache(ctx, VoteKey(id), out)
	return out, nil
}

// BuildVoteSummary calcula o resumo em memória a partir da votação completa.
func BuildVoteSummary(v domain.Vote) VoteSummary {
	out := VoteSummary{
		ID:             v.ID,
		Title:          v.Title,
		Date:           v.Date,
		Counted:        tabulation.VoteCounted(v),
		Answer:         tabulation.VoteAnswer(v),
		YeasPercentage: tabulation.VoteYeasPercentage(v),
		NaysPercentage: tabulation.VoteNaysPercentage(v),
		Progress:       tabulation.VoteProgress(v),
		Ballots:        make([]BallotSummary, 0, len(v.Ballots)),
	}

	proposal, counter, tie := tabulation.Variant(v)
	ordered := []*domain.Ballot{proposal, counter, tie}
	if counter == nil {
		ordered = nil
		for i := range v.Ballots {
			ordered = append(ordered, &v.Ballots[i])
		}
	}
	for _, b := range ordered {
		if b == nil {
			continue
		}
		c := tabulation.BallotCounts(*b)
		out.Ballots = append(out.Ballots, BallotSummary{
			ID:             b.ID,
			Type:           b.Type,
			Counted:        c.Counted,
			Accepted:       c.Accepted(),
			Yeas:           *c.Yeas,
			Nays:           *c.Nays,
			Empty:          *c.Empty,
			Invalid:        *c.Invalid,
			EligibleVoters: *c.EligibleVoters,
			CastBallots:    c.CastBallots(),
			YeasPercentage: c.YeasPercentage(),
			NaysPercentage: c.NaysPercentage(),
			Turnout:        c.Turnout(),
			Progress:       tabulation.BallotProgress(*b),
			Entities:       tabulation.PercentageByEntity(*b),
		})
	}
	return out
}

func (s *Service) ElectionSummary(ctx context.Context, id domain.ElectionID) (ElectionSummary, error) {
	var out ElectionSummary
	if s.fromCache(ctx, "election", ElectionKey(id), &out) {
		return out, nil
	}

	e, err := s.elections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ElectionSummary{}, ErrElectionNotFound
		}
		return ElectionSummary{}, fmt.Errorf("summary: eleicao %s: %w", id, err)
	}

	totals, err := s.elections.Totals(ctx, id)
	if err != nil {
		return ElectionSummary{}, fmt.Errorf("summary: totais %s: %w", id, err)
	}

	tree, err := s.elections.ConnectionTree(ctx, id)
	if err != nil {
		return ElectionSummary{}, fmt.Errorf("summary: conexoes %s: %w", id, err)
	}

	out = ElectionSummary{
		ID:                e.ID,
		Title:             e.Title,
		Type:              e.Type,
		NumberOfMandates:  e.NumberOfMandates,
		AllocatedMandates: tabulation.AllocatedMandates(e.Candidates),
		Counted:           tabulation.ElectionCounted(e),
		Progress:          tabulation.ElectionProgress(e),
		Totals:            totals,
		Connections:       make([]ConnectionSummary, len(tree)),
	}
	for i, root := range tree {
		out.Connections[i] = buildConnection(root)
	}

	s.toCache(ctx, ElectionKey(id), out)
	return out, nil
}

func buildConnection(node domain.ListConnection) ConnectionSummary {
	cs := ConnectionSummary{
		ID:                    node.ID,
		ConnectionID:          node.ConnectionID,
		TotalVotes:            tabulation.TotalVotes(node),
		TotalNumberOfMandates: tabulation.TotalNumberOfMandates(node),
		Lists:                 make([]string, len(node.Lists)),
		Children:              make([]ConnectionSummary, len(node.Children)),
	}
	if node.Votes != nil {
		cs.Votes = *node.Votes
	}
	if node.NumberOfMandates != nil {
		cs.NumberOfMandates = *node.NumberOfMandates
	}
	for i, l := range node.Lists {
		cs.Lists[i] = l.ListID
	}
	for i, child := range node.Children {
		cs.Children[i] = buildConnection(child)
	}
	return cs
}

// RankBallotResults usa o percentual calculado no banco para ordenar; limit
// zero devolve todas as entidades.
func (s *Service) RankBallotResults(ctx context.Context, ballotID domain.BallotID, limit int) ([]RankedResult, error) {
	results, err := s.votes.RankResults(ctx, ballotID, limit)
	if err != nil {
		return nil, fmt.Errorf("summary: ranking %s: %w", ballotID, err)
	}

	ranked := make([]RankedResult, len(results))
	for i, r := range results {
		c := tabulation.FromResult(r)
		ranked[i] = RankedResult{
			EntityID:       r.EntityID,
			Group:          r.Group,
			Counted:        r.Counted,
			YeasPercentage: c.YeasPercentage(),
			NaysPercentage: c.NaysPercentage(),
		}
	}
	return ranked, nil
}

// Falhas de cache não interrompem a leitura; o resumo é recalculado.
func (s *Service) fromCache(ctx context.Context, summary, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	switch {
	case err != nil:
		metrics.ObserveSummaryCache(summary, "error")
		s.log.Warn("falha ao ler resumo do cache", "key", key, "err", err)
		return false
	case ok:
		metrics.ObserveSummaryCache(summary, "hit")
		return true
	default:
		metrics.ObserveSummaryCache(summary, "miss")
		return false
	}
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("falha ao gravar resumo no cache", "key", key, "err", err)
	}
}
