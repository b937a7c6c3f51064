// Pacote ingest grava votações e eleições já interpretadas e avisa o worker
// de que os resumos precisam ser recalculados.
package ingest

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/marcelojr/apuracao/internal/domain"
)

var (
	ErrInvalidVote     = errors.New("votacao invalida")
	ErrInvalidElection = errors.New("eleicao invalida")
)

type Service struct {
	votes     domain.VoteRepository
	elections domain.ElectionRepository
	queue     domain.EventQueue
	clock     domain.Clock
}

// NewService aceita queue nula; nesse caso nada é publicado e os resumos só
// mudam no próximo recálculo.
func NewService(
	votes domain.VoteRepository,
	elections domain.ElectionRepository,
	queue domain.EventQueue,
	clock domain.Clock,
) *Service {
	return &Service{
		votes:     votes,
		elections: elections,
		queue:     queue,
		clock:     clock,
	}
}

func (s *Service) ImportVote(ctx context.Context, v domain.Vote) (domain.Vote, error) {
	if err := validateVote(v); err != nil {
		return domain.Vote{}, err
	}

	created, err := s.votes.Create(ctx, v)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("ingest: gravar votacao: %w", err)
	}

	if err := s.publish(ctx, domain.ChangeVote, string(created.ID)); err != nil {
		return created, err
	}
	return created, nil
}

func (s *Service) ImportElection(ctx context.Context, e domain.Election) (domain.Election, error) {
	if err := validateElection(e); err != nil {
		return domain.Election{}, err
	}

	created, err := s.elections.Create(ctx, e)
	if err != nil {
		return domain.Election{}, fmt.Errorf("ingest: gravar eleicao: %w", err)
	}

	if err := s.publish(ctx, domain.ChangeElection, string(created.ID)); err != nil {
		return created, err
	}
	return created, nil
}

func (s *Service) publish(ctx context.Context, kind domain.ChangeKind, id string) error {
	if s.queue == nil {
		return nil
	}
	event := domain.ResultsChanged{Kind: kind, ID: id, PublishedAt: s.clock.Now()}
	if err := s.queue.Publish(ctx, event); err != nil {
		return fmt.Errorf("ingest: publicar %s %s: %w", kind, id, err)
	}
	return nil
}

func validateVote(v domain.Vote) error {
	if err := validation.ValidateStruct(&v,
		validation.Field(&v.Title, validation.Required),
		validation.Field(&v.Date, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVote, err)
	}

	seen := make(map[domain.BallotType]bool, len(v.Ballots))
	for _, b := range v.Ballots {
		switch b.Type {
		case domain.BallotProposal, domain.BallotCounterProposal, domain.BallotTieBreaker:
		default:
			return fmt.Errorf("%w: tipo de cedula %q", ErrInvalidVote, b.Type)
		}
		if seen[b.Type] {
			return fmt.Errorf("%w: cedula %s repetida", ErrInvalidVote, b.Type)
		}
		seen[b.Type] = true

		entities := make(map[int64]bool, len(b.Results))
		for _, r := range b.Results {
			if entities[r.EntityID] {
				return fmt.Errorf("%w: entidade %d repetida na cedula %s", ErrInvalidVote, r.EntityID, b.Type)
			}
			entities[r.EntityID] = true
			for _, n := range []*int64{r.Yeas, r.Nays, r.Empty, r.Invalid, r.EligibleVoters} {
				if n != nil && *n < 0 {
					return fmt.Errorf("%w: contagem negativa na entidade %d", ErrInvalidVote, r.EntityID)
				}
			}
		}
	}
	if len(v.Ballots) > 0 && !seen[domain.BallotProposal] {
		return fmt.Errorf("%w: sem proposta", ErrInvalidVote)
	}
	return nil
}

func validateElection(e domain.Election) error {
	if err := validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.Date, validation.Required),
		validation.Field(&e.Type, validation.Required, validation.In(domain.ElectionProporz, domain.ElectionMajorz)),
		validation.Field(&e.NumberOfMandates, validation.Min(int64(0))),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidElection, err)
	}

	for _, r := range e.Results {
		for _, n := range []int64{r.EligibleVoters, r.ReceivedBallots, r.BlankBallots, r.InvalidBallots, r.BlankVotes, r.InvalidVotes} {
			if n < 0 {
				return fmt.Errorf("%w: contagem negativa na entidade %d", ErrInvalidElection, r.EntityID)
			}
		}
	}

	ids := make(map[string]bool)
	var walk func(c domain.ListConnection) error
	walk = func(c domain.ListConnection) error {
		if c.ConnectionID == "" {
			return fmt.Errorf("%w: conexao sem identificador", ErrInvalidElection)
		}
		if ids[c.ConnectionID] {
			return fmt.Errorf("%w: conexao %s repetida", ErrInvalidElection, c.ConnectionID)
		}
		ids[c.ConnectionID] = true
		for _, child := range c.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range e.ListConnections {
		if err := walk(c); err != nil {
			return err
		}
	}
	return nil
}
