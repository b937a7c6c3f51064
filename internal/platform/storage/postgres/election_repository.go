package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/apuracao/internal/app/tabulation"
	"github.com/marcelojr/apuracao/internal/domain"
	"github.com/marcelojr/apuracao/internal/platform/ids"
)

// ElectionRepository guarda eleições com resultados, listas, candidatos e a
// árvore de conexões de listas.
type ElectionRepository struct {
	db  *gorm.DB
	ids *ids.Generator
}

func NewElectionRepository(db *gorm.DB, idGen *ids.Generator) *ElectionRepository {
	if idGen == nil {
		idGen = ids.NewGenerator()
	}
	return &ElectionRepository{db: db, ids: idGen}
}

// electionRows é a eleição achatada na ordem em que as tabelas dependem umas
// das outras.
type electionRows struct {
	results          []domain.ElectionResult
	connections      []domain.ListConnection
	lists            []domain.List
	listResults      []domain.ListResult
	candidates       []domain.Candidate
	candidateResults []domain.CandidateResult
	parties          []domain.PartyResult
}

// Create aceita conexões aninhadas (Children/Lists) e listas soltas em
// Election.Lists. IDs já preenchidos são mantidos para que ListResult e
// CandidateResult possam referenciar listas e candidatos.
func (r *ElectionRepository) Create(ctx context.Context, e domain.Election) (domain.Election, error) {
	ids.Fill(r.ids, &e.ID)
	rows := r.flatten(&e)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = tx.Omit(clause.Associations).Session(&gorm.Session{})
		if err := tx.Create(&e).Error; err != nil {
			return fmt.Errorf("eleicao: %w", err)
		}
		steps := []struct {
			name  string
			value any
			size  int
		}{
			{"resultados", &rows.results, len(rows.results)},
			{"conexoes", &rows.connections, len(rows.connections)},
			{"listas", &rows.lists, len(rows.lists)},
			{"resultados de lista", &rows.listResults, len(rows.listResults)},
			{"candidatos", &rows.candidates, len(rows.candidates)},
			{"resultados de candidato", &rows.candidateResults, len(rows.candidateResults)},
			{"partidos", &rows.parties, len(rows.parties)},
		}
		for _, step := range steps {
			if step.size == 0 {
				continue
			}
			if err := tx.CreateInBatches(step.value, 200).Error; err != nil {
				return fmt.Errorf("%s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Election{}, fmt.Errorf("gorm eleicao: inserir %w", err)
	}
	return e, nil
}

func (r *ElectionRepository) flatten(e *domain.Election) electionRows {
	var rows electionRows

	for i := range e.Results {
		res := &e.Results[i]
		ids.Fill(r.ids, &res.ID)
		res.ElectionID = e.ID
		for j := range res.ListResults {
			ids.Fill(r.ids, &res.ListResults[j].ID)
			res.ListResults[j].ElectionResultID = res.ID
			rows.listResults = append(rows.listResults, res.ListResults[j])
		}
		for j := range res.CandidateResults {
			ids.Fill(r.ids, &res.CandidateResults[j].ID)
			res.CandidateResults[j].ElectionResultID = res.ID
			rows.candidateResults = append(rows.candidateResults, res.CandidateResults[j])
		}
		rows.results = append(rows.results, *res)
	}

	addList := func(l *domain.List) {
		ids.Fill(r.ids, &l.ID)
		l.ElectionID = e.ID
		for j := range l.Results {
			ids.Fill(r.ids, &l.Results[j].ID)
			l.Results[j].ListID = l.ID
			rows.listResults = append(rows.listResults, l.Results[j])
		}
		rows.lists = append(rows.lists, *l)
	}

	// Pais entram antes dos filhos para respeitar a FK parent_id.
	var walk func(c *domain.ListConnection, parent *domain.ConnectionID)
	walk = func(c *domain.ListConnection, parent *domain.ConnectionID) {
		ids.Fill(r.ids, &c.ID)
		c.ElectionID = e.ID
		c.ParentID = parent
		rows.connections = append(rows.connections, *c)
		for i := range c.Lists {
			id := c.ID
			c.Lists[i].ConnectionID = &id
			addList(&c.Lists[i])
		}
		for i := range c.Children {
			id := c.ID
			walk(&c.Children[i], &id)
		}
	}
	for i := range e.ListConnections {
		walk(&e.ListConnections[i], nil)
	}
	for i := range e.Lists {
		addList(&e.Lists[i])
	}

	for i := range e.Candidates {
		c := &e.Candidates[i]
		ids.Fill(r.ids, &c.ID)
		c.ElectionID = e.ID
		for j := range c.Results {
			ids.Fill(r.ids, &c.Results[j].ID)
			c.Results[j].CandidateID = c.ID
			rows.candidateResults = append(rows.candidateResults, c.Results[j])
		}
		rows.candidates = append(rows.candidates, *c)
	}

	for i := range e.PartyResults {
		ids.Fill(r.ids, &e.PartyResults[i].ID)
		e.PartyResults[i].ElectionID = e.ID
		rows.parties = append(rows.parties, e.PartyResults[i])
	}

	return rows
}

func (r *ElectionRepository) FindByID(ctx context.Context, id domain.ElectionID) (domain.Election, error) {
	var e domain.Election
	if err := r.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("entity_group ASC, entity_id ASC")
		}).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("candidate_id ASC")
		}).
		Preload("PartyResults").
		First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Election{}, domain.ErrNotFound
		}
		return domain.Election{}, fmt.Errorf("gorm eleicao: buscar id: %w", err)
	}
	return e, nil
}

// ConnectionTree carrega conexões e listas com duas consultas e monta a
// árvore em memória; devolve as raízes ordenadas por connection_id.
func (r *ElectionRepository) ConnectionTree(ctx context.Context, id domain.ElectionID) ([]domain.ListConnection, error) {
	var conns []domain.ListConnection
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", id).
		Order("connection_id ASC").
		Find(&conns).Error; err != nil {
		return nil, fmt.Errorf("gorm eleicao: listar conexoes: %w", err)
	}

	var lists []domain.List
	if err := r.db.WithContext(ctx).
		Where("election_id = ? AND connection_id IS NOT NULL", id).
		Order("list_id ASC").
		Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("gorm eleicao: listar listas: %w", err)
	}

	return assembleTree(conns, lists), nil
}

// ConnectionTotals calcula no banco a contribuição direta de cada conexão.
func (r *ElectionRepository) ConnectionTotals(ctx context.Context, id domain.ElectionID) (map[domain.ConnectionID]domain.ConnectionTotals, error) {
	votes, err := ConnectionAggregateExpr(tabulation.AttrVotes)
	if err != nil {
		return nil, err
	}
	mandates, err := ConnectionAggregateExpr(tabulation.AttrNumberOfMandates)
	if err != nil {
		return nil, err
	}

	type resultado struct {
		ID               string
		Votes            int64
		NumberOfMandates int64
	}
	var res []resultado
	if err := r.db.WithContext(ctx).
		Table("list_connections").
		Select("list_connections.id AS id, ? AS votes, ? AS number_of_mandates", votes, mandates).
		Where("list_connections.election_id = ?", id).
		Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("gorm eleicao: totais conexoes: %w", err)
	}

	totals := make(map[domain.ConnectionID]domain.ConnectionTotals, len(res))
	for _, item := range res {
		totals[domain.ConnectionID(item.ID)] = domain.ConnectionTotals{
			ConnectionID:     domain.ConnectionID(item.ID),
			Votes:            item.Votes,
			NumberOfMandates: item.NumberOfMandates,
		}
	}
	return totals, nil
}

// Totals soma os resultados da eleição e deriva cédulas válidas e
// comparecimento no próprio banco.
func (r *ElectionRepository) Totals(ctx context.Context, id domain.ElectionID) (domain.ElectionTotals, error) {
	attrs := []tabulation.Attribute{
		tabulation.AttrEligibleVoters, tabulation.AttrReceivedBallots, tabulation.AttrBlankBallots,
		tabulation.AttrInvalidBallots, tabulation.AttrBlankVotes, tabulation.AttrInvalidVotes,
	}
	sums := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		expr, err := ElectionAggregateExpr(attr)
		if err != nil {
			return domain.ElectionTotals{}, err
		}
		sums = append(sums, fmt.Sprintf("%s AS %s", expr.SQL, attr))
	}

	query := fmt.Sprintf(`
		SELECT s.eligible_voters, s.received_ballots, s.blank_ballots, s.invalid_ballots,
		       s.blank_votes, s.invalid_votes, %s AS accounted_ballots, %s AS turnout
		FROM (
			SELECT %s, %s, %s, %s, %s, %s
			FROM elections
			WHERE elections.id = ?
		) AS s`,
		append([]any{AccountedBallotsExpr("s").SQL, ElectionTurnoutExpr("s").SQL}, sums...)...,
	)

	var t domain.ElectionTotals
	row := r.db.WithContext(ctx).Raw(query, id).Row()
	if err := row.Scan(
		&t.EligibleVoters, &t.ReceivedBallots, &t.BlankBallots, &t.InvalidBallots,
		&t.BlankVotes, &t.InvalidVotes, &t.AccountedBallots, &t.Turnout,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ElectionTotals{}, domain.ErrNotFound
		}
		return domain.ElectionTotals{}, fmt.Errorf("gorm eleicao: totais: %w", err)
	}
	return t, nil
}

// AccountedVotes devolve os votos válidos de cada resultado, calculados no banco.
func (r *ElectionRepository) AccountedVotes(ctx context.Context, id domain.ElectionID) (map[domain.ResultID]int64, error) {
	type resultado struct {
		ID             string
		AccountedVotes int64
	}
	var res []resultado
	if err := r.db.WithContext(ctx).
		Table("election_results").
		Select("election_results.id AS id, ? AS accounted_votes", AccountedVotesExpr()).
		Where("election_results.election_id = ?", id).
		Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("gorm eleicao: votos validos: %w", err)
	}

	votes := make(map[domain.ResultID]int64, len(res))
	for _, item := range res {
		votes[domain.ResultID(item.ID)] = item.AccountedVotes
	}
	return votes, nil
}

// RefreshSummaries recalcula as colunas resumidas: votos de listas e
// candidatos a partir dos resultados, e votos/cadeiras das conexões a partir
// das listas.
func (r *ElectionRepository) RefreshSummaries(ctx context.Context, id domain.ElectionID) error {
	votes, err := ConnectionAggregateExpr(tabulation.AttrVotes)
	if err != nil {
		return err
	}
	mandates, err := ConnectionAggregateExpr(tabulation.AttrNumberOfMandates)
	if err != nil {
		return err
	}

	statements := []struct {
		name string
		sql  string
	}{
		{"listas", `UPDATE lists SET votes = (
			SELECT COALESCE(SUM(list_results.votes), 0) FROM list_results WHERE list_results.list_id = lists.id
		) WHERE lists.election_id = ?`},
		{"candidatos", `UPDATE candidates SET votes = (
			SELECT COALESCE(SUM(candidate_results.votes), 0) FROM candidate_results WHERE candidate_results.candidate_id = candidates.id
		) WHERE candidates.election_id = ?`},
		{"conexoes", fmt.Sprintf(
			"UPDATE list_connections SET votes = %s, number_of_mandates = %s WHERE list_connections.election_id = ?",
			votes.SQL, mandates.SQL,
		)},
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range statements {
			if err := tx.Exec(stmt.sql, id).Error; err != nil {
				return fmt.Errorf("gorm eleicao: resumir %s: %w", stmt.name, err)
			}
		}
		return nil
	})
}

var _ domain.ElectionRepository = (*ElectionRepository)(nil)
