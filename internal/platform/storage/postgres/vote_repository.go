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

// VoteRepository grava votações com cédulas e resultados e calcula as
// métricas das cédulas dentro do banco.
type VoteRepository struct {
	db  *gorm.DB
	ids *ids.Generator
}

func NewVoteRepository(db *gorm.DB, idGen *ids.Generator) *VoteRepository {
	if idGen == nil {
		idGen = ids.NewGenerator()
	}
	return &VoteRepository{db: db, ids: idGen}
}

func (r *VoteRepository) Create(ctx context.Context, v domain.Vote) (domain.Vote, error) {
	ids.Fill(r.ids, &v.ID)
	for i := range v.Ballots {
		b := &v.Ballots[i]
		ids.Fill(r.ids, &b.ID)
		b.VoteID = v.ID
		for j := range b.Results {
			ids.Fill(r.ids, &b.Results[j].ID)
			b.Results[j].BallotID = b.ID
		}
	}

	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return domain.Vote{}, fmt.Errorf("gorm votacao: inserir: %w", err)
	}
	return v, nil
}

func (r *VoteRepository) FindByID(ctx context.Context, id domain.VoteID) (domain.Vote, error) {
	var v domain.Vote
	if err := r.db.WithContext(ctx).
		Preload("Ballots").
		Preload("Ballots.Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("entity_group ASC, entity_id ASC")
		}).
		First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vote{}, domain.ErrNotFound
		}
		return domain.Vote{}, fmt.Errorf("gorm votacao: buscar id: %w", err)
	}
	return v, nil
}

// BallotMetrics soma os resultados de cada cédula numa subconsulta e aplica
// as mesmas expressões usadas por resultado individual.
func (r *VoteRepository) BallotMetrics(ctx context.Context, id domain.VoteID) ([]domain.BallotMetrics, error) {
	sums := make([]string, 0, 5)
	for _, attr := range []tabulation.Attribute{
		tabulation.AttrYeas, tabulation.AttrNays, tabulation.AttrEmpty,
		tabulation.AttrInvalid, tabulation.AttrEligibleVoters,
	} {
		expr, err := BallotAggregateExpr(attr)
		if err != nil {
			return nil, fmt.Errorf("gorm votacao: metricas: %w", err)
		}
		sums = append(sums, fmt.Sprintf("%s AS %s", expr.SQL, attr))
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.type, s.counted, s.yeas, s.nays, s.empty, s.invalid, s.eligible_voters,
		       %s AS cast_ballots, %s AS yeas_percentage, %s AS nays_percentage,
		       %s AS turnout, %s AS accepted
		FROM (
			SELECT ballots.id, ballots.type, %s AS counted, %s, %s, %s, %s, %s
			FROM ballots
			WHERE ballots.vote_id = ?
		) AS s
		ORDER BY s.type ASC`,
		CastBallotsExpr("s").SQL, YeasPercentageExpr("s").SQL, NaysPercentageExpr("s").SQL,
		TurnoutExpr("s").SQL, AcceptedExpr("s").SQL,
		BallotCountedExpr().SQL, sums[0], sums[1], sums[2], sums[3], sums[4],
	)

	rows, err := r.db.WithContext(ctx).Raw(query, id).Rows()
	if err != nil {
		return nil, fmt.Errorf("gorm votacao: metricas: %w", err)
	}
	defer rows.Close()

	var metrics []domain.BallotMetrics
	for rows.Next() {
		var (
			m        domain.BallotMetrics
			ballotID string
			typ      string
			counted  sql.NullBool
			accepted sql.NullBool
		)
		if err := rows.Scan(
			&ballotID, &typ, &counted,
			&m.Yeas, &m.Nays, &m.Empty, &m.Invalid, &m.EligibleVoters,
			&m.CastBallots, &m.YeasPercentage, &m.NaysPercentage, &m.Turnout, &accepted,
		); err != nil {
			return nil, fmt.Errorf("gorm votacao: ler metricas: %w", err)
		}
		m.BallotID = domain.BallotID(ballotID)
		m.Type = domain.BallotType(typ)
		m.Counted = counted.Valid && counted.Bool
		if accepted.Valid {
			value := accepted.Bool
			m.Accepted = &value
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gorm votacao: ler metricas: %w", err)
	}
	return metrics, nil
}

// RankResults ordena os resultados pelo percentual de sim calculado no banco,
// sem carregar a cédula inteira.
func (r *VoteRepository) RankResults(ctx context.Context, ballotID domain.BallotID, limit int) ([]domain.BallotResult, error) {
	query := r.db.WithContext(ctx).
		Where("ballot_id = ?", ballotID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL: YeasPercentageExpr("ballot_results").SQL + " DESC, ballot_results.entity_id ASC",
		}})
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []domain.BallotResult
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("gorm votacao: ranking resultados: %w", err)
	}
	return results, nil
}

var _ domain.VoteRepository = (*VoteRepository)(nil)
