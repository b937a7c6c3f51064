// Pacote migrations centraliza as versões gormigrate aplicadas na inicialização.
package migrations

import (
	"fmt"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/marcelojr/apuracao/internal/domain"
)

func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202410140001_votacoes",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.Vote{}, &domain.Ballot{}, &domain.BallotResult{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("ballot_results", "ballots", "votes")
			},
		},
		{
			ID: "202410140002_eleicoes",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Election{},
					&domain.ElectionResult{},
					&domain.ListConnection{},
					&domain.List{},
					&domain.ListResult{},
					&domain.Candidate{},
					&domain.CandidateResult{},
					&domain.PartyResult{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"party_results", "candidate_results", "candidates", "list_results",
					"lists", "list_connections", "election_results", "elections",
				)
			},
		},
		{
			// Filtros por eleição e ordenação da árvore usam (election_id, connection_id).
			ID: "202410140003_indice_conexoes",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_list_connections_election_connection " +
					"ON list_connections (election_id, connection_id)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_list_connections_election_connection").Error
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrations: falha ao aplicar: %w", err)
	}

	return nil
}
