// Importador de resultados já convertidos para JSON: grava a votação ou a
// eleição no Postgres e publica o evento que dispara o recálculo no worker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcelojr/apuracao/internal/app/ingest"
	"github.com/marcelojr/apuracao/internal/domain"
	"github.com/marcelojr/apuracao/internal/platform/clock"
	"github.com/marcelojr/apuracao/internal/platform/config"
	"github.com/marcelojr/apuracao/internal/platform/logger"
	"github.com/marcelojr/apuracao/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/apuracao/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/apuracao/internal/platform/storage/redis"
)

var noPublish bool

var rootCmd = &cobra.Command{
	Use:           "apuracao-import",
	Short:         "Importa votacoes e eleicoes em JSON",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var voteCmd = &cobra.Command{
	Use:   "vote [arquivo.json]",
	Short: "Importa uma votacao (use - para ler da entrada padrao)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v domain.Vote
		if err := decodeFile(args[0], cmd.InOrStdin(), &v); err != nil {
			return err
		}
		return withService(cmd.Context(), func(ctx context.Context, s *ingest.Service) error {
			created, err := s.ImportVote(ctx, v)
			if err != nil {
				return err
			}
			logger.Info("votacao importada", "id", created.ID, "ballots", len(created.Ballots))
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		})
	},
}

var electionCmd = &cobra.Command{
	Use:   "election [arquivo.json]",
	Short: "Importa uma eleicao com conexoes, listas e candidatos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var e domain.Election
		if err := decodeFile(args[0], cmd.InOrStdin(), &e); err != nil {
			return err
		}
		return withService(cmd.Context(), func(ctx context.Context, s *ingest.Service) error {
			created, err := s.ImportElection(ctx, e)
			if err != nil {
				return err
			}
			logger.Info("eleicao importada", "id", created.ID, "results", len(created.Results))
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noPublish, "no-publish", false, "nao publica o evento de recalculo")
	rootCmd.AddCommand(voteCmd, electionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("importacao falhou", "err", err)
	}
}

// decodeFile rejeita campos desconhecidos para que erros de digitação no
// arquivo não virem contagens nulas.
func decodeFile(path string, stdin io.Reader, dst any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("import: abrir %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("import: decodificar %s: %w", path, err)
	}
	return nil
}

func withService(ctx context.Context, run func(context.Context, *ingest.Service) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN(), postgresstorage.DefaultPoolOptions())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			return err
		}
	}

	var queue domain.EventQueue
	if !noPublish {
		redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		queue = redisstorage.NewQueue(redisClient, cfg.EventsKey, cfg.EventsCoalesce)
	}

	service := ingest.NewService(
		postgresstorage.NewVoteRepository(db, nil),
		postgresstorage.NewElectionRepository(db, nil),
		queue,
		clock.NewSystemClock(),
	)
	return run(ctx, service)
}
