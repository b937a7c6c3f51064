package summary

import (
	"fmt"

	"github.com/marcelojr/apuracao/internal/domain"
)

func VoteKey(id domain.VoteID) string {
	return fmt.Sprintf("votacao:%s", id)
}

func ElectionKey(id domain.ElectionID) string {
	return fmt.Sprintf("eleicao:%s", id)
}

// KeyFor traduz um evento para a chave do resumo afetado.
func KeyFor(event domain.ResultsChanged) (string, bool) {
	switch event.Kind {
	case domain.ChangeVote:
		return VoteKey(domain.VoteID(event.ID)), true
	case domain.ChangeElection:
		return ElectionKey(domain.ElectionID(event.ID)), true
	default:
		return "", false
	}
}
