package tabulation

import "github.com/marcelojr/apuracao/internal/domain"

// TotalVotes soma os votos próprios do nó com os de todas as subconexões.
// A árvore é pequena; cada chamada percorre a subárvore inteira.
func TotalVotes(node domain.ListConnection) int64 {
	total := value(node.Votes)
	for _, child := range node.Children {
		total += TotalVotes(child)
	}
	return total
}

func TotalNumberOfMandates(node domain.ListConnection) int64 {
	total := value(node.NumberOfMandates)
	for _, child := range node.Children {
		total += TotalNumberOfMandates(child)
	}
	return total
}

// AggregateResults soma o atributo apenas sobre as listas do próprio nó.
func AggregateResults(node domain.ListConnection, attr Attribute) (int64, error) {
	get, err := ListAttribute(attr)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range node.Lists {
		total += get(l)
	}
	return total, nil
}

// Summarize preenche Votes e NumberOfMandates de cada nó a partir das suas
// listas, como o worker faz no banco.
func Summarize(node *domain.ListConnection) {
	var votes, mandates int64
	for _, l := range node.Lists {
		votes += l.Votes
		mandates += l.NumberOfMandates
	}
	node.Votes = &votes
	node.NumberOfMandates = &mandates
	for i := range node.Children {
		Summarize(&node.Children[i])
	}
}

// Walk visita o nó e seus descendentes em pré-ordem.
func Walk(node domain.ListConnection, visit func(domain.ListConnection)) {
	visit(node)
	for _, child := range node.Children {
		Walk(child, visit)
	}
}
