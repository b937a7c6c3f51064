package postgres

import "github.com/marcelojr/apuracao/internal/domain"

// assembleTree pendura listas e subconexões em seus pais preservando a ordem
// recebida. Conexões cujo pai não está no conjunto viram raízes.
func assembleTree(conns []domain.ListConnection, lists []domain.List) []domain.ListConnection {
	known := make(map[domain.ConnectionID]bool, len(conns))
	for _, c := range conns {
		known[c.ID] = true
	}

	listsByConn := make(map[domain.ConnectionID][]domain.List)
	for _, l := range lists {
		if l.ConnectionID == nil {
			continue
		}
		listsByConn[*l.ConnectionID] = append(listsByConn[*l.ConnectionID], l)
	}

	children := make(map[domain.ConnectionID][]domain.ListConnection)
	var roots []domain.ListConnection
	for _, c := range conns {
		if c.ParentID != nil && known[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	var build func(c domain.ListConnection) domain.ListConnection
	build = func(c domain.ListConnection) domain.ListConnection {
		c.Lists = listsByConn[c.ID]
		kids := children[c.ID]
		c.Children = make([]domain.ListConnection, len(kids))
		for i, kid := range kids {
			c.Children[i] = build(kid)
		}
		return c
	}

	tree := make([]domain.ListConnection, len(roots))
	for i, root := range roots {
		tree[i] = build(root)
	}
	return tree
}
