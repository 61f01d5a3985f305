package pgx

import (
	"fmt"
	"strings"

	"github.com/docugraph/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

func emptyView() common.GraphView {
	return common.GraphView{
		Nodes: []common.GraphNode{},
		Edges: []common.GraphEdge{},
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func scanNodes(rows pgxv5.Rows) ([]common.GraphNode, error) {
	defer rows.Close()
	nodes := make([]common.GraphNode, 0)
	for rows.Next() {
		var n common.GraphNode
		if err := rows.Scan(&n.ID, &n.Name, &n.Type, &n.Description); err != nil {
			return nil, fmt.Errorf("failed to scan graph node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func scanEdges(rows pgxv5.Rows) ([]common.GraphEdge, error) {
	defer rows.Close()
	edges := make([]common.GraphEdge, 0)
	for rows.Next() {
		var e common.GraphEdge
		if err := rows.Scan(&e.Source, &e.Target, &e.Type, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan graph edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
