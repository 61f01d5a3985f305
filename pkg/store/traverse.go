package store

import "github.com/docugraph/backend/pkg/common"

// Adjacency maps an entity ID to its neighbor IDs. Edges are directed in
// storage but traversed undirected, so both directions are recorded.
type Adjacency map[string][]string

// BuildAdjacency builds an undirected adjacency list from graph edges.
func BuildAdjacency(edges []common.GraphEdge) Adjacency {
	adj := make(Adjacency, len(edges))
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	return adj
}

// NodeDistance pairs a node ID with its hop distance from the expansion seed.
type NodeDistance struct {
	ID       string
	Distance int
}

// ExpandFrom runs a breadth-first expansion from the seed nodes, visiting
// nodes at most maxDepth hops away. Seeds appear first at distance zero.
// The result is ordered by ascending distance; within one distance level
// nodes keep the order in which they were first reached.
func ExpandFrom(adj Adjacency, seeds []string, maxDepth int) []NodeDistance {
	if len(seeds) == 0 || maxDepth < 0 {
		return nil
	}

	visited := make(map[string]bool, len(seeds))
	out := make([]NodeDistance, 0, len(seeds))
	frontier := make([]string, 0, len(seeds))

	for _, s := range seeds {
		if visited[s] {
			continue
		}
		visited[s] = true
		out = append(out, NodeDistance{ID: s, Distance: 0})
		frontier = append(frontier, s)
	}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		next := make([]string, 0)
		for _, id := range frontier {
			for _, neighbor := range adj[id] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				out = append(out, NodeDistance{ID: neighbor, Distance: depth})
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return out
}

// ShortestPath returns the node IDs of an unweighted shortest path between
// from and to, inclusive of both endpoints. Returns nil when the nodes are
// disconnected.
func ShortestPath(adj Adjacency, from string, to string) []string {
	if from == to {
		return []string{from}
	}

	parent := map[string]string{from: from}
	frontier := []string{from}

	for len(frontier) > 0 {
		next := make([]string, 0)
		for _, id := range frontier {
			for _, neighbor := range adj[id] {
				if _, seen := parent[neighbor]; seen {
					continue
				}
				parent[neighbor] = id
				if neighbor == to {
					return tracePath(parent, from, to)
				}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return nil
}

func tracePath(parent map[string]string, from string, to string) []string {
	path := []string{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	// reverse into from..to order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
