package index

import (
	"fmt"
	"sort"
	"strings"
)

// Edge is one directed relationship between two entities, labeled by the
// relationship definition that declared it.
type Edge struct {
	From QualifiedName
	To   QualifiedName
	Rel  *RelationshipDef
}

// GraphNode is one entity in the relationship graph.
type GraphNode struct {
	Name     QualifiedName
	Outgoing []Edge // relationships declared on this entity
	Incoming []Edge // relationships of other entities targeting this one
}

// Graph is the directed relationship graph derived from a resolved index.
type Graph struct {
	nodes map[QualifiedName]*GraphNode
	order []QualifiedName
}

// Graph derives the relationship graph. Only resolved relationships become
// edges; dangling references are already reported as findings. The index
// must be resolved first.
func (ix *Index) Graph() *Graph {
	g := &Graph{nodes: make(map[QualifiedName]*GraphNode)}

	for _, q := range ix.entityOrder {
		g.nodes[q] = &GraphNode{Name: q}
		g.order = append(g.order, q)
	}
	for _, q := range ix.entityOrder {
		def := ix.entities[q]
		for i := range def.Relationships {
			rel := &def.Relationships[i]
			if rel.Resolved == nil {
				continue
			}
			edge := Edge{From: def.QName, To: rel.Resolved.QName, Rel: rel}
			g.nodes[edge.From].Outgoing = append(g.nodes[edge.From].Outgoing, edge)
			g.nodes[edge.To].Incoming = append(g.nodes[edge.To].Incoming, edge)
		}
	}
	return g
}

// Node returns the graph node for an entity, or nil.
func (g *Graph) Node(q QualifiedName) *GraphNode {
	return g.nodes[q]
}

// Size returns the number of entities in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// EdgeCount returns the number of resolved relationships.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.Outgoing)
	}
	return n
}

// edgeLabel renders the relationship kind and alias for display.
func edgeLabel(e Edge) string {
	label := e.Rel.Type
	if label == "" {
		label = "?"
	}
	if e.Rel.ShortAlias != "" {
		label += ", " + e.Rel.ShortAlias
	}
	return label
}

// RenderASCII generates an ASCII representation of the relationship graph,
// one entity per block with its outgoing edges. Uses portable ASCII
// characters only.
func (g *Graph) RenderASCII() string {
	if len(g.order) == 0 {
		return "No entities indexed.\n"
	}

	var sb strings.Builder
	sb.WriteString("Entity Relationships\n")
	sb.WriteString("====================\n\n")

	for _, q := range g.order {
		node := g.nodes[q]
		sb.WriteString(fmt.Sprintf("%s\n", node.Name))
		if len(node.Outgoing) == 0 {
			sb.WriteString("  (no relationships)\n")
			continue
		}
		for i, e := range node.Outgoing {
			prefix := "  |-"
			if i == len(node.Outgoing)-1 {
				prefix = "  +-"
			}
			sb.WriteString(fmt.Sprintf("%s> %s (%s)\n", prefix, e.To, edgeLabel(e)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(g.renderSummary())
	return sb.String()
}

func (g *Graph) renderSummary() string {
	var sb strings.Builder
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  Entities: %d\n", g.Size()))
	sb.WriteString(fmt.Sprintf("  Relationships: %d\n", g.EdgeCount()))
	return sb.String()
}

// RenderDOT generates Graphviz DOT output for the relationship graph.
func (g *Graph) RenderDOT() string {
	var sb strings.Builder
	sb.WriteString("digraph entities {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	for _, q := range g.order {
		sb.WriteString(fmt.Sprintf("  %q;\n", string(q)))
	}
	for _, q := range g.order {
		for _, e := range g.nodes[q].Outgoing {
			sb.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n",
				string(e.From), string(e.To), edgeLabel(e)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// DetectCycle checks for circular one-relationships, which usually indicate
// a modeling mistake. Returns the cycle path when found, empty otherwise.
// Many-relationships are excluded: parent/child pairs legitimately point at
// each other.
func (g *Graph) DetectCycle() []QualifiedName {
	visited := make(map[QualifiedName]bool)
	recStack := make(map[QualifiedName]bool)

	keys := make([]QualifiedName, len(g.order))
	copy(keys, g.order)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, q := range keys {
		if !visited[q] {
			if cycle := g.detectCycleDFS(q, visited, recStack, nil); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func (g *Graph) detectCycleDFS(q QualifiedName, visited, recStack map[QualifiedName]bool, path []QualifiedName) []QualifiedName {
	visited[q] = true
	recStack[q] = true
	path = append(path, q)

	for _, e := range g.nodes[q].Outgoing {
		if e.Rel.Type != "one" && e.Rel.Type != "one-nofk" {
			continue
		}
		if !visited[e.To] {
			if cycle := g.detectCycleDFS(e.To, visited, recStack, path); cycle != nil {
				return cycle
			}
		} else if recStack[e.To] {
			return buildCyclePath(path, e.To)
		}
	}

	recStack[q] = false
	return nil
}

func buildCyclePath(path []QualifiedName, start QualifiedName) []QualifiedName {
	for i, q := range path {
		if q == start {
			cycle := append([]QualifiedName{}, path[i:]...)
			return append(cycle, start)
		}
	}
	return append([]QualifiedName{}, start, start)
}
