package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildResolvedIndex(t *testing.T, files map[string]string) *Index {
	t.Helper()
	ix := New()
	// Map order is not deterministic; tests that care about order add
	// documents one at a time instead.
	for path, src := range files {
		ix.AddDocument(mustParse(t, path, src))
	}
	ix.ResolveReferences()
	return ix
}

func TestGraph_EdgesAndSummary(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))
	ix.AddDocument(mustParse(t, "OrderItem.xml", orderItemEntity))
	ix.ResolveReferences()

	g := ix.Graph()
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, 1, g.EdgeCount())

	order := g.Node("com.example.Order")
	require.NotNil(t, order)
	require.Len(t, order.Outgoing, 1)
	assert.Equal(t, QualifiedName("com.example.OrderItem"), order.Outgoing[0].To)

	item := g.Node("com.example.OrderItem")
	require.NotNil(t, item)
	require.Len(t, item.Incoming, 1)
	assert.Equal(t, QualifiedName("com.example.Order"), item.Incoming[0].From)
}

func TestGraph_RenderASCII(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))
	ix.AddDocument(mustParse(t, "OrderItem.xml", orderItemEntity))
	ix.ResolveReferences()

	out := ix.Graph().RenderASCII()
	assert.Contains(t, out, "Entity Relationships")
	assert.Contains(t, out, "+-> com.example.OrderItem (many, items)")
	assert.Contains(t, out, "(no relationships)")
	assert.Contains(t, out, "Entities: 2")
	assert.Contains(t, out, "Relationships: 1")
}

func TestGraph_RenderASCIIEmpty(t *testing.T) {
	t.Parallel()

	g := New().Graph()
	assert.Equal(t, "No entities indexed.\n", g.RenderASCII())
}

func TestGraph_RenderDOT(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))
	ix.AddDocument(mustParse(t, "OrderItem.xml", orderItemEntity))
	ix.ResolveReferences()

	out := ix.Graph().RenderDOT()
	assert.True(t, strings.HasPrefix(out, "digraph entities {"))
	assert.Contains(t, out, `"com.example.Order" -> "com.example.OrderItem" [label="many, items"];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestGraph_DetectCycle(t *testing.T) {
	t.Parallel()

	ix := buildResolvedIndex(t, map[string]string{
		"cycle.xml": `<entities>
            <entity entity-name="A" package="p">
                <field name="aId" type="id" is-pk="true"/>
                <field name="bId" type="id"/>
                <relationship type="one" related="p.B"><key-map field-name="bId" related="bId"/></relationship>
            </entity>
            <entity entity-name="B" package="p">
                <field name="bId" type="id" is-pk="true"/>
                <field name="aId" type="id"/>
                <relationship type="one" related="p.A"><key-map field-name="aId" related="aId"/></relationship>
            </entity>
        </entities>`,
	})

	cycle := ix.Graph().DetectCycle()
	require.NotEmpty(t, cycle)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "cycle path must close on itself")
}

func TestGraph_ManyRelationshipsDoNotCycle(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))
	ix.AddDocument(mustParse(t, "OrderItem.xml", orderItemEntity))
	ix.ResolveReferences()

	assert.Nil(t, ix.Graph().DetectCycle())
}
