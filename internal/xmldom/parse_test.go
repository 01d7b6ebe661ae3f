package xmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEntity = `<?xml version="1.0" encoding="UTF-8"?>
<!-- product catalog entities -->
<entities xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
        xsi:noNamespaceSchemaLocation="http://moqui.org/xsd/entity-definition-3.xsd">
    <entity entity-name="Product" package="com.example">
        <field name="productId" type="id" is-pk="true"/>
        <field name="productName" type="text-medium"/>
        <!-- owning catalog -->
        <relationship type="one" related="com.example.Catalog" short-alias="catalog">
            <key-map field-name="catalogId"/>
        </relationship>
    </entity>
</entities>
`

func TestParse_EntityDocument(t *testing.T) {
	t.Parallel()

	doc, err := Parse("Product.xml", []byte(sampleEntity))
	require.NoError(t, err)

	assert.Equal(t, KindEntity, doc.Kind)
	assert.Equal(t, "entities", doc.Root.Name)

	// Prefixed attribute names survive parsing verbatim, in order.
	require.Len(t, doc.Root.Attrs, 2)
	assert.Equal(t, "xmlns:xsi", doc.Root.Attrs[0].Name)
	assert.Equal(t, "xsi:noNamespaceSchemaLocation", doc.Root.Attrs[1].Name)

	// Header comment is attached to the prolog.
	require.Len(t, doc.Prolog, 1)
	comment, ok := doc.Prolog[0].(*Comment)
	require.True(t, ok)
	assert.Equal(t, " product catalog entities ", comment.Data)

	entity := doc.Root.FindChild("entity")
	require.NotNil(t, entity)
	assert.Equal(t, "Product", entity.Attr("entity-name"))
	assert.Equal(t, 5, entity.Line)

	fields := entity.FindChildren("field")
	require.Len(t, fields, 2)
	assert.Equal(t, "productId", fields[0].Attr("name"))
	assert.True(t, fields[0].HasAttr("is-pk"))
	assert.False(t, fields[1].HasAttr("is-pk"))

	// Inline comment stays in position among the entity children.
	children := entity.Children
	_, isComment := children[2].(*Comment)
	assert.True(t, isComment)
}

func TestParse_WhitespaceTextDropped(t *testing.T) {
	t.Parallel()

	doc, err := Parse("s.xml", []byte("<services>\n    <service verb=\"get\" noun=\"Thing\"/>\n</services>"))
	require.NoError(t, err)

	for _, c := range doc.Root.Children {
		_, isText := c.(*Text)
		assert.False(t, isText, "whitespace-only text should not be retained")
	}
	assert.Equal(t, KindService, doc.Kind)
}

func TestParse_TextAndEntitiesPreserved(t *testing.T) {
	t.Parallel()

	src := `<services><service verb="get" noun="X"><actions>
    if (a &lt; b &amp;&amp; c) return
</actions></service></services>`
	doc, err := Parse("s.xml", []byte(src))
	require.NoError(t, err)

	actions := doc.Root.FindChild("service").FindChild("actions")
	require.NotNil(t, actions)
	assert.Equal(t, "\n    if (a < b && c) return\n", actions.TextContent())
}

func TestParse_CDATAIsText(t *testing.T) {
	t.Parallel()

	doc, err := Parse("s.xml", []byte(`<services><service verb="get" noun="X"><actions><![CDATA[x < y]]></actions></service></services>`))
	require.NoError(t, err)

	actions := doc.Root.FindChild("service").FindChild("actions")
	assert.Equal(t, "x < y", actions.TextContent())
}

func TestParse_DuplicateAttributeDiagnostic(t *testing.T) {
	t.Parallel()

	doc, err := Parse("e.xml", []byte(`<entities><entity entity-name="A" package="p" package="q"/></entities>`))
	require.NoError(t, err)

	require.Len(t, doc.Diagnostics, 1)
	diag := doc.Diagnostics[0]
	assert.Equal(t, "duplicate-attribute", diag.Rule)
	assert.Contains(t, diag.Message, `"package"`)

	// First occurrence wins.
	assert.Equal(t, "p", doc.Root.FindChild("entity").Attr("package"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantMsg string
	}{
		"empty input":         {input: "", wantMsg: "no root element"},
		"comment only":        {input: "<!-- hi -->", wantMsg: "no root element"},
		"unterminated":        {input: "<entities><entity>", wantMsg: "unterminated element <entity>"},
		"mismatched end":      {input: "<entities><entity></field></entities>", wantMsg: "end tag </field> does not match <entity>"},
		"stray end tag":       {input: "<entities/></entities>", wantMsg: "unexpected end tag </entities>"},
		"second root":         {input: "<entities/><entities/>", wantMsg: "second root element <entities>"},
		"unknown entity":      {input: "<e>&nbsp;</e>", wantMsg: "unknown entity reference &nbsp;"},
		"bare ampersand":      {input: `<e a="x & y"/>`, wantMsg: "unterminated entity reference"},
		"unquoted attr":       {input: `<e a=1/>`, wantMsg: "unquoted value"},
		"attr without value":  {input: `<e disabled/>`, wantMsg: "has no value"},
		"unterminated tag":    {input: `<e a="1"`, wantMsg: "unterminated element <e"},
		"text outside root":   {input: "<e/>stray", wantMsg: "character data outside the root element"},
		"unterminated commnt": {input: "<!-- oops", wantMsg: "unterminated comment"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse("bad.xml", []byte(tt.input))
			require.Error(t, err)
			perr := &ParseError{}
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "bad.xml", perr.Path)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_NumericCharacterReferences(t *testing.T) {
	t.Parallel()

	doc, err := Parse("e.xml", []byte(`<e a="&#65;&#x42;"/>`))
	require.NoError(t, err)
	assert.Equal(t, "AB", doc.Root.Attr("a"))
}

func TestClassifyRoot(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		root string
		want Kind
	}{
		"entities":  {root: "entities", want: KindEntity},
		"entity":    {root: "entity", want: KindEntity},
		"services":  {root: "services", want: KindService},
		"service":   {root: "service", want: KindService},
		"screen":    {root: "screen", want: KindUnknown},
		"arbitrary": {root: "whatever", want: KindUnknown},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyRoot(tt.root))
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a, err := Parse("a.xml", []byte(sampleEntity))
	require.NoError(t, err)
	b, err := Parse("b.xml", []byte(sampleEntity))
	require.NoError(t, err)
	assert.True(t, Equal(a, b), "same content under different paths must be equal")

	// Attribute order is semantic.
	c, err := Parse("c.xml", []byte(`<entities><entity package="com.example" entity-name="Product"/></entities>`))
	require.NoError(t, err)
	d, err := Parse("d.xml", []byte(`<entities><entity entity-name="Product" package="com.example"/></entities>`))
	require.NoError(t, err)
	assert.False(t, Equal(c, d))

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}
