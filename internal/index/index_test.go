package index

import (
	"testing"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/xmldom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, path, src string) *xmldom.Document {
	t.Helper()
	doc, err := xmldom.Parse(path, []byte(src))
	require.NoError(t, err)
	return doc
}

const orderEntity = `<entities>
    <entity entity-name="Order" package="com.example">
        <field name="orderId" type="id" is-pk="true"/>
        <field name="customerName" type="text-medium" not-null="true"/>
        <field name="statusId" type="id" enable-audit-log="true"/>
        <relationship type="many" related="com.example.OrderItem" short-alias="items">
            <key-map field-name="orderId"/>
        </relationship>
    </entity>
</entities>`

const orderItemEntity = `<entities>
    <entity entity-name="OrderItem" package="com.example">
        <field name="orderItemId" type="id" is-pk="true"/>
        <field name="orderId" type="id"/>
    </entity>
</entities>`

func TestAddDocument_EntityExtraction(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))

	def := ix.Entity("com.example.Order")
	require.NotNil(t, def)
	assert.Equal(t, "Order", def.Name)
	assert.Equal(t, "com.example", def.Package)

	require.Len(t, def.Fields, 3)
	assert.True(t, def.Fields[0].IsPK)
	assert.True(t, def.Fields[1].NotNull)
	assert.True(t, def.Fields[2].Audit)
	assert.Equal(t, "text-medium", def.Fields[1].Type)

	require.Len(t, def.Relationships, 1)
	rel := def.Relationships[0]
	assert.Equal(t, "many", rel.Type)
	assert.Equal(t, "items", rel.ShortAlias)
	require.Len(t, rel.KeyMaps, 1)
	assert.Equal(t, "orderId", rel.KeyMaps[0].RelatedFieldName())

	pks := def.PrimaryKeys()
	require.Len(t, pks, 1)
	assert.Equal(t, "orderId", pks[0].Name)
}

func TestAddDocument_ServiceExtraction(t *testing.T) {
	t.Parallel()

	src := `<services>
    <service verb="create" noun="Order" authenticate="true" transaction="force-new">
        <in-parameters>
            <parameter name="customerName" type="text-medium" required="true"/>
            <parameter name="statusId" default-value="OrderPlaced"/>
        </in-parameters>
        <out-parameters>
            <parameter name="orderId" type="id"/>
        </out-parameters>
        <actions><![CDATA[ec.logger.info("create")]]></actions>
    </service>
</services>`

	ix := New()
	ix.AddDocument(mustParse(t, "OrderServices.xml", src))

	def := ix.Service("create#Order")
	require.NotNil(t, def)
	assert.Equal(t, "create", def.Verb)
	assert.Equal(t, "Order", def.Noun)
	assert.Equal(t, "true", def.Authenticate)
	assert.Equal(t, "force-new", def.Transaction)

	require.Len(t, def.Parameters, 3)
	in := def.InParameters()
	require.Len(t, in, 2)
	assert.True(t, in[0].Required)
	assert.Equal(t, "OrderPlaced", in[1].Default)
	assert.Equal(t, ParamOut, def.Parameters[2].Direction)
	assert.Equal(t, "create#Order", def.String())
}

func TestDuplicateDefinition(t *testing.T) {
	t.Parallel()

	src := `<entities><entity entity-name="Product" package="com.example">
        <field name="productId" type="id" is-pk="true"/>
    </entity></entities>`

	ix := New()
	ix.AddDocument(mustParse(t, "a.xml", src))
	ix.AddDocument(mustParse(t, "b.xml", src))

	findings := ix.Findings()
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "duplicate-definition", f.Rule)
	assert.Equal(t, finding.SeverityError, f.Severity)
	// Both locations are referenced: the duplicate's own location plus the
	// first-seen definition in the message.
	assert.Equal(t, "b.xml", f.Location.Path)
	assert.Contains(t, f.Message, "a.xml")

	// First-seen definition is kept.
	def := ix.Entity("com.example.Product")
	require.NotNil(t, def)
	assert.Equal(t, "a.xml", def.Doc.Path)
}

func TestResolveReferences_ForwardReference(t *testing.T) {
	t.Parallel()

	// The referencing file is added before the file that defines the
	// target; the two-pass build must still resolve it.
	for name, order := range map[string][2]string{
		"reference first":  {orderEntity, orderItemEntity},
		"definition first": {orderItemEntity, orderEntity},
	} {
		order := order
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ix := New()
			ix.AddDocument(mustParse(t, "1.xml", order[0]))
			ix.AddDocument(mustParse(t, "2.xml", order[1]))
			ix.ResolveReferences()

			assert.Empty(t, ix.Findings())
			def := ix.Entity("com.example.Order")
			require.NotNil(t, def)
			require.NotNil(t, def.Relationships[0].Resolved)
			assert.Equal(t, QualifiedName("com.example.OrderItem"), def.Relationships[0].Resolved.QName)
		})
	}
}

func TestResolveReferences_Dangling(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))
	ix.ResolveReferences()

	findings := ix.Findings()
	require.Len(t, findings, 1)
	assert.Equal(t, "dangling-relationship", findings[0].Rule)
	assert.Equal(t, finding.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "com.example.OrderItem")
	assert.Equal(t, "Order.xml", findings[0].Location.Path)
	assert.Greater(t, findings[0].Location.Line, 1)
}

func TestResolveReferences_DanglingFieldReference(t *testing.T) {
	t.Parallel()

	src := `<entities>
    <entity entity-name="Order" package="com.example">
        <field name="orderId" type="id" is-pk="true"/>
        <relationship type="one" related="com.example.Customer">
            <key-map field-name="customerId" related="partyId"/>
        </relationship>
    </entity>
    <entity entity-name="Customer" package="com.example">
        <field name="customerId" type="id" is-pk="true"/>
    </entity>
</entities>`

	ix := New()
	ix.AddDocument(mustParse(t, "e.xml", src))
	ix.ResolveReferences()

	findings := ix.Findings()
	require.Len(t, findings, 2)
	// Missing on the declaring side.
	assert.Equal(t, "dangling-field-reference", findings[0].Rule)
	assert.Contains(t, findings[0].Message, `"customerId" is not defined on entity com.example.Order`)
	// Missing on the related side.
	assert.Equal(t, "dangling-field-reference", findings[1].Rule)
	assert.Contains(t, findings[1].Message, `"partyId" is not defined on related entity com.example.Customer`)
}

func TestResolveReferences_Idempotent(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "Order.xml", orderEntity))
	ix.ResolveReferences()
	first := len(ix.Findings())
	ix.ResolveReferences()
	assert.Equal(t, first, len(ix.Findings()))
	assert.True(t, ix.Resolved())
}

func TestLookupEntity_BareName(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "a.xml", orderItemEntity))
	ix.AddDocument(mustParse(t, "b.xml", `<entities>
        <entity entity-name="OrderItem" package="com.other">
            <field name="orderItemId" type="id" is-pk="true"/>
        </entity>
    </entities>`))

	// Ambiguous bare name does not resolve; exact names do.
	assert.Nil(t, ix.LookupEntity("OrderItem"))
	assert.NotNil(t, ix.LookupEntity("com.example.OrderItem"))
	assert.NotNil(t, ix.LookupEntity("com.other.OrderItem"))

	// A unique bare name resolves.
	ix2 := New()
	ix2.AddDocument(mustParse(t, "a.xml", orderItemEntity))
	assert.NotNil(t, ix2.LookupEntity("OrderItem"))
}

func TestEntitiesAndServicesOrder(t *testing.T) {
	t.Parallel()

	ix := New()
	ix.AddDocument(mustParse(t, "a.xml", orderEntity))
	ix.AddDocument(mustParse(t, "b.xml", orderItemEntity))

	entities := ix.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, QualifiedName("com.example.Order"), entities[0].QName)
	assert.Equal(t, QualifiedName("com.example.OrderItem"), entities[1].QName)
	assert.Empty(t, ix.Services())
}
