package project_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/project"
	"github.com/moqui-tools/moquilint/internal/rules"
	"github.com/moqui-tools/moquilint/internal/testutil"
)

const orderXML = `<?xml version="1.0" encoding="UTF-8"?>
<entities xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://moqui.org/xsd/entity-definition-3.xsd">
    <entity entity-name="Order" package="com.acme.order">
        <field name="orderId" type="id" is-pk="true"/>
        <field name="productId" type="id"/>
        <relationship type="one" related="com.acme.catalog.Product" short-alias="product">
            <key-map field-name="productId"/>
        </relationship>
    </entity>
</entities>
`

const productXML = `<?xml version="1.0" encoding="UTF-8"?>
<entities xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://moqui.org/xsd/entity-definition-3.xsd">
    <entity entity-name="Product" package="com.acme.catalog">
        <field name="productId" type="id" is-pk="true"/>
        <field name="productName" type="text-medium"/>
    </entity>
</entities>
`

const unsafeServiceXML = `<?xml version="1.0" encoding="UTF-8"?>
<services xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://moqui.org/xsd/service-definition-3.xsd">
    <service verb="delete" noun="Product">
        <in-parameters>
            <parameter name="productId" type="id" required="true"/>
        </in-parameters>
        <actions>
            <entity-delete entity-name="com.acme.catalog.Product"/>
        </actions>
    </service>
</services>
`

const brokenXML = `<?xml version="1.0"?>
<entities>
    <entity entity-name="Broken" package="com.acme">
</entities>
`

const screenXML = `<?xml version="1.0"?>
<screen xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
    <widgets/>
</screen>
`

func ruleSet(findings []finding.Finding) map[string]int {
	out := make(map[string]int)
	for _, f := range findings {
		out[f.Rule]++
	}
	return out
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"entity/OrderEntities.xml":    orderXML,
		"entity/ProductEntities.xml":  productXML,
		"service/ProductServices.xml": unsafeServiceXML,
		"data/SeedData.json":          "{}",
		".git/ignored.xml":            orderXML,
	})

	files, err := project.DiscoverFiles([]string{root}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "entity/OrderEntities.xml"),
		filepath.Join(root, "entity/ProductEntities.xml"),
		filepath.Join(root, "service/ProductServices.xml"),
	}, files)
}

func TestDiscoverFiles_ExplicitFileBypassesFilter(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{"defs.xml.bak": productXML})
	path := filepath.Join(root, "defs.xml.bak")

	files, err := project.DiscoverFiles([]string{path}, []string{".xml"})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscoverFiles_MissingPathIsFatal(t *testing.T) {
	t.Parallel()

	_, err := project.DiscoverFiles([]string{"/nonexistent/component"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning /nonexistent/component")
}

func TestRun_ForwardReferenceResolvesAcrossFiles(t *testing.T) {
	t.Parallel()

	// Order sorts before Product, so its relationship is a forward
	// reference at collect time. The second pass must resolve it.
	root := testutil.WriteTree(t, map[string]string{
		"entity/OrderEntities.xml":   orderXML,
		"entity/ProductEntities.xml": productXML,
	})

	res, err := project.Run(context.Background(), []string{root}, project.Options{})
	require.NoError(t, err)

	rules := ruleSet(res.Findings)
	assert.Zero(t, rules["dangling-relationship"])
	assert.Zero(t, rules["dangling-field-reference"])
	assert.Len(t, res.Documents, 2)
	assert.NotNil(t, res.Index.Entity("com.acme.catalog.Product"))
}

func TestRun_FindingsFromRulesAndParseErrors(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"entity/ProductEntities.xml":  productXML,
		"service/ProductServices.xml": unsafeServiceXML,
		"entity/Broken.xml":           brokenXML,
	})

	res, err := project.Run(context.Background(), []string{root}, project.Options{})
	require.NoError(t, err)

	rules := ruleSet(res.Findings)
	assert.Equal(t, 1, rules["unauthenticated-write"], "findings: %v", res.Findings)
	assert.Equal(t, 1, rules["parse-error"])

	// The broken document drops out of the set but still gets a located
	// finding.
	assert.Len(t, res.Documents, 2)
	for _, f := range res.Findings {
		if f.Rule == "parse-error" {
			assert.Equal(t, filepath.Join(root, "entity/Broken.xml"), f.Location.Path)
			assert.Greater(t, f.Location.Line, 0)
		}
	}
}

func TestRun_OverridesCoverParseFindings(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"entity/ProductEntities.xml": productXML,
		"entity/Broken.xml":          brokenXML,
	})

	res, err := project.Run(context.Background(), []string{root}, project.Options{
		Overrides: rules.Overrides{"parse-error": "warning"},
	})
	require.NoError(t, err)
	for _, f := range res.Findings {
		if f.Rule == "parse-error" {
			assert.Equal(t, finding.SeverityWarning, f.Severity)
		}
	}
	assert.Equal(t, 1, ruleSet(res.Findings)["parse-error"])

	res, err = project.Run(context.Background(), []string{root}, project.Options{
		Overrides: rules.Overrides{"parse-error": "off"},
	})
	require.NoError(t, err)
	assert.Zero(t, ruleSet(res.Findings)["parse-error"])
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"entity/OrderEntities.xml":    orderXML,
		"entity/ProductEntities.xml":  productXML,
		"service/ProductServices.xml": unsafeServiceXML,
		"entity/Broken.xml":           brokenXML,
	})

	var previous []finding.Finding
	for _, jobs := range []int{1, 4, 8} {
		res, err := project.Run(context.Background(), []string{root}, project.Options{Jobs: jobs})
		require.NoError(t, err)
		if previous != nil {
			assert.Equal(t, previous, res.Findings, "jobs=%d changed the output", jobs)
		}
		previous = res.Findings
	}
}

func TestRun_DefinitionsOnlySkipsOtherXML(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"entity/ProductEntities.xml": productXML,
		"screen/ProductScreen.xml":   screenXML,
	})

	res, err := project.Run(context.Background(), []string{root}, project.Options{DefinitionsOnly: true})
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, filepath.Join(root, "entity/ProductEntities.xml"), res.Documents[0].Path)

	// Without the filter the screen document is parsed and flagged.
	res, err = project.Run(context.Background(), []string{root}, project.Options{})
	require.NoError(t, err)
	assert.Len(t, res.Documents, 2)
	assert.Equal(t, 1, ruleSet(res.Findings)["root-element"])
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{"entity/ProductEntities.xml": productXML})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := project.Run(ctx, []string{root}, project.Options{})
	require.ErrorIs(t, err, context.Canceled)
}
