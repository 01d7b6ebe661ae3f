package rules

import (
	"testing"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingShortAlias(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "e.xml", `<entities><entity entity-name="A" package="p">
        <field name="aId" type="id" is-pk="true"/>
        <relationship type="one" related="p.B" short-alias="b"/>
        <relationship type="one" related="p.C"/>
    </entity></entities>`)

	findings := MissingShortAlias{}.Check(doc, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, finding.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, `"p.C"`)
}

func TestMissingXSDNamespace(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src  string
		want int
	}{
		"entity without schema": {
			src:  `<entities/>`,
			want: 1,
		},
		"entity with schema": {
			src:  `<entities xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://moqui.org/xsd/entity-definition-3.xsd"/>`,
			want: 0,
		},
		"service without schema": {
			src:  `<services/>`,
			want: 1,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			findings := MissingXSDNamespace{}.Check(parseDoc(t, "d.xml", tt.src), nil)
			require.Len(t, findings, tt.want)
			if tt.want == 1 {
				assert.Equal(t, finding.SeverityInfo, findings[0].Severity)
				assert.Contains(t, findings[0].Fix, "noNamespaceSchemaLocation")
			}
		})
	}
}

func TestUntypedParameter(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "s.xml", `<services><service verb="find" noun="Order">
        <in-parameters>
            <parameter name="statusId"/>
            <parameter name="orderId" type="id"/>
            <parameter name="pageIndex" required="false"/>
        </in-parameters>
        <actions>x</actions>
    </service></services>`)

	findings := UntypedParameter{}.Check(doc, nil)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, `"statusId"`)
}
