package rules

import (
	"testing"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnauthenticatedWrite(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		service string
		want    int
	}{
		"delete without authenticate": {
			service: `<service verb="delete" noun="Order"><actions>x</actions></service>`,
			want:    1,
		},
		"delete with authenticate true": {
			service: `<service verb="delete" noun="Order" authenticate="true"><actions>x</actions></service>`,
			want:    0,
		},
		"create with anonymous-all": {
			service: `<service verb="create" noun="Order" authenticate="anonymous-all"><actions>x</actions></service>`,
			want:    1,
		},
		"update with authenticate false": {
			service: `<service verb="update" noun="Order" authenticate="false"><actions>x</actions></service>`,
			want:    1,
		},
		"read verb without authenticate": {
			service: `<service verb="find" noun="Order"><actions>x</actions></service>`,
			want:    0,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc := parseDoc(t, "s.xml", "<services>"+tt.service+"</services>")
			findings := UnauthenticatedWrite{}.Check(doc, nil)
			require.Len(t, findings, tt.want)
			if tt.want == 1 {
				// A heuristic: warning severity, never error.
				assert.Equal(t, finding.SeverityWarning, findings[0].Severity)
				assert.Equal(t, "unauthenticated-write", findings[0].Rule)
				assert.NotEmpty(t, findings[0].Fix)
			}
		})
	}
}

func TestDiscouragedTransaction(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mode string
		want int
	}{
		"ignore":       {mode: "ignore", want: 1},
		"force-cache":  {mode: "force-cache", want: 1},
		"use-or-begin": {mode: "use-or-begin", want: 0},
		"force-new":    {mode: "force-new", want: 0},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc := parseDoc(t, "s.xml",
				`<services><service verb="get" noun="Order" authenticate="true" transaction="`+tt.mode+`"><actions>x</actions></service></services>`)
			findings := DiscouragedTransaction{}.Check(doc, nil)
			require.Len(t, findings, tt.want)
			if tt.want == 1 {
				assert.Equal(t, finding.SeverityWarning, findings[0].Severity)
				assert.NotEmpty(t, findings[0].Fix, "style warning must carry a suggested fix")
			}
		})
	}
}
