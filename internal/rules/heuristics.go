package rules

import (
	"fmt"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// writeVerbs are the service verbs that modify data.
var writeVerbs = map[string]bool{
	"create": true, "update": true, "delete": true, "store": true, "process": true,
}

// weakAuth are authenticate values that do not require a real login.
var weakAuth = map[string]bool{
	"false": true, "anonymous-all": true, "anonymous-view": true,
}

// UnauthenticatedWrite flags write-verb services without an authentication
// mode stronger than anonymous. This is a heuristic, so a warning rather
// than an error: legitimate anonymous writes exist (registration, login).
type UnauthenticatedWrite struct{}

func (UnauthenticatedWrite) ID() string { return "unauthenticated-write" }

func (UnauthenticatedWrite) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindService {
		return nil
	}
	var out []finding.Finding
	for _, service := range doc.DefinitionElements() {
		verb := service.Attr("verb")
		if !writeVerbs[verb] {
			continue
		}
		auth := service.Attr("authenticate")
		if auth != "" && !weakAuth[auth] {
			continue
		}
		out = append(out, finding.Finding{
			Severity: finding.SeverityWarning,
			Rule:     "unauthenticated-write",
			Message: fmt.Sprintf("service %s#%s performs a write without authentication",
				verb, service.Attr("noun")),
			Location: doc.Loc(service),
			Fix:      `add authenticate="true" or an explicit anonymous mode if intended`,
		})
	}
	return out
}

// discouragedTransactions are transaction modes that routinely cause
// surprising behavior: ignore detaches the service from the caller's
// transaction, force-cache serves stale data on writes.
var discouragedTransactions = map[string]string{
	"ignore":      `use the default "use-or-begin" or remove the attribute`,
	"force-cache": `remove the attribute or use "cache"`,
}

// DiscouragedTransaction flags transaction modes the project style guide
// discourages, with a suggested fix.
type DiscouragedTransaction struct{}

func (DiscouragedTransaction) ID() string { return "discouraged-transaction" }

func (DiscouragedTransaction) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindService {
		return nil
	}
	var out []finding.Finding
	for _, service := range doc.DefinitionElements() {
		mode := service.Attr("transaction")
		fix, discouraged := discouragedTransactions[mode]
		if !discouraged {
			continue
		}
		out = append(out, finding.Finding{
			Severity: finding.SeverityWarning,
			Rule:     "discouraged-transaction",
			Message: fmt.Sprintf("service %s#%s uses discouraged transaction mode %q",
				service.Attr("verb"), service.Attr("noun"), mode),
			Location: doc.Loc(service),
			Fix:      fix,
		})
	}
	return out
}
