package rules

import (
	"fmt"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// MissingShortAlias suggests a short-alias on relationships for easier
// access in service actions.
type MissingShortAlias struct{}

func (MissingShortAlias) ID() string { return "missing-short-alias" }

func (MissingShortAlias) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		for _, rel := range entity.FindChildren("relationship") {
			if rel.Attr("short-alias") != "" {
				continue
			}
			out = append(out, finding.Finding{
				Severity: finding.SeverityInfo,
				Rule:     "missing-short-alias",
				Message: fmt.Sprintf("relationship to %q has no short-alias",
					rel.Attr("related")),
				Location: doc.Loc(rel),
			})
		}
	}
	return out
}

// schemaLocations maps document kinds to the XSD each should reference.
var schemaLocations = map[xmldom.Kind]string{
	xmldom.KindEntity:  "http://moqui.org/xsd/entity-definition-3.xsd",
	xmldom.KindService: "http://moqui.org/xsd/service-definition-3.xsd",
}

// MissingXSDNamespace suggests declaring the framework XSD on the root
// element so editors can validate the file.
type MissingXSDNamespace struct{}

func (MissingXSDNamespace) ID() string { return "missing-xsd-namespace" }

func (MissingXSDNamespace) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	want, ok := schemaLocations[doc.Kind]
	if !ok {
		return nil
	}
	if doc.Root.Attr("xsi:noNamespaceSchemaLocation") == want {
		return nil
	}
	return []finding.Finding{{
		Severity: finding.SeverityInfo,
		Rule:     "missing-xsd-namespace",
		Message:  fmt.Sprintf("root element does not reference %s", want),
		Location: doc.Loc(doc.Root),
		Fix: fmt.Sprintf(`add xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation=%q`,
			want),
	}}
}

// UntypedParameter suggests a type on in-parameters that declare neither a
// type nor a required flag, since those default to loose String handling.
type UntypedParameter struct{}

func (UntypedParameter) ID() string { return "untyped-parameter" }

func (UntypedParameter) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindService {
		return nil
	}
	var out []finding.Finding
	for _, service := range doc.DefinitionElements() {
		in := service.FindChild("in-parameters")
		if in == nil {
			continue
		}
		for _, p := range in.FindChildren("parameter") {
			if p.Attr("type") != "" || p.HasAttr("required") || p.Attr("name") == "" {
				continue
			}
			out = append(out, finding.Finding{
				Severity: finding.SeverityInfo,
				Rule:     "untyped-parameter",
				Message:  fmt.Sprintf("parameter %q has no type specification", p.Attr("name")),
				Location: doc.Loc(p),
			})
		}
	}
	return out
}
