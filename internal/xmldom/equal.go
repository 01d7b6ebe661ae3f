package xmldom

// Equal reports whether two documents are semantically equal: same element
// tree, same attribute names and values in the same order, same text content,
// and same comments in the same positions. Source locations and file paths
// are ignored, as is whitespace the parser already discards.
func Equal(a, b *Document) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return nodesEqual(a.Prolog, b.Prolog) &&
		elementsEqual(a.Root, b.Root) &&
		nodesEqual(a.Epilog, b.Epilog)
}

func elementsEqual(a, b *Element) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if a.Name != b.Name || len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	return nodesEqual(a.Children, b.Children)
}

func nodesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		switch an := a[i].(type) {
		case *Element:
			bn, ok := b[i].(*Element)
			if !ok || !elementsEqual(an, bn) {
				return false
			}
		case *Text:
			bn, ok := b[i].(*Text)
			if !ok || an.Data != bn.Data {
				return false
			}
		case *Comment:
			bn, ok := b[i].(*Comment)
			if !ok || an.Data != bn.Data {
				return false
			}
		}
	}
	return true
}
