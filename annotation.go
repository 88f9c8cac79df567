package superjson

import "strings"

// TypeAnnotation is one node of the annotation tree: the extended type
// name of a value, plus annotations of typed descendants keyed by
// dotted path relative to this node. Children is nil for a leaf.
//
// On the wire a leaf is a 1-element array ["typeName"] and a node is a
// 2-element array ["typeName", {path: annotation, ...}].
type TypeAnnotation struct {
	Name     string
	Children []AnnotationEntry
}

// AnnotationEntry pairs a dotted path with the annotation of the value
// at that path. Entries keep first-encountered structural order.
type AnnotationEntry struct {
	Path string
	Ann  *TypeAnnotation
}

// Leaf creates a leaf annotation.
func Leaf(name string) *TypeAnnotation {
	return &TypeAnnotation{Name: name}
}

// Node creates an annotation with typed descendants.
func Node(name string, children ...AnnotationEntry) *TypeAnnotation {
	return &TypeAnnotation{Name: name, Children: children}
}

// IsLeaf reports whether the annotation has no typed descendants.
func (a *TypeAnnotation) IsLeaf() bool {
	return len(a.Children) == 0
}

// Equal reports deep equality including child order.
func (a *TypeAnnotation) Equal(o *TypeAnnotation) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.Name != o.Name || len(a.Children) != len(o.Children) {
		return false
	}
	for i := range a.Children {
		if a.Children[i].Path != o.Children[i].Path || !a.Children[i].Ann.Equal(o.Children[i].Ann) {
			return false
		}
	}
	return true
}

// AnnotationValues is the content of meta.values: either a single
// annotation for the whole top-level value (Root non-nil) or a map of
// dotted paths to annotations of descendants.
type AnnotationValues struct {
	Root     *TypeAnnotation
	Children []AnnotationEntry
}

// RootValues creates an AnnotationValues annotating the whole value.
func RootValues(ann *TypeAnnotation) *AnnotationValues {
	return &AnnotationValues{Root: ann}
}

// ChildrenValues creates an AnnotationValues annotating descendants.
func ChildrenValues(children ...AnnotationEntry) *AnnotationValues {
	return &AnnotationValues{Children: children}
}

// Equal reports deep equality.
func (v *AnnotationValues) Equal(o *AnnotationValues) bool {
	if v == nil || o == nil {
		return v == o
	}
	if !v.Root.Equal(o.Root) || len(v.Children) != len(o.Children) {
		return false
	}
	for i := range v.Children {
		if v.Children[i].Path != o.Children[i].Path || !v.Children[i].Ann.Equal(o.Children[i].Ann) {
			return false
		}
	}
	return true
}

// lookupEntry returns the annotation stored directly at key, or nil.
func lookupEntry(children []AnnotationEntry, key string) *TypeAnnotation {
	for _, e := range children {
		if e.Path == key {
			return e.Ann
		}
	}
	return nil
}

// entriesUnder collects the entries whose path starts with prefix and
// strips the prefix, descending one structural level.
func entriesUnder(children []AnnotationEntry, prefix string) []AnnotationEntry {
	var sub []AnnotationEntry
	for _, e := range children {
		if rest, ok := strings.CutPrefix(e.Path, prefix); ok {
			sub = append(sub, AnnotationEntry{Path: rest, Ann: e.Ann})
		}
	}
	return sub
}
