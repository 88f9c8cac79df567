package superjson

import (
	"strconv"
	"time"
)

// maxDepth bounds recursion on both encode and decode so adversarially
// deep inputs fail with ErrDepthExceeded instead of exhausting the
// stack.
const maxDepth = 256

// dateLayout is the wire form of a Date: ISO-8601 with millisecond
// precision and an explicit UTC designator.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatVersion is the wire format version written into meta.v.
const FormatVersion = 1

// annResult tracks whether an annotation applies to a value itself
// (typed) or to its descendants (children). At most one field is set;
// both empty means the subtree needs no annotation.
type annResult struct {
	typed    *TypeAnnotation
	children []AnnotationEntry
}

// Encode converts a Value into its wire envelope: a JSON-safe payload
// plus, when any extended type occurs, metadata reconstructing it.
// When no extended type occurs anywhere, Meta is nil and the emitted
// envelope carries no meta member at all.
//
// Encoding fails only when nesting exceeds the depth bound.
func Encode(v *Value) (*Envelope, error) {
	json, ann, err := encodeValue(v, 0)
	if err != nil {
		return nil, err
	}
	env := &Envelope{JSON: json}
	switch {
	case ann.typed != nil:
		env.Meta = &Meta{Values: RootValues(ann.typed), V: FormatVersion}
	case len(ann.children) > 0:
		env.Meta = &Meta{Values: ChildrenValues(ann.children...), V: FormatVersion}
	}
	return env, nil
}

// EncodeToString encodes v and emits the envelope as compact JSON.
func EncodeToString(v *Value) (string, error) {
	env, err := Encode(v)
	if err != nil {
		return "", err
	}
	data, err := EmitEnvelope(env)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeValue(v *Value, depth int) (*Value, annResult, error) {
	if depth > maxDepth {
		return nil, annResult{}, depthErr("")
	}
	if v == nil {
		return Null(), annResult{}, nil
	}

	switch v.kind {
	case KindNull, KindBool, KindNumber, KindString:
		// Verbatim JSON. Values are immutable after construction, so
		// the node can be reused in the payload tree.
		return v, annResult{}, nil

	case KindArray:
		items := make([]*Value, len(v.listVal))
		var children []AnnotationEntry
		for i, item := range v.listVal {
			jv, ann, err := encodeValue(item, depth+1)
			if err != nil {
				return nil, annResult{}, err
			}
			items[i] = jv
			children = collectChild(children, strconv.Itoa(i), ann)
		}
		return Array(items...), annResult{children: children}, nil

	case KindObject:
		members := make([]Member, len(v.objVal))
		var children []AnnotationEntry
		for i, m := range v.objVal {
			jv, ann, err := encodeValue(m.Value, depth+1)
			if err != nil {
				return nil, annResult{}, err
			}
			members[i] = Member{Key: m.Key, Value: jv}
			children = collectChild(children, EscapeKey(m.Key), ann)
		}
		return Object(members...), annResult{children: children}, nil

	case KindUndefined:
		return Null(), leafAnn("undefined"), nil

	case KindDate:
		s := v.timeVal.UTC().Truncate(time.Millisecond).Format(dateLayout)
		return String(s), leafAnn("Date"), nil

	case KindBigInt:
		return String(v.bigVal.String()), leafAnn("bigint"), nil

	case KindSet:
		items := make([]*Value, len(v.listVal))
		var inner []AnnotationEntry
		for i, item := range v.listVal {
			jv, ann, err := encodeValue(item, depth+1)
			if err != nil {
				return nil, annResult{}, err
			}
			items[i] = jv
			inner = collectChild(inner, strconv.Itoa(i), ann)
		}
		return Array(items...), typedAnn("set", inner), nil

	case KindMap:
		pairs := make([]*Value, len(v.mapVal))
		var inner []AnnotationEntry
		for i, e := range v.mapVal {
			jk, kann, err := encodeValue(e.Key, depth+1)
			if err != nil {
				return nil, annResult{}, err
			}
			jv, vann, err := encodeValue(e.Value, depth+1)
			if err != nil {
				return nil, annResult{}, err
			}
			pairs[i] = Array(jk, jv)
			idx := strconv.Itoa(i)
			inner = collectChild(inner, idx+".0", kann)
			inner = collectChild(inner, idx+".1", vann)
		}
		return Array(pairs...), typedAnn("map", inner), nil

	case KindNaN:
		return String("NaN"), leafAnn("number"), nil
	case KindPosInfinity:
		return String("Infinity"), leafAnn("number"), nil
	case KindNegInfinity:
		return String("-Infinity"), leafAnn("number"), nil
	case KindNegZero:
		return String("-0"), leafAnn("number"), nil

	case KindRegExp:
		return String("/" + v.regexVal.Source + "/" + v.regexVal.Flags), leafAnn("regexp"), nil

	case KindURL:
		return String(v.strVal), leafAnn("URL"), nil

	case KindError:
		members := []Member{
			Field("name", String(v.errVal.Name)),
			Field("message", String(v.errVal.Message)),
		}
		var inner []AnnotationEntry
		if v.errVal.Cause != nil {
			jc, cann, err := encodeValue(v.errVal.Cause, depth+1)
			if err != nil {
				return nil, annResult{}, err
			}
			members = append(members, Field("cause", jc))
			inner = collectChild(inner, "cause", cann)
		}
		return Object(members...), typedAnn("Error", inner), nil

	default:
		return Null(), annResult{}, nil
	}
}

// collectChild records a child's annotation in the parent's children
// list: a typed child lands directly at key, a child with annotated
// descendants is flattened by prefixing each inner path with "key.".
func collectChild(children []AnnotationEntry, key string, ann annResult) []AnnotationEntry {
	if ann.typed != nil {
		return append(children, AnnotationEntry{Path: key, Ann: ann.typed})
	}
	for _, e := range ann.children {
		children = append(children, AnnotationEntry{Path: key + "." + e.Path, Ann: e.Ann})
	}
	return children
}

func leafAnn(name string) annResult {
	return annResult{typed: Leaf(name)}
}

// typedAnn builds the annotation for an extended container: a leaf
// when no element carried its own annotation, otherwise a node.
func typedAnn(name string, inner []AnnotationEntry) annResult {
	if len(inner) == 0 {
		return annResult{typed: Leaf(name)}
	}
	return annResult{typed: Node(name, inner...)}
}
