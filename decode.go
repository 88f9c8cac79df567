package superjson

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Decode reconstructs the Value a wire envelope encodes. Dispatch
// follows meta.values: a root annotation types the whole payload, a
// children map types descendants, no annotation decodes the payload
// as plain JSON.
func Decode(env *Envelope) (*Value, error) {
	json := env.JSON
	if json == nil {
		json = Null()
	}
	if env.Meta != nil && env.Meta.Values != nil {
		vals := env.Meta.Values
		if vals.Root != nil {
			return decodeAnnotated(json, vals.Root, "", 0)
		}
		return decodeWithChildren(json, vals.Children, "", 0)
	}
	return decodePlain(json, "", 0)
}

// DecodeFromString parses a wire envelope and decodes it.
func DecodeFromString(s string) (*Value, error) {
	env, err := ParseEnvelope([]byte(s))
	if err != nil {
		return nil, err
	}
	return Decode(env)
}

// decodePlain checks a JSON payload subtree contains only plain kinds.
// Values are immutable after construction, so the subtree itself is
// the result.
func decodePlain(json *Value, path string, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, depthErr(path)
	}
	switch json.kind {
	case KindNull, KindBool, KindNumber, KindString, KindNegZero:
		// A literal -0 number parses to the NegZero kind, keeping the
		// Number invariant even for untyped payloads.
		return json, nil
	case KindArray:
		for i, item := range json.listVal {
			if _, err := decodePlain(item, childPath(path, strconv.Itoa(i)), depth+1); err != nil {
				return nil, err
			}
		}
		return json, nil
	case KindObject:
		for _, m := range json.objVal {
			if _, err := decodePlain(m.Value, childPath(path, EscapeKey(m.Key)), depth+1); err != nil {
				return nil, err
			}
		}
		return json, nil
	default:
		return nil, mismatchErr(path, "plain JSON value", json.kind.String())
	}
}

// decodeAnnotated reconstructs a value whose annotation names its
// extended type. The required payload shape per tag is a hard
// contract: a missing container shape is a TypeMismatch, never a
// silent fallback.
func decodeAnnotated(json *Value, ann *TypeAnnotation, path string, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, depthErr(path)
	}

	switch ann.Name {
	case "undefined":
		// The payload (conventionally null) is ignored.
		return Undefined(), nil

	case "Date":
		s, err := expectString(json, "Date", path)
		if err != nil {
			return nil, err
		}
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, dateErr(s, perr)
		}
		// The wire carries millisecond precision; normalize so decoded
		// dates re-encode to the same string.
		return Date(t.UTC().Truncate(time.Millisecond)), nil

	case "bigint":
		s, err := expectString(json, "bigint", path)
		if err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, bigintErr(s)
		}
		return BigInt(n), nil

	case "set":
		arr, err := expectArray(json, "set", path)
		if err != nil {
			return nil, err
		}
		items := make([]*Value, len(arr))
		for i, item := range arr {
			key := strconv.Itoa(i)
			items[i], err = decodeChild(item, key, ann.Children, childPath(path, key), depth+1)
			if err != nil {
				return nil, err
			}
		}
		return Set(items...), nil

	case "map":
		arr, err := expectArray(json, "map", path)
		if err != nil {
			return nil, err
		}
		entries := make([]MapEntry, len(arr))
		for i, pair := range arr {
			idx := strconv.Itoa(i)
			pairPath := childPath(path, idx)
			if pair.kind != KindArray {
				return nil, mismatchErr(pairPath, "array (key-value pair)", pair.kind.String())
			}
			if len(pair.listVal) != 2 {
				return nil, mismatchErr(pairPath, "array of length 2",
					fmt.Sprintf("array of length %d", len(pair.listVal)))
			}
			key, err := decodeChild(pair.listVal[0], idx+".0", ann.Children, childPath(pairPath, "0"), depth+1)
			if err != nil {
				return nil, err
			}
			val, err := decodeChild(pair.listVal[1], idx+".1", ann.Children, childPath(pairPath, "1"), depth+1)
			if err != nil {
				return nil, err
			}
			entries[i] = MapEntry{Key: key, Value: val}
		}
		return Map(entries...), nil

	case "number":
		s, err := expectString(json, "number", path)
		if err != nil {
			return nil, err
		}
		switch s {
		case "NaN":
			return NaN(), nil
		case "Infinity":
			return Infinity(), nil
		case "-Infinity":
			return NegInfinity(), nil
		case "-0":
			return NegZero(), nil
		default:
			return nil, mismatchErr(path, `"NaN", "Infinity", "-Infinity", or "-0"`, strconv.Quote(s))
		}

	case "regexp":
		s, err := expectString(json, "regexp", path)
		if err != nil {
			return nil, err
		}
		return parseRegExpLiteral(s)

	case "URL":
		s, err := expectString(json, "URL", path)
		if err != nil {
			return nil, err
		}
		return URL(s), nil

	case "Error":
		if json.kind != KindObject {
			return nil, mismatchErr(path, "object for Error", json.kind.String())
		}
		name, err := expectString(json.Get("name"), "Error name", childPath(path, "name"))
		if err != nil {
			return nil, err
		}
		message, err := expectString(json.Get("message"), "Error message", childPath(path, "message"))
		if err != nil {
			return nil, err
		}
		var cause *Value
		if c := json.Get("cause"); c != nil {
			cause, err = decodeChild(c, "cause", ann.Children, childPath(path, "cause"), depth+1)
			if err != nil {
				return nil, err
			}
		}
		return Err(name, message, cause), nil

	default:
		return nil, annotationErr(fmt.Sprintf("unknown type %q", ann.Name))
	}
}

// decodeWithChildren reconstructs an object or array whose descendants
// carry annotations. A children map addressing a leaf payload with no
// matching entry falls back to plain decoding for that node.
func decodeWithChildren(json *Value, children []AnnotationEntry, path string, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, depthErr(path)
	}
	switch json.kind {
	case KindArray:
		items := make([]*Value, len(json.listVal))
		for i, item := range json.listVal {
			key := strconv.Itoa(i)
			v, err := decodeChild(item, key, children, childPath(path, key), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return Array(items...), nil
	case KindObject:
		members := make([]Member, len(json.objVal))
		for i, m := range json.objVal {
			key := EscapeKey(m.Key)
			v, err := decodeChild(m.Value, key, children, childPath(path, key), depth+1)
			if err != nil {
				return nil, err
			}
			members[i] = Member{Key: m.Key, Value: v}
		}
		return Object(members...), nil
	default:
		return decodePlain(json, path, depth)
	}
}

// decodeChild resolves a child's annotation by the direct/prefix rule:
// an entry at exactly key types the child itself; entries under "key."
// descend one level; no entry decodes the child as plain JSON.
func decodeChild(json *Value, key string, children []AnnotationEntry, path string, depth int) (*Value, error) {
	if ann := lookupEntry(children, key); ann != nil {
		return decodeAnnotated(json, ann, path, depth)
	}
	if sub := entriesUnder(children, key+"."); len(sub) > 0 {
		return decodeWithChildren(json, sub, path, depth)
	}
	return decodePlain(json, path, depth)
}

// parseRegExpLiteral splits "/source/flags". The closing slash is the
// last slash at an index greater than zero, so the source may itself
// contain slashes.
func parseRegExpLiteral(s string) (*Value, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, regexpErr("regexp must start with '/'", s)
	}
	last := strings.LastIndexByte(s, '/')
	if last <= 0 {
		return nil, regexpErr("regexp must have a closing '/'", s)
	}
	return RegExp(s[1:last], s[last+1:]), nil
}

func expectString(json *Value, want, path string) (string, error) {
	if json == nil {
		return "", mismatchErr(path, "string for "+want, "nothing")
	}
	if json.kind != KindString {
		return "", mismatchErr(path, "string for "+want, json.kind.String())
	}
	return json.strVal, nil
}

func expectArray(json *Value, want, path string) ([]*Value, error) {
	if json.kind != KindArray {
		return nil, mismatchErr(path, "array for "+want, json.kind.String())
	}
	return json.listVal, nil
}

func childPath(path, seg string) string {
	if path == "" {
		return seg
	}
	return path + "." + seg
}
