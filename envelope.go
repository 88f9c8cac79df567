package superjson

import (
	"bytes"

	"github.com/go-json-experiment/json/jsontext"
)

// Envelope is the top-level wire object {json, meta}. JSON holds only
// plain kinds (null, bool, number, string, array, object); Meta is nil
// when the encoded value contained no extended type.
type Envelope struct {
	JSON *Value
	Meta *Meta
}

// Meta carries the type annotations and the opaque referential
// equality data of an envelope. V is the format version, 0 when the
// member was absent on the wire.
type Meta struct {
	Values *AnnotationValues

	// ReferentialEqualities is passed through untouched: parsed as raw
	// JSON and re-emitted byte-for-byte.
	ReferentialEqualities jsontext.Value

	V int
}

// ============================================================
// Parsing
// ============================================================

// ParseEnvelope parses wire bytes into an Envelope. The input must be
// a single JSON object with a "json" member; object member order is
// preserved. Unknown members are skipped.
func ParseEnvelope(data []byte) (*Envelope, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, syntaxErr("invalid envelope", err)
	}
	if tok.Kind() != '{' {
		return nil, syntaxErr("envelope must be a JSON object", nil)
	}

	env := &Envelope{}
	seenJSON := false
	for dec.PeekKind() != '}' {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return nil, syntaxErr("invalid envelope", err)
		}
		switch nameTok.String() {
		case "json":
			v, err := readPlainValue(dec, 0)
			if err != nil {
				return nil, err
			}
			env.JSON = v
			seenJSON = true
		case "meta":
			m, err := readMeta(dec)
			if err != nil {
				return nil, err
			}
			env.Meta = m
		default:
			if err := dec.SkipValue(); err != nil {
				return nil, syntaxErr("invalid envelope", err)
			}
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, syntaxErr("invalid envelope", err)
	}
	if dec.PeekKind() != 0 {
		return nil, syntaxErr("trailing data after envelope", nil)
	}
	if !seenJSON {
		return nil, syntaxErr(`envelope is missing the "json" member`, nil)
	}
	return env, nil
}

// ParsePlain parses bytes holding ordinary JSON into a Value of plain
// kinds, preserving object member order. A literal -0 number becomes
// the NegZero kind.
func ParsePlain(data []byte) (*Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := readPlainValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if dec.PeekKind() != 0 {
		return nil, syntaxErr("trailing data after JSON value", nil)
	}
	return v, nil
}

func readPlainValue(dec *jsontext.Decoder, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, depthErr("")
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, syntaxErr("invalid JSON", err)
	}
	switch tok.Kind() {
	case 'n':
		return Null(), nil
	case 't', 'f':
		return Bool(tok.Bool()), nil
	case '"':
		return String(tok.String()), nil
	case '0':
		return Number(tok.Float()), nil
	case '[':
		var items []*Value
		for dec.PeekKind() != ']' {
			if dec.PeekKind() == 0 {
				break // let ReadToken surface the syntax error
			}
			item, err := readPlainValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, syntaxErr("invalid JSON", err)
		}
		return Array(items...), nil
	case '{':
		var members []Member
		for dec.PeekKind() != '}' {
			if dec.PeekKind() == 0 {
				break
			}
			nameTok, err := dec.ReadToken()
			if err != nil {
				return nil, syntaxErr("invalid JSON", err)
			}
			key := nameTok.String()
			v, err := readPlainValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: key, Value: v})
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, syntaxErr("invalid JSON", err)
		}
		return Object(members...), nil
	default:
		return nil, syntaxErr("unexpected token", nil)
	}
}

func readMeta(dec *jsontext.Decoder) (*Meta, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, syntaxErr("invalid meta", err)
	}
	if tok.Kind() != '{' {
		return nil, syntaxErr("meta must be a JSON object", nil)
	}

	m := &Meta{}
	for dec.PeekKind() != '}' {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return nil, syntaxErr("invalid meta", err)
		}
		switch nameTok.String() {
		case "values":
			vals, err := readAnnotationValues(dec)
			if err != nil {
				return nil, err
			}
			m.Values = vals
		case "referentialEqualities":
			raw, err := dec.ReadValue()
			if err != nil {
				return nil, syntaxErr("invalid referentialEqualities", err)
			}
			m.ReferentialEqualities = append(jsontext.Value(nil), raw...)
		case "v":
			vTok, err := dec.ReadToken()
			if err != nil {
				return nil, syntaxErr("invalid meta", err)
			}
			if vTok.Kind() != '0' {
				return nil, syntaxErr("meta.v must be an integer", nil)
			}
			m.V = int(vTok.Int())
		default:
			if err := dec.SkipValue(); err != nil {
				return nil, syntaxErr("invalid meta", err)
			}
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, syntaxErr("invalid meta", err)
	}
	return m, nil
}

func readAnnotationValues(dec *jsontext.Decoder) (*AnnotationValues, error) {
	switch dec.PeekKind() {
	case '[':
		ann, err := readAnnotation(dec, 0)
		if err != nil {
			return nil, err
		}
		return RootValues(ann), nil
	case '{':
		entries, err := readAnnotationMap(dec, 0)
		if err != nil {
			return nil, err
		}
		return ChildrenValues(entries...), nil
	default:
		return nil, annotationErr("meta.values must be an array or object")
	}
}

// readAnnotation reads the wire form of a TypeAnnotation: a 1-element
// array ["typeName"] or a 2-element array ["typeName", {children}].
func readAnnotation(dec *jsontext.Decoder, depth int) (*TypeAnnotation, error) {
	if depth > maxDepth {
		return nil, depthErr("")
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, syntaxErr("invalid annotation", err)
	}
	if tok.Kind() != '[' {
		return nil, annotationErr("annotation must be an array")
	}
	if dec.PeekKind() != '"' {
		return nil, annotationErr("annotation type name must be a string")
	}
	nameTok, err := dec.ReadToken()
	if err != nil {
		return nil, syntaxErr("invalid annotation", err)
	}
	name := nameTok.String()

	var children []AnnotationEntry
	switch dec.PeekKind() {
	case ']':
	case '{':
		children, err = readAnnotationMap(dec, depth+1)
		if err != nil {
			return nil, err
		}
	default:
		return nil, annotationErr("annotation children must be an object")
	}
	if dec.PeekKind() != ']' {
		return nil, annotationErr("annotation array has too many elements")
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, syntaxErr("invalid annotation", err)
	}
	if len(children) > 0 {
		return Node(name, children...), nil
	}
	return Leaf(name), nil
}

func readAnnotationMap(dec *jsontext.Decoder, depth int) ([]AnnotationEntry, error) {
	if depth > maxDepth {
		return nil, depthErr("")
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, syntaxErr("invalid annotation", err)
	}
	if tok.Kind() != '{' {
		return nil, annotationErr("annotation children must be an object")
	}
	var entries []AnnotationEntry
	for dec.PeekKind() != '}' {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return nil, syntaxErr("invalid annotation", err)
		}
		path := nameTok.String()
		ann, err := readAnnotation(dec, depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, AnnotationEntry{Path: path, Ann: ann})
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, syntaxErr("invalid annotation", err)
	}
	return entries, nil
}

// ============================================================
// Emitting
// ============================================================

// EmitEnvelope emits an envelope as compact JSON. Member order is
// json, meta; within meta: values, referentialEqualities, v. A nil
// Meta produces no meta member at all.
func EmitEnvelope(e *Envelope) ([]byte, error) {
	var buf bytes.Buffer
	w := &wireWriter{enc: jsontext.NewEncoder(&buf)}

	w.token(jsontext.BeginObject)
	w.token(jsontext.String("json"))
	w.plain(e.JSON, 0)
	if e.Meta != nil {
		w.token(jsontext.String("meta"))
		w.token(jsontext.BeginObject)
		if e.Meta.Values != nil {
			w.token(jsontext.String("values"))
			w.values(e.Meta.Values)
		}
		if len(e.Meta.ReferentialEqualities) > 0 {
			w.token(jsontext.String("referentialEqualities"))
			w.raw(e.Meta.ReferentialEqualities)
		}
		if e.Meta.V != 0 {
			w.token(jsontext.String("v"))
			w.token(jsontext.Int(int64(e.Meta.V)))
		}
		w.token(jsontext.EndObject)
	}
	w.token(jsontext.EndObject)

	if w.err != nil {
		return nil, w.err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EmitPlain emits a Value of plain kinds as compact JSON. NegZero
// emits the number literal -0; any other extended kind is an error.
func EmitPlain(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	w := &wireWriter{enc: jsontext.NewEncoder(&buf)}
	w.plain(v, 0)
	if w.err != nil {
		return nil, w.err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// wireWriter sequences jsontext tokens, latching the first error.
type wireWriter struct {
	enc *jsontext.Encoder
	err error
}

func (w *wireWriter) token(t jsontext.Token) {
	if w.err == nil {
		w.err = w.enc.WriteToken(t)
	}
}

func (w *wireWriter) raw(v jsontext.Value) {
	if w.err == nil {
		w.err = w.enc.WriteValue(v)
	}
}

func (w *wireWriter) plain(v *Value, depth int) {
	if w.err != nil {
		return
	}
	if depth > maxDepth {
		w.err = depthErr("")
		return
	}
	if v == nil {
		w.token(jsontext.Null)
		return
	}
	switch v.kind {
	case KindNull:
		w.token(jsontext.Null)
	case KindBool:
		w.token(jsontext.Bool(v.boolVal))
	case KindNumber:
		w.token(jsontext.Float(v.numVal))
	case KindNegZero:
		w.token(jsontext.Float(negativeZero()))
	case KindString:
		w.token(jsontext.String(v.strVal))
	case KindArray:
		w.token(jsontext.BeginArray)
		for _, item := range v.listVal {
			w.plain(item, depth+1)
		}
		w.token(jsontext.EndArray)
	case KindObject:
		w.token(jsontext.BeginObject)
		for _, m := range v.objVal {
			w.token(jsontext.String(m.Key))
			w.plain(m.Value, depth+1)
		}
		w.token(jsontext.EndObject)
	default:
		w.err = mismatchErr("", "plain JSON value", v.kind.String())
	}
}

func (w *wireWriter) values(vals *AnnotationValues) {
	if vals.Root != nil {
		w.annotation(vals.Root)
		return
	}
	w.token(jsontext.BeginObject)
	for _, e := range vals.Children {
		w.token(jsontext.String(e.Path))
		w.annotation(e.Ann)
	}
	w.token(jsontext.EndObject)
}

func (w *wireWriter) annotation(a *TypeAnnotation) {
	w.token(jsontext.BeginArray)
	w.token(jsontext.String(a.Name))
	if len(a.Children) > 0 {
		w.token(jsontext.BeginObject)
		for _, e := range a.Children {
			w.token(jsontext.String(e.Path))
			w.annotation(e.Ann)
		}
		w.token(jsontext.EndObject)
	}
	w.token(jsontext.EndArray)
}

func negativeZero() float64 {
	z := 0.0
	return -z
}
