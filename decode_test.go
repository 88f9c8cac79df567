package superjson

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func assertKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CodecError, got %T: %v", err, err)
	}
	if ce.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", ce.Kind, kind, err)
	}
}

func mustDecodeString(t *testing.T, s string) *Value {
	t.Helper()
	v, err := DecodeFromString(s)
	if err != nil {
		t.Fatalf("DecodeFromString(%s): %v", s, err)
	}
	return v
}

// ============================================================
// Plain decoding (no meta)
// ============================================================

func TestDecodePlain(t *testing.T) {
	tests := []struct {
		input    string
		expected *Value
	}{
		{`{"json":null}`, Null()},
		{`{"json":true}`, Bool(true)},
		{`{"json":42}`, Number(42)},
		{`{"json":"hello"}`, String("hello")},
		{`{"json":[1,"two",false,null]}`, Array(Number(1), String("two"), Bool(false), Null())},
		{
			`{"json":{"name":"Alice","age":30}}`,
			Object(Field("name", String("Alice")), Field("age", Number(30))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustDecodeString(t, tt.input)
			if !got.Equal(tt.expected) {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

// ============================================================
// Annotated decoding
// ============================================================

func TestDecodeAnnotatedLeaves(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Value
	}{
		{
			"undefined",
			`{"json":null,"meta":{"values":["undefined"],"v":1}}`,
			Undefined(),
		},
		{
			"date",
			`{"json":"1970-01-01T00:00:00.000Z","meta":{"values":["Date"],"v":1}}`,
			Date(time.UnixMilli(0)),
		},
		{
			"date with offset",
			`{"json":"1970-01-01T01:00:00.000+01:00","meta":{"values":["Date"],"v":1}}`,
			Date(time.UnixMilli(0)),
		},
		{
			"bigint",
			`{"json":"1021312312412312312313","meta":{"values":["bigint"],"v":1}}`,
			BigInt(mustBig("1021312312412312312313")),
		},
		{
			"nan",
			`{"json":"NaN","meta":{"values":["number"],"v":1}}`,
			NaN(),
		},
		{
			"infinity",
			`{"json":"Infinity","meta":{"values":["number"],"v":1}}`,
			Infinity(),
		},
		{
			"neg infinity",
			`{"json":"-Infinity","meta":{"values":["number"],"v":1}}`,
			NegInfinity(),
		},
		{
			"neg zero",
			`{"json":"-0","meta":{"values":["number"],"v":1}}`,
			NegZero(),
		},
		{
			"regexp",
			`{"json":"/\\d+/gi","meta":{"values":["regexp"],"v":1}}`,
			RegExp(`\d+`, "gi"),
		},
		{
			"regexp with slash in source",
			`{"json":"/a\/b/g","meta":{"values":["regexp"],"v":1}}`,
			RegExp("a/b", "g"),
		},
		{
			"url",
			`{"json":"https://example.com/","meta":{"values":["URL"],"v":1}}`,
			URL("https://example.com/"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustDecodeString(t, tt.input)
			if !got.Equal(tt.expected) {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad bigint literal: " + s)
	}
	return n
}

func TestDecodeTopLevelSet(t *testing.T) {
	got := mustDecodeString(t, `{"json":[1,2,3],"meta":{"values":["set"],"v":1}}`)
	want := Set(Number(1), Number(2), Number(3))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeSetWithInnerAnnotation(t *testing.T) {
	got := mustDecodeString(t, `{"json":[1,null,2],"meta":{"values":["set",{"1":["undefined"]}],"v":1}}`)
	want := Set(Number(1), Undefined(), Number(2))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeMap(t *testing.T) {
	got := mustDecodeString(t, `{"json":[["key",1]],"meta":{"values":["map"],"v":1}}`)
	want := Map(Entry(String("key"), Number(1)))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeMapWithAnnotatedSlots(t *testing.T) {
	got := mustDecodeString(t, `{"json":[["NaN",null]],"meta":{"values":["map",{"0.0":["number"]}],"v":1}}`)
	want := Map(Entry(NaN(), Null()))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeChildrenMap(t *testing.T) {
	got := mustDecodeString(t, `{"json":{"date":"1970-01-01T00:00:00.000Z","name":"test"},"meta":{"values":{"date":["Date"]},"v":1}}`)
	want := Object(
		Field("date", Date(time.UnixMilli(0))),
		Field("name", String("test")),
	)
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeDeeplyNestedChildren(t *testing.T) {
	got := mustDecodeString(t, `{"json":{"meeting":{"date":"1970-01-01T00:00:00.000Z"}},"meta":{"values":{"meeting.date":["Date"]},"v":1}}`)
	want := Object(Field("meeting", Object(Field("date", Date(time.UnixMilli(0))))))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeEscapedKeyInChildrenMap(t *testing.T) {
	got := mustDecodeString(t, `{"json":{"a.b":"1970-01-01T00:00:00.000Z"},"meta":{"values":{"a\\.b":["Date"]},"v":1}}`)
	want := Object(Field("a.b", Date(time.UnixMilli(0))))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeError(t *testing.T) {
	got := mustDecodeString(t, `{"json":{"name":"TypeError","message":"outer","cause":{"name":"Error","message":"inner"}},"meta":{"values":["Error",{"cause":["Error"]}],"v":1}}`)
	want := Err("TypeError", "outer", Err("Error", "inner", nil))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// A children map addressing a leaf node with no matching entry falls
// back to plain decoding for that node.
func TestDecodeChildrenMapLeafFallback(t *testing.T) {
	got := mustDecodeString(t, `{"json":{"a":1},"meta":{"values":{"b.c":["Date"]},"v":1}}`)
	want := Object(Field("a", Number(1)))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// ============================================================
// Decode failures
// ============================================================

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"not json", `{`, ErrJSONSyntax},
		{"missing json member", `{"meta":{"v":1}}`, ErrJSONSyntax},
		{"trailing data", `{"json":1} extra`, ErrJSONSyntax},
		{"unknown tag", `{"json":1,"meta":{"values":["wat"],"v":1}}`, ErrInvalidTypeAnnotation},
		{"empty annotation array", `{"json":1,"meta":{"values":[],"v":1}}`, ErrInvalidTypeAnnotation},
		{"non-string tag", `{"json":1,"meta":{"values":[42],"v":1}}`, ErrInvalidTypeAnnotation},
		{"annotation too long", `{"json":1,"meta":{"values":["set",{},{}],"v":1}}`, ErrInvalidTypeAnnotation},
		{"children not object", `{"json":1,"meta":{"values":["set",5],"v":1}}`, ErrInvalidTypeAnnotation},
		{"values scalar", `{"json":1,"meta":{"values":7,"v":1}}`, ErrInvalidTypeAnnotation},
		{"date not string", `{"json":42,"meta":{"values":["Date"],"v":1}}`, ErrTypeMismatch},
		{"date malformed", `{"json":"not-a-date","meta":{"values":["Date"],"v":1}}`, ErrInvalidDate},
		{"bigint malformed", `{"json":"12x","meta":{"values":["bigint"],"v":1}}`, ErrInvalidBigInt},
		{"bigint empty", `{"json":"","meta":{"values":["bigint"],"v":1}}`, ErrInvalidBigInt},
		{"set not array", `{"json":{"a":1},"meta":{"values":["set"],"v":1}}`, ErrTypeMismatch},
		{"map not array", `{"json":"x","meta":{"values":["map"],"v":1}}`, ErrTypeMismatch},
		{"map pair not array", `{"json":[1],"meta":{"values":["map"],"v":1}}`, ErrTypeMismatch},
		{"map pair wrong arity", `{"json":[["a",1,2]],"meta":{"values":["map"],"v":1}}`, ErrTypeMismatch},
		{"number unknown string", `{"json":"nope","meta":{"values":["number"],"v":1}}`, ErrTypeMismatch},
		{"number not string", `{"json":5,"meta":{"values":["number"],"v":1}}`, ErrTypeMismatch},
		{"regexp no leading slash", `{"json":"abc","meta":{"values":["regexp"],"v":1}}`, ErrInvalidRegExp},
		{"regexp no closing slash", `{"json":"/abc","meta":{"values":["regexp"],"v":1}}`, ErrInvalidRegExp},
		{"url not string", `{"json":1,"meta":{"values":["URL"],"v":1}}`, ErrTypeMismatch},
		{"error not object", `{"json":"x","meta":{"values":["Error"],"v":1}}`, ErrTypeMismatch},
		{"error missing message", `{"json":{"name":"Error"},"meta":{"values":["Error"],"v":1}}`, ErrTypeMismatch},
		{"meta v not integer", `{"json":1,"meta":{"values":["set"],"v":"1"}}`, ErrJSONSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFromString(tt.input)
			assertKind(t, err, tt.kind)
		})
	}
}

// The first mismatch in depth-first, left-to-right order is reported.
func TestDecodeMismatchReportsPath(t *testing.T) {
	_, err := DecodeFromString(`{"json":{"a":[["k",1],["k"]]},"meta":{"values":{"a":["map"]},"v":1}}`)
	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CodecError, got %v", err)
	}
	if ce.Kind != ErrTypeMismatch {
		t.Fatalf("kind = %s, want type mismatch", ce.Kind)
	}
	if ce.Path != "a.1" {
		t.Errorf("path = %q, want %q", ce.Path, "a.1")
	}
	if ce.Actual != "array of length 1" {
		t.Errorf("actual = %q", ce.Actual)
	}
}

func TestDecodeDepthExceeded(t *testing.T) {
	deep := "1"
	for i := 0; i < maxDepth+10; i++ {
		deep = "[" + deep + "]"
	}
	_, err := DecodeFromString(`{"json":` + deep + `}`)
	assertKind(t, err, ErrDepthExceeded)
}
