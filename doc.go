// Package superjson implements the superjson wire format, a JSON
// envelope that carries types JSON cannot natively represent.
//
// JSON has no Date, BigInt, Set, Map, undefined, NaN, Infinity, -0,
// RegExp, URL, or Error. superjson encodes a value holding any of
// these into a JSON-safe payload plus a parallel annotation tree that
// records, for every position where an extended type occurred, which
// type it was. Decoding reverses the projection exactly.
//
// # Wire Envelope
//
//	{ "json": <any JSON value>,
//	  "meta"?: { "values"?: <annotation>,
//	             "referentialEqualities"?: <opaque>,
//	             "v"?: 1 } }
//
// The annotation under meta.values is either a root annotation (the
// whole payload is an extended type) or an object mapping dotted
// paths to annotations of descendants:
//
//	["Date"]                      root is a Date
//	["set", {"1": ["undefined"]}] root is a Set whose element 1 is undefined
//	{"meeting.date": ["Date"]}    a nested field is a Date
//
// meta is wholly absent, never present-but-empty, when the value
// contains no extended type anywhere.
//
// # Paths
//
// Annotation paths are dot-separated. Within a segment, backslash and
// dot are escaped as \\ and \. so keys containing the separator stay
// unambiguous. A segment that reads entirely as a non-negative decimal
// integer is an array index; consequently an object key that is purely
// numeric cannot be told apart from an index once re-parsed. This is a
// property of the dotted-path format itself.
//
// # Usage
//
//	v := superjson.Object(
//		superjson.Field("when", superjson.Date(time.UnixMilli(0))),
//	)
//	s, err := superjson.EncodeToString(v)
//	// {"json":{"when":"1970-01-01T00:00:00.000Z"},"meta":{"values":{"when":["Date"]},"v":1}}
//	back, err := superjson.DecodeFromString(s)
//
// Values are trees, not graphs: built once, never mutated afterwards,
// never shared across calls. Independent Encode/Decode calls are safe
// to run concurrently; the package keeps no global state.
package superjson
