package superjson

import "fmt"

// ErrorKind classifies codec failures.
type ErrorKind uint8

const (
	ErrJSONSyntax ErrorKind = iota
	ErrInvalidTypeAnnotation
	ErrInvalidPath // reserved: path parsing is total and never fails today
	ErrInvalidDate
	ErrInvalidBigInt
	ErrInvalidRegExp
	ErrTypeMismatch
	ErrDepthExceeded
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrJSONSyntax:
		return "json syntax"
	case ErrInvalidTypeAnnotation:
		return "invalid type annotation"
	case ErrInvalidPath:
		return "invalid path"
	case ErrInvalidDate:
		return "invalid date"
	case ErrInvalidBigInt:
		return "invalid bigint"
	case ErrInvalidRegExp:
		return "invalid regexp"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrDepthExceeded:
		return "depth exceeded"
	default:
		return "unknown"
	}
}

// CodecError is the error type returned by every encode and decode
// operation in this package. Decode errors are terminal: the first
// mismatch found in depth-first, left-to-right order is reported and
// no partial result is produced.
type CodecError struct {
	Kind     ErrorKind
	Path     string // dotted path to the offending node; "" for the root
	Expected string // set for ErrTypeMismatch
	Actual   string // set for ErrTypeMismatch
	Msg      string
	cause    error
}

func (e *CodecError) Error() string {
	if e.Kind == ErrTypeMismatch {
		if e.Path != "" {
			return fmt.Sprintf("superjson: type mismatch at %q: expected %s, got %s", e.Path, e.Expected, e.Actual)
		}
		return fmt.Sprintf("superjson: type mismatch: expected %s, got %s", e.Expected, e.Actual)
	}
	if e.cause != nil {
		return fmt.Sprintf("superjson: %s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("superjson: %s: %s", e.Kind, e.Msg)
}

func (e *CodecError) Unwrap() error { return e.cause }

func syntaxErr(msg string, cause error) *CodecError {
	return &CodecError{Kind: ErrJSONSyntax, Msg: msg, cause: cause}
}

func annotationErr(msg string) *CodecError {
	return &CodecError{Kind: ErrInvalidTypeAnnotation, Msg: msg}
}

func dateErr(input string, cause error) *CodecError {
	return &CodecError{Kind: ErrInvalidDate, Msg: fmt.Sprintf("cannot parse %q", input), cause: cause}
}

func bigintErr(input string) *CodecError {
	return &CodecError{Kind: ErrInvalidBigInt, Msg: fmt.Sprintf("cannot parse %q as a decimal integer", input)}
}

func regexpErr(msg string, input string) *CodecError {
	return &CodecError{Kind: ErrInvalidRegExp, Msg: fmt.Sprintf("%s: %q", msg, input)}
}

func mismatchErr(path, expected, actual string) *CodecError {
	return &CodecError{Kind: ErrTypeMismatch, Path: path, Expected: expected, Actual: actual}
}

func depthErr(path string) *CodecError {
	return &CodecError{Kind: ErrDepthExceeded, Path: path, Msg: fmt.Sprintf("nesting deeper than %d levels", maxDepth)}
}
