package model

import "fmt"

// Error codes (exported consts for programmatic matching by convention).
const (
	CodeSyntax          = "syntax"
	CodeUnbalancedBlock = "unbalanced_block"
	CodeUnexpectedToken = "unexpected_token"

	CodeTruncated     = "truncated"
	CodeShapeMismatch = "shape_mismatch"
	CodeUnknownType   = "unknown_type"
	CodeBadMarker     = "bad_marker"

	CodeNotFound = "not_found"
)

// ParseError reports malformed attribute or descriptor text. Offset is the
// byte position in the input when known (-1 otherwise).
type ParseError struct {
	Code    string
	Message string
	Offset  int64
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("dap: parse: %s at offset %d: %s", e.Code, e.Offset, e.Message)
	}
	return fmt.Sprintf("dap: parse: %s: %s", e.Code, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// DecodeError reports a binary stream that does not match its descriptor.
// There is no partial result: a DecodeError means the whole decode failed.
type DecodeError struct {
	Code    string
	Path    string // dotted path of the variable being decoded
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("dap: decode: %s at %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("dap: decode: %s: %s", e.Code, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// PathError reports a lookup of a name that does not exist in the tree. It is
// recoverable and distinct from a successful-but-empty result.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("dap: path: %s: %q", CodeNotFound, e.Path)
}
