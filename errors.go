package godap

import (
	"github.com/marram/godap/model"
	"github.com/marram/godap/transport"
)

// The error taxonomy lives where each failure originates; the root package
// re-exports the types so callers match with errors.As against one import.
//
//	var pe *godap.PathError
//	if errors.As(err, &pe) { ... }
type (
	// ParseError: malformed attribute or descriptor text.
	ParseError = model.ParseError
	// DecodeError: binary stream does not match its descriptor.
	DecodeError = model.DecodeError
	// PathError: lookup of a non-existent path; recoverable.
	PathError = model.PathError
	// TransportError: network or HTTP failure; never retried.
	TransportError = transport.Error
)

// Error codes, re-exported for programmatic matching.
const (
	CodeSyntax          = model.CodeSyntax
	CodeUnbalancedBlock = model.CodeUnbalancedBlock
	CodeUnexpectedToken = model.CodeUnexpectedToken
	CodeTruncated       = model.CodeTruncated
	CodeShapeMismatch   = model.CodeShapeMismatch
	CodeUnknownType     = model.CodeUnknownType
	CodeBadMarker       = model.CodeBadMarker
	CodeNotFound        = model.CodeNotFound
	CodeHTTPStatus      = transport.CodeHTTPStatus
	CodeNetwork         = transport.CodeNetwork
	CodeReadBody        = transport.CodeReadBody
)
