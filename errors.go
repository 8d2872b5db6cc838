package tnetstring

import (
	"errors"
	"fmt"
)

// Error codes.  Tests and callers compare against these via ErrorCode.
const (
	ErrEmptyInput       = "ERR_EMPTY_INPUT"
	ErrMalformedFrame   = "ERR_MALFORMED_FRAME"
	ErrInvalidSize      = "ERR_INVALID_SIZE"
	ErrTruncatedFrame   = "ERR_TRUNCATED_FRAME"
	ErrUnknownTag       = "ERR_UNKNOWN_TAG"
	ErrNumericParse     = "ERR_NUMERIC_PARSE"
	ErrInvalidNull      = "ERR_INVALID_NULL"
	ErrNonStringKey     = "ERR_NON_STRING_KEY"
	ErrDanglingKey      = "ERR_DANGLING_KEY"
	ErrDuplicateKey     = "ERR_DUPLICATE_KEY"
	ErrDepthExceeded    = "ERR_DEPTH_EXCEEDED"
	ErrPayloadTooLarge  = "ERR_PAYLOAD_TOO_LARGE"
	ErrUnsupportedType  = "ERR_UNSUPPORTED_TYPE"
	ErrTrailingBytes    = "ERR_TRAILING_BYTES"
	ErrSourceSyntax     = "ERR_SOURCE_SYNTAX"
	ErrInvalidPointer   = "ERR_INVALID_POINTER"
	ErrPointerMismatch  = "ERR_POINTER_MISMATCH"
	ErrProjectionFailed = "ERR_PROJECTION"
)

// DecodeError reports why a byte buffer could not be turned into a Value.
// Offset is the index of the first byte of the frame that failed, or -1
// when the input was not a tnetstring (JSON/YAML sources).
type DecodeError struct {
	Code   string
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("tnetstring: decode %s: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("tnetstring: decode %s at offset %d: %s", e.Code, e.Offset, e.Msg)
}

// EncodeError reports why a Value could not be framed.
type EncodeError struct {
	Code string
	Msg  string
}

func (e *EncodeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("tnetstring: encode %s: %s", e.Code, e.Msg)
	}
	return "tnetstring: encode " + e.Code
}

// PathError reports a bad pointer or projection request.
type PathError struct {
	Code    string
	Pointer string
	Msg     string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("tnetstring: %s %q: %s", e.Code, e.Pointer, e.Msg)
}

func decodeErr(code string, off int, msg string) *DecodeError {
	return &DecodeError{Code: code, Offset: off, Msg: msg}
}

func encodeErr(code, msg string) *EncodeError {
	return &EncodeError{Code: code, Msg: msg}
}

func pathErr(code, ptr, msg string) *PathError {
	return &PathError{Code: code, Pointer: ptr, Msg: msg}
}

// ErrorCode returns the ERR_* code carried by err, looking through
// wrapping.  It returns "" for nil and for errors not produced by this
// package.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Code
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
