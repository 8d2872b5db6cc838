package tnetstring

import (
	"math"
	"strconv"
	"strings"
)

// Encoder frames Values.  The zero value applies DefaultMaxDepth.
type Encoder struct {
	// MaxDepth bounds List/Map nesting.  Zero means DefaultMaxDepth.
	MaxDepth int
}

// Encode returns the complete frame for v.  On error no output is
// produced.
func Encode(v Value) ([]byte, error) {
	return Encoder{}.Encode(v)
}

// AppendEncode appends the frame for v to dst.  On error dst is returned
// unchanged.
func AppendEncode(dst []byte, v Value) ([]byte, error) {
	return Encoder{}.Append(dst, v)
}

// Encode returns the complete frame for v.
func (e Encoder) Encode(v Value) ([]byte, error) {
	// TODO: size the buffer up front with a measuring pass once large
	// nested payloads show up in profiles.
	return e.Append(nil, v)
}

// Append appends the frame for v to dst.
func (e Encoder) Append(dst []byte, v Value) ([]byte, error) {
	out, err := e.appendValue(dst, v, 0)
	if err != nil {
		return dst, err
	}
	return out, nil
}

func (e Encoder) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return DefaultMaxDepth
}

// appendValue writes one frame.  Composite children are encoded into a
// scratch payload first, since the size prefix precedes them.
func (e Encoder) appendValue(dst []byte, v Value, depth int) ([]byte, error) {
	switch val := v.(type) {

	case Null:
		return append(dst, '0', sizeColon, tagNull), nil

	case Bool:
		if val {
			return appendFrame(dst, []byte("true"), tagBool)
		}
		return appendFrame(dst, []byte("false"), tagBool)

	case Int:
		return appendFrame(dst, strconv.AppendInt(nil, int64(val), 10), tagInt)

	case Float:
		return appendFrame(dst, []byte(formatFloat(float64(val))), tagFloat)

	case Bytes:
		return appendFrame(dst, val, tagBytes)

	case List:
		if depth+1 > e.maxDepth() {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		var payload []byte
		for _, item := range val {
			var err error
			payload, err = e.appendValue(payload, item, depth+1)
			if err != nil {
				return nil, err
			}
		}
		return appendFrame(dst, payload, tagList)

	case *Map:
		if depth+1 > e.maxDepth() {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		if val != nil && len(val.Keys) != len(val.Values) {
			return nil, encodeErr(ErrUnsupportedType, "map keys and values differ in length")
		}
		if val.Len() == 0 {
			return append(dst, '0', sizeColon, tagMap), nil
		}
		seen := make(map[string]struct{}, len(val.Keys))
		var payload []byte
		for i, k := range val.Keys {
			if _, dup := seen[k]; dup {
				return nil, encodeErr(ErrDuplicateKey, "duplicate map key "+strconv.Quote(k))
			}
			seen[k] = struct{}{}
			var err error
			// Keys are always ','-tagged.
			payload, err = appendFrame(payload, []byte(k), tagBytes)
			if err != nil {
				return nil, err
			}
			payload, err = e.appendValue(payload, val.Values[i], depth+1)
			if err != nil {
				return nil, err
			}
		}
		return appendFrame(dst, payload, tagMap)

	case nil:
		return nil, encodeErr(ErrUnsupportedType, "nil Value (use Null{})")

	default:
		return nil, encodeErr(ErrUnsupportedType, "unsupported value type")
	}
}

func appendFrame(dst, payload []byte, tag byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, encodeErr(ErrPayloadTooLarge, "payload exceeds 999999999 bytes")
	}
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, sizeColon)
	dst = append(dst, payload...)
	return append(dst, tag), nil
}

// formatFloat renders the shortest decimal text that parses back to f.
// Finite values always carry a decimal point ("3.0", not "3").
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
