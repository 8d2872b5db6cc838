package tnetstring

import (
	"strconv"
)

// Decoder parses tnetstring frames.  The zero value is ready to use and
// applies DefaultMaxDepth and strict null handling.
//
// Float payloads use strconv.ParseFloat syntax.  Besides the "NaN",
// "+Inf" and "-Inf" the encoder writes, that accepts "inf", "infinity"
// and "nan" in any letter case with an optional sign, as well as hex
// mantissas such as "0x1p-2".
type Decoder struct {
	// MaxDepth bounds List/Map nesting.  Zero means DefaultMaxDepth.
	MaxDepth int
	// LenientNull accepts a '~' frame with a non-empty payload and
	// ignores the payload.
	LenientNull bool
}

// Decode parses the frame starting at start.  It returns the value and the
// index of the first byte after the frame.  Bytes before start and after
// the frame are never inspected.
func Decode(buf []byte, start int) (Value, int, error) {
	return Decoder{}.Decode(buf, start)
}

// DecodeOne parses the first frame in buf.  Trailing bytes after that frame
// are ignored.
func DecodeOne(buf []byte) (Value, error) {
	return Decoder{}.DecodeOne(buf)
}

// Decode parses the frame starting at start; see the package-level Decode.
func (d Decoder) Decode(buf []byte, start int) (Value, int, error) {
	if len(buf) == 0 {
		return nil, start, decodeErr(ErrEmptyInput, start, "empty input")
	}
	return d.decodeAt(buf, start, len(buf)-1, 0)
}

// DecodeOne parses the first frame in buf; see the package-level DecodeOne.
func (d Decoder) DecodeOne(buf []byte) (Value, error) {
	v, _, err := d.Decode(buf, 0)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeAll parses consecutive frames from the start of buf until it is
// exhausted.  Unlike DecodeOne, any bytes that do not form a frame are an
// error.
func (d Decoder) DecodeAll(buf []byte) ([]Value, error) {
	var out []Value
	for off := 0; off < len(buf); {
		v, next, err := d.decodeAt(buf, off, len(buf)-1, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		off = next
	}
	return out, nil
}

func (d Decoder) maxDepth() int {
	if d.MaxDepth > 0 {
		return d.MaxDepth
	}
	return DefaultMaxDepth
}

// decodeAt decodes one frame within the inclusive bound [start, end].
//
// Depth tracks container nesting:
//   - Root call starts at depth=0.
//   - Entering a List or Map checks depth+1 against MaxDepth.
//   - Scalars don't increment depth.
func (d Decoder) decodeAt(buf []byte, start, end, depth int) (Value, int, error) {
	f, err := locateFrame(buf, start, end)
	if err != nil {
		return nil, start, err
	}
	next := f.next()

	switch f.tag {

	case tagNull:
		if f.plSize != 0 && !d.LenientNull {
			return nil, start, decodeErr(ErrInvalidNull, start, "null frame must have size 0")
		}
		return Null{}, next, nil

	case tagBytes:
		raw := make([]byte, f.plSize)
		copy(raw, f.payload(buf))
		return Bytes(raw), next, nil

	case tagBool:
		// Only the exact literal "true" is true; no other validation.
		return Bool(string(f.payload(buf)) == "true"), next, nil

	case tagInt:
		n, err := strconv.ParseInt(string(f.payload(buf)), 10, 64)
		if err != nil {
			return nil, start, decodeErr(ErrNumericParse, start, "invalid integer payload")
		}
		return Int(n), next, nil

	case tagFloat:
		x, err := strconv.ParseFloat(string(f.payload(buf)), 64)
		if err != nil {
			return nil, start, decodeErr(ErrNumericParse, start, "invalid float payload")
		}
		return Float(x), next, nil

	case tagList:
		if depth+1 > d.maxDepth() {
			return nil, start, decodeErr(ErrDepthExceeded, start, "nesting exceeds max depth")
		}
		if f.plSize == 0 {
			return List{}, next, nil
		}
		limit := f.plStart + f.plSize
		items := make(List, 0, 4)
		for off := f.plStart; off < limit; {
			item, n, err := d.decodeAt(buf, off, limit-1, depth+1)
			if err != nil {
				return nil, start, err
			}
			items = append(items, item)
			off = n
		}
		return items, next, nil

	case tagMap:
		if depth+1 > d.maxDepth() {
			return nil, start, decodeErr(ErrDepthExceeded, start, "nesting exceeds max depth")
		}
		if f.plSize == 0 {
			return EmptyMap(), next, nil
		}
		limit := f.plStart + f.plSize
		m := &Map{}
		seen := make(map[string]struct{}, 4)
		for off := f.plStart; off < limit; {
			kv, n, err := d.decodeAt(buf, off, limit-1, depth+1)
			if err != nil {
				return nil, start, err
			}
			key, ok := kv.(Bytes)
			if !ok {
				return nil, start, decodeErr(ErrNonStringKey, off, "map key must be a ',' string")
			}
			if _, dup := seen[string(key)]; dup {
				return nil, start, decodeErr(ErrDuplicateKey, off, "duplicate map key")
			}
			seen[string(key)] = struct{}{}
			if n >= limit {
				return nil, start, decodeErr(ErrDanglingKey, off, "map key without value")
			}

			val, n2, err := d.decodeAt(buf, n, limit-1, depth+1)
			if err != nil {
				return nil, start, err
			}
			m.Keys = append(m.Keys, string(key))
			m.Values = append(m.Values, val)
			off = n2
		}
		return m, next, nil

	default:
		return nil, start, decodeErr(ErrUnknownTag, start, "unknown type tag "+strconv.QuoteRune(rune(f.tag)))
	}
}
