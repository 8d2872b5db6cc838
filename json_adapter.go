package tnetstring

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// FromJSON converts one JSON document into a Value.
//
//   - objects → Map in document order (duplicate keys fail)
//   - arrays → List
//   - strings → Bytes
//   - integers that fit int64 → Int; other numbers → Float
//   - true/false → Bool, null → Null
//
// Anything after the root value other than whitespace is ErrSourceSyntax.
func FromJSON(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	val, err := decodeJSONValue(dec, 0)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, decodeErr(ErrSourceSyntax, -1, "trailing JSON content")
	}
	return val, nil
}

// decodeJSONValue reads one JSON value.  depth counts enclosing containers.
func decodeJSONValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, decodeErr(ErrSourceSyntax, -1, "unexpected end of JSON")
		}
		return nil, decodeErr(ErrSourceSyntax, -1, "JSON parse error: "+err.Error())
	}

	switch v := tok.(type) {

	case json.Delim:
		switch v {
		case '{':
			return decodeJSONObject(dec, depth)
		case '[':
			return decodeJSONArray(dec, depth)
		default:
			return nil, decodeErr(ErrSourceSyntax, -1, "unexpected delimiter "+v.String())
		}

	case string:
		return Bytes(v), nil

	case bool:
		return Bool(v), nil

	case json.Number:
		return convertJSONNumber(v)

	case float64:
		return Float(v), nil

	case nil:
		return Null{}, nil

	default:
		return nil, decodeErr(ErrSourceSyntax, -1, "unexpected JSON token")
	}
}

// decodeJSONObject decodes an object whose '{' was already consumed.
func decodeJSONObject(dec *json.Decoder, depth int) (Value, error) {
	if depth+1 > DefaultMaxDepth {
		return nil, decodeErr(ErrDepthExceeded, -1, "JSON nesting exceeds max depth")
	}

	m := &Map{}
	seen := make(map[string]struct{}, 8)
	for dec.More() {
		kTok, err := dec.Token()
		if err != nil {
			return nil, decodeErr(ErrSourceSyntax, -1, "JSON parse error reading key")
		}
		key, ok := kTok.(string)
		if !ok {
			return nil, decodeErr(ErrSourceSyntax, -1, "JSON key is not a string")
		}
		if _, dup := seen[key]; dup {
			return nil, decodeErr(ErrDuplicateKey, -1, "duplicate JSON key "+strconv.Quote(key))
		}
		seen[key] = struct{}{}

		val, err := decodeJSONValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, val)
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, decodeErr(ErrSourceSyntax, -1, "expected '}'")
	}
	return m, nil
}

// decodeJSONArray decodes an array whose '[' was already consumed.
func decodeJSONArray(dec *json.Decoder, depth int) (Value, error) {
	if depth+1 > DefaultMaxDepth {
		return nil, decodeErr(ErrDepthExceeded, -1, "JSON nesting exceeds max depth")
	}

	arr := make(List, 0, 8)
	for dec.More() {
		val, err := decodeJSONValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim(']') {
		return nil, decodeErr(ErrSourceSyntax, -1, "expected ']'")
	}
	return arr, nil
}

// convertJSONNumber keeps integral tokens as Int.  A decimal point or
// exponent always yields Float, even for integral values like "1.0".
func convertJSONNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, decodeErr(ErrNumericParse, -1, "JSON number out of range: "+s)
	}
	return Float(f), nil
}

// ToJSON renders v as compact JSON, keeping Map order.  Bytes become JSON
// strings; invalid UTF-8 is replaced with U+FFFD.  NaN and infinities
// cannot be represented and fail with ErrUnsupportedType.
func ToJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value, depth int) error {
	switch val := v.(type) {

	case Null:
		buf.WriteString("null")

	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))

	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))

	case Float:
		s := formatFloat(float64(val))
		if s == "NaN" || s == "+Inf" || s == "-Inf" {
			return encodeErr(ErrUnsupportedType, "JSON cannot represent "+s)
		}
		buf.WriteString(s)

	case Bytes:
		return writeJSONString(buf, string(val))

	case List:
		if depth+1 > DefaultMaxDepth {
			return encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case *Map:
		if depth+1 > DefaultMaxDepth {
			return encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		buf.WriteByte('{')
		for i := 0; i < val.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, val.Keys[i]); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, val.Values[i], depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	default:
		return encodeErr(ErrUnsupportedType, "unsupported value type")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	out, err := json.Marshal(s)
	if err != nil {
		return encodeErr(ErrUnsupportedType, err.Error())
	}
	buf.Write(out)
	return nil
}
