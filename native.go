package tnetstring

import (
	"encoding"
	"math"
	"reflect"
	"sort"
	"strings"
)

var (
	valueType         = reflect.TypeOf((*Value)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// FromNative converts a Go value into a Value.
//
// Supported inputs:
//
//   - nil, nil pointers and nil interfaces → Null
//   - bool → Bool
//   - signed and unsigned integers → Int (unsigned values above MaxInt64 fail)
//   - float32, float64 → Float
//   - string, []byte, [N]byte → Bytes
//   - other slices and arrays → List
//   - map[string]T → Map, keys sorted bytewise
//   - structs → Map of exported fields in declaration order
//   - encoding.TextMarshaler → Bytes of the marshaled text
//   - Value → passed through unchanged
//
// Struct fields honor a `tnetstring:"name,omitempty"` tag; "-" skips the
// field.  Anything else fails with ErrUnsupportedType.
func FromNative(x any) (Value, error) {
	return fromNative(reflect.ValueOf(x), 0)
}

// Marshal converts x with FromNative and encodes the result.
func Marshal(x any) ([]byte, error) {
	v, err := FromNative(x)
	if err != nil {
		return nil, err
	}
	return Encode(v)
}

// Unmarshal decodes the first frame in buf and converts it with ToNative.
func Unmarshal(buf []byte) (any, error) {
	v, err := DecodeOne(buf)
	if err != nil {
		return nil, err
	}
	return ToNative(v), nil
}

// ToNative converts a Value into plain Go values: nil, bool, int64,
// float64, string, []any and map[string]any.  Map order is lost.
func ToNative(v Value) any {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bytes:
		return string(val)
	case List:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToNative(item)
		}
		return out
	case *Map:
		out := make(map[string]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			out[val.Keys[i]] = ToNative(val.Values[i])
		}
		return out
	}
	return nil
}

func fromNative(rv reflect.Value, depth int) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
	}

	if rv.Type().Implements(valueType) && rv.CanInterface() {
		return rv.Interface().(Value), nil
	}
	if rv.Type().Implements(textMarshalerType) && rv.CanInterface() {
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, encodeErr(ErrUnsupportedType, "MarshalText: "+err.Error())
		}
		return Bytes(text), nil
	}

	switch rv.Kind() {

	case reflect.Pointer, reflect.Interface:
		return fromNative(rv.Elem(), depth)

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, encodeErr(ErrUnsupportedType, "unsigned integer overflows int64")
		}
		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.String:
		return Bytes(rv.String()), nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(raw), rv)
			return Bytes(raw), nil
		}
		if depth+1 > DefaultMaxDepth {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		out := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := fromNative(rv.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, encodeErr(ErrNonStringKey, "map key type "+rv.Type().Key().String())
		}
		if depth+1 > DefaultMaxDepth {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
		m := &Map{
			Keys:   make([]string, 0, len(keys)),
			Values: make([]Value, 0, len(keys)),
		}
		for _, k := range keys {
			item, err := fromNative(rv.MapIndex(k), depth+1)
			if err != nil {
				return nil, err
			}
			m.Keys = append(m.Keys, k.String())
			m.Values = append(m.Values, item)
		}
		return m, nil

	case reflect.Struct:
		if depth+1 > DefaultMaxDepth {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		return structToMap(rv, depth)

	default:
		return nil, encodeErr(ErrUnsupportedType, "unsupported Go type "+rv.Type().String())
	}
}

func structToMap(rv reflect.Value, depth int) (*Map, error) {
	t := rv.Type()
	m := &Map{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseFieldTag(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		item, err := fromNative(fv, depth+1)
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, name)
		m.Values = append(m.Values, item)
	}
	return m, nil
}

func parseFieldTag(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("tnetstring")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
