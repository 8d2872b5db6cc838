// Package tnetstring implements the tagged netstring serialization format:
// a self-delimiting, binary-safe encoding of dynamically-typed values using
// length-prefixed framing instead of escaping.
//
// Every value travels as one frame:
//
//	SIZE ':' DATA TAG
//
// where SIZE is 1–9 ASCII digits, DATA is exactly SIZE bytes and TAG is one
// of '~' (null), '!' (bool), '#' (int), '^' (float), ',' (bytes), ']' (list)
// or '}' (map).  List and map payloads are themselves concatenations of
// frames.
//
// The codec is stateless.  Decode parses one frame at an offset and reports
// where the next unconsumed byte is, so callers can walk several frames in a
// buffer or ignore trailing noise.
package tnetstring

// Value is a tnetstring value.  Concrete types:
//
//   - Null
//   - Bool
//   - Int
//   - Float
//   - Bytes (doubles as string; no charset is assumed)
//   - List
//   - *Map
type Value interface {
	tnsValue() // sealed: only types in this package implement Value
}

// Null is the tnetstring null value, always framed as "0:~".
type Null struct{}

// Bool is a tnetstring boolean.
type Bool bool

// Int is a tnetstring integer.  Signed 64-bit.
type Int int64

// Float is a tnetstring float.
type Float float64

// Bytes is a tnetstring byte string.  Arbitrary octets.
type Bytes []byte

// List is an ordered sequence of Values.
type List []Value

// Map is an ordered sequence of key/value pairs with unique keys.
// Keys are raw byte strings stored as Go strings; the wire order is the
// order of Keys.
type Map struct {
	Keys   []string
	Values []Value
}

func (Null) tnsValue()  {}
func (Bool) tnsValue()  {}
func (Int) tnsValue()   {}
func (Float) tnsValue() {}
func (Bytes) tnsValue() {}
func (List) tnsValue()  {}
func (*Map) tnsValue()  {}

// MapEntry is a convenience type for building Map values.
type MapEntry struct {
	Key   string
	Value Value
}

// NewMap creates a Map from entries in the given order.  Does NOT check
// for duplicate keys; the encoder does.
func NewMap(entries ...MapEntry) *Map {
	m := &Map{
		Keys:   make([]string, len(entries)),
		Values: make([]Value, len(entries)),
	}
	for i, e := range entries {
		m.Keys[i] = e.Key
		m.Values[i] = e.Value
	}
	return m
}

// EmptyMap returns a Map with zero entries.
func EmptyMap() *Map {
	return &Map{}
}

// Len returns the number of entries.  A nil Map is empty.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	for i, k := range m.Keys {
		if k == key {
			return m.Values[i], true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new entry at the end.
func (m *Map) Set(key string, v Value) {
	for i, k := range m.Keys {
		if k == key {
			m.Values[i] = v
			return
		}
	}
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, v)
}

// Entries returns the map's pairs in wire order.
func (m *Map) Entries() []MapEntry {
	out := make([]MapEntry, m.Len())
	for i := range out {
		out[i] = MapEntry{Key: m.Keys[i], Value: m.Values[i]}
	}
	return out
}

// String returns the Bytes as a Go string.
func (b Bytes) String() string {
	return string(b)
}
