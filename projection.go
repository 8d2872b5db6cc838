package tnetstring

import (
	"strconv"
	"strings"
)

// Lookup resolves an RFC 6901 JSON Pointer against root.  Map members are
// addressed by key, List elements by decimal index.  The empty pointer
// returns root.  found is false when the path does not exist; err is set
// only for malformed pointers.
func Lookup(root Value, pointer string) (v Value, found bool, err error) {
	tokens, err := parsePointer(pointer)
	if err != nil {
		return nil, false, err
	}
	cur := root
	for _, tok := range tokens {
		switch c := cur.(type) {
		case *Map:
			next, ok := c.Get(tok)
			if !ok {
				return nil, false, nil
			}
			cur = next
		case List:
			idx, ok := listIndex(tok)
			if !ok || idx >= len(c) {
				return nil, false, nil
			}
			cur = c[idx]
		default:
			return nil, false, nil
		}
	}
	return cur, true, nil
}

// listIndex accepts RFC 6901 array indices: "0" or digits without a
// leading zero.
func listIndex(tok string) (int, bool) {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Project copies out of root only the members addressed by pointers,
// keeping the document order of Map keys and List elements.  A List
// reached by a pointer keeps just the selected elements, so indices in
// the result are compacted.
//
// root must be a Map.  Duplicate pointers are rejected.  When no pointer
// resolves the result is an empty Map; when only some resolve the first
// unresolved one is reported with ErrPointerMismatch.  "" selects root,
// and a pointer below another selected pointer adds nothing.
func Project(root Value, pointers []string) (Value, error) {
	rootMap, ok := root.(*Map)
	if !ok {
		return nil, pathErr(ErrProjectionFailed, "", "projection root must be a map")
	}

	sel := &selection{}
	seen := make(map[string]struct{}, len(pointers))
	matched, missing := 0, ""
	for _, ptr := range pointers {
		if _, dup := seen[ptr]; dup {
			return nil, pathErr(ErrProjectionFailed, ptr, "duplicate pointer")
		}
		seen[ptr] = struct{}{}

		tokens, err := parsePointer(ptr)
		if err != nil {
			return nil, err
		}
		if _, found, _ := Lookup(rootMap, ptr); !found {
			if missing == "" {
				missing = ptr
			}
			continue
		}
		matched++
		sel.add(tokens)
	}

	switch {
	case matched == 0:
		return EmptyMap(), nil
	case missing != "":
		return nil, pathErr(ErrPointerMismatch, missing, "pointer does not resolve")
	}
	return sel.apply(rootMap), nil
}

// selection is a trie of pointer tokens.  A node with whole set keeps its
// entire subtree and drops any children.
type selection struct {
	whole    bool
	children map[string]*selection
}

func (s *selection) add(tokens []string) {
	node := s
	for _, tok := range tokens {
		if node.whole {
			return
		}
		if node.children == nil {
			node.children = make(map[string]*selection)
		}
		child, ok := node.children[tok]
		if !ok {
			child = &selection{}
			node.children[tok] = child
		}
		node = child
	}
	node.whole = true
	node.children = nil
}

// apply walks v along the selection.  Every path in s resolved against
// v when it was added, so apply never meets a missing member.
func (s *selection) apply(v Value) Value {
	if s.whole {
		return v
	}
	switch c := v.(type) {
	case *Map:
		out := &Map{}
		for i, k := range c.Keys {
			if child, ok := s.children[k]; ok {
				out.Keys = append(out.Keys, k)
				out.Values = append(out.Values, child.apply(c.Values[i]))
			}
		}
		return out
	case List:
		out := List{}
		for i, item := range c {
			if child, ok := s.children[strconv.Itoa(i)]; ok {
				out = append(out, child.apply(item))
			}
		}
		return out
	}
	return v
}

// parsePointer splits an RFC 6901 pointer into reference tokens.
// "" → no tokens (whole document).
func parsePointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, pathErr(ErrInvalidPointer, ptr, "pointer must start with '/'")
	}
	parts := strings.Split(ptr[1:], "/")
	tokens := make([]string, len(parts))
	for i, raw := range parts {
		// ~0 → "~", ~1 → "/", decoded left to right so "~01" is "~1".
		var b strings.Builder
		for j := 0; j < len(raw); {
			if raw[j] != '~' {
				b.WriteByte(raw[j])
				j++
				continue
			}
			if j+1 >= len(raw) {
				return nil, pathErr(ErrInvalidPointer, ptr, "dangling '~'")
			}
			switch raw[j+1] {
			case '0':
				b.WriteByte('~')
			case '1':
				b.WriteByte('/')
			default:
				return nil, pathErr(ErrInvalidPointer, ptr, "bad '~' escape")
			}
			j += 2
		}
		tokens[i] = b.String()
	}
	return tokens, nil
}
