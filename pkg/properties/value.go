// Package properties holds CoreNLP property layers: string-keyed values that
// are merged last-writer-wins to build the properties sent with each request.
package properties

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a property value: a string, a list of strings, or a nested map.
// The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	list []string
	m    map[string]Value
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v.clone()
	}
	return Value{kind: KindMap, m: cp}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the raw string of a KindString value and "" otherwise.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Items returns a copy of the list held by a KindList value.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// Entries returns a copy of the map held by a KindMap value.
func (v Value) Entries() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	return Map(v.m).m
}

// String flattens the value the way a property file stores it: lists are
// comma-joined and maps are written as compact JSON.
func (v Value) String() string {
	switch v.kind {
	case KindList:
		return strings.Join(v.list, ",")
	case KindMap:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return v.str
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, a := range v.m {
			b, ok := o.m[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return v.str == o.str
	}
}

func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		return List(v.list...)
	case KindMap:
		return Map(v.m)
	default:
		return v
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := v.m[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts strings, arrays of scalars and objects. Numbers and
// booleans are kept in their literal form as strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return String(""), nil
	case string:
		return String(t), nil
	case bool, float64:
		return String(fmt.Sprint(t)), nil
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			sv, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			if sv.kind != KindString {
				return Value{}, fmt.Errorf("nested %s inside a property list", sv.kind)
			}
			items = append(items, sv.str)
		}
		return List(items...), nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			sv, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[k] = sv
		}
		return Value{kind: KindMap, m: m}, nil
	default:
		return Value{}, fmt.Errorf("unsupported property value %T", raw)
	}
}
