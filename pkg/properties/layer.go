package properties

import (
	"encoding/json"
	"sort"
)

// Layer is one source of request properties. Keys are unique; insertion
// order carries no meaning.
type Layer map[string]Value

func New() Layer {
	return Layer{}
}

// FromStrings builds a layer of string values.
func FromStrings(m map[string]string) Layer {
	l := make(Layer, len(m))
	for k, v := range m {
		l[k] = String(v)
	}
	return l
}

func (l Layer) Set(key, value string) Layer {
	l[key] = String(value)
	return l
}

func (l Layer) SetValue(key string, value Value) Layer {
	l[key] = value
	return l
}

func (l Layer) Get(key string) (Value, bool) {
	v, ok := l[key]
	return v, ok
}

// GetString returns the flattened value for key, or "" when absent.
func (l Layer) GetString(key string) string {
	v, ok := l[key]
	if !ok {
		return ""
	}
	return v.String()
}

func (l Layer) Has(key string) bool {
	_, ok := l[key]
	return ok
}

// Keys returns the keys in sorted order.
func (l Layer) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy. A nil layer clones to an empty one.
func (l Layer) Clone() Layer {
	out := make(Layer, len(l))
	for k, v := range l {
		out[k] = v.clone()
	}
	return out
}

// Strings flattens every value with Value.String.
func (l Layer) Strings() map[string]string {
	out := make(map[string]string, len(l))
	for k, v := range l {
		out[k] = v.String()
	}
	return out
}

func (l Layer) Equal(o Layer) bool {
	if len(l) != len(o) {
		return false
	}
	for k, v := range l {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// JSON encodes the layer as a JSON object with sorted keys.
func (l Layer) JSON() (string, error) {
	if l == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]Value(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Merge returns a new layer holding base overlaid with overlay. Every key in
// overlay replaces the same key in base as a whole value; nested maps are
// not merged. Neither input is modified.
func Merge(base, overlay Layer) Layer {
	out := base.Clone()
	for k, v := range overlay {
		out[k] = v.clone()
	}
	return out
}

// MergeAll folds layers strictly left to right, oldest first.
func MergeAll(layers ...Layer) Layer {
	out := New()
	for _, l := range layers {
		out = Merge(out, l)
	}
	return out
}
