package qs

import (
	"sort"
	"strconv"
)

// Value is a node of a parsed query string. Its concrete type is one of
// [Scalar], [List] or [*Map].
type Value interface {
	// Equal reports whether the value and v hold the same data. Maps compare
	// as mappings, so entry order does not matter.
	Equal(v Value) bool

	// Interface returns the value as native Go data: string, []interface{} or
	// map[string]interface{}.
	Interface() interface{}

	clone() Value
}

// Scalar is a decoded field value.
type Scalar string

// List is an ordered sequence of values produced by "[]" segments.
type List []Value

// Key is a map key. It is either a name, taken from a "[name]" segment, or
// an integer index, introduced when a [List] is reinterpreted as a [Map].
type Key struct {
	name    string
	index   int
	indexed bool
}

// Name returns the key for a named entry.
func Name(name string) Key {
	return Key{name: name}
}

// Index returns the key for the entry at position i.
func Index(i int) Key {
	return Key{index: i, indexed: true}
}

// IsIndex reports whether k is an integer key.
func (k Key) IsIndex() bool {
	return k.indexed
}

// Int returns the index of an integer key, or 0 for a named key.
func (k Key) Int() int {
	return k.index
}

// String renders the key the way it appears inside brackets.
func (k Key) String() string {
	if k.indexed {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// Entry is a single key/value pair of a [Map].
type Entry struct {
	Key   Key
	Value Value
}

// Map is an insertion-ordered mapping from [Key] to [Value]. The zero value
// is an empty map ready to use.
type Map struct {
	entries []Entry
	pos     map[Key]int
}

// NewMap returns a map holding entries in the given order. A repeated key
// overwrites the earlier value in place.
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value stored under k.
func (m *Map) Get(k Key) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.pos[k]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Lookup is shorthand for Get(Name(name)).
func (m *Map) Lookup(name string) (Value, bool) {
	return m.Get(Name(name))
}

// Set stores v under k. An existing key keeps its position.
func (m *Map) Set(k Key, v Value) {
	if m.pos == nil {
		m.pos = make(map[Key]int)
	}
	if i, ok := m.pos[k]; ok {
		m.entries[i].Value = v
		return
	}
	m.pos[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: k, Value: v})
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Key {
	keys := make([]Key, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(k Key, v Value) bool) {
	if m == nil {
		return
	}
	for _, e := range m.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// indices returns the integer keys of m in ascending order.
func (m *Map) indices() []int {
	var out []int
	for _, e := range m.entries {
		if e.Key.indexed {
			out = append(out, e.Key.index)
		}
	}
	sort.Ints(out)
	return out
}

// nextIndex returns the integer key that follows the largest one in m.
func (m *Map) nextIndex() int {
	next := 0
	for _, e := range m.entries {
		if e.Key.indexed && e.Key.index >= next {
			next = e.Key.index + 1
		}
	}
	return next
}

// toIndexedMap reinterprets l as a map keyed 0..n-1, keeping the order.
func toIndexedMap(l List) *Map {
	m := &Map{
		entries: make([]Entry, 0, len(l)),
		pos:     make(map[Key]int, len(l)),
	}
	for i, v := range l {
		m.Set(Index(i), v)
	}
	return m
}

func (s Scalar) Equal(v Value) bool {
	o, ok := v.(Scalar)
	return ok && s == o
}

func (s Scalar) Interface() interface{} {
	return string(s)
}

func (s Scalar) clone() Value {
	return s
}

func (l List) Equal(v Value) bool {
	o, ok := v.(List)
	if !ok || len(l) != len(o) {
		return false
	}
	for i := range l {
		if !equal(l[i], o[i]) {
			return false
		}
	}
	return true
}

func (l List) Interface() interface{} {
	out := make([]interface{}, len(l))
	for i, v := range l {
		if v != nil {
			out[i] = v.Interface()
		}
	}
	return out
}

func (l List) clone() Value {
	out := make(List, len(l))
	for i, v := range l {
		if v != nil {
			out[i] = v.clone()
		}
	}
	return out
}

func (m *Map) Equal(v Value) bool {
	o, ok := v.(*Map)
	if !ok || m.Len() != o.Len() {
		return false
	}
	for _, e := range m.Entries() {
		ov, ok := o.Get(e.Key)
		if !ok || !equal(e.Value, ov) {
			return false
		}
	}
	return true
}

func (m *Map) Interface() interface{} {
	out := make(map[string]interface{}, m.Len())
	m.Range(func(k Key, v Value) bool {
		if v != nil {
			out[k.String()] = v.Interface()
		} else {
			out[k.String()] = nil
		}
		return true
	})
	return out
}

func (m *Map) clone() Value {
	out := &Map{
		entries: make([]Entry, 0, m.Len()),
		pos:     make(map[Key]int, m.Len()),
	}
	m.Range(func(k Key, v Value) bool {
		if v != nil {
			v = v.clone()
		}
		out.Set(k, v)
		return true
	})
	return out
}

func equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
