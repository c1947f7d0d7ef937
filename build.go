package qs

import (
	"net/url"
	"strings"
)

// Build serializes m into bracket notation, escaping values with
// [url.QueryEscape].
func Build(m *Map) string {
	return BuildWithEscaper(m, url.QueryEscape)
}

// BuildWithEscaper is like [Build] but escapes every value with escape.
// Keys are written as they are.
//
// Entries are emitted depth first in insertion order. Root keys appear bare,
// nested keys in brackets, and each element of a list gets its own "[]"
// pair. Empty maps and lists produce nothing.
func BuildWithEscaper(m *Map, escape func(string) string) string {
	var b strings.Builder
	w := &builder{b: &b, escape: escape}
	m.Range(func(k Key, v Value) bool {
		w.walk([]string{k.String()}, v)
		return true
	})
	return b.String()
}

type builder struct {
	b      *strings.Builder
	escape func(string) string
}

func (w *builder) walk(path []string, v Value) {
	switch v := v.(type) {
	case *Map:
		v.Range(func(k Key, child Value) bool {
			w.walk(append(path, "["+k.String()+"]"), child)
			return true
		})
	case List:
		if !strings.HasSuffix(path[len(path)-1], "[]") {
			path = append(path, "[]")
		}
		for _, elem := range v {
			w.walk(path, elem)
		}
	case Scalar:
		w.emit(path, string(v))
	}
}

func (w *builder) emit(path []string, val string) {
	if w.b.Len() > 0 {
		w.b.WriteByte('&')
	}
	for _, p := range path {
		w.b.WriteString(p)
	}
	w.b.WriteByte('=')
	w.b.WriteString(w.escape(val))
}
