package qs

import (
	"reflect"
	"strings"
	"sync"
)

// fieldCache maps a struct [reflect.Type] to its encodable []field, so tags
// are parsed once per type. It is safe for concurrent use.
var fieldCache sync.Map

// field is an exported struct field together with its parsed `qs` tag.
type field struct {
	Index int
	Name  string
	Omit  bool
}

// fields returns the fields of struct type t that take part in encoding,
// in declaration order. Unexported fields and fields tagged `qs:"-"` or
// `qs:",ignore"` are left out.
func fields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omit, ignore := parseTag(f.Tag.Get("qs"))
		if ignore {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out = append(out, field{Index: i, Name: name, Omit: omit})
	}

	fieldCache.Store(t, out)
	return out
}

// findField returns the field of struct type t encoded under name.
func findField(t reflect.Type, name string) (field, bool) {
	for _, f := range fields(t) {
		if f.Name == name {
			return f, true
		}
	}
	return field{}, false
}

// parseTag reads a tag of the form "name,opt,opt". A lone "-" ignores the
// field; the options are "omitempty" and "ignore".
func parseTag(str string) (name string, omit, ignore bool) {
	str = strings.TrimSpace(str)
	if str == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(str, ",")
	name = strings.TrimSpace(name)
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		switch strings.TrimSpace(opt) {
		case "omitempty":
			omit = true
		case "ignore":
			ignore = true
		}
	}
	return name, omit, ignore
}
