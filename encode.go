package qs

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Marshaler is the interface implemented by types that can marshal
// themselves into a single query string value.
type Marshaler interface {
	MarshalQS() (string, error)
}

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

// EncodeToString is a convenience function that returns the query string
// encoding of v as a string.
func EncodeToString(v interface{}) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal returns the bracket notation encoding of v.
//
// Struct fields are written in declaration order and Go map entries in
// sorted key order. Slices and arrays become "[]" lists, nested structs and
// maps become "[key]" paths, and a [Value] is written as it is.
func Marshal(v interface{}) ([]byte, error) {
	m, err := ValueOf(v)
	if err != nil {
		return nil, err
	}
	return []byte(Build(m)), nil
}

// ValueOf converts a Go struct or map into a [*Map] ready for [Build].
func ValueOf(v interface{}) (*Map, error) {
	if v == nil {
		return &Map{}, nil
	}

	// Dereference pointer if needed.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &Map{}, nil
		}
		if m, ok := v.(*Map); ok {
			return m, nil
		}
		rv = rv.Elem()
	}

	// Ensure the top-level value is a struct or map.
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("qs: top-level value must be struct or map")
	}

	out, err := marshalValue(rv)
	if err != nil {
		return nil, err
	}
	m, ok := out.(*Map)
	if !ok {
		return nil, fmt.Errorf("qs: %v does not encode to a map", rv.Type())
	}
	return m, nil
}

// marshalValue returns nil for values that encode to nothing.
func marshalValue(v reflect.Value) (Value, error) {
	// Handle nil pointers and interfaces early to avoid dereferencing them.
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil, nil
	}

	if v.Type().Implements(valueType) {
		return v.Interface().(Value), nil
	}

	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	// Handle custom Marshaler first.
	if m, ok := asMarshaler(v); ok {
		s, err := m.MarshalQS()
		if err != nil {
			return nil, err
		}
		return Scalar(s), nil
	}

	// Dispatch based on the kind of the value.
	switch v.Kind() {
	case reflect.Struct:
		return marshalStruct(v)
	case reflect.Map:
		return marshalMap(v)
	case reflect.Slice, reflect.Array:
		return marshalSlice(v)
	case reflect.Interface:
		return marshalValue(v.Elem())
	default:
		s, err := getScalar(v)
		if err != nil {
			return nil, err
		}
		return Scalar(s), nil
	}
}

func marshalStruct(v reflect.Value) (Value, error) {
	out := &Map{}
	for _, f := range fields(v.Type()) {
		fv := v.Field(f.Index)
		if f.Omit && isEmptyValue(fv) {
			continue
		}
		elem, err := marshalValue(fv)
		if err != nil {
			return nil, err
		}
		if elem != nil {
			out.Set(Name(f.Name), elem)
		}
	}
	return out, nil
}

func marshalMap(v reflect.Value) (Value, error) {
	keys, err := sortedKeys(v)
	if err != nil {
		return nil, err
	}

	out := &Map{}
	for _, k := range keys {
		mv := v.MapIndex(k.value)
		if !mv.IsValid() || (mv.Kind() == reflect.Interface && mv.IsNil()) {
			continue
		}
		elem, err := marshalValue(mv)
		if err != nil {
			return nil, err
		}
		if elem != nil {
			out.Set(k.key, elem)
		}
	}
	return out, nil
}

type mapKey struct {
	key   Key
	value reflect.Value
}

// sortedKeys orders string keys lexically and integer keys numerically.
func sortedKeys(v reflect.Value) ([]mapKey, error) {
	keys := make([]mapKey, 0, v.Len())
	for _, k := range v.MapKeys() {
		switch k.Kind() {
		case reflect.String:
			keys = append(keys, mapKey{key: Name(k.String()), value: k})
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			keys = append(keys, mapKey{key: Index(int(k.Int())), value: k})
		default:
			return nil, fmt.Errorf("qs: map keys must be strings or integers, got %v", k.Type())
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i].key, keys[j].key
		if a.IsIndex() != b.IsIndex() {
			return a.IsIndex()
		}
		if a.IsIndex() {
			return a.Int() < b.Int()
		}
		return a.String() < b.String()
	})
	return keys, nil
}

func marshalSlice(v reflect.Value) (Value, error) {
	out := make(List, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if !elem.IsValid() || (elem.Kind() == reflect.Interface && elem.IsNil()) {
			continue
		}
		ev, err := marshalValue(elem)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func asMarshaler(v reflect.Value) (Marshaler, bool) {
	if v.CanAddr() {
		if m, ok := v.Addr().Interface().(Marshaler); ok {
			return m, true
		}
	}
	if v.CanInterface() {
		if m, ok := v.Interface().(Marshaler); ok {
			return m, true
		}
	}
	return nil, false
}

func getScalar(v reflect.Value) (string, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	default:
		return "", fmt.Errorf("qs: unsupported type: %v", v.Type())
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
