package qs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// InvalidUnmarshalError describes an invalid argument passed to [Unmarshal].
// (The argument to [Unmarshal] must be a non-nil pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "qs: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Pointer {
		return "qs: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "qs: Unmarshal(nil " + e.Type.String() + ")"
}

// Unmarshaler is the interface implemented by types that can unmarshal a
// single query string value into themselves.
type Unmarshaler interface {
	UnmarshalQS(string) error
}

// DecodeString is a convenience function that parses the query string and
// stores the result in the value pointed to by v.
func DecodeString(data string, v interface{}) error {
	return Unmarshal([]byte(data), v)
}

// Unmarshal parses data with [DefaultOptions] and stores the result in the
// value pointed to by v. If v is nil or not a pointer, Unmarshal returns an
// [InvalidUnmarshalError].
func Unmarshal(data []byte, v interface{}) error {
	return unmarshal(data, v, DefaultOptions)
}

func unmarshal(data []byte, v interface{}, opts Options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	// Make sure to trim spaces so that the query does not produce keys made
	// only of whitespace.
	m, err := ParseWithOptions(strings.TrimSpace(string(data)), opts)
	if err != nil {
		return err
	}

	if target, ok := v.(*Map); ok {
		*target = *m
		return nil
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map && rv.Kind() != reflect.Interface {
		return fmt.Errorf("qs: top-level value must be struct or map")
	}

	// Ensure map keys are strings.
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("qs: map keys must be strings")
	}

	if err := assign(rv, m); err != nil {
		return fmt.Errorf("qs: %w", err)
	}
	return nil
}

var mapPtrType = reflect.TypeOf((*Map)(nil))

// assign stores val into v, which must be settable.
func assign(v reflect.Value, val Value) error {
	if val == nil {
		return nil
	}
	if m, ok := val.(*Map); ok && v.Type() == mapPtrType {
		v.Set(reflect.ValueOf(m))
		return nil
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return assign(v.Elem(), val)
	}

	if v.Type() == valueType {
		v.Set(reflect.ValueOf(val))
		return nil
	}

	// Dispatch based on the kind of the value.
	switch val := val.(type) {
	case Scalar:
		return assignScalar(v, string(val))
	case List:
		return assignList(v, val)
	case *Map:
		return assignMap(v, val)
	default:
		return nil
	}
}

// assign a leaf value to v. If v implements [Unmarshaler], use that.
func assignScalar(v reflect.Value, val string) error {
	if u, ok := asUnmarshaler(v); ok {
		return u.UnmarshalQS(val)
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("cannot assign string to %v", v.Type())
		}
		v.Set(reflect.ValueOf(val))
		return nil
	case reflect.Slice:
		// A single value for a slice field, as in "tags=go".
		return assignList(v, List{Scalar(val)})
	}
	return setScalar(v, val)
}

// assign the elements of l to a slice, array or empty interface.
func assignList(v reflect.Value, l List) error {
	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("cannot assign list to %v", v.Type())
		}
		v.Set(reflect.ValueOf(l.Interface()))
		return nil
	case reflect.Slice:
		slice := reflect.MakeSlice(v.Type(), len(l), len(l))
		for i, elem := range l {
			if err := assign(slice.Index(i), elem); err != nil {
				return err
			}
		}
		v.Set(slice)
		return nil
	case reflect.Array:
		if len(l) > v.Len() {
			return fmt.Errorf("%d values do not fit in %v", len(l), v.Type())
		}
		for i, elem := range l {
			if err := assign(v.Index(i), elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cannot assign list to %v", v.Kind())
	}
}

// assign the entries of m to a struct, map, slice or empty interface. A
// slice receives the entries in order, which suits maps produced from a
// list that was later given named keys.
func assignMap(v reflect.Value, m *Map) error {
	switch v.Kind() {
	case reflect.Struct:
		return assignStruct(v, m)
	case reflect.Map:
		return assignMapEntries(v, m)
	case reflect.Slice, reflect.Array:
		l := make(List, 0, m.Len())
		m.Range(func(_ Key, val Value) bool {
			l = append(l, val)
			return true
		})
		return assignList(v, l)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("cannot assign map to %v", v.Type())
		}
		v.Set(reflect.ValueOf(m.Interface()))
		return nil
	default:
		return fmt.Errorf("cannot assign map to %v", v.Kind())
	}
}

func assignStruct(v reflect.Value, m *Map) error {
	var err error
	m.Range(func(k Key, val Value) bool {
		f, ok := findField(v.Type(), k.String())
		if !ok {
			err = fmt.Errorf("unknown field %q in struct %v", k.String(), v.Type())
			return false
		}
		err = assign(v.Field(f.Index), val)
		return err == nil
	})
	return err
}

func assignMapEntries(v reflect.Value, m *Map) error {
	if v.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("map keys must be strings")
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(v.Type()))
	}

	var err error
	m.Range(func(k Key, val Value) bool {
		key := reflect.New(v.Type().Key()).Elem()
		key.SetString(k.String())

		// Start from the existing element so repeated decodes accumulate.
		elem := reflect.New(v.Type().Elem()).Elem()
		if existing := v.MapIndex(key); existing.IsValid() {
			elem.Set(existing)
		}
		if err = assign(elem, val); err != nil {
			return false
		}
		v.SetMapIndex(key, elem)
		return true
	})
	return err
}

func asUnmarshaler(v reflect.Value) (Unmarshaler, bool) {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(Unmarshaler); ok {
			return u, true
		}
	}
	if v.CanInterface() {
		if u, ok := v.Interface().(Unmarshaler); ok {
			return u, true
		}
	}
	return nil, false
}

// setScalar parses val according to the kind of v. An empty string stores
// the zero value.
func setScalar(v reflect.Value, val string) error {
	if val == "" && v.Kind() != reflect.String {
		if !isScalarKind(v.Kind()) {
			return fmt.Errorf("unsupported type: %v", v.Type())
		}
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	var err error
	switch v.Kind() {
	case reflect.String:
		v.SetString(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		if i, err = strconv.ParseInt(val, 10, v.Type().Bits()); err == nil {
			v.SetInt(i)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var u uint64
		if u, err = strconv.ParseUint(val, 10, v.Type().Bits()); err == nil {
			v.SetUint(u)
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(val, v.Type().Bits()); err == nil {
			v.SetFloat(f)
		}
	case reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(val); err == nil {
			v.SetBool(b)
		}
	default:
		return fmt.Errorf("unsupported type: %v", v.Type())
	}
	if err != nil {
		return fmt.Errorf("cannot store %q in %v: %w", val, v.Type(), err)
	}
	return nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
