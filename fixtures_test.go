package qs_test

import (
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tomasbasham/qs"
)

// Comparer for MyDate type.
var MyDateComparer = cmp.Comparer(func(x, y MyDate) bool {
	return time.Time(x).Equal(time.Time(y))
})

// Comparer for map keys, which have unexported fields.
var KeyComparer = cmp.Comparer(func(x, y qs.Key) bool {
	return x == y
})

type Person struct {
	Name     string   `qs:"name"`
	Age      int      `qs:"age,omitempty"`
	Pronouns []string `qs:"pronouns"`
}

type ComplexPerson struct {
	ID        int      `qs:"id"`
	Name      string   `qs:"name"`
	Age       int      `qs:"age,omitempty"`
	Pronouns  []string `qs:"pronouns,omitempty"`
	CreatedAt MyDate   `qs:"created_at"`
	Private   string   `qs:"-"`
	Optional  *string  `qs:"optional,omitempty"`
}

type IgnoredFieldsForm struct {
	Public  string `qs:"public"`
	Private string `qs:"-"`
	Ignored string `qs:",ignore"`
	NoTag   string
	Empty   string `qs:""`
	Omitted string `qs:",omitempty"`
	Complex MyDate `qs:"complex,omitempty"`
}

type User struct {
	Name    string  `qs:"name"`
	Age     int     `qs:"age,omitempty"`
	Address Address `qs:"address"`
}

type Address struct {
	Street string `qs:"street"`
	City   string `qs:"city"`
	State  string `qs:"state"`
	Zip    string `qs:"zip"`
}

type Order struct {
	ID    string            `qs:"id"`
	Items []Item            `qs:"items"`
	Meta  map[string]string `qs:"meta,omitempty"`
	Raw   qs.Value          `qs:"raw,omitempty"`
}

type Item struct {
	SKU      string `qs:"sku"`
	Quantity int    `qs:"qty"`
}

type MyDate time.Time

func (d MyDate) MarshalQS() (string, error) {
	return time.Time(d).Format("2006.01.02"), nil
}

func (d *MyDate) UnmarshalQS(b string) error {
	t, err := time.Parse("2006.01.02", b)
	if err != nil {
		return err
	}
	*d = MyDate(t)
	return nil
}

// mapOf builds a map from alternating keys and values. A key is a string, an
// int (index key) or a qs.Key; a value is a string or a qs.Value.
func mapOf(kv ...interface{}) *qs.Map {
	out := &qs.Map{}
	for i := 0; i+1 < len(kv); i += 2 {
		var k qs.Key
		switch key := kv[i].(type) {
		case string:
			k = qs.Name(key)
		case int:
			k = qs.Index(key)
		case qs.Key:
			k = key
		}
		out.Set(k, valueOf(kv[i+1]))
	}
	return out
}

// listOf builds a list from strings and values.
func listOf(items ...interface{}) qs.List {
	out := make(qs.List, 0, len(items))
	for _, item := range items {
		out = append(out, valueOf(item))
	}
	return out
}

func valueOf(x interface{}) qs.Value {
	if s, ok := x.(string); ok {
		return qs.Scalar(s)
	}
	return x.(qs.Value)
}

func ptr[T any](v T) *T {
	return &v
}
