package qs_test

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tomasbasham/qs"
)

type Animal int

const (
	Unknown Animal = iota
	Gopher
	Zebra
)

func (a Animal) MarshalQS() (string, error) {
	switch a {
	case Gopher:
		return "gopher", nil
	case Zebra:
		return "zebra", nil
	default:
		return "unknown", nil
	}
}

func (a *Animal) UnmarshalQS(value string) error {
	switch value {
	case "gopher":
		*a = Gopher
	case "zebra":
		*a = Zebra
	default:
		*a = Unknown
	}
	return nil
}

func ExampleParse() {
	m, err := qs.Parse("user[name]=jane&user[roles][]=admin&user[roles][]=dev&page=2")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	out, _ := json.Marshal(m)
	fmt.Println(string(out))
	// Output:
	// {"user":{"name":"jane","roles":["admin","dev"]},"page":"2"}
}

func ExampleParsePairs() {
	m := qs.ParsePairs([]qs.Pair{
		{Name: "a[]", Value: "x"},
		{Name: "a[]", Value: "y"},
		{Name: "a[k]", Value: "z"},
	})

	out, _ := json.Marshal(m)
	fmt.Println(string(out))
	// Output:
	// {"a":{"0":"x","1":"y","k":"z"}}
}

func ExampleBuild() {
	m := qs.NewMap(
		qs.Entry{Key: qs.Name("a"), Value: qs.Scalar("1")},
		qs.Entry{Key: qs.Name("b"), Value: qs.List{qs.Scalar("2"), qs.Scalar("3")}},
		qs.Entry{Key: qs.Name("c"), Value: qs.NewMap(
			qs.Entry{Key: qs.Name("d"), Value: qs.Scalar("x y")},
		)},
	)

	fmt.Println(qs.Build(m))
	// Output:
	// a=1&b[]=2&b[]=3&c[d]=x+y
}

func ExampleMerge() {
	defaults, _ := qs.Parse("page=1&filter[status]=open&tags[]=go")
	request, _ := qs.Parse("page=3&filter[owner]=me&tags[]=qs")

	merged := qs.Merge(request, defaults).(*qs.Map)
	fmt.Println(qs.Build(merged))
	// Output:
	// page=3&filter[status]=open&filter[owner]=me&tags[]=go&tags[]=qs
}

func Example_customMarshal() {
	type PetOwner struct {
		OwnerName string `qs:"owner_name"`
		PetType   Animal `qs:"pet_type"`
	}

	owner := PetOwner{
		OwnerName: "Alice",
		PetType:   Gopher,
	}

	data, err := qs.Marshal(owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println(string(data))
	// Output:
	// owner_name=Alice&pet_type=gopher
}

func ExampleMarshal() {
	user := User{
		Name: "Jane Doe",
		Age:  28,
		Address: Address{
			Street: "456 Oak St",
			City:   "Othertown",
			State:  "CA",
			Zip:    "67890",
		},
	}

	data, err := qs.Marshal(user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println(string(data))
	// Output:
	// name=Jane+Doe&age=28&address[street]=456+Oak+St&address[city]=Othertown&address[state]=CA&address[zip]=67890
}

func ExampleUnmarshal() {
	data := []byte("name=John+Doe&age=30&address[street]=123+Main+St&address[city]=Anytown&address[state]=NY&address[zip]=12345")

	var user User
	if err := qs.Unmarshal(data, &user); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("%#v\n", user)
	// Output:
	// qs_test.User{Name:"John Doe", Age:30, Address:qs_test.Address{Street:"123 Main St", City:"Anytown", State:"NY", Zip:"12345"}}
}
