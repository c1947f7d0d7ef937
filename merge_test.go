package qs_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomasbasham/qs"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		source      qs.Value
		destination qs.Value
		want        qs.Value
		wantKeys    []qs.Key
	}{
		"nested maps": {
			source:      mapOf("a", "1", "b", mapOf("c", "2")),
			destination: mapOf("a", "3", "b", mapOf("d", "4")),
			want:        mapOf("a", "1", "b", mapOf("c", "2", "d", "4")),
		},
		"indexed map absorbs a list": {
			source:      mapOf(0, "nest", "key6", "deep"),
			destination: listOf("along"),
			want:        mapOf(0, "nest", "key6", "deep", 1, "along"),
			wantKeys:    []qs.Key{qs.Index(0), qs.Name("key6"), qs.Index(1)},
		},
		"named map converts a list": {
			source:      mapOf("key5", listOf("nest")),
			destination: listOf("ho", "hey", "choco"),
			want:        mapOf(0, "ho", 1, "hey", 2, "choco", "key5", listOf("nest")),
			wantKeys:    []qs.Key{qs.Index(0), qs.Index(1), qs.Index(2), qs.Name("key5")},
		},
		"purely indexed map concatenates": {
			source:      mapOf(1, "b", 0, "a"),
			destination: listOf("c"),
			want:        listOf("a", "b", "c"),
		},
		"empty map onto list": {
			source:      mapOf(),
			destination: listOf("a"),
			want:        listOf("a"),
		},
		"lists concatenate source first": {
			source:      listOf("1", "2"),
			destination: listOf("3"),
			want:        listOf("1", "2", "3"),
		},
		"lists under the same key accumulate": {
			source:      mapOf("a", listOf("2")),
			destination: mapOf("a", listOf("1")),
			want:        mapOf("a", listOf("1", "2")),
		},
		"overwrite keeps first position": {
			source:      mapOf("b", "new"),
			destination: mapOf("a", "1", "b", "old", "c", "3"),
			want:        mapOf("a", "1", "b", "new", "c", "3"),
			wantKeys:    []qs.Key{qs.Name("a"), qs.Name("b"), qs.Name("c")},
		},
		"map onto absent key": {
			source:      mapOf("x", mapOf("y", "1")),
			destination: mapOf(),
			want:        mapOf("x", mapOf("y", "1")),
		},
		"map replaces scalar": {
			source:      mapOf("b", "2"),
			destination: qs.Scalar("1"),
			want:        mapOf("b", "2"),
		},
		"scalar joins list": {
			source:      qs.Scalar("0"),
			destination: listOf("1"),
			want:        listOf("0", "1"),
		},
		"list absorbs scalar": {
			source:      listOf("1"),
			destination: qs.Scalar("2"),
			want:        listOf("1", "2"),
		},
		"list appended to map": {
			source:      listOf("x"),
			destination: mapOf(0, "a", "k", "b"),
			want:        mapOf(0, "a", "k", "b", 1, "x"),
		},
		"scalar wins over scalar": {
			source:      qs.Scalar("1"),
			destination: qs.Scalar("2"),
			want:        qs.Scalar("1"),
		},
		"scalar wins over map": {
			source:      qs.Scalar("1"),
			destination: mapOf("a", "2"),
			want:        qs.Scalar("1"),
		},
		"nil source": {
			destination: listOf("1"),
			want:        listOf("1"),
		},
		"nil destination": {
			source: mapOf("a", "1"),
			want:   mapOf("a", "1"),
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := qs.Merge(tt.source, tt.destination)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			if tt.wantKeys != nil {
				gotMap, ok := got.(*qs.Map)
				if !ok {
					t.Fatalf("expected *qs.Map, got %T", got)
				}
				if diff := cmp.Diff(tt.wantKeys, gotMap.Keys(), KeyComparer); diff != "" {
					t.Errorf("keys (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestMerge_DoesNotModifyArguments(t *testing.T) {
	t.Parallel()

	source := mapOf("a", listOf("2"), "b", mapOf("c", "3"))
	destination := mapOf("a", listOf("1"), "b", listOf("x"))

	_ = qs.Merge(source, destination)

	if diff := cmp.Diff(mapOf("a", listOf("2"), "b", mapOf("c", "3")), source); diff != "" {
		t.Errorf("source changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(mapOf("a", listOf("1"), "b", listOf("x")), destination); diff != "" {
		t.Errorf("destination changed (-want +got):\n%s", diff)
	}
}

func TestMerge_DisjointScalarMapsUnion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b *qs.Map
		want *qs.Map
	}{
		"single keys": {
			a:    mapOf("a", "1"),
			b:    mapOf("b", "2"),
			want: mapOf("a", "1", "b", "2"),
		},
		"several keys": {
			a:    mapOf("a", "1", "c", "3"),
			b:    mapOf("b", "2", "d", "4", "e", "5"),
			want: mapOf("a", "1", "b", "2", "c", "3", "d", "4", "e", "5"),
		},
		"one side empty": {
			a:    mapOf(),
			b:    mapOf("z", "26"),
			want: mapOf("z", "26"),
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, qs.Merge(tt.a, tt.b)); diff != "" {
				t.Errorf("Merge(a, b) (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, qs.Merge(tt.b, tt.a)); diff != "" {
				t.Errorf("Merge(b, a) (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_ListsConcatenate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		l1, l2 qs.List
	}{
		"both empty":   {l1: listOf(), l2: listOf()},
		"left empty":   {l1: listOf(), l2: listOf("a")},
		"right empty":  {l1: listOf("a"), l2: listOf()},
		"nested items": {l1: listOf(mapOf("a", "1")), l2: listOf(listOf("b"), "c")},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := qs.Merge(tt.l1, tt.l2).(qs.List)
			if !ok {
				t.Fatalf("expected qs.List, got %T", got)
			}
			if len(got) != len(tt.l1)+len(tt.l2) {
				t.Errorf("expected %d items, got %d", len(tt.l1)+len(tt.l2), len(got))
			}
			want := append(append(qs.List{}, tt.l1...), tt.l2...)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}
