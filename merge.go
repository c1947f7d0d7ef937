package qs

// Merge combines source into destination and returns the result. Neither
// argument is modified.
//
// Lists concatenate, source first. Maps merge key by key with source values
// taking precedence, except that nested maps merge recursively and lists
// under the same key accumulate. A map merged with a list treats the list as
// a map keyed by position: named entries join the positional ones, and a
// map made only of positional entries yields a list again. Scalars meeting a
// list become one-element lists; any other conflict is won by source.
func Merge(source, destination Value) Value {
	if source == nil {
		if destination == nil {
			return nil
		}
		return destination.clone()
	}
	if destination == nil {
		return source.clone()
	}
	return merge(source.clone(), destination.clone())
}

// merge takes ownership of both arguments and may reuse either of them in
// the result.
func merge(src, dst Value) Value {
	switch s := src.(type) {
	case List:
		switch d := dst.(type) {
		case List:
			return concat(s, d)
		case *Map:
			return appendIndexed(d, s)
		case Scalar:
			return concat(s, List{d})
		}
	case *Map:
		switch d := dst.(type) {
		case List:
			return mergeMapIntoList(s, d)
		case *Map:
			return mergeMaps(s, d)
		}
	case Scalar:
		if d, ok := dst.(List); ok {
			return concat(List{s}, d)
		}
	}
	return src
}

func concat(a, b List) List {
	out := make(List, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// mergeMaps applies the entries of src to dst in src order.
func mergeMaps(src, dst *Map) *Map {
	src.Range(func(k Key, v Value) bool {
		existing, exists := dst.Get(k)
		switch val := v.(type) {
		case *Map:
			if !exists {
				existing = &Map{}
			}
			v = merge(val, existing)
		case List:
			if exists {
				v = accumulate(existing, val)
			}
		}
		dst.Set(k, v)
		return true
	})
	return dst
}

// mergeMapIntoList reconciles a map with a list addressing the same path.
func mergeMapIntoList(src *Map, dst List) Value {
	indices := src.indices()
	switch {
	case len(indices) == src.Len():
		out := make(List, 0, len(indices)+len(dst))
		for _, i := range indices {
			v, _ := src.Get(Index(i))
			out = append(out, v)
		}
		return append(out, dst...)
	case len(indices) > 0:
		return appendIndexed(src, dst)
	default:
		return mergeMaps(src, toIndexedMap(dst))
	}
}

// accumulate adds l to the value already stored at a path. A map carrying
// named keys keeps its entries first and takes the list values at the next
// free indices; anything else merges with existing as the source.
func accumulate(existing Value, l List) Value {
	if m, ok := existing.(*Map); ok && len(m.indices()) < m.Len() {
		return appendIndexed(m, l)
	}
	return merge(existing, l)
}

// appendIndexed adds the values of l to m under the integer keys following
// the largest one already present.
func appendIndexed(m *Map, l List) *Map {
	next := m.nextIndex()
	for _, v := range l {
		m.Set(Index(next), v)
		next++
	}
	return m
}
