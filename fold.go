package qs

// fold builds the nested value that path describes around val, working from
// the innermost segment outwards. The innermost "[]" wraps the value in a
// one-element list; any further "[]" doubles the value built so far instead
// of nesting another list.
func fold(path []pathSegment, val string) Value {
	var current Value = Scalar(val)
	for i := len(path) - 1; i >= 0; i-- {
		seg := path[i]
		switch {
		case seg.Index && i == len(path)-1:
			current = List{current}
		case seg.Index:
			current = merge(current, current.clone())
		default:
			current = NewMap(Entry{Key: Name(seg.Key), Value: current})
		}
	}
	return current
}
