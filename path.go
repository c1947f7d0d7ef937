package qs

import (
	"regexp"
)

// keyToken matches, in order of preference, a run of word or space
// characters, an empty bracket pair, or a bracketed word.
var keyToken = regexp.MustCompile(`[\s\pL\pN_]+|\[\]|\[[\pL\pN_]+\]`)

type pathSegment struct {
	Key   string
	Index bool // true for []
}

// parseKey splits a decoded key such as "a[b][]" into its bare name and the
// bracket segments that follow it. Text matching none of the token forms is
// dropped, as are word runs after the bare name. ok is false when the key
// does not start with a bare name.
func parseKey(key string) (name string, path []pathSegment, ok bool) {
	tokens := keyToken.FindAllString(key, -1)
	if len(tokens) == 0 || tokens[0][0] == '[' {
		return "", nil, false
	}

	for _, tok := range tokens[1:] {
		switch {
		case tok == "[]":
			path = append(path, pathSegment{Index: true})
		case tok[0] == '[':
			path = append(path, pathSegment{Key: tok[1 : len(tok)-1]})
		}
	}
	return tokens[0], path, true
}
