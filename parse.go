package qs

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrMalformedField is matched by every [MalformedFieldError] through
// [errors.Is].
var ErrMalformedField = errors.New("qs: malformed field")

// MalformedFieldError describes a query string pair that could not be
// parsed. It is only returned when [Options.StrictParsing] or
// [Options.StrictDecode] is set.
type MalformedFieldError struct {
	// Field is the raw pair text as it appeared in the query string.
	Field string
	// Err is the percent-decoding error, if that was the cause.
	Err error
}

func (e *MalformedFieldError) Error() string {
	if e.Err != nil {
		return "qs: malformed field " + strconv.Quote(e.Field) + ": " + e.Err.Error()
	}
	return "qs: malformed field " + strconv.Quote(e.Field)
}

func (e *MalformedFieldError) Unwrap() error {
	return e.Err
}

func (e *MalformedFieldError) Is(target error) bool {
	return target == ErrMalformedField
}

// Options configures parsing.
type Options struct {
	// KeepBlankValues keeps pairs with an empty value, and pairs with no "="
	// at all, as empty scalars. When false such pairs are dropped.
	KeepBlankValues bool

	// StrictParsing rejects pairs without an "=" separator with a
	// [MalformedFieldError] instead of tolerating them.
	StrictParsing bool

	// Separators split the query string into pairs. Empty means '&' and ';'.
	Separators []rune

	// StrictDecode rejects malformed percent escapes. By default they are
	// kept as literal text.
	StrictDecode bool

	// CollectDuplicates gathers repeated plain keys ("a=1&a=2") into a list.
	// By default the last value wins.
	CollectDuplicates bool
}

// DefaultOptions are used by [Parse] and [ParsePairs].
var DefaultOptions = Options{
	KeepBlankValues: true,
	Separators:      []rune{'&', ';'},
}

// Pair is a name and value that have already been split and decoded.
type Pair struct {
	Name  string
	Value string
}

// Parse parses query using [DefaultOptions].
func Parse(query string) (*Map, error) {
	return ParseWithOptions(query, DefaultOptions)
}

// ParseWithOptions splits query into pairs, decodes them using
// application/x-www-form-urlencoded rules and folds them into a single map
// keyed by the bare field names.
func ParseWithOptions(query string, opts Options) (*Map, error) {
	if len(opts.Separators) == 0 {
		opts.Separators = DefaultOptions.Separators
	}

	acc := newAccumulator(opts)
	for _, raw := range splitBySeparators(query, opts.Separators) {
		if raw == "" {
			if opts.StrictParsing {
				return nil, &MalformedFieldError{Field: raw}
			}
			continue
		}

		name, value, hasEq := strings.Cut(raw, "=")
		if !hasEq && opts.StrictParsing {
			return nil, &MalformedFieldError{Field: raw}
		}

		dn, err := decode(name, opts.StrictDecode)
		if err != nil {
			return nil, &MalformedFieldError{Field: raw, Err: err}
		}
		dv, err := decode(value, opts.StrictDecode)
		if err != nil {
			return nil, &MalformedFieldError{Field: raw, Err: err}
		}
		acc.add(dn, dv)
	}
	return acc.root, nil
}

// ParsePairs folds already decoded pairs using [DefaultOptions].
func ParsePairs(pairs []Pair) *Map {
	return ParsePairsWithOptions(pairs, DefaultOptions)
}

// ParsePairsWithOptions folds already decoded pairs into a single map. Names
// and values are used as given: nothing is split or unescaped, and the
// strict options have no effect.
func ParsePairsWithOptions(pairs []Pair, opts Options) *Map {
	acc := newAccumulator(opts)
	for _, p := range pairs {
		acc.add(p.Name, p.Value)
	}
	return acc.root
}

type accumulator struct {
	root *Map
	opts Options
}

func newAccumulator(opts Options) *accumulator {
	return &accumulator{root: &Map{}, opts: opts}
}

func (a *accumulator) add(rawName, value string) {
	if value == "" && !a.opts.KeepBlankValues {
		return
	}

	name, path, ok := parseKey(rawName)
	if !ok {
		return
	}

	key := Name(name)
	contribution := fold(path, value)
	stored, seen := a.root.Get(key)
	if !seen {
		a.root.Set(key, contribution)
		return
	}

	switch c := contribution.(type) {
	case *Map:
		a.root.Set(key, merge(c, stored))
	case List:
		a.root.Set(key, accumulate(stored, c))
	case Scalar:
		if !a.opts.CollectDuplicates {
			a.root.Set(key, c)
			return
		}
		l, ok := stored.(List)
		if !ok {
			l = List{stored}
		}
		a.root.Set(key, append(l, c))
	}
}

// splitBySeparators splits s by any rune in seps. Empty segments are
// preserved; the caller decides what to do with them.
func splitBySeparators(s string, seps []rune) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i, r := range s {
		if strings.ContainsRune(string(seps), r) {
			out = append(out, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(out, s[start:])
}

// decode applies application/x-www-form-urlencoded rules. Unless strict is
// set, invalid percent sequences are kept as literal text.
func decode(s string, strict bool) (string, error) {
	d, err := url.QueryUnescape(s)
	if err == nil {
		return d, nil
	}
	if strict {
		return "", err
	}
	return lenientDecode(s), nil
}

// lenientDecode decodes '+' to a space and valid %XX escapes to their byte,
// leaving any other '%' untouched.
func lenientDecode(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			out = append(out, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
