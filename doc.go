// Package qs parses and builds query strings that use PHP-style bracket
// notation.
//
// A key such as "a[b][]" addresses a nested position: the bare name "a", a
// map key "b" and an array append "[]". [Parse] folds every pair of a query
// string into a tree of [Scalar], [List] and [*Map] values, merging repeated
// keys as it goes, and [Build] walks such a tree back into query text. The
// merge rules are available on their own through [Merge].
//
// On top of that tree, [Marshal] and [Unmarshal] map Go structs, maps and
// slices to and from bracket notation using reflection and "qs" struct tags.
package qs
