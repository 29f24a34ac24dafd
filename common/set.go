package common

import hashset "github.com/hashicorp/go-set/v3"

// Set is the checker's hash-set of choice: the recursion guard in
// check.Session and the "fields already matched" bookkeeping in
// record-pattern checking both need a plain comparable-element set. The
// teacher hand-rolls this as map[T]struct{}; this repo uses the pack's
// own generic set library instead.
type Set[T comparable] = hashset.Set[T]

func NewSet[T comparable](items ...T) *Set[T] {
	return hashset.From(items)
}
