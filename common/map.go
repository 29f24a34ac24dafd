package common

// Map is an ordinary named map, kept so resolve.substMap can build its
// {TypeVar -> Type} substitution (spec §4.2 "Replace") through a named
// type rather than a bare map literal, the way the teacher's
// MemberSet = common.Map[...] alias does in checker_members.go.
type Map[K comparable, V any] map[K]V

func NewMap[K comparable, V any]() Map[K, V] {
	return make(Map[K, V])
}

func (m Map[K, V]) Set(k K, v V) {
	m[k] = v
}
