package writer

import "sort"

// SortLevel is the fixed emission order spec.md §6 requires among a
// CppType's declarations: using-alias first, then the unwrapped-enum
// underlying type, fields, properties, methods, constructors, and finally
// out-of-line field implementations — a direct port of the original's
// SortLevel enum (writer.rs), where Go's iota already sorts in declaration
// order without the original's derived Ord.
type SortLevel uint8

const (
	SortUsingAlias SortLevel = iota
	SortUnwrappedEnum
	SortFields
	SortProperties
	SortMethods
	SortConstructors
	SortFieldsImpl
	SortUnknown
)

// Sortable is implemented by every Declaration so SortDeclarations can
// order a type's member list before write.
type Sortable interface {
	SortLevel() SortLevel
}

// Declaration is the tagged union spec.md §3 describes: any emittable
// member of a CppType. Every concrete kind in this package implements both
// Writable and Sortable.
type Declaration interface {
	Writable
	Sortable
}

// SortDeclarations stably sorts decls by SortLevel, preserving each level's
// original relative (metadata) order — a stable sort is required since two
// declarations at the same level must keep their declaration-order
// relationship (e.g. two fields must not be reordered against each other).
func SortDeclarations(decls []Declaration) {
	sort.SliceStable(decls, func(i, j int) bool {
		return decls[i].SortLevel() < decls[j].SortLevel()
	})
}
