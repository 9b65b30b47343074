// Package cpptype is the type-node/context/context-collection core (spec.md
// §4.E–G): the in-memory translation of managed types into C++ type nodes,
// grouped into emission-unit contexts, owned by one arena that enforces the
// fill lifecycle. Grounded on original_source/src/generate/cpp_type_tag.rs,
// context_collection.rs, and cpp_type.rs, rendered in the teacher's flat
// single-package style (the teacher keeps closely related concerns — PE
// header parsing, import/export tables, resource trees — in one `pe`
// package rather than splitting by file).
package cpptype

import "github.com/sc2ad/cordl/metadata"

// Tag is the total, hashable type identity spec.md §3 requires: either a
// concrete definition index, or the pair (definition index, generic
// instantiation index) naming one closed instantiation. Implemented as a
// plain comparable struct so it can key a Go map directly, the same role
// the original's CppTypeTag enum plays as a HashMap key.
type Tag struct {
	TDI metadata.TypeDefinitionIndex
	// GenericInst is metadata.NoIndex for a plain definition-index tag.
	GenericInst metadata.GenericInstIndex
}

// IsGenericInstantiation reports whether this tag names a closed generic
// instantiation rather than a bare type definition.
func (t Tag) IsGenericInstantiation() bool { return t.GenericInst != metadata.NoIndex }

// DefinitionTag returns the plain definition-index tag for tdi.
func DefinitionTag(tdi metadata.TypeDefinitionIndex) Tag {
	return Tag{TDI: tdi, GenericInst: metadata.NoIndex}
}

// GenericInstantiationTag returns the tag for one closed instantiation of
// tdi with the given generic-instantiation index.
func GenericInstantiationTag(tdi metadata.TypeDefinitionIndex, gi metadata.GenericInstIndex) Tag {
	return Tag{TDI: tdi, GenericInst: gi}
}
