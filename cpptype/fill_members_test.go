package cpptype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2ad/cordl/names"
	"github.com/sc2ad/cordl/writer"
)

// TestEmitExplicitLayoutFieldsProducesUnion covers spec.md §8 scenario 2: a
// value type with two int32 fields both assigned offset 0 emits one nested
// union containing two [padding, field] struct pairs per field.
func TestEmitExplicitLayoutFieldsProducesUnion(t *testing.T) {
	c := &Collection{}
	node := &CppType{Name: names.Components{Name: "TwoFieldUnion"}}

	fields := []instanceFieldInfo{
		{name: "a", cppType: "int32_t", offset: 0, size: 4},
		{name: "b", cppType: "int32_t", offset: 0, size: 4},
	}
	c.emitExplicitLayoutFields(node, fields)

	var structs []writer.NestedStruct
	var unions []writer.NestedUnion
	for _, d := range node.Declarations {
		switch v := d.(type) {
		case writer.NestedStruct:
			structs = append(structs, v)
		case writer.NestedUnion:
			unions = append(unions, v)
		}
	}
	require.Len(t, structs, 4, "two nested structs (packed + natural) per field")
	require.Len(t, unions, 1, "every instance field is packed into a single union")
	assert.Len(t, unions[0].Members, 4)

	for _, s := range structs {
		assert.Equal(t, uint64(0), s.PaddingSize)
	}
}

func TestEmitExplicitLayoutFieldsNoFieldsIsNoop(t *testing.T) {
	c := &Collection{}
	node := &CppType{Name: names.Components{Name: "Empty"}}
	c.emitExplicitLayoutFields(node, nil)
	assert.Empty(t, node.Declarations)
}

// TestEmitOrdinaryInstanceFieldsGroupsCollisions covers the non-explicit
// collision-grouping branch: two fields sharing one offset are wrapped in a
// union of single-field structs, while a non-colliding field stays flat.
func TestEmitOrdinaryInstanceFieldsGroupsCollisions(t *testing.T) {
	c := &Collection{}
	node := &CppType{Name: names.Components{Name: "Collider"}}

	fields := []instanceFieldInfo{
		{name: "a", cppType: "int32_t", offset: 0, size: 4},
		{name: "b", cppType: "int32_t", offset: 0, size: 4},
		{name: "c", cppType: "int64_t", offset: 8, size: 8},
	}
	c.emitOrdinaryInstanceFields(node, fields)

	var plainFields []writer.Field
	var unions []writer.NestedUnion
	for _, d := range node.Declarations {
		switch v := d.(type) {
		case writer.Field:
			plainFields = append(plainFields, v)
		case writer.NestedUnion:
			unions = append(unions, v)
		}
	}
	require.Len(t, unions, 1, "the colliding pair groups into one union")
	assert.Len(t, unions[0].Members, 2)
	require.Len(t, plainFields, 1, "the non-colliding field stays a flat Field")
	assert.Equal(t, "c", plainFields[0].Name)

	require.Len(t, node.Implementations, 3, "every field still gets a static_assert")
	for _, impl := range node.Implementations {
		_, ok := impl.(writer.StaticAssert)
		assert.True(t, ok)
	}
}

func TestEmitOrdinaryInstanceFieldsNoCollisionStaysFlat(t *testing.T) {
	c := &Collection{}
	node := &CppType{Name: names.Components{Name: "Plain"}}

	fields := []instanceFieldInfo{
		{name: "a", cppType: "int32_t", offset: 0, size: 4},
		{name: "b", cppType: "int32_t", offset: 4, size: 4},
	}
	c.emitOrdinaryInstanceFields(node, fields)

	for _, d := range node.Declarations {
		_, isUnion := d.(writer.NestedUnion)
		assert.False(t, isUnion, "no collision should never produce a union")
	}
	require.Len(t, node.Declarations, 2)
	require.Len(t, node.Implementations, 2)
}
