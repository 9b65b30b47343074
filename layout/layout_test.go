package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2ad/cordl/metadata"
)

// newFacade builds a minimal metadata.Facade with an 8-byte pointer size,
// no type-definition-sizes table (forcing a field walk), and whatever
// TypeDefinitions/Types/Fields the caller supplies.
func newFacade(md *metadata.GlobalMetadata) *metadata.Facade {
	img := &metadata.NativeImage{PointerSize: 8}
	return metadata.NewFacade(md, img, nil)
}

// rootTypeDef is the implicit parent-less root every test type chains to,
// matching spec.md §8 scenario 1's "no parent beyond Object".
func rootTypeDef() metadata.TypeDefinition {
	return metadata.TypeDefinition{ParentIndex: metadata.NoIndex}
}

func TestLayoutPrimitiveField(t *testing.T) {
	// Scenario 1: one int32 field, no parent beyond Object, pointer size 8.
	md := &metadata.GlobalMetadata{
		Types: []metadata.Type{
			{Enum: metadata.TypeI4}, // index 0: the field's type
		},
		Fields: []metadata.FieldDefinition{
			{TypeIndex: 0},
		},
		TypeDefinitions: []metadata.TypeDefinition{
			{
				ParentIndex: metadata.NoIndex,
				FieldStart:  0,
				FieldCount:  1,
			},
		},
	}
	eng := New(newFacade(md))
	var offsets []uint64
	res, err := eng.LayoutFields(0, nil, &offsets)
	require.NoError(t, err)

	assert.EqualValues(t, 24, res.Size)
	assert.EqualValues(t, 20, res.ActualSize)
	assert.EqualValues(t, 8, res.Alignment)
	require.Len(t, offsets, 1)
	assert.EqualValues(t, 16, offsets[0])
}

func TestLayoutExplicitLayoutUnion(t *testing.T) {
	// Scenario 2: value type, two int32 fields both at offset 0.
	md := &metadata.GlobalMetadata{
		Types: []metadata.Type{
			{Enum: metadata.TypeI4},
			{Enum: metadata.TypeI4},
		},
		Fields: []metadata.FieldDefinition{
			{TypeIndex: 0},
			{TypeIndex: 1},
		},
		FieldOffsets: []int32{16, 16}, // object-header-relative; base subtracted for value types
		TypeDefinitions: []metadata.TypeDefinition{
			{
				ParentIndex: metadata.NoIndex,
				FieldStart:  0,
				FieldCount:  2,
				Bitfield:    metadata.BitfieldValueType,
				Flags:       metadata.TypeAttrExplicitLayout,
			},
		},
	}
	eng := New(newFacade(md))
	var offsets []uint64
	_, err := eng.LayoutFields(0, nil, &offsets)
	require.NoError(t, err)
	require.Len(t, offsets, 2)
	assert.EqualValues(t, 0, offsets[0])
	assert.EqualValues(t, 0, offsets[1])
}

func TestLayoutPackedStruct(t *testing.T) {
	// Scenario 3: packing raw = 2 -> packing = 4; two int16 fields then one
	// int32 field; instance size = base + 8, alignment = 4, offsets {0,2,4}.
	md := &metadata.GlobalMetadata{
		Types: []metadata.Type{
			{Enum: metadata.TypeI2},
			{Enum: metadata.TypeI2},
			{Enum: metadata.TypeI4},
		},
		Fields: []metadata.FieldDefinition{
			{TypeIndex: 0},
			{TypeIndex: 1},
			{TypeIndex: 2},
		},
		TypeDefinitions: []metadata.TypeDefinition{
			{
				ParentIndex: metadata.NoIndex,
				FieldStart:  0,
				FieldCount:  3,
				Bitfield:    uint32(2) << metadata.PackingBitOffset,
			},
		},
	}
	eng := New(newFacade(md))
	var offsets []uint64
	res, err := eng.LayoutFields(0, nil, &offsets)
	require.NoError(t, err)

	assert.EqualValues(t, 4, res.Alignment)
	assert.EqualValues(t, 16+8, res.Size)
	require.Len(t, offsets, 3)
	assert.EqualValues(t, []uint64{16, 18, 20}, offsets)
}

func TestAlignTo(t *testing.T) {
	assert.EqualValues(t, 8, alignTo(5, 8))
	assert.EqualValues(t, 16, alignTo(16, 8))
	assert.EqualValues(t, 0, alignTo(0, 8))
}
