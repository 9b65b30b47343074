package metadata

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heap(names ...string) ([]byte, []uint32) {
	var buf []byte
	offsets := make([]uint32, len(names))
	for i, n := range names {
		offsets[i] = uint32(len(buf))
		buf = append(buf, []byte(n)...)
		buf = append(buf, 0)
	}
	return buf, offsets
}

func TestFieldDefaultDecodesPlainPrimitive(t *testing.T) {
	blob := make([]byte, 4)
	binary.LittleEndian.PutUint32(blob, 42)

	md := &GlobalMetadata{
		Types:            []Type{{Enum: TypeI4}},
		DefaultValueBlob: blob,
		FieldDefaultValues: []DefaultValue{
			{TypeIndex: 0, DataIndex: 0},
		},
	}
	f := NewFacade(md, &NativeImage{PointerSize: 8}, nil)

	val, ok, err := f.FieldDefault(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(42), val)
}

// TestFieldDefaultUnwrapsNullable covers spec.md §4.E/§9's Nullable<T>
// unwrap special case: a field typed System.Nullable<int32> decodes as a
// plain int32 default, not as the wrapper struct.
func TestFieldDefaultUnwrapsNullable(t *testing.T) {
	blob := make([]byte, 4)
	binary.LittleEndian.PutUint32(blob, 7)

	stringHeap, offsets := heap("System", "Nullable`1")

	md := &GlobalMetadata{
		StringHeap: stringHeap,
		TypeDefinitions: []TypeDefinition{
			{NamespaceIndex: offsets[0], NameIndex: offsets[1], ParentIndex: NoIndex, Flags: 0, Bitfield: 1},
		},
		Types: []Type{
			{Enum: TypeI4},                                                    // 0: int arg
			{Enum: TypeValueType, Data: TypeData{TypeDefIndex: 0}},            // 1: open Nullable`1
			{Enum: TypeGenericInst, Data: TypeData{GenericClassIndex: 0}},     // 2: Nullable<int32>
		},
		GenericInsts: []GenericInst{
			{Types: []TypeIndex{0}},
		},
		GenericClasses: []GenericClass{
			{TypeIndex: 1, ClassInstIndex: 0},
		},
		DefaultValueBlob: blob,
		FieldDefaultValues: []DefaultValue{
			{TypeIndex: 2, DataIndex: 0},
		},
	}
	f := NewFacade(md, &NativeImage{PointerSize: 8}, nil)

	val, ok, err := f.FieldDefault(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(7), val, "should decode as the unwrapped int32, not the Nullable wrapper")
}

func TestFieldDefaultMissingIndexReturnsFalse(t *testing.T) {
	md := &GlobalMetadata{}
	f := NewFacade(md, &NativeImage{PointerSize: 8}, nil)

	_, ok, err := f.FieldDefault(0)
	require.NoError(t, err)
	assert.False(t, ok)
}
