package cpptype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2ad/cordl/metadata"
)

// heap builds a StringHeap containing every name in order, NUL-terminated,
// and returns the byte offset of each.
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

func newTestFacade(t *testing.T) (*metadata.Facade, []uint32) {
	t.Helper()
	stringHeap, offsets := heap("MyNamespace", "IMarker")

	md := &metadata.GlobalMetadata{
		StringHeap: stringHeap,
		TypeDefinitions: []metadata.TypeDefinition{
			{
				NamespaceIndex: offsets[0],
				NameIndex:      offsets[1],
				ParentIndex:    metadata.NoIndex,
				Flags:          metadata.TypeAttrInterface,
				FieldStart:     metadata.NoIndex,
				MethodStart:    metadata.NoIndex,
				PropertyStart:  metadata.NoIndex,
				GenericContainerIndex: metadata.NoIndex,
				DeclaringTypeIndex:    metadata.NoIndex,
			},
		},
	}
	facade := metadata.NewFacade(md, &metadata.NativeImage{PointerSize: 8}, nil)
	return facade, offsets
}

func newTestCollection(t *testing.T) *Collection {
	facade, _ := newTestFacade(t)
	return NewCollection(facade, MangleOptions{}, nil)
}

func TestMakeFromCreatesContextOnce(t *testing.T) {
	c := newTestCollection(t)

	first, err := c.MakeFrom(0)
	require.NoError(t, err)
	assert.Equal(t, "MyNamespace", first.Name.Namespace)
	assert.Equal(t, "IMarker", first.Name.Name)

	second, err := c.MakeFrom(0)
	require.NoError(t, err)
	assert.Same(t, first, second, "MakeFrom must return the same node on a repeat call")

	assert.Len(t, c.AllContexts(), 1)
}

func TestMakeFromRejectsNoParentNonInterface(t *testing.T) {
	stringHeap, offsets := heap("Ns", "Plain")
	md := &metadata.GlobalMetadata{
		StringHeap: stringHeap,
		TypeDefinitions: []metadata.TypeDefinition{
			{
				NamespaceIndex: offsets[0],
				NameIndex:      offsets[1],
				ParentIndex:    metadata.NoIndex,
				Flags:          0,
				FieldStart:     metadata.NoIndex,
				MethodStart:    metadata.NoIndex,
				PropertyStart:  metadata.NoIndex,
				GenericContainerIndex: metadata.NoIndex,
				DeclaringTypeIndex:    metadata.NoIndex,
			},
		},
	}
	facade := metadata.NewFacade(md, &metadata.NativeImage{PointerSize: 8}, nil)
	c := NewCollection(facade, MangleOptions{}, nil)

	_, err := c.MakeFrom(0)
	assert.ErrorIs(t, err, ErrNoParentAndNotInterface)
}

func TestFillCppTypeIsIdempotent(t *testing.T) {
	c := newTestCollection(t)

	node, err := c.MakeFrom(0)
	require.NoError(t, err)

	require.NoError(t, c.FillCppType(node.Tag))
	assert.True(t, node.Filled())

	require.NoError(t, c.FillCppType(node.Tag), "a second fill must be a no-op, not an error")
}

func TestFillCppTypeRejectsUnknownTag(t *testing.T) {
	c := newTestCollection(t)
	err := c.FillCppType(DefinitionTag(99))
	assert.ErrorIs(t, err, ErrContextNotFound)
}

func TestBorrowRejectsRecursiveBorrow(t *testing.T) {
	c := newTestCollection(t)
	node, err := c.MakeFrom(0)
	require.NoError(t, err)

	err = c.Borrow(node.Tag, func(*CppType) error {
		return c.Borrow(node.Tag, func(*CppType) error { return nil })
	})
	assert.ErrorIs(t, err, ErrRecursiveBorrow)
}

func TestGetCppTypeFindsNestedType(t *testing.T) {
	c := newTestCollection(t)
	root, err := c.MakeFrom(0)
	require.NoError(t, err)

	nestedTag := DefinitionTag(42)
	nested := &CppType{Tag: nestedTag, NestedTypes: map[Tag]*CppType{}}
	root.NestedTypes[nestedTag] = nested
	c.aliases[nestedTag] = root.Tag

	found, ok := c.GetCppType(nestedTag)
	require.True(t, ok)
	assert.Same(t, nested, found)
}
