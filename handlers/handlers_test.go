package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2ad/cordl/cpptype"
	"github.com/sc2ad/cordl/metadata"
	"github.com/sc2ad/cordl/writer"
)

func TestRegisterAllSkipsMissingTypes(t *testing.T) {
	md := &metadata.GlobalMetadata{}
	facade := metadata.NewFacade(md, &metadata.NativeImage{PointerSize: 8}, nil)
	registry := cpptype.NewHandlerRegistry()

	assert.NotPanics(t, func() { RegisterAll(registry, facade, nil) })
}

func TestSystemObjectHandlerRewritesParentAndCtor(t *testing.T) {
	node := &cpptype.CppType{
		Declarations:    []writer.Declaration{writer.Constructor{OwnerType: "Object"}},
		Implementations: []writer.Declaration{writer.ConstructorImpl{OwnerType: "Object"}},
	}
	systemObjectHandler(node, cpptype.HookAfterFill)

	require.NotNil(t, node.Parent)
	assert.Equal(t, ObjectWrapperType, node.Parent.Name.Name)

	ctor, ok := node.Declarations[0].(writer.Constructor)
	require.True(t, ok)
	assert.Equal(t, ObjectWrapperType, ctor.OwnerType)

	ctorImpl, ok := node.Implementations[0].(writer.ConstructorImpl)
	require.True(t, ok)
	assert.Equal(t, ObjectWrapperType+"()", ctorImpl.BaseCtor)
}

func TestValueTypeHandlerStripsInheritanceAndCtorImpl(t *testing.T) {
	node := &cpptype.CppType{
		Parent:          &cpptype.InterfaceRef{},
		Declarations:    []writer.Declaration{writer.Constructor{OwnerType: "ValueType"}},
		Implementations: []writer.Declaration{writer.ConstructorImpl{OwnerType: "ValueType"}},
	}
	valueTypeHandler(node, cpptype.HookAfterFill)

	assert.Nil(t, node.Parent)
	assert.Empty(t, node.Implementations)
	require.Len(t, node.Declarations, 1)
}

func TestHandlerIgnoresAfterCreateHook(t *testing.T) {
	node := &cpptype.CppType{Parent: &cpptype.InterfaceRef{}}
	valueTypeHandler(node, cpptype.HookAfterCreate)
	assert.NotNil(t, node.Parent, "handler should only act on HookAfterFill, since declarations/implementations are nil at creation time")
}
