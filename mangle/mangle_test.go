package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaceToCpp(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"System.Collections.Generic", "System::Collections::Generic"},
		{"", GlobalNamespaceSentinel},
		{"System", "System"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, NamespaceToCpp(tt.in))
	}
}

func TestNamespaceToPath(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"System.Collections.Generic", "System/Collections/Generic"},
		{"", GlobalNamespaceSentinel},
		{"Foo<Bar>.Baz", "Foo_Bar_/Baz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, NamespaceToPath(tt.in))
	}
}

func TestIdentifierReservedWord(t *testing.T) {
	assert.Equal(t, "_cordl_class", Identifier("class"))
	assert.Equal(t, "_cordl_errno", Identifier("errno"))
	assert.Equal(t, "list", Identifier("list"))
}

func TestIdentifierExtraExclusion(t *testing.T) {
	assert.Equal(t, "_cordl_Foo", Identifier("Foo", "Foo", "Bar"))
	assert.Equal(t, "Baz", Identifier("Baz", "Foo", "Bar"))
}

func TestIdentifierWhitespaceOnly(t *testing.T) {
	assert.Equal(t, WhitespaceOnlySentinel, Identifier(""))
	assert.Equal(t, WhitespaceOnlySentinel, Identifier("   "))
}

func TestIdentifierEscapeSet(t *testing.T) {
	assert.Equal(t, "List_int32_", Identifier("List<int32>"))
	assert.Equal(t, "a_b", Identifier("a.b"))
	assert.Equal(t, "a_b_c", Identifier("a,b(c"))
}

func TestNestedGenericIdentifierEscapesColon(t *testing.T) {
	assert.Equal(t, "Outer__Inner_int32_", NestedGenericIdentifier("Outer::Inner<int32>"))
}

func TestPathComponent(t *testing.T) {
	assert.Equal(t, "Foo_Bar_", PathComponent("Foo<Bar>"))
	assert.Equal(t, "Foo_Bar", PathComponent("Foo.Bar"))
}

func TestScopeRoot(t *testing.T) {
	assert.Equal(t, "System", ScopeRoot("System", false))
	assert.Equal(t, "::System", ScopeRoot("System", true))
}

func TestIdentifierIdempotentUnderStableSet(t *testing.T) {
	// Idempotent only when the input contains none of the trigger
	// characters, per spec.md §4.A.
	in := "MyValidName"
	assert.Equal(t, Identifier(in), Identifier(Identifier(in)))
}
