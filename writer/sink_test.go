package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkLineAndFlush(t *testing.T) {
	var b strings.Builder
	s := NewSink(&b)
	require.NoError(t, s.Line("int x;"))
	require.NoError(t, s.Flush())
	assert.Equal(t, "int x;\n", b.String())
}

func TestSinkDedentPanicsAtZero(t *testing.T) {
	var b strings.Builder
	s := NewSink(&b)
	assert.Panics(t, func() { s.Dedent() })
}

func TestSortDeclarationsOrdersByLevelStably(t *testing.T) {
	decls := []Declaration{
		Method{Name: "M2"},
		Field{Name: "f1"},
		UsingAlias{Name: "A"},
		Method{Name: "M1"},
		Field{Name: "f2"},
	}
	SortDeclarations(decls)

	var order []string
	for _, d := range decls {
		switch v := d.(type) {
		case UsingAlias:
			order = append(order, "alias:"+v.Name)
		case Field:
			order = append(order, "field:"+v.Name)
		case Method:
			order = append(order, "method:"+v.Name)
		}
	}
	assert.Equal(t, []string{"alias:A", "field:f1", "field:f2", "method:M2", "method:M1"}, order)
}

func TestWriteMethodSizeTable(t *testing.T) {
	var b strings.Builder
	s := NewSink(&b)
	err := WriteMethodSizeTable(s, "Foo_MethodSizes", []MethodSizeEntry{
		{QualifiedName: "Foo::Bar", Address: 0x1000, EstimatedSize: 0x20},
	})
	require.NoError(t, err)
	require.NoError(t, s.Flush())
	assert.Contains(t, b.String(), `"Foo::Bar", 0x1000, 0x20`)
}
