package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinedPlain(t *testing.T) {
	c := Components{Namespace: "System::Collections", Name: "List"}
	assert.Equal(t, "System::Collections::List", c.Combined())
}

func TestCombinedGenericsAndDeclaring(t *testing.T) {
	c := Components{
		Namespace: "System::Collections::Generic",
		Declaring: []string{"Outer"},
		Name:      "List",
		Generics:  []string{"int32_t", "float"},
	}
	assert.Equal(t, "System::Collections::Generic::Outer::List<int32_t, float>", c.Combined())
}

func TestCombinedPointer(t *testing.T) {
	c := Components{Name: "Foo", IsPointer: true}
	assert.Equal(t, "Foo*", c.Combined())
}

func TestFormattedNameOmitsQualification(t *testing.T) {
	c := Components{Namespace: "NS", Name: "Foo", Generics: []string{"T"}}
	assert.Equal(t, "Foo<T>", c.FormattedName())
}

func TestWithoutPointerStripsStar(t *testing.T) {
	c := Components{Name: "Foo", IsPointer: true}
	stripped := c.WithoutPointer()
	assert.False(t, stripped.IsPointer)
	assert.Equal(t, "Foo", stripped.Combined())
	assert.True(t, c.IsPointer, "original must be unmodified")
}
