// Package names renders a fully-qualified C++ name from its structural
// parts (spec.md §4.B): namespace, enclosing-type chain, name, optional
// generic arguments, and an "is pointer" flag. Grounded on the teacher's
// NameComponents-shaped FileInfo-style plain data structs (pe.go), rendered
// here instead as a small value type with methods rather than free
// functions, since every rendering mode needs the same fields.
package names

import "strings"

// Components is one fully-qualified name, already mangled — this package
// only joins strings, it never itself escapes characters (that's mangle's
// job).
type Components struct {
	Namespace    string
	Declaring    []string
	Name         string
	Generics     []string
	IsPointer    bool
}

// Combined renders the fully-qualified form: `ns::outer::...::name<T,U>`,
// optionally trailed by `*` when IsPointer.
func (c Components) Combined() string {
	var b strings.Builder
	if c.Namespace != "" {
		b.WriteString(c.Namespace)
		b.WriteString("::")
	}
	for _, d := range c.Declaring {
		b.WriteString(d)
		b.WriteString("::")
	}
	b.WriteString(c.nameWithGenerics())
	if c.IsPointer {
		b.WriteString("*")
	}
	return b.String()
}

// FormattedName renders just the name plus its generic argument list,
// `name<T,U>`, without namespace or enclosing-type qualification.
func (c Components) FormattedName() string {
	return c.nameWithGenerics()
}

func (c Components) nameWithGenerics() string {
	if len(c.Generics) == 0 {
		return c.Name
	}
	return c.Name + "<" + strings.Join(c.Generics, ", ") + ">"
}

// WithoutPointer returns a copy of c with IsPointer cleared, for use inside
// offsetof(...) and member-pointer syntax where a trailing `*` would be
// invalid.
func (c Components) WithoutPointer() Components {
	c.IsPointer = false
	return c
}

// WithGenerics returns a copy of c with its generic argument list replaced,
// for callers materializing one generic instantiation's argument names.
func (c Components) WithGenerics(generics []string) Components {
	c.Generics = generics
	return c
}
