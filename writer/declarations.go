package writer

import "fmt"

// UsingAlias is a `using Name = Target;` declaration.
type UsingAlias struct {
	Name   string
	Target string
}

func (u UsingAlias) SortLevel() SortLevel { return SortUsingAlias }
func (u UsingAlias) Write(s *Sink) error {
	return s.Line(fmt.Sprintf("using %s = %s;", u.Name, u.Target))
}

// UnwrappedEnumUnderlying declares the plain integral type backing an enum,
// emitted once per enum type ahead of its members.
type UnwrappedEnumUnderlying struct {
	Underlying string
}

func (u UnwrappedEnumUnderlying) SortLevel() SortLevel { return SortUnwrappedEnum }
func (u UnwrappedEnumUnderlying) Write(s *Sink) error {
	return s.Line(fmt.Sprintf("using __UnderlyingType = %s;", u.Underlying))
}

// Field is a single field declaration.
type Field struct {
	Type        string
	Name        string
	IsStatic    bool
	IsConstexpr bool
	ConstValue  string // non-empty only when IsConstexpr
}

func (f Field) SortLevel() SortLevel { return SortFields }
func (f Field) Write(s *Sink) error {
	var qualifiers string
	switch {
	case f.IsConstexpr:
		qualifiers = "static constexpr "
	case f.IsStatic:
		qualifiers = "static "
	}
	line := fmt.Sprintf("%s%s %s", qualifiers, f.Type, f.Name)
	if f.IsConstexpr {
		line += " = " + f.ConstValue
	}
	return s.Line(line + ";")
}

// FieldImpl is the out-of-line definition of a non-primitive constant
// field (spec.md §4.E's "Constants" emission rule).
type FieldImpl struct {
	OwnerType  string
	Type       string
	Name       string
	ConstValue string
}

func (f FieldImpl) SortLevel() SortLevel { return SortFieldsImpl }
func (f FieldImpl) Write(s *Sink) error {
	return s.Line(fmt.Sprintf("%s %s::%s = %s;", f.Type, f.OwnerType, f.Name, f.ConstValue))
}

// PropertyAccessorPair is one property's getter/setter declaration pair.
type PropertyAccessorPair struct {
	Type       string
	Name       string
	HasGetter  bool
	HasSetter  bool
}

func (p PropertyAccessorPair) SortLevel() SortLevel { return SortProperties }
func (p PropertyAccessorPair) Write(s *Sink) error {
	if err := s.Line(fmt.Sprintf("__declspec(property) %s %s;", p.Type, p.Name)); err != nil {
		return err
	}
	if p.HasGetter {
		if err := s.Line(fmt.Sprintf("%s get_%s();", p.Type, p.Name)); err != nil {
			return err
		}
	}
	if p.HasSetter {
		if err := s.Line(fmt.Sprintf("void set_%s(%s value);", p.Name, p.Type)); err != nil {
			return err
		}
	}
	return nil
}

// Method is a method declaration.
type Method struct {
	ReturnType string
	Name       string
	Params     string // pre-rendered "Type a, Type b" parameter list
	IsStatic   bool
	IsVirtual  bool
}

func (m Method) SortLevel() SortLevel { return SortMethods }
func (m Method) Write(s *Sink) error {
	var qualifiers string
	switch {
	case m.IsStatic:
		qualifiers = "static "
	case m.IsVirtual:
		qualifiers = "virtual "
	}
	return s.Line(fmt.Sprintf("%s%s %s(%s);", qualifiers, m.ReturnType, m.Name, m.Params))
}

// MethodSizeMetadata records one method's native address and estimated
// size (spec.md §6's side-table supplement). Write renders it inline as a
// `//` comment line only; the constexpr entry exists only in the side table
// that WriteMethodSizeTable emits.
type MethodSizeMetadata struct {
	MethodName    string
	Address       uint64
	EstimatedSize uint64
}

func (m MethodSizeMetadata) SortLevel() SortLevel { return SortMethods }
func (m MethodSizeMetadata) Write(s *Sink) error {
	return s.Line(fmt.Sprintf(
		"// %s: address = 0x%x, estimated size = 0x%x",
		m.MethodName, m.Address, m.EstimatedSize,
	))
}

// Constructor is a constructor declaration.
type Constructor struct {
	OwnerType string
	Params    string
	Explicit  bool
}

func (c Constructor) SortLevel() SortLevel { return SortConstructors }
func (c Constructor) Write(s *Sink) error {
	prefix := ""
	if c.Explicit {
		prefix = "explicit "
	}
	return s.Line(fmt.Sprintf("%s%s(%s);", prefix, c.OwnerType, c.Params))
}

// ConstructorImpl is a constructor's out-of-line body.
type ConstructorImpl struct {
	OwnerType  string
	Params     string
	BaseCtor   string // non-empty when a base-constructor call is needed
	Body       []string
	Constexpr  bool
}

func (c ConstructorImpl) SortLevel() SortLevel { return SortFieldsImpl }
func (c ConstructorImpl) Write(s *Sink) error {
	prefix := ""
	if c.Constexpr {
		prefix = "constexpr "
	}
	header := fmt.Sprintf("%s%s::%s(%s)", prefix, c.OwnerType, c.OwnerType, c.Params)
	if c.BaseCtor != "" {
		header += " : " + c.BaseCtor
	}
	if err := s.Line(header + " {"); err != nil {
		return err
	}
	s.Indent()
	for _, line := range c.Body {
		if err := s.Line(line); err != nil {
			return err
		}
	}
	s.Dedent()
	return s.Line("}")
}

// NestedStruct and NestedUnion model the explicit-layout packing shapes
// spec.md §4.E requires: a pair of packed/aligned structs unioned together
// per field.
type NestedStruct struct {
	Name        string
	Packed      bool
	PaddingSize uint64
	FieldType   string
	FieldName   string
}

func (n NestedStruct) SortLevel() SortLevel { return SortFields }
func (n NestedStruct) Write(s *Sink) error {
	attr := ""
	if n.Packed {
		attr = " __attribute__((packed))"
	}
	if err := s.Line(fmt.Sprintf("struct%s %s {", attr, n.Name)); err != nil {
		return err
	}
	s.Indent()
	if n.PaddingSize > 0 {
		if err := s.Line(fmt.Sprintf("uint8_t padding[%d];", n.PaddingSize)); err != nil {
			return err
		}
	}
	if err := s.Line(fmt.Sprintf("%s %s;", n.FieldType, n.FieldName)); err != nil {
		return err
	}
	s.Dedent()
	return s.Line("};")
}

// NestedUnion wraps a set of named member names (each itself a struct,
// typically a NestedStruct pair) in a union.
type NestedUnion struct {
	Name    string
	Members []string // rendered "Type name;" lines
}

func (n NestedUnion) SortLevel() SortLevel { return SortFields }
func (n NestedUnion) Write(s *Sink) error {
	if err := s.Line(fmt.Sprintf("union %s {", n.Name)); err != nil {
		return err
	}
	s.Indent()
	for _, m := range n.Members {
		if err := s.Line(m); err != nil {
			return err
		}
	}
	s.Dedent()
	return s.Line("};")
}

// StaticAssert is an offset/size invariant check emitted after field
// emission, per spec.md §4.E's collision-detection step.
type StaticAssert struct {
	Condition string
	Message   string
}

func (st StaticAssert) SortLevel() SortLevel { return SortFieldsImpl }
func (st StaticAssert) Write(s *Sink) error {
	return s.Line(fmt.Sprintf("static_assert(%s, %q);", st.Condition, st.Message))
}

// RawLine emits one line of text verbatim.
type RawLine struct {
	Text  string
	Level SortLevel
}

func (r RawLine) SortLevel() SortLevel { return r.Level }
func (r RawLine) Write(s *Sink) error  { return s.Line(r.Text) }

// Comment emits a free-form `// ...` comment line.
type Comment struct {
	Text  string
	Level SortLevel
}

func (c Comment) SortLevel() SortLevel { return c.Level }
func (c Comment) Write(s *Sink) error  { return s.Line("// " + c.Text) }

// Placeholder stands in for a declaration the generator could not fully
// translate (spec.md §7's "unsupported-but-known gaps" class): it renders
// as a comment naming the reason instead of emitting incorrect code.
func Placeholder(reason string) Declaration {
	return Comment{Text: "unsupported: " + reason, Level: SortUnknown}
}
