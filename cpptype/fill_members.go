package cpptype

import (
	"fmt"

	"github.com/sc2ad/cordl/mangle"
	"github.com/sc2ad/cordl/metadata"
	"github.com/sc2ad/cordl/writer"
)

// fieldClass is spec.md §4.E's field classification.
type fieldClass uint8

const (
	fieldInstance fieldClass = iota
	fieldStatic
	fieldConstant
)

// instanceFieldInfo is one instance field's rendered shape plus its
// computed layout, gathered during the field pass and emitted afterward so
// the explicit-layout/collision-grouping decision (spec.md §4.E) can see
// every instance field at once instead of deciding field-by-field.
type instanceFieldInfo struct {
	name    string
	cppType string
	offset  uint64
	size    uint64
}

// fillMembers translates fields, properties, and methods for node, in the
// order spec.md §4.E's Filling section specifies: fields, then properties,
// then methods.
func (c *Collection) fillMembers(node *CppType, tag Tag) error {
	td, err := c.Facade.Metadata.TypeDef(node.DefinitionIndex)
	if err != nil {
		return err
	}

	var offsets, sizes []uint64
	if _, err := c.Layout.LayoutFieldsWithSizes(node.DefinitionIndex, nil, &offsets, &sizes); err != nil {
		c.recordAnomaly("field layout failed for tdi %d: %v", node.DefinitionIndex, err)
	}

	var instanceFields []instanceFieldInfo
	instanceOffsetIdx := 0
	for i := int32(0); i < td.FieldCount; i++ {
		fi := td.FieldStart + metadata.FieldIndex(i)
		fd, err := c.Facade.Metadata.Field(fi)
		if err != nil {
			node.Declarations = append(node.Declarations, writer.Placeholder(fmt.Sprintf("unresolvable field index %d", fi)))
			continue
		}
		fieldTy, err := c.Facade.Metadata.TypeAt(fd.TypeIndex)
		if err != nil {
			node.Declarations = append(node.Declarations, writer.Placeholder(fmt.Sprintf("unresolvable field type for %q", c.Facade.Metadata.String(fd.NameIndex))))
			continue
		}

		name := mangle.Identifier(c.Facade.Metadata.String(fd.NameIndex))
		cppType := c.renderFieldTypeName(fieldTy)

		class := fieldInstance
		switch {
		case fieldTy.IsLiteral():
			class = fieldConstant
		case fieldTy.IsStatic():
			class = fieldStatic
		}

		switch class {
		case fieldConstant:
			c.fillConstantField(node, fi, name, cppType, fieldTy)
		case fieldStatic:
			node.Declarations = append(node.Declarations, writer.Field{Type: cppType, Name: name, IsStatic: true})
			node.Declarations = append(node.Declarations, writer.Method{ReturnType: cppType, Name: "get_" + name, IsStatic: true})
			node.Declarations = append(node.Declarations, writer.Method{ReturnType: "void", Name: "set_" + name, Params: cppType + " value", IsStatic: true})
		default: // fieldInstance
			var offset, size uint64
			if instanceOffsetIdx < len(offsets) {
				offset = offsets[instanceOffsetIdx]
				size = sizes[instanceOffsetIdx]
				instanceOffsetIdx++
			}
			instanceFields = append(instanceFields, instanceFieldInfo{name: name, cppType: cppType, offset: offset, size: size})
		}
	}

	if td.IsExplicitLayout() {
		c.emitExplicitLayoutFields(node, instanceFields)
	} else {
		c.emitOrdinaryInstanceFields(node, instanceFields)
	}

	for i := int32(0); i < td.PropertyCount; i++ {
		pd := c.Facade.Metadata.Properties[int32(td.PropertyStart)+i]
		name := mangle.Identifier(c.Facade.Metadata.String(pd.NameIndex))
		propType := "void"
		if pd.GetterIndex != metadata.NoIndex {
			if m, err := c.Facade.Metadata.Method(pd.GetterIndex); err == nil {
				if rt, err := c.Facade.Metadata.TypeAt(m.ReturnTypeIndex); err == nil {
					propType = c.renderFieldTypeName(rt)
				}
			}
		}
		node.Declarations = append(node.Declarations, writer.PropertyAccessorPair{
			Type: propType, Name: name,
			HasGetter: pd.GetterIndex != metadata.NoIndex,
			HasSetter: pd.SetterIndex != metadata.NoIndex,
		})
	}

	for i := int32(0); i < td.MethodCount; i++ {
		mi := td.MethodStart + metadata.MethodIndex(i)
		md, err := c.Facade.Metadata.Method(mi)
		if err != nil {
			continue
		}
		name := c.Facade.Metadata.String(md.NameIndex)
		if md.IsStaticConstructor(name) {
			continue
		}
		if md.IsInstanceConstructor(name) {
			c.fillConstructor(node, md)
			continue
		}

		mangled := mangle.Identifier(name)
		returnType := "void"
		if rt, err := c.Facade.Metadata.TypeAt(md.ReturnTypeIndex); err == nil {
			returnType = c.renderFieldTypeName(rt)
		}
		params := c.renderParams(md)

		node.Declarations = append(node.Declarations, writer.Method{
			ReturnType: returnType, Name: mangled, Params: params,
			IsStatic: md.IsStaticMethod(), IsVirtual: md.IsVirtualMethod(),
		})

		estimate, err := c.Facade.MethodEstimatedSize(mi)
		if err == nil {
			node.Declarations = append(node.Declarations, writer.MethodSizeMetadata{
				MethodName:    node.Name.Combined() + "::" + mangled,
				Address:       md.MethodPointer,
				EstimatedSize: estimate,
			})
		}
	}

	if node.IsValueType {
		c.fillValueTypeDefaultCtor(node, td)
	}

	writer.SortDeclarations(node.Declarations)
	writer.SortDeclarations(node.Implementations)

	return nil
}

func (c *Collection) fillConstructor(node *CppType, md *metadata.MethodDefinition) {
	params := c.renderParams(md)
	node.Declarations = append(node.Declarations, writer.Constructor{OwnerType: node.Name.Name, Params: params})
	node.Implementations = append(node.Implementations, writer.ConstructorImpl{
		OwnerType: node.Name.FormattedName(), Params: params,
	})
}

func (c *Collection) fillValueTypeDefaultCtor(node *CppType, td *metadata.TypeDefinition) {
	node.Declarations = append(node.Declarations, writer.Constructor{
		OwnerType: node.Name.Name, Params: "", Explicit: false,
	})
	node.Implementations = append(node.Implementations, writer.ConstructorImpl{
		OwnerType: node.Name.FormattedName(), Constexpr: true,
	})
}

// fillConstantField emits spec.md §4.E's "Constants" primitive/non-primitive
// split: a built-in primitive gets an inline `static constexpr` field; a
// non-primitive constant gets a plain declaration plus an out-of-line
// writer.FieldImpl, with an implementation-side include recorded when the
// constant's type is itself an enum.
func (c *Collection) fillConstantField(node *CppType, fi metadata.FieldIndex, name, cppType string, fieldTy *metadata.Type) {
	val, ok, err := c.Facade.FieldDefault(fi)
	lit := "0"
	if err == nil && ok {
		lit = fmt.Sprintf("%v", val)
	}

	if isPrimitiveFieldType(fieldTy.Enum) {
		node.Declarations = append(node.Declarations, writer.Field{
			Type: cppType, Name: name, IsConstexpr: true, ConstValue: lit,
		})
		return
	}

	node.Declarations = append(node.Declarations, writer.Field{Type: cppType, Name: name})
	node.Implementations = append(node.Implementations, writer.FieldImpl{
		OwnerType: node.Name.FormattedName(), Type: cppType, Name: name, ConstValue: lit,
	})

	if enumTd, ok := c.enumTypeDefOf(fieldTy); ok {
		node.Requirements.AddImplementationInclude(mangle.Identifier(c.Facade.Metadata.String(enumTd.NameIndex)) + ".hpp")
	}
}

// isPrimitiveFieldType reports whether kind is one of spec.md §4.E's
// built-in primitives (the fixed-width integers, floats, bool, native
// int/string) as opposed to a user-defined class/value-type/enum/generic
// instantiation.
func isPrimitiveFieldType(kind metadata.TypeEnum) bool {
	switch kind {
	case metadata.TypeBoolean, metadata.TypeI1, metadata.TypeU1, metadata.TypeI2,
		metadata.TypeU2, metadata.TypeChar, metadata.TypeI4, metadata.TypeU4,
		metadata.TypeI8, metadata.TypeU8, metadata.TypeR4, metadata.TypeR8,
		metadata.TypeI, metadata.TypeU, metadata.TypeString:
		return true
	default:
		return false
	}
}

// enumTypeDefOf resolves fieldTy to its backing type definition when it
// names an enum, so a non-primitive enum constant's implementation file can
// record the right #include.
func (c *Collection) enumTypeDefOf(fieldTy *metadata.Type) (*metadata.TypeDefinition, bool) {
	if fieldTy.Enum != metadata.TypeValueType {
		return nil, false
	}
	td, err := c.Facade.Metadata.TypeDef(fieldTy.Data.TypeDefIndex)
	if err != nil || !td.IsEnumType() {
		return nil, false
	}
	return td, true
}

// emitExplicitLayoutFields implements spec.md §4.E's mandatory
// explicit-layout emission: every instance field is packed into one nested
// union, contributing a packed ([padding[offset], field], packing=1) struct
// and a naturally-aligned struct of the same shape as two union members,
// anchored at the field's own recorded offset. Always-on — there is no
// collision-detection branch here, unlike the ordinary path.
func (c *Collection) emitExplicitLayoutFields(node *CppType, fields []instanceFieldInfo) {
	if len(fields) == 0 {
		return
	}
	union := writer.NestedUnion{Name: "__explicit_layout_fields"}
	for _, f := range fields {
		packedName := "__packed_" + f.name
		naturalName := "__natural_" + f.name
		node.Declarations = append(node.Declarations,
			writer.NestedStruct{
				Name: packedName, Packed: true, PaddingSize: f.offset,
				FieldType: f.cppType, FieldName: f.name,
			},
			writer.NestedStruct{
				Name: naturalName, Packed: false, PaddingSize: f.offset,
				FieldType: f.cppType, FieldName: f.name,
			},
		)
		union.Members = append(union.Members,
			fmt.Sprintf("%s packed_%s;", packedName, f.name),
			fmt.Sprintf("%s natural_%s;", naturalName, f.name),
		)
	}
	node.Declarations = append(node.Declarations, union)
}

// emitOrdinaryInstanceFields implements the non-explicit-layout path: lay
// fields out directly, but when two or more fields land at the same offset,
// group the fields sharing that offset into a union of single-field structs
// instead of flat fields. A field that starts inside an earlier field's
// extent (offset below the running end) at an offset no other field shares
// stays a flat field. Every field still gets its static_assert afterward.
func (c *Collection) emitOrdinaryInstanceFields(node *CppType, fields []instanceFieldInfo) {
	groups := make(map[uint64][]instanceFieldInfo)
	order := make([]uint64, 0)
	runningMax := uint64(0)
	collided := make(map[uint64]bool)
	for _, f := range fields {
		if _, seen := groups[f.offset]; !seen {
			order = append(order, f.offset)
		}
		if f.offset < runningMax {
			collided[f.offset] = true
		}
		if len(groups[f.offset]) > 0 {
			collided[f.offset] = true
		}
		groups[f.offset] = append(groups[f.offset], f)
		if f.offset+f.size > runningMax {
			runningMax = f.offset + f.size
		}
	}

	for _, offset := range order {
		group := groups[offset]
		if collided[offset] && len(group) > 1 {
			union := writer.NestedUnion{Name: fmt.Sprintf("__offset_%d_union", offset)}
			for _, f := range group {
				structName := "__at_" + f.name
				node.Declarations = append(node.Declarations, writer.NestedStruct{
					Name: structName, FieldType: f.cppType, FieldName: f.name,
				})
				union.Members = append(union.Members, fmt.Sprintf("%s %s;", structName, f.name))
			}
			node.Declarations = append(node.Declarations, union)
		} else {
			for _, f := range group {
				node.Declarations = append(node.Declarations, writer.Field{Type: f.cppType, Name: f.name})
			}
		}
		for _, f := range group {
			node.Implementations = append(node.Implementations, writer.StaticAssert{
				Condition: fmt.Sprintf("offsetof(%s, %s) == %d", node.Name.FormattedName(), f.name, f.offset),
				Message:   fmt.Sprintf("field offset mismatch for %s", f.name),
			})
		}
	}
}

func (c *Collection) renderParams(md *metadata.MethodDefinition) string {
	var out string
	for i := int32(0); i < md.ParameterCount; i++ {
		pd := c.Facade.Metadata.Parameters[int32(md.ParameterStart)+i]
		pty, err := c.Facade.Metadata.TypeAt(pd.TypeIndex)
		typeName := "void*"
		if err == nil {
			typeName = c.renderFieldTypeName(pty)
		}
		pname := mangle.Identifier(c.Facade.Metadata.String(pd.NameIndex))
		if out != "" {
			out += ", "
		}
		out += typeName + " " + pname
		if pd.IsOptional() {
			if val, ok, err := c.Facade.ParameterDefault(metadata.ParameterIndex(int32(md.ParameterStart) + i)); err == nil && ok {
				out += fmt.Sprintf(" = %v", val)
			}
		}
	}
	return out
}

// renderFieldTypeName resolves one field/parameter/return Type expression
// to its rendered C++ type name, per spec.md §4.E's name-resolution rules:
// self-reference renders directly, a class/value-type defers to
// MakeFrom/the collection, primitives use a fixed table.
func (c *Collection) renderFieldTypeName(ty *metadata.Type) string {
	switch ty.Enum {
	case metadata.TypeBoolean:
		return "bool"
	case metadata.TypeI1:
		return "int8_t"
	case metadata.TypeU1:
		return "uint8_t"
	case metadata.TypeI2:
		return "int16_t"
	case metadata.TypeU2, metadata.TypeChar:
		return "uint16_t"
	case metadata.TypeI4:
		return "int32_t"
	case metadata.TypeU4:
		return "uint32_t"
	case metadata.TypeI8:
		return "int64_t"
	case metadata.TypeU8:
		return "uint64_t"
	case metadata.TypeR4:
		return "float"
	case metadata.TypeR8:
		return "double"
	case metadata.TypeI, metadata.TypeU:
		return "int64_t"
	case metadata.TypeString:
		return "Il2CppString*"
	case metadata.TypeObject:
		return "Il2CppObject*"
	case metadata.TypeVoid:
		return "void"
	case metadata.TypeClass, metadata.TypeValueType:
		node, err := c.MakeFrom(ty.Data.TypeDefIndex)
		if err != nil {
			c.recordAnomaly("could not resolve field type: %v", err)
			return "void*"
		}
		if node.IsValueType {
			node.Requirements.AddDeclarationInclude("")
			return node.Name.Combined()
		}
		node.Requirements.AddForwardDeclare(node.Name.Name)
		return node.Name.Combined()
	case metadata.TypeGenericInst:
		gc := c.Facade.Metadata.GenericClasses[ty.Data.GenericClassIndex]
		genericTy, err := c.Facade.Metadata.TypeAt(gc.TypeIndex)
		if err != nil || gc.ClassInstIndex == metadata.NoIndex {
			return "void*"
		}
		node, err := c.MakeGenericFrom(genericTy.Data.TypeDefIndex, gc.ClassInstIndex)
		if err != nil {
			c.recordAnomaly("could not resolve generic-inst field type: %v", err)
			return "void*"
		}
		return node.Name.Combined() + "*"
	case metadata.TypeSzArray, metadata.TypeArray:
		return "Il2CppArray*"
	default:
		return "void*"
	}
}
