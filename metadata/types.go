// Package metadata is the read-only facade (component C of the header
// generator) over an already-decoded IL2CPP global-metadata blob and its
// companion native image. The two input structures (GlobalMetadata and
// NativeImage) are expected to be populated by an external metadata reader;
// this package never parses bytes off disk itself — it only projects,
// indexes, and cross-references records an external collaborator already
// decoded, the same separation of concerns the teacher package keeps
// between its CLR-table parsing (dotnet.go) and the structs it parses into
// (dotnet_metadata_tables.go).
package metadata

// Index types. -1 is the universal "no value" sentinel for every signed
// index, matching the il2cpp convention of using 0xFFFFFFFF/u32::MAX for an
// absent parent, element type, or generic container.
type (
	TypeDefinitionIndex  int32
	FieldIndex           int32
	MethodIndex          int32
	ParameterIndex       int32
	PropertyIndex        int32
	GenericContainerIdx  int32
	GenericParameterIdx  int32
	GenericClassIndex    int32
	GenericInstIndex     int32
	TypeIndex            int32
)

// NoIndex is the sentinel for an absent reference of any index type above.
const NoIndex = -1

// TypeEnum mirrors the Il2CppTypeEnum discriminant of one Type record.
type TypeEnum uint8

// Recognized type-expression kinds. Named after the il2cpp/ECMA element
// type tags rather than C++ keywords, since this is the vocabulary the
// external metadata reader speaks.
const (
	TypeVoid TypeEnum = iota
	TypeBoolean
	TypeChar
	TypeI1
	TypeU1
	TypeI2
	TypeU2
	TypeI4
	TypeU4
	TypeI8
	TypeU8
	TypeR4
	TypeR8
	TypeString
	TypePtr
	TypeByRef
	TypeValueType
	TypeClass
	TypeVar
	TypeArray
	TypeGenericInst
	TypeTypedByRef
	TypeI
	TypeU
	TypeFnPtr
	TypeObject
	TypeSzArray
	TypeMVar
)

// TypeData carries whichever payload a Type's Enum calls for. Only the
// fields relevant to Enum are populated; this mirrors the original's tagged
// union (CppTypeTag/TypeData) as a flat struct, which is the idiomatic Go
// rendering of a small closed union.
type TypeData struct {
	// Valid when Enum is TypeValueType or TypeClass.
	TypeDefIndex TypeDefinitionIndex
	// Valid when Enum is TypeGenericInst.
	GenericClassIndex GenericClassIndex
	// Valid when Enum is TypeVar or TypeMVar.
	GenericParamIndex GenericParameterIdx
	// Valid when Enum is TypeSzArray, TypeArray, TypePtr or TypeByRef: the
	// element type, as an index into GlobalMetadata.Types.
	ElementTypeIndex TypeIndex
}

// Type is one entry in the Types table: a type expression as it occurs in a
// field, parameter, return value, generic argument list, or parent/interface
// reference.
type Type struct {
	Enum TypeEnum
	Data TypeData

	// Attrs carries the FieldAttributes/ParameterAttributes bitmask for the
	// specific field/parameter occurrence this Type entry belongs to, when
	// applicable (0 otherwise). static=0x10, literal/const=0x40 for fields;
	// in=1, out=2, optional=0x10 for parameters.
	Attrs uint32
}

// IsStatic reports the field-attribute static bit.
func (t Type) IsStatic() bool { return t.Attrs&0x10 != 0 }

// IsLiteral reports the field-attribute literal (compile-time constant) bit.
func (t Type) IsLiteral() bool { return t.Attrs&0x40 != 0 }

// TypeDefinition is one entry of the type-definition table: a concrete
// managed class, struct, interface or enum declaration.
type TypeDefinition struct {
	NameIndex      uint32
	NamespaceIndex uint32

	// ParentIndex indexes into Types (not TypeDefinitions): the parent
	// class expression, which may itself be a generic instantiation.
	// NoIndex if there is no parent (only legal for System.Object and
	// interfaces).
	ParentIndex TypeIndex

	// InterfaceTypeIndices indexes into Types: implemented interfaces.
	InterfaceTypeIndices []TypeIndex

	// ElementTypeIndex indexes into Types: the enum's underlying integral
	// type. Only meaningful when IsEnumType().
	ElementTypeIndex TypeIndex

	// Bitfield: bit 0 = value type, bit 1 = enum type, 4 bits beginning at
	// PackingBitOffset hold the raw packing directive.
	Bitfield uint32

	// Flags: interface=0x20, explicit-layout=0x10, nested-public=2 (see
	// spec.md §6's bit-exact masks).
	Flags uint32

	FieldStart  FieldIndex
	FieldCount  int32
	MethodStart MethodIndex
	MethodCount int32

	PropertyStart PropertyIndex
	PropertyCount int32

	// GenericContainerIndex is NoIndex for a non-generic type.
	GenericContainerIndex GenericContainerIdx

	// DeclaringTypeIndex points at the enclosing TypeDefinition for a
	// nested type, NoIndex otherwise.
	DeclaringTypeIndex TypeDefinitionIndex
}

// IsValueType reports the value-type bitfield bit.
func (t TypeDefinition) IsValueType() bool { return t.Bitfield&1 != 0 }

// IsEnumType reports the enum-type bitfield bit.
func (t TypeDefinition) IsEnumType() bool { return t.Bitfield&2 != 0 }

// IsInterface reports the type-def interface flag (0x20).
func (t TypeDefinition) IsInterface() bool { return t.Flags&0x20 != 0 }

// IsExplicitLayout reports the type-def explicit-layout flag (0x10).
func (t TypeDefinition) IsExplicitLayout() bool { return t.Flags&0x10 != 0 }

// IsNestedPublic reports the type-def nested-public flag (0x2).
func (t TypeDefinition) IsNestedPublic() bool { return t.Flags&0x2 != 0 }

// IsGeneric reports whether this definition has its own generic container
// (i.e. `class Foo<T>` as opposed to a closed instantiation of one).
func (t TypeDefinition) IsGeneric() bool { return t.GenericContainerIndex != NoIndex }

// IsNested reports whether this definition is lexically nested.
func (t TypeDefinition) IsNested() bool { return t.DeclaringTypeIndex != NoIndex }

// FieldDefinition is one entry of the field table.
type FieldDefinition struct {
	NameIndex uint32
	// TypeIndex indexes into Types; that Type's Attrs carry this field's
	// FieldAttributes bitmask.
	TypeIndex TypeIndex
	Token     uint32
}

// MethodDefinition is one entry of the method table.
type MethodDefinition struct {
	NameIndex        uint32
	DeclaringType    TypeDefinitionIndex
	ReturnTypeIndex  TypeIndex
	ParameterStart   ParameterIndex
	ParameterCount   int32
	// public=6 of low 3 bits, static=0x10, virtual=0x40, hide-by-sig=0x80,
	// abstract=0x400, special-name=0x800, final=0x20.
	Flags                 uint32
	Token                 uint32
	GenericContainerIndex GenericContainerIdx
	// MethodPointer is the resolved native code address for this method, 0
	// if none was recovered (abstract/interface methods, or a method the
	// linker stripped).
	MethodPointer uint64
	Slot          uint16
}

// IsPublicMethod reports the method-flags public encoding.
func (m MethodDefinition) IsPublicMethod() bool { return m.Flags&7 == 6 }

// IsStaticMethod reports the method-flags static bit (0x10).
func (m MethodDefinition) IsStaticMethod() bool { return m.Flags&0x10 != 0 }

// IsVirtualMethod reports the method-flags virtual bit (0x40).
func (m MethodDefinition) IsVirtualMethod() bool { return m.Flags&0x40 != 0 }

// IsHideBySig reports the method-flags hide-by-sig bit (0x80).
func (m MethodDefinition) IsHideBySig() bool { return m.Flags&0x80 != 0 }

// IsAbstractMethod reports the method-flags abstract bit (0x400).
func (m MethodDefinition) IsAbstractMethod() bool { return m.Flags&0x400 != 0 }

// IsSpecialName reports the method-flags special-name bit (0x800).
func (m MethodDefinition) IsSpecialName() bool { return m.Flags&0x800 != 0 }

// IsFinalMethod reports the method-flags final bit (0x20).
func (m MethodDefinition) IsFinalMethod() bool { return m.Flags&0x20 != 0 }

// IsGeneric reports whether this method declares its own generic parameters.
func (m MethodDefinition) IsGeneric() bool { return m.GenericContainerIndex != NoIndex }

// IsStaticConstructor reports whether this is the ".cctor" class
// initializer, which spec.md §4.E says must never be emitted.
func (m MethodDefinition) IsStaticConstructor(name string) bool { return name == ".cctor" }

// IsInstanceConstructor reports whether this is the ".ctor" instance
// constructor.
func (m MethodDefinition) IsInstanceConstructor(name string) bool { return name == ".ctor" }

// ParameterDefinition is one entry of the parameter table.
type ParameterDefinition struct {
	NameIndex uint32
	TypeIndex TypeIndex
	// in=1, out=2, optional=0x10.
	Flags uint32
	Token uint32
}

// IsOptional reports the parameter-flags optional bit (0x10).
func (p ParameterDefinition) IsOptional() bool { return p.Flags&0x10 != 0 }

// PropertyDefinition is one entry of the property table.
type PropertyDefinition struct {
	NameIndex uint32
	// GetterIndex/SetterIndex are NoIndex when the accessor is absent.
	GetterIndex MethodIndex
	SetterIndex MethodIndex
	Attrs       uint32
}

// GenericContainer is one entry of the generic-container table: the set of
// type parameters belonging to one generic type or generic method.
type GenericContainer struct {
	// OwnerIndex is a TypeDefinitionIndex when !IsMethod, else a
	// MethodIndex.
	OwnerIndex     int32
	IsMethod       bool
	ParameterStart GenericParameterIdx
	ParameterCount int32
}

// GenericParameter is one entry of the generic-parameter table.
type GenericParameter struct {
	NameIndex uint32
	// Num is the parameter's ordinal position; it indexes into a
	// GenericInst.Types substitution list.
	Num              uint16
	ConstraintStart  int32
	ConstraintCount  int32
	OwnerContainerIndex GenericContainerIdx
}

// GenericParameterConstraint is one entry of the generic-parameter
// constraint table ("where T : Base").
type GenericParameterConstraint struct {
	// ConstraintTypeIndex indexes into Types.
	ConstraintTypeIndex TypeIndex
}

// GenericInst is one closed substitution list: the concrete type arguments
// of one instantiation.
type GenericInst struct {
	// Types indexes into GlobalMetadata.Types, one entry per generic
	// parameter, in declaration order.
	Types []TypeIndex
}

// GenericClass is one entry of the generic-class table: a generic type
// definition paired with the GenericInst that closes it.
type GenericClass struct {
	// TypeIndex indexes into Types: the open generic type's own Type entry
	// (Enum is TypeClass or TypeValueType, Data.TypeDefIndex names the
	// template).
	TypeIndex TypeIndex
	// ClassInstIndex is NoIndex if this generic class carries no class-level
	// instantiation (only a method-level one).
	ClassInstIndex GenericInstIndex
}

// MethodSpec names one (possibly doubly-) generic instantiation of a
// method: a closed class instantiation, a closed method instantiation, or
// both.
type MethodSpec struct {
	MethodDefinitionIndex MethodIndex
	ClassInstIndex        GenericInstIndex
	MethodInstIndex       GenericInstIndex
}

// DefaultValue names where in the default-value blob a field's or
// parameter's compile-time default lives.
type DefaultValue struct {
	// TypeIndex indexes into Types: the declared type of the constant,
	// needed to know how many bytes to read and how to render the literal.
	TypeIndex TypeIndex
	// DataIndex is a byte offset into GlobalMetadata.DefaultValueBlob, or
	// -1 if the default is the type's zero value with no blob entry.
	DataIndex int32
}

// TypeDefinitionSizes is one entry of the native image's optional
// type-definition-sizes table.
type TypeDefinitionSizes struct {
	InstanceSize          uint32
	NativeSize            uint32
	StaticFieldsSize      uint32
	ThreadStaticFieldsSize uint32
}
