package metadata

// Flag bit masks, named and commented in the same style as the teacher's
// COM+ header flag constants in dotnet.go (COMImageFlagsType and friends):
// one named constant per bit/field, grouped by the table the bits belong
// to, annotated with the attribute name a .NET compiler would show.

// Method attribute bits (System.Reflection.MethodAttributes subset this
// generator cares about).
const (
	MethodAttrMemberAccessMask uint32 = 0x7
	MethodAttrPublic           uint32 = 0x6
	MethodAttrStatic           uint32 = 0x10
	MethodAttrFinal            uint32 = 0x20
	MethodAttrVirtual          uint32 = 0x40
	MethodAttrHideBySig        uint32 = 0x80
	MethodAttrAbstract         uint32 = 0x400
	MethodAttrSpecialName      uint32 = 0x800
)

// Parameter attribute bits (System.Reflection.ParameterAttributes subset).
const (
	ParamAttrIn       uint32 = 0x1
	ParamAttrOut      uint32 = 0x2
	ParamAttrOptional uint32 = 0x10
)

// Type-definition attribute bits (System.Reflection.TypeAttributes subset).
const (
	TypeAttrNestedPublic   uint32 = 0x2
	TypeAttrExplicitLayout uint32 = 0x10
	TypeAttrInterface      uint32 = 0x20
)

// Field attribute bits (System.Reflection.FieldAttributes subset).
const (
	FieldAttrMemberAccessMask uint32 = 0x7
	FieldAttrPublic           uint32 = 0x6
	FieldAttrStatic           uint32 = 0x10
	FieldAttrLiteral          uint32 = 0x40
)

// TypeDefinition.Bitfield layout: bit 0 is value-type, bit 1 is enum-type,
// and the packing-size directive (a power-of-two nibble, see the layout
// package) sits at PackingBitOffset, PackingBitWidth bits wide.
const (
	BitfieldValueType uint32 = 0x1
	BitfieldEnumType  uint32 = 0x2

	PackingBitOffset = 2
	PackingBitWidth  = 4
)

// Packing returns the raw packing nibble encoded in a TypeDefinition's
// Bitfield, or 0 if no explicit packing directive is present (the
// "unset/default" value the layout engine treats as "use natural
// alignment").
func Packing(t TypeDefinition) uint8 {
	mask := uint32((1 << PackingBitWidth) - 1)
	return uint8((t.Bitfield >> PackingBitOffset) & mask)
}
