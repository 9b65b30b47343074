package metadata

import (
	"encoding/binary"
	"errors"
	"math"
)

// GlobalMetadata is the fully decoded global-metadata blob (Input 1):
// every table this package projects over, plus the raw string and
// default-value heaps. An external reader is expected to populate this
// struct; nothing in this package parses bytes off disk, mirroring the
// separation the teacher keeps between dotnet.go's table parsing and the
// plain struct shapes in dotnet_metadata_tables.go.
type GlobalMetadata struct {
	TypeDefinitions             []TypeDefinition
	Types                       []Type
	Fields                      []FieldDefinition
	Methods                     []MethodDefinition
	Parameters                  []ParameterDefinition
	Properties                  []PropertyDefinition
	GenericContainers           []GenericContainer
	GenericParameters           []GenericParameter
	GenericParameterConstraints []GenericParameterConstraint
	GenericInsts                []GenericInst
	GenericClasses              []GenericClass
	MethodSpecs                 []MethodSpec

	FieldDefaultValues      []DefaultValue
	ParameterDefaultValues  []DefaultValue
	DefaultValueBlob        []byte
	FieldOffsets            []int32

	// StringHeap is the NUL-terminated UTF-8 string pool every NameIndex
	// offsets into.
	StringHeap []byte
}

// String decodes the NUL-terminated name at the given byte offset into the
// string heap, the same little-endian byte-at-a-time scan the teacher's
// getStringAtOffset in helper.go performs over its metadata stream.
func (g *GlobalMetadata) String(offset uint32) string {
	if int(offset) >= len(g.StringHeap) {
		return ""
	}
	end := offset
	for int(end) < len(g.StringHeap) && g.StringHeap[end] != 0 {
		end++
	}
	return string(g.StringHeap[offset:end])
}

// TypeDef looks up a type definition by index.
func (g *GlobalMetadata) TypeDef(idx TypeDefinitionIndex) (*TypeDefinition, error) {
	if idx < 0 || int(idx) >= len(g.TypeDefinitions) {
		return nil, ErrTypeDefNotFound
	}
	return &g.TypeDefinitions[idx], nil
}

// TypeAt looks up a type expression by index.
func (g *GlobalMetadata) TypeAt(idx TypeIndex) (*Type, error) {
	if idx < 0 || int(idx) >= len(g.Types) {
		return nil, ErrTypeNotFound
	}
	return &g.Types[idx], nil
}

// Method looks up a method definition by index.
func (g *GlobalMetadata) Method(idx MethodIndex) (*MethodDefinition, error) {
	if idx < 0 || int(idx) >= len(g.Methods) {
		return nil, ErrMethodNotFound
	}
	return &g.Methods[idx], nil
}

// Field looks up a field definition by index.
func (g *GlobalMetadata) Field(idx FieldIndex) (*FieldDefinition, error) {
	if idx < 0 || int(idx) >= len(g.Fields) {
		return nil, ErrFieldNotFound
	}
	return &g.Fields[idx], nil
}

// GenericInstAt looks up a generic instantiation's substitution list.
func (g *GlobalMetadata) GenericInstAt(idx GenericInstIndex) (*GenericInst, error) {
	if idx < 0 || int(idx) >= len(g.GenericInsts) {
		return nil, ErrTypeNotFound
	}
	return &g.GenericInsts[idx], nil
}

// NativeImage is the companion compiled-code artifact (Input 2): the
// resolved method pointer table and, if present, the optional
// type-definition-sizes side table emitted by some il2cpp builds.
type NativeImage struct {
	// MethodPointers is indexed the same way Methods is: MethodPointers[i]
	// is the native address of Methods[i], 0 if unresolved.
	MethodPointers []uint64

	// TypeSizes is optional (nil when the image omits it); when present it
	// is indexed the same way TypeDefinitions is.
	TypeSizes []TypeDefinitionSizes

	// PointerSize is the target architecture's native pointer width in
	// bytes (4 or 8). The layout engine's native-int handling is fixed at
	// 8 regardless, per spec.md §9's resolved Open Question, but struct
	// pointer fields still use this value.
	PointerSize uint32
}

// ErrTruncatedDefaultValue is returned by decodeDefaultValue when the blob
// doesn't contain enough bytes for the type being decoded.
var ErrTruncatedDefaultValue = errors.New("metadata: truncated default value blob")

// decodeDefaultValue reads one constant literal out of blob at the given
// byte offset, sized and interpreted according to kind. Shared by both the
// field default-value table and the parameter default-value table, as
// SPEC_FULL.md's supplemented-features section requires, grounded on the
// teacher's little-endian fixed-width reads in helper.go.
func decodeDefaultValue(blob []byte, offset int32, kind TypeEnum) (interface{}, error) {
	if offset < 0 {
		return zeroValueFor(kind), nil
	}
	off := int(offset)
	need := func(n int) ([]byte, error) {
		if off+n > len(blob) {
			return nil, ErrTruncatedDefaultValue
		}
		return blob[off : off+n], nil
	}
	switch kind {
	case TypeBoolean, TypeI1, TypeU1:
		b, err := need(1)
		if err != nil {
			return nil, err
		}
		return b[0], nil
	case TypeChar, TypeI2, TypeU2:
		b, err := need(2)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint16(b), nil
	case TypeI4, TypeU4:
		b, err := need(4)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint32(b), nil
	case TypeI8, TypeU8:
		b, err := need(8)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint64(b), nil
	case TypeR4:
		b, err := need(4)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case TypeR8:
		b, err := need(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	case TypeString:
		length, err := need(4)
		if err != nil {
			return nil, err
		}
		n := int(binary.LittleEndian.Uint32(length))
		data, err := func() ([]byte, error) {
			if off+4+n > len(blob) {
				return nil, ErrTruncatedDefaultValue
			}
			return blob[off+4 : off+4+n], nil
		}()
		if err != nil {
			return nil, err
		}
		return decodeUTF16LE(data), nil
	default:
		return nil, nil
	}
}

func zeroValueFor(kind TypeEnum) interface{} {
	switch kind {
	case TypeR4, TypeR8:
		return 0.0
	case TypeString, TypeClass, TypeSzArray, TypeArray:
		return nil
	default:
		return uint64(0)
	}
}
