// Package layout is the field-layout engine (spec.md §4.D): a faithful Go
// port of the original's FieldLayout::LayoutFields recursion
// (original_source/src/generate/offsets.rs), computing the size, alignment,
// and per-field offsets of any type definition or generic instantiation the
// same way the il2cpp runtime itself would lay it out.
package layout

import (
	"fmt"
	"math"

	"github.com/sc2ad/cordl/metadata"
)

// noInstanceFieldsMinimum is IL2CPP_SIZEOF_STRUCT_WITH_NO_INSTANCE_FIELDS.
const noInstanceFieldsMinimum = 1

// Result is the field-layout engine's output: the rounded instance size,
// the unrounded "actual" size, the alignment, and the natural alignment.
// Size and ActualSize always include the object header, value types and
// enums included; SizeOfType and the value-type/generic-inst field walk
// subtract it once for value and enum types.
type Result struct {
	Size             uint64
	ActualSize       uint64
	Alignment        uint8
	NaturalAlignment uint8
}

// Engine computes field layouts against one metadata facade.
type Engine struct {
	Facade *metadata.Facade
}

// New returns a layout Engine over facade.
func New(facade *metadata.Facade) *Engine {
	return &Engine{Facade: facade}
}

// SizeOfType returns the runtime-visible instance size of tdi (genericArgs
// may be nil for a non-generic type), preferring the native image's
// type-definition-sizes table when present and nonzero, falling back to a
// full field walk otherwise — mirroring get_sizeof_type in offsets.rs. For
// value and enum types the object header is always subtracted from the
// result.
func (e *Engine) SizeOfType(tdi metadata.TypeDefinitionIndex, genericArgs []metadata.TypeIndex) (uint64, error) {
	td, err := e.Facade.Metadata.TypeDef(tdi)
	if err != nil {
		return 0, err
	}

	size := e.tableInstanceSize(tdi)
	if size == 0 && !td.IsInterface() {
		res, err := e.LayoutFields(tdi, genericArgs, nil)
		if err != nil {
			return 0, err
		}
		size = res.Size
	}

	if td.IsValueType() || td.IsEnumType() {
		base := uint64(e.Facade.BaseObjectSize())
		if size < base {
			return 0, fmt.Errorf("layout: computed instance size %d smaller than object header %d for tdi %d", size, base, tdi)
		}
		size -= base
		if size == 0 {
			return 0, fmt.Errorf("layout: instance size for value/enum type tdi %d is zero after header subtraction", tdi)
		}
	}
	return size, nil
}

func (e *Engine) tableInstanceSize(tdi metadata.TypeDefinitionIndex) uint64 {
	sizes := e.Facade.Image.TypeSizes
	if sizes == nil || int(tdi) >= len(sizes) {
		return 0
	}
	return uint64(sizes[tdi].InstanceSize)
}

// LayoutFields lays out every instance field of tdi in declaration order,
// recursing up the parent chain first. genericArgs substitutes the
// enclosing instantiation's class-level type arguments for any Var
// reference encountered among this type's own field types (nil for a
// non-generic type def). If fieldOffsets is non-nil, each instance field's
// computed offset is appended to it in declaration order. Callers that also
// need each field's byte size use LayoutFieldsWithSizes. This is the Go
// port of layout_fields_for_type.
func (e *Engine) LayoutFields(tdi metadata.TypeDefinitionIndex, genericArgs []metadata.TypeIndex, fieldOffsets *[]uint64) (Result, error) {
	return e.layoutFields(tdi, genericArgs, fieldOffsets, nil)
}

// LayoutFieldsWithSizes is LayoutFields plus a parallel fieldSizes out slice.
func (e *Engine) LayoutFieldsWithSizes(tdi metadata.TypeDefinitionIndex, genericArgs []metadata.TypeIndex, fieldOffsets, fieldSizes *[]uint64) (Result, error) {
	return e.layoutFields(tdi, genericArgs, fieldOffsets, fieldSizes)
}

func (e *Engine) layoutFields(tdi metadata.TypeDefinitionIndex, genericArgs []metadata.TypeIndex, fieldOffsets, fieldSizes *[]uint64) (Result, error) {
	td, err := e.Facade.Metadata.TypeDef(tdi)
	if err != nil {
		return Result{}, err
	}

	base := uint64(e.Facade.BaseObjectSize())

	var actualSize uint64
	var alignment, naturalAlignment uint8
	var instanceSize uint64

	if td.ParentIndex == metadata.NoIndex {
		actualSize = base
		naturalAlignment = uint8(base)
		alignment = uint8(e.pointerSize())
		instanceSize = base
	} else {
		parentTdi, parentGenerics, err := e.resolveParent(td.ParentIndex)
		if err != nil {
			return Result{}, err
		}
		parentRes, err := e.layoutFields(parentTdi, parentGenerics, nil, nil)
		if err != nil {
			return Result{}, err
		}
		actualSize = parentRes.ActualSize
		if td.IsValueType() {
			alignment = 1
		} else {
			alignment = parentRes.Alignment
		}
		naturalAlignment = parentRes.NaturalAlignment
		instanceSize = parentRes.Size
	}

	if td.FieldCount > 0 {
		packingRaw := metadata.Packing(*td)
		packing := uint32(packingRaw) * uint32(packingRaw)
		if packing > 128 {
			return Result{}, fmt.Errorf("layout: packing must be <= 128, got %d for tdi %d", packing, tdi)
		}

		for i := int32(0); i < td.FieldCount; i++ {
			fi := td.FieldStart + metadata.FieldIndex(i)
			fd, err := e.Facade.Metadata.Field(fi)
			if err != nil {
				return Result{}, err
			}
			fieldType, err := e.Facade.Metadata.TypeAt(fd.TypeIndex)
			if err != nil {
				return Result{}, err
			}
			if fieldType.IsStatic() || fieldType.IsLiteral() {
				continue
			}

			sa, err := e.typeSizeAndAlignment(fieldType, genericArgs)
			if err != nil {
				return Result{}, err
			}

			localAlignment := sa.Alignment
			if localAlignment < 4 && sa.NaturalAlignment != 0 {
				localAlignment = sa.NaturalAlignment
			}
			if packing != 0 {
				if uint32(sa.Alignment) < packing {
					localAlignment = sa.Alignment
				} else {
					localAlignment = uint8(packing)
				}
			}

			offset := alignTo(actualSize, uint64(localAlignment))

			if td.IsExplicitLayout() {
				if special, ok := e.specialOffset(tdi, int(i), td); ok {
					offset = special
				}
			}

			if fieldOffsets != nil {
				*fieldOffsets = append(*fieldOffsets, offset)
			}

			fieldSize := sa.Size
			if fieldSize < 1 {
				fieldSize = 1
			}
			if fieldSizes != nil {
				*fieldSizes = append(*fieldSizes, fieldSize)
			}
			actualSize = offset + fieldSize
			if localAlignment > alignment {
				alignment = localAlignment
			}
			if sa.Alignment > naturalAlignment {
				naturalAlignment = sa.Alignment
			}
		}

		instanceSize = alignTo(actualSize, uint64(alignment))
		if td.IsValueType() && instanceSize == base {
			instanceSize = noInstanceFieldsMinimum + base
			actualSize = noInstanceFieldsMinimum + base
		}
	}

	instanceSize = e.updateInstanceSizeForGenericClass(td, tdi, instanceSize)

	return Result{
		Size:             instanceSize,
		ActualSize:       actualSize,
		Alignment:        alignment,
		NaturalAlignment: naturalAlignment,
	}, nil
}

// specialOffset looks up an explicit-layout override for field i of tdi,
// subtracting the object header for value/enum types ("fixup for boxed
// value types" in the original).
func (e *Engine) specialOffset(tdi metadata.TypeDefinitionIndex, fieldPos int, td *metadata.TypeDefinition) (uint64, bool) {
	offsets := e.Facade.Metadata.FieldOffsets
	absoluteFieldIdx := int(td.FieldStart) + fieldPos
	if offsets == nil || absoluteFieldIdx >= len(offsets) {
		return 0, false
	}
	raw := offsets[absoluteFieldIdx]
	if raw < 0 {
		return 0, false
	}
	o := uint64(raw)
	if td.IsValueType() || td.IsEnumType() {
		base := uint64(e.Facade.BaseObjectSize())
		if o < base {
			return 0, false
		}
		o -= base
	}
	return o, true
}

// resolveParent follows a parent Type expression to its underlying
// definition index, returning the class-inst generic arguments when the
// parent is itself a closed generic instantiation.
func (e *Engine) resolveParent(parentTypeIdx metadata.TypeIndex) (metadata.TypeDefinitionIndex, []metadata.TypeIndex, error) {
	parentTy, err := e.Facade.Metadata.TypeAt(parentTypeIdx)
	if err != nil {
		return 0, nil, err
	}
	switch parentTy.Enum {
	case metadata.TypeClass, metadata.TypeValueType:
		return parentTy.Data.TypeDefIndex, nil, nil
	case metadata.TypeGenericInst:
		gc := e.Facade.Metadata.GenericClasses[parentTy.Data.GenericClassIndex]
		if gc.ClassInstIndex == -1 {
			return 0, nil, metadata.ErrNoGenericInst
		}
		inst, err := e.Facade.Metadata.GenericInstAt(gc.ClassInstIndex)
		if err != nil {
			return 0, nil, err
		}
		genericTy, err := e.Facade.Metadata.TypeAt(gc.TypeIndex)
		if err != nil {
			return 0, nil, err
		}
		return genericTy.Data.TypeDefIndex, inst.Types, nil
	default:
		return 0, nil, fmt.Errorf("layout: unsupported parent type expression kind %d", parentTy.Enum)
	}
}

func (e *Engine) updateInstanceSizeForGenericClass(td *metadata.TypeDefinition, tdi metadata.TypeDefinitionIndex, instanceSize uint64) uint64 {
	if !td.IsGeneric() {
		return instanceSize
	}
	tableSize := e.tableInstanceSize(tdi)
	if tableSize > 0 && tableSize > instanceSize {
		return tableSize
	}
	return instanceSize
}

// alignTo rounds size up to the next multiple of alignment (alignment must
// be a power of two), mirroring offsets.rs's align_to bit trick.
func alignTo(size, alignment uint64) uint64 {
	if alignment == 0 {
		return size
	}
	if size&(alignment-1) != 0 {
		return (size + alignment - 1) &^ (alignment - 1)
	}
	return size
}

// sizeAndAlignment is the internal per-type-expression result used while
// walking fields; it is distinct from Result because it additionally
// tracks "actual size" scratch state for value-type/generic-inst recursion,
// matching offsets.rs's own SizeAndAlignment struct.
type sizeAndAlignment struct {
	Size             uint64
	ActualSize       uint64
	Alignment        uint8
	NaturalAlignment uint8
}

const maxPointerAlignment = 8

func (e *Engine) pointerSize() uint64 { return uint64(e.Facade.Image.PointerSize) }

// typeSizeAndAlignment computes one field (or element) type expression's
// size/alignment, substituting genericArgs for any encountered Var
// reference — the Go port of get_type_size_and_alignment.
func (e *Engine) typeSizeAndAlignment(ty *metadata.Type, genericArgs []metadata.TypeIndex) (sizeAndAlignment, error) {
	ptr := e.pointerSize()

	if ty.Enum == metadata.TypeVar && genericArgs != nil {
		gp := e.Facade.Metadata.GenericParameters[ty.Data.GenericParamIndex]
		resultingIdx := genericArgs[gp.Num]
		resultingTy, err := e.Facade.Metadata.TypeAt(resultingIdx)
		if err != nil {
			return sizeAndAlignment{}, err
		}
		if resultingTy.Enum != metadata.TypeVar {
			return e.typeSizeAndAlignment(resultingTy, nil)
		}
		// Falls through to the partial-instantiation pointer-size default.
	}

	switch ty.Enum {
	case metadata.TypeI1, metadata.TypeU1, metadata.TypeBoolean:
		return sizeAndAlignment{Size: 1, ActualSize: 1, Alignment: 1}, nil
	case metadata.TypeI2, metadata.TypeU2, metadata.TypeChar:
		return sizeAndAlignment{Size: 2, ActualSize: 2, Alignment: 2}, nil
	case metadata.TypeI4, metadata.TypeU4:
		return sizeAndAlignment{Size: 4, ActualSize: 4, Alignment: 4}, nil
	case metadata.TypeI8, metadata.TypeU8, metadata.TypeI, metadata.TypeU:
		return sizeAndAlignment{Size: 8, ActualSize: 8, Alignment: 8}, nil
	case metadata.TypeR4:
		return sizeAndAlignment{Size: 4, ActualSize: 4, Alignment: 4}, nil
	case metadata.TypeR8:
		return sizeAndAlignment{Size: 8, ActualSize: 8, Alignment: 8}, nil
	case metadata.TypePtr, metadata.TypeFnPtr, metadata.TypeString, metadata.TypeSzArray,
		metadata.TypeArray, metadata.TypeClass, metadata.TypeObject, metadata.TypeMVar,
		metadata.TypeVar:
		return sizeAndAlignment{Size: ptr, ActualSize: ptr, Alignment: uint8(ptr)}, nil
	case metadata.TypeByRef:
		if !isValueTypeByRef(ty) {
			return sizeAndAlignment{Size: ptr, ActualSize: ptr, Alignment: uint8(ptr)}, nil
		}
	case metadata.TypeValueType:
		return e.valueTypeSizeAndAlignment(ty.Data.TypeDefIndex)
	case metadata.TypeGenericInst:
		return e.genericInstSizeAndAlignment(ty.Data.GenericClassIndex, genericArgs)
	}
	return sizeAndAlignment{}, fmt.Errorf("layout: unsupported type expression kind %d", ty.Enum)
}

// isValueTypeByRef is a placeholder hook: the original's by-ref handling
// keys off two independent Il2CppType flags (byref and valuetype); this
// port's Type record only carries the element-type distinction needed for
// field layout (by-ref fields always behave as pointer-sized here, the only
// case actually reachable from an instance field walk).
func isValueTypeByRef(ty *metadata.Type) bool { return false }

func (e *Engine) valueTypeSizeAndAlignment(tdi metadata.TypeDefinitionIndex) (sizeAndAlignment, error) {
	td, err := e.Facade.Metadata.TypeDef(tdi)
	if err != nil {
		return sizeAndAlignment{}, err
	}
	if td.IsEnumType() {
		enumBase, err := e.Facade.Metadata.TypeAt(td.ElementTypeIndex)
		if err != nil {
			return sizeAndAlignment{}, err
		}
		return e.typeSizeAndAlignment(enumBase, nil)
	}
	res, err := e.LayoutFields(tdi, nil, nil)
	if err != nil {
		return sizeAndAlignment{}, err
	}
	base := e.pointerSizeBase()
	return sizeAndAlignment{
		ActualSize:       res.ActualSize - base,
		Size:             res.Size - base,
		Alignment:        res.Alignment,
		NaturalAlignment: res.NaturalAlignment,
	}, nil
}

func (e *Engine) pointerSizeBase() uint64 { return uint64(e.Facade.BaseObjectSize()) }

func (e *Engine) genericInstSizeAndAlignment(gci metadata.GenericClassIndex, genericArgs []metadata.TypeIndex) (sizeAndAlignment, error) {
	gc := e.Facade.Metadata.GenericClasses[gci]
	if gc.ClassInstIndex == -1 {
		return sizeAndAlignment{}, metadata.ErrNoGenericInst
	}
	inst, err := e.Facade.Metadata.GenericInstAt(gc.ClassInstIndex)
	if err != nil {
		return sizeAndAlignment{}, err
	}
	genericTypeDef, err := e.Facade.Metadata.TypeAt(gc.TypeIndex)
	if err != nil {
		return sizeAndAlignment{}, err
	}
	tdi := genericTypeDef.Data.TypeDefIndex
	td, err := e.Facade.Metadata.TypeDef(tdi)
	if err != nil {
		return sizeAndAlignment{}, err
	}

	ptr := e.pointerSize()
	if !td.IsValueType() && !td.IsEnumType() {
		return sizeAndAlignment{Size: ptr, ActualSize: ptr, Alignment: uint8(ptr)}, nil
	}
	if td.IsEnumType() {
		enumBase, err := e.Facade.Metadata.TypeAt(td.ElementTypeIndex)
		if err != nil {
			return sizeAndAlignment{}, err
		}
		return e.typeSizeAndAlignment(enumBase, inst.Types)
	}

	// Redirect any Var among this instantiation's own arguments to the
	// enclosing instantiation's arguments (genericArgs), falling back to
	// the original index (a partial instantiation) when genericArgs is nil.
	substituted := make([]metadata.TypeIndex, len(inst.Types))
	for i, tIdx := range inst.Types {
		t, err := e.Facade.Metadata.TypeAt(tIdx)
		if err != nil {
			return sizeAndAlignment{}, err
		}
		if t.Enum == metadata.TypeVar && genericArgs != nil {
			gp := e.Facade.Metadata.GenericParameters[t.Data.GenericParamIndex]
			substituted[i] = genericArgs[gp.Num]
		} else {
			substituted[i] = tIdx
		}
	}

	res, err := e.LayoutFields(tdi, substituted, nil)
	if err != nil {
		return sizeAndAlignment{}, err
	}
	base := e.pointerSizeBase()
	return sizeAndAlignment{
		ActualSize: res.ActualSize - base,
		Size:       res.Size - base,
		Alignment:  res.Alignment,
	}, nil
}

// MaxInstanceSize is an upper bound used by callers that need a sentinel
// "could not determine" value without a dedicated error type, matching
// spec.md §4.C's "using max when the next pointer is zero" convention for
// method size estimation.
const MaxInstanceSize = math.MaxUint64
