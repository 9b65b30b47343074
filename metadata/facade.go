package metadata

import (
	"math"
	"sort"

	"github.com/sc2ad/cordl/golog"
)

// Facade is the read-only projection over GlobalMetadata/NativeImage that
// the rest of the generator consults (component C of spec.md §4). It never
// mutates its inputs and holds no handler callbacks itself — those live in
// the handlers package and the root cpptype package, which only ask this
// facade to resolve names and blacklist membership, keeping the dependency
// graph acyclic.
type Facade struct {
	Metadata *GlobalMetadata
	Image    *NativeImage

	// NameToTDI indexes TypeDefinitions by fully-qualified (namespace,name)
	// pair, built once at construction the same way the original's
	// Metadata.name_to_tdi map is built.
	NameToTDI map[Il2CppFullName]TypeDefinitionIndex

	// Blacklisted marks type definitions the generator must skip entirely
	// (spec.md's handler registry can blacklist a definition-index rather
	// than only rewriting it).
	Blacklisted map[TypeDefinitionIndex]bool

	// sortedMethodAddrs is built lazily by MethodEstimatedSize: every
	// distinct non-zero method pointer, ascending.
	sortedMethodAddrs []uint64

	log *golog.Helper
}

// Il2CppFullName is a namespace+name pair, used as the NameToTDI map key the
// same way the original keys its lookup table.
type Il2CppFullName struct {
	Namespace string
	Name      string
}

// NewFacade builds a Facade over the given metadata/image pair, indexing
// every type definition by fully-qualified name up front.
func NewFacade(md *GlobalMetadata, img *NativeImage, log *golog.Helper) *Facade {
	f := &Facade{
		Metadata:    md,
		Image:       img,
		NameToTDI:   make(map[Il2CppFullName]TypeDefinitionIndex, len(md.TypeDefinitions)),
		Blacklisted: make(map[TypeDefinitionIndex]bool),
		log:         log,
	}
	for i, td := range md.TypeDefinitions {
		key := Il2CppFullName{
			Namespace: md.String(td.NamespaceIndex),
			Name:      md.String(td.NameIndex),
		}
		f.NameToTDI[key] = TypeDefinitionIndex(i)
	}
	return f
}

// TDIByName looks up a type definition index by fully-qualified name,
// mirroring the original's metadata.name_to_tdi.get(...).expect(...) calls
// in the handler registration code, but returning ErrTypeDefNotFound
// instead of panicking — this is an input-error class lookup (the type may
// legitimately be absent from a stripped assembly), not a programmer error.
func (f *Facade) TDIByName(namespace, name string) (TypeDefinitionIndex, error) {
	tdi, ok := f.NameToTDI[Il2CppFullName{Namespace: namespace, Name: name}]
	if !ok {
		return 0, ErrTypeDefNotFound
	}
	return tdi, nil
}

// Blacklist marks tdi so the collection never creates a context for it.
func (f *Facade) Blacklist(tdi TypeDefinitionIndex) {
	f.Blacklisted[tdi] = true
}

// IsBlacklisted reports whether tdi was marked via Blacklist.
func (f *Facade) IsBlacklisted(tdi TypeDefinitionIndex) bool {
	return f.Blacklisted[tdi]
}

// BaseObjectSize returns the native header size every managed object
// carries before its first declared field: one vtable-class pointer plus
// the monitor/sync-block slot, both pointer-sized. Grounded on the
// original's Il2CppObject layout (two pointer-sized header fields) and
// exposed here because the layout engine needs it and has no other way to
// learn the platform pointer size.
func (f *Facade) BaseObjectSize() uint32 {
	return 2 * f.Image.PointerSize
}

// MethodEstimatedSize computes a method's estimated native code size as the
// distance to the next distinct method pointer in address order, treating a
// zero pointer (abstract/unresolved) specially: such a method has no code
// and no estimate. If mi has no successor, or the successor's address is 0,
// the estimate is math.MaxUint64 ("unknown/unbounded"), per spec.md §4.C.
func (f *Facade) MethodEstimatedSize(mi MethodIndex) (uint64, error) {
	method, err := f.Metadata.Method(mi)
	if err != nil {
		return 0, err
	}
	addr := method.MethodPointer
	if addr == 0 {
		return 0, nil
	}
	if f.sortedMethodAddrs == nil {
		f.buildSortedMethodAddrs()
	}
	addrs := f.sortedMethodAddrs
	pos := sort.Search(len(addrs), func(i int) bool { return addrs[i] >= addr })
	if pos >= len(addrs) || addrs[pos] != addr {
		return math.MaxUint64, nil
	}
	next := pos + 1
	for next < len(addrs) && addrs[next] == addr {
		next++
	}
	if next >= len(addrs) || addrs[next] == 0 {
		return math.MaxUint64, nil
	}
	return addrs[next] - addr, nil
}

func (f *Facade) buildSortedMethodAddrs() {
	seen := make(map[uint64]bool, len(f.Image.MethodPointers))
	addrs := make([]uint64, 0, len(f.Image.MethodPointers))
	for _, a := range f.Image.MethodPointers {
		if seen[a] {
			continue
		}
		seen[a] = true
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	f.sortedMethodAddrs = addrs
	if f.log != nil {
		f.log.Debugf("indexed %d distinct method addresses for size estimation", len(addrs))
	}
}

// FieldDefault resolves a field's default value, if it declared one.
func (f *Facade) FieldDefault(fi FieldIndex) (interface{}, bool, error) {
	return f.lookupDefault(f.Metadata.FieldDefaultValues, int32(fi))
}

// ParameterDefault resolves a parameter's default value, if it declared one.
func (f *Facade) ParameterDefault(pi ParameterIndex) (interface{}, bool, error) {
	return f.lookupDefault(f.Metadata.ParameterDefaultValues, int32(pi))
}

// lookupDefault is shared between FieldDefault and ParameterDefault:
// SPEC_FULL.md's supplemented-features section requires one decode path for
// both tables rather than duplicating the blob-reading logic.
func (f *Facade) lookupDefault(table []DefaultValue, ownerIdx int32) (interface{}, bool, error) {
	if ownerIdx < 0 || int(ownerIdx) >= len(table) {
		return nil, false, nil
	}
	dv := table[ownerIdx]
	typ, err := f.Metadata.TypeAt(dv.TypeIndex)
	if err != nil {
		return nil, false, err
	}
	kind := typ.Enum
	if unwrapped, ok := f.nullableUnderlyingKind(typ); ok {
		kind = unwrapped
	}
	val, err := decodeDefaultValue(f.Metadata.DefaultValueBlob, dv.DataIndex, kind)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// nullableUnderlyingKind implements spec.md §4.E/§9's Nullable<T> unwrap
// special case: a valuetype default value naming System.Nullable<T> is
// decoded as T's own default value, not as the Nullable wrapper itself.
func (f *Facade) nullableUnderlyingKind(typ *Type) (TypeEnum, bool) {
	if typ.Enum != TypeGenericInst {
		return 0, false
	}
	gc := f.Metadata.GenericClasses[typ.Data.GenericClassIndex]
	genericTy, err := f.Metadata.TypeAt(gc.TypeIndex)
	if err != nil || gc.ClassInstIndex == NoIndex {
		return 0, false
	}
	td, err := f.Metadata.TypeDef(genericTy.Data.TypeDefIndex)
	if err != nil {
		return 0, false
	}
	if f.Metadata.String(td.NamespaceIndex) != "System" || f.Metadata.String(td.NameIndex) != "Nullable`1" {
		return 0, false
	}
	inst, err := f.Metadata.GenericInstAt(gc.ClassInstIndex)
	if err != nil || len(inst.Types) == 0 {
		return 0, false
	}
	argTy, err := f.Metadata.TypeAt(inst.Types[0])
	if err != nil {
		return 0, false
	}
	return argTy.Enum, true
}
