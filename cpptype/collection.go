package cpptype

import (
	"fmt"

	"github.com/sc2ad/cordl/golog"
	"github.com/sc2ad/cordl/layout"
	"github.com/sc2ad/cordl/metadata"
)

// Collection is the arena (spec.md §3/§4.G): owns every context by its root
// tag, maps nested/generic-inst tags to their owning root, and enforces the
// three disjoint lifecycle state sets. A direct Go port of
// context_collection.rs's CppContextCollection, using map[Tag]bool sets in
// place of the original's HashSet<CppTypeTag>.
type Collection struct {
	Facade *metadata.Facade
	Layout *layout.Engine
	Mangle MangleOptions

	Handlers *HandlerRegistry

	contexts map[Tag]*Context
	aliases  map[Tag]Tag

	filling   map[Tag]bool
	filled    map[Tag]bool
	borrowing map[Tag]bool

	anomalies []string

	log *golog.Helper
}

// NewCollection builds an empty arena over facade.
func NewCollection(facade *metadata.Facade, mangleOpts MangleOptions, log *golog.Helper) *Collection {
	return &Collection{
		Facade:    facade,
		Layout:    layout.New(facade),
		Mangle:    mangleOpts,
		Handlers:  NewHandlerRegistry(),
		contexts:  make(map[Tag]*Context),
		aliases:   make(map[Tag]Tag),
		filling:   make(map[Tag]bool),
		filled:    make(map[Tag]bool),
		borrowing: make(map[Tag]bool),
		log:       log,
	}
}

// Anomalies returns every non-fatal diagnostic accumulated so far (spec.md
// §6's supplemented diagnostics collection, grounded on the teacher's
// pe.Anomalies field).
func (c *Collection) Anomalies() []string { return c.anomalies }

// recordAnomaly appends msg to the anomaly list and logs it at warn level.
func (c *Collection) recordAnomaly(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.anomalies = append(c.anomalies, msg)
	if c.log != nil {
		c.log.Warn(msg)
	}
}

// GetContextRootTag resolves tag to the tag of the context that owns it:
// tag itself if it is already a root, or its alias-map target otherwise.
func (c *Collection) GetContextRootTag(tag Tag) (Tag, bool) {
	if _, ok := c.contexts[tag]; ok {
		return tag, true
	}
	root, ok := c.aliases[tag]
	return root, ok
}

// GetContext returns the context owning tag, if any.
func (c *Collection) GetContext(tag Tag) (*Context, bool) {
	root, ok := c.GetContextRootTag(tag)
	if !ok {
		return nil, false
	}
	return c.contexts[root], true
}

// GetCppType returns the node for tag, if its context exists and holds it.
func (c *Collection) GetCppType(tag Tag) (*CppType, bool) {
	ctx, ok := c.GetContext(tag)
	if !ok {
		return nil, false
	}
	if node, ok := ctx.Types[tag]; ok {
		return node, true
	}
	// Nested types are only reachable through their parent's NestedTypes map.
	for _, top := range ctx.Types {
		if nested, ok := findNested(top, tag); ok {
			return nested, true
		}
	}
	return nil, false
}

func findNested(node *CppType, tag Tag) (*CppType, bool) {
	if nested, ok := node.NestedTypes[tag]; ok {
		return nested, true
	}
	for _, n := range node.NestedTypes {
		if found, ok := findNested(n, tag); ok {
			return found, true
		}
	}
	return nil, false
}

// MakeFrom creates (or returns the existing) context+node for a plain
// definition-index tag, the Go port of make_from. Creating the same
// context twice returns the same object, per spec.md §8's invariant.
func (c *Collection) MakeFrom(tdi metadata.TypeDefinitionIndex) (*CppType, error) {
	tag := DefinitionTag(tdi)
	if node, ok := c.GetCppType(tag); ok {
		return node, nil
	}
	if c.Facade.IsBlacklisted(tdi) {
		return nil, fmt.Errorf("%w: tdi %d", metadata.ErrBlacklistedType, tdi)
	}

	node, err := createCppType(c.Facade.Metadata, tdi, tag, c.Mangle)
	if err != nil {
		return nil, err
	}

	ctx := newContext(node)
	c.contexts[tag] = ctx

	c.invokeHandlers(tdi, node, HookAfterCreate)

	if err := c.aliasNestedTypes(node, tdi, tag); err != nil {
		return nil, err
	}

	return node, nil
}

// MakeGenericFrom creates (or returns the existing) node for a closed
// generic instantiation, the Go port of make_generic_from. The generic
// instantiation's context is aliased into its template definition's
// context — generic instantiations never get their own header/impl pair.
func (c *Collection) MakeGenericFrom(tdi metadata.TypeDefinitionIndex, gi metadata.GenericInstIndex) (*CppType, error) {
	tag := GenericInstantiationTag(tdi, gi)
	if node, ok := c.GetCppType(tag); ok {
		return node, nil
	}

	templateNode, err := c.MakeFrom(tdi)
	if err != nil {
		return nil, err
	}

	node, err := createCppType(c.Facade.Metadata, tdi, tag, c.Mangle)
	if err != nil {
		return nil, err
	}

	inst, err := c.Facade.Metadata.GenericInstAt(gi)
	if err != nil {
		return nil, err
	}
	generics := make([]string, len(inst.Types))
	for i, tIdx := range inst.Types {
		generics[i] = c.renderTypeIndexName(tIdx)
	}
	node.Name = node.Name.WithGenerics(generics)

	root, _ := c.GetContextRootTag(templateNode.Tag)
	ctx := c.contexts[root]
	ctx.AddTopLevelType(node)
	c.aliases[tag] = root

	c.invokeHandlers(tdi, node, HookAfterCreate)

	return node, nil
}

func (c *Collection) renderTypeIndexName(idx metadata.TypeIndex) string {
	ty, err := c.Facade.Metadata.TypeAt(idx)
	if err != nil {
		return "/* unresolved */ void"
	}
	switch ty.Enum {
	case metadata.TypeClass, metadata.TypeValueType:
		node, err := c.MakeFrom(ty.Data.TypeDefIndex)
		if err != nil {
			c.recordAnomaly("could not resolve generic argument type: %v", err)
			return "/* unresolved */ void"
		}
		return node.Name.Combined()
	case metadata.TypeI4, metadata.TypeU4:
		return "int32_t"
	case metadata.TypeI8, metadata.TypeU8:
		return "int64_t"
	case metadata.TypeString:
		return "Il2CppString*"
	default:
		return "void*"
	}
}

// aliasNestedTypes materializes every nested-type definition of tdi as a
// child node inside parent, recursively, and records each one's alias
// entry pointing at rootTag — the Go port of alias_nested_types.
func (c *Collection) aliasNestedTypes(parent *CppType, tdi metadata.TypeDefinitionIndex, rootTag Tag) error {
	for i, td := range c.Facade.Metadata.TypeDefinitions {
		if !td.IsNested() || td.DeclaringTypeIndex != tdi {
			continue
		}
		nestedTdi := metadata.TypeDefinitionIndex(i)
		nestedTag := DefinitionTag(nestedTdi)

		nested, err := createCppType(c.Facade.Metadata, nestedTdi, nestedTag, c.Mangle)
		if err != nil {
			c.recordAnomaly("skipping unresolvable nested type tdi %d: %v", nestedTdi, err)
			continue
		}
		parent.NestedTypes[nestedTag] = nested
		c.aliases[nestedTag] = rootTag

		c.invokeHandlers(nestedTdi, nested, HookAfterCreate)

		if err := c.aliasNestedTypes(nested, nestedTdi, rootTag); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) invokeHandlers(tdi metadata.TypeDefinitionIndex, node *CppType, hook Hook) {
	namespace, name, err := lookupNamespaceName(c.Facade.Metadata, tdi)
	if err != nil {
		return
	}
	c.Handlers.invoke(namespace, name, node, hook)
}

// FillCppType fills the node named by tag: resolves parent/interfaces
// (creating further contexts as needed), lays out fields, and translates
// properties and methods, exactly once. A second call is a no-op, per
// spec.md §8's idempotency invariant. Re-entrant fill of a tag already in
// the `filling` set is a programmer error.
func (c *Collection) FillCppType(tag Tag) error {
	if c.filled[tag] {
		return nil
	}
	if c.filling[tag] {
		return fmt.Errorf("%w: tag %v", ErrRecursiveFill, tag)
	}
	root, ok := c.GetContextRootTag(tag)
	if !ok {
		return fmt.Errorf("%w: tag %v", ErrContextNotFound, tag)
	}
	if c.borrowing[root] {
		return fmt.Errorf("%w: tag %v", ErrAlreadyBorrowing, tag)
	}

	node, ok := c.GetCppType(tag)
	if !ok {
		return fmt.Errorf("%w: tag %v", ErrContextNotFound, tag)
	}

	c.filling[tag] = true
	defer delete(c.filling, tag)

	if err := c.fill(node, tag); err != nil {
		return err
	}

	node.markFilled()
	c.filled[tag] = true

	c.invokeHandlers(node.DefinitionIndex, node, HookAfterFill)

	return nil
}

// fill performs the actual member translation. Member-level detail (field
// classification/emission, property/method declarations) is implemented in
// fill_members.go; this function owns only the parent/interface resolution
// step shared by every node.
func (c *Collection) fill(node *CppType, tag Tag) error {
	td, err := c.Facade.Metadata.TypeDef(node.DefinitionIndex)
	if err != nil {
		return err
	}

	if td.ParentIndex != metadata.NoIndex {
		ref, err := c.resolveTypeRef(td.ParentIndex, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnresolvableParent, err)
		}
		node.Parent = ref
	}
	for _, ifaceIdx := range td.InterfaceTypeIndices {
		ref, err := c.resolveTypeRef(ifaceIdx, nil)
		if err != nil {
			c.recordAnomaly("could not resolve interface of tdi %d: %v", node.DefinitionIndex, err)
			continue
		}
		node.Interfaces = append(node.Interfaces, *ref)
	}

	return c.fillMembers(node, tag)
}

// resolveTypeRef resolves a Type expression (parent/interface/field/
// parameter position) to an InterfaceRef, creating whatever context is
// needed along the way — the Go port of the type-node's "name resolution"
// step in spec.md §4.E for the class/value-type/generic-inst cases.
func (c *Collection) resolveTypeRef(idx metadata.TypeIndex, genericArgs []metadata.TypeIndex) (*InterfaceRef, error) {
	ty, err := c.Facade.Metadata.TypeAt(idx)
	if err != nil {
		return nil, err
	}
	switch ty.Enum {
	case metadata.TypeClass, metadata.TypeValueType:
		node, err := c.MakeFrom(ty.Data.TypeDefIndex)
		if err != nil {
			return nil, err
		}
		return &InterfaceRef{Name: node.Name, Tag: node.Tag}, nil
	case metadata.TypeGenericInst:
		gc := c.Facade.Metadata.GenericClasses[ty.Data.GenericClassIndex]
		genericTy, err := c.Facade.Metadata.TypeAt(gc.TypeIndex)
		if err != nil {
			return nil, err
		}
		if gc.ClassInstIndex == metadata.NoIndex {
			return nil, metadata.ErrNoGenericInst
		}
		node, err := c.MakeGenericFrom(genericTy.Data.TypeDefIndex, gc.ClassInstIndex)
		if err != nil {
			return nil, err
		}
		return &InterfaceRef{Name: node.Name, Tag: node.Tag}, nil
	default:
		return nil, fmt.Errorf("cpptype: unsupported type reference kind %d", ty.Enum)
	}
}

// Borrow marks tag's root context as borrowing and hands the node to fn in
// place; the node is not removed from or reinserted into its context, so a
// tag change made by fn does not re-key it. A second Borrow of the same
// root context while fn runs returns ErrRecursiveBorrow.
func (c *Collection) Borrow(tag Tag, fn func(*CppType) error) error {
	root, ok := c.GetContextRootTag(tag)
	if !ok {
		return fmt.Errorf("%w: tag %v", ErrContextNotFound, tag)
	}
	if c.borrowing[root] {
		return fmt.Errorf("%w: tag %v", ErrRecursiveBorrow, tag)
	}
	node, ok := c.GetCppType(tag)
	if !ok {
		return fmt.Errorf("%w: tag %v", ErrContextNotFound, tag)
	}

	c.borrowing[root] = true
	defer delete(c.borrowing, root)

	return fn(node)
}

// AllContexts returns every context in the arena, for the final write pass.
func (c *Collection) AllContexts() map[Tag]*Context { return c.contexts }
