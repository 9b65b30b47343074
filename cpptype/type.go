package cpptype

import (
	"fmt"

	"github.com/sc2ad/cordl/mangle"
	"github.com/sc2ad/cordl/metadata"
	"github.com/sc2ad/cordl/names"
	"github.com/sc2ad/cordl/writer"
)

// InterfaceRef names one resolved parent or implemented-interface
// reference: the rendered name plus the tag that produced it, per spec.md
// §3's type-node attribute list.
type InterfaceRef struct {
	Name names.Components
	Tag  Tag
}

// Requirements is the set of includes/forward-declares one node or context
// needs, per spec.md §3.
type Requirements struct {
	DeclarationIncludes     map[string]bool
	ImplementationIncludes  map[string]bool
	ForwardDeclares         map[string]bool
}

func newRequirements() Requirements {
	return Requirements{
		DeclarationIncludes:    make(map[string]bool),
		ImplementationIncludes: make(map[string]bool),
		ForwardDeclares:        make(map[string]bool),
	}
}

// AddDeclarationInclude records that this node's declaration needs a full
// #include of headerPath.
func (r *Requirements) AddDeclarationInclude(headerPath string) {
	if r.DeclarationIncludes == nil {
		r.DeclarationIncludes = make(map[string]bool)
	}
	r.DeclarationIncludes[headerPath] = true
}

// AddImplementationInclude records that this node's implementation needs a
// full #include of headerPath.
func (r *Requirements) AddImplementationInclude(headerPath string) {
	r.ImplementationIncludes[headerPath] = true
}

// AddForwardDeclare records the forward-declared name forwardDecl in
// ForwardDeclares. No header path is stored with it, and the write path
// does not read ForwardDeclares, so nothing is emitted from it.
func (r *Requirements) AddForwardDeclare(forwardDecl string) { r.ForwardDeclares[forwardDecl] = true }

// CppType is one in-memory translation of a managed type (spec.md §3's
// "type node"): identity, rendered name, structure, and member lists.
type CppType struct {
	Tag                Tag
	DefinitionIndex    metadata.TypeDefinitionIndex
	IsValueType        bool
	IsEnumType         bool
	IsInterface        bool

	Name names.Components

	// TemplateParams is empty for a non-generic type.
	TemplateParams []string
	// TemplateConstraints maps a template parameter name to its rendered
	// constraint type names (spec.md §6 supplemented feature).
	TemplateConstraints map[string][]string

	Parent     *InterfaceRef
	Interfaces []InterfaceRef

	Declarations    []writer.Declaration
	Implementations []writer.Declaration

	Requirements Requirements

	// NestedTypes is keyed by tag, per spec.md §3's child map.
	NestedTypes map[Tag]*CppType

	filled bool
}

// IsPointer reports the "is pointer" flag spec.md §4.E defines:
// `!value && !enum || kind==class`. For a bare type node outside a generic
// field-substitution context, a reference type (class, not a value or enum
// type) always renders as a pointer.
func (c *CppType) IsPointer() bool {
	return (!c.IsValueType && !c.IsEnumType) || !c.IsValueType
}

// Filled reports whether Fill has already completed for this node.
func (c *CppType) Filled() bool { return c.filled }

// markFilled is called exactly once by Fill on success.
func (c *CppType) markFilled() { c.filled = true }

// createCppType builds an unfilled node for tdi: rendered namespace/name,
// value/enum/interface flags, template parameter names from the generic
// container (if any), and the is-pointer flag. Refuses (returns an error)
// when the type has no parent and is not an interface, per spec.md §4.E.
func createCppType(md *metadata.GlobalMetadata, tdi metadata.TypeDefinitionIndex, tag Tag, mangleOpts MangleOptions) (*CppType, error) {
	td, err := md.TypeDef(tdi)
	if err != nil {
		return nil, err
	}
	if td.ParentIndex == metadata.NoIndex && !td.IsInterface() {
		return nil, fmt.Errorf("%w: tdi %d", ErrNoParentAndNotInterface, tdi)
	}

	namespace := mangle.NamespaceToCpp(md.String(td.NamespaceIndex))
	namespace = mangle.ScopeRoot(namespace, mangleOpts.PrefixScopeRoot)
	name := mangle.Identifier(md.String(td.NameIndex))

	var templateParams []string
	var constraints map[string][]string
	if td.IsGeneric() {
		gc := md.GenericContainers[td.GenericContainerIndex]
		templateParams = make([]string, 0, gc.ParameterCount)
		constraints = make(map[string][]string)
		for i := int32(0); i < gc.ParameterCount; i++ {
			gp := md.GenericParameters[int32(gc.ParameterStart)+i]
			pname := mangle.Identifier(md.String(gp.NameIndex))
			templateParams = append(templateParams, pname)
			for c := int32(0); c < gp.ConstraintCount; c++ {
				constraint := md.GenericParameterConstraints[gp.ConstraintStart+c]
				constraintTy, err := md.TypeAt(constraint.ConstraintTypeIndex)
				if err != nil {
					continue
				}
				if constraintTy.Enum == metadata.TypeClass || constraintTy.Enum == metadata.TypeValueType {
					constraintTd, err := md.TypeDef(constraintTy.Data.TypeDefIndex)
					if err == nil {
						constraints[pname] = append(constraints[pname], mangle.Identifier(md.String(constraintTd.NameIndex)))
					}
				}
			}
		}
	}

	node := &CppType{
		Tag:                 tag,
		DefinitionIndex:     tdi,
		IsValueType:         td.IsValueType(),
		IsEnumType:          td.IsEnumType(),
		IsInterface:         td.IsInterface(),
		Name:                names.Components{Namespace: namespace, Name: name},
		TemplateParams:      templateParams,
		TemplateConstraints: constraints,
		Requirements:        newRequirements(),
		NestedTypes:         make(map[Tag]*CppType),
	}
	node.Name.IsPointer = node.IsPointer()
	return node, nil
}

// MangleOptions bundles the per-call mangling configuration the type node
// needs when rendering its own name (spec.md §4.A's `::`-scope-root flag).
type MangleOptions struct {
	PrefixScopeRoot bool
}
