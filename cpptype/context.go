package cpptype

import (
	"fmt"

	"github.com/sc2ad/cordl/mangle"
)

// Context is one emission unit (spec.md §3): the root type plus every node
// held at the top level (nested types live only inside their parent's
// NestedTypes map, never duplicated here).
type Context struct {
	RootTag Tag

	HeaderPath          string
	ImplementationPath  string
	FundamentalInclude  string

	Types map[Tag]*CppType

	DeclarationIncludes    map[string]bool
	ImplementationIncludes map[string]bool
}

// newContext derives a context's file paths from its root node's namespace
// and mangled name, the way the original's CppContext::make derives
// `typedef_path`/`type_impl_path`/`fundamental_path` from the root tag:
// `<namespace-path>/__<mangled-name>_def.hpp`, `..._impl.hpp`, and a bare
// `<namespace-path>/<mangled-name>.hpp` fundamental include (spec.md §4.F, §6).
func newContext(root *CppType) *Context {
	nsPath := mangle.NamespaceToPath(stripScopeRoot(root.Name.Namespace))
	fileName := mangle.PathComponent(root.Name.Name)

	ctx := &Context{
		RootTag:                root.Tag,
		HeaderPath:             nsPath + "/__" + fileName + "_def.hpp",
		ImplementationPath:     nsPath + "/__" + fileName + "_impl.hpp",
		FundamentalInclude:     nsPath + "/" + fileName + ".hpp",
		Types:                  map[Tag]*CppType{root.Tag: root},
		DeclarationIncludes:    make(map[string]bool),
		ImplementationIncludes: make(map[string]bool),
	}
	return ctx
}

func stripScopeRoot(ns string) string {
	if len(ns) >= 2 && ns[:2] == "::" {
		return ns[2:]
	}
	return ns
}

// RootType returns this context's top-level type node.
func (c *Context) RootType() *CppType { return c.Types[c.RootTag] }

// AddDeclarationInclude records that the context's header needs a full
// #include of headerPath.
func (c *Context) AddDeclarationInclude(headerPath string) { c.DeclarationIncludes[headerPath] = true }

// AddImplementationInclude records that the context's impl file needs a
// full #include of headerPath.
func (c *Context) AddImplementationInclude(headerPath string) {
	c.ImplementationIncludes[headerPath] = true
}

// AddTopLevelType registers node (a generic instantiation node) at the
// context's top level.
func (c *Context) AddTopLevelType(node *CppType) {
	c.Types[node.Tag] = node
}

// String renders a short diagnostic identity, matching the teacher's
// terse %v-friendly structs rather than a verbose Stringer.
func (c *Context) String() string {
	return fmt.Sprintf("Context{root=%v, header=%s}", c.RootTag, c.HeaderPath)
}
