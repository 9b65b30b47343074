package cpptype

import "github.com/sc2ad/cordl/metadata"

// Hook names the two well-defined points spec.md §9 and §4.H describe a
// handler may observe: right after a node is created, and again after it
// has been filled.
type Hook uint8

const (
	HookAfterCreate Hook = iota
	HookAfterFill
)

// HandlerFunc observes and mutates one node at a given lifecycle hook. The
// concrete well-known-type handlers (System.Object, System.ValueType/Enum)
// live in the handlers package, which imports this type; this package never
// imports handlers, keeping the dependency graph acyclic.
type HandlerFunc func(node *CppType, hook Hook)

// HandlerKey is the (namespace, name) pair a handler is registered against.
type HandlerKey struct {
	Namespace string
	Name      string
}

// HandlerRegistry is the callback table component H describes: a plain map
// from (namespace, name) to callback, invoked by the collection at both
// hook points whenever it creates or fills a node for that definition.
type HandlerRegistry struct {
	handlers map[HandlerKey]HandlerFunc
}

// NewHandlerRegistry returns an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[HandlerKey]HandlerFunc)}
}

// Register installs fn for (namespace, name), overwriting any previous
// registration — matching the original's plain HashMap::insert semantics.
func (r *HandlerRegistry) Register(namespace, name string, fn HandlerFunc) {
	r.handlers[HandlerKey{Namespace: namespace, Name: name}] = fn
}

// invoke runs the registered handler for (namespace, name) at hook, if any.
func (r *HandlerRegistry) invoke(namespace, name string, node *CppType, hook Hook) {
	fn, ok := r.handlers[HandlerKey{Namespace: namespace, Name: name}]
	if !ok {
		return
	}
	fn(node, hook)
}

// lookupNamespaceName resolves the raw (namespace, name) strings for tdi,
// the key a handler was registered under (pre-mangling, matching the
// original's metadata.name_to_tdi construction from raw string-heap
// values).
func lookupNamespaceName(md *metadata.GlobalMetadata, tdi metadata.TypeDefinitionIndex) (string, string, error) {
	td, err := md.TypeDef(tdi)
	if err != nil {
		return "", "", err
	}
	return md.String(td.NamespaceIndex), md.String(td.NameIndex), nil
}
