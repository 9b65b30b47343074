// Package handlers holds the concrete well-known-type callbacks (spec.md
// §4.H / §9's "handler plug-ins"): System.Object and System.ValueType/Enum.
// No UnityEngine.Object handler exists. Each is grounded on the matching file under
// original_source/src/handlers/ (object.rs, value_type.rs). This package
// imports cpptype to get at cpptype.HandlerFunc/CppType; cpptype never
// imports this package, so registering a handler is always the caller's
// (the orchestrator's) job — see RegisterAll.
package handlers

import (
	"github.com/sc2ad/cordl/cpptype"
	"github.com/sc2ad/cordl/golog"
	"github.com/sc2ad/cordl/metadata"
	"github.com/sc2ad/cordl/names"
	"github.com/sc2ad/cordl/writer"
)

// ObjectWrapperType is the base class every translated managed reference
// type ultimately inherits from in the emitted C++, matching the original's
// OBJECT_WRAPPER_TYPE constant.
const ObjectWrapperType = "Il2CppWrapperType"

// RegisterAll installs every built-in handler against registry, resolving
// each well-known type's definition index through facade. A definition
// absent from this metadata (e.g. a stripped assembly) is skipped with a
// log line rather than failing generation — registering handlers is a
// best-effort enrichment step, not a required one.
func RegisterAll(registry *cpptype.HandlerRegistry, facade *metadata.Facade, log *golog.Helper) {
	registerObjectHandler(registry, facade, log)
	registerValueTypeHandler(registry, facade, log)
}

func registerObjectHandler(registry *cpptype.HandlerRegistry, facade *metadata.Facade, log *golog.Helper) {
	if _, err := facade.TDIByName("System", "Object"); err != nil {
		if log != nil {
			log.Warnf("System.Object not found in metadata, skipping object handler: %v", err)
		}
		return
	}
	registry.Register("System", "Object", systemObjectHandler)
}

// systemObjectHandler rewrites System.Object's node to inherit from the
// fixed object-wrapper base instead of whatever the metadata's own parent
// chain would otherwise resolve to, and redirects every constructor's base
// call to the wrapper type — the Go port of object.rs's
// system_object_handler. The original runs this after the node's
// declarations/implementations are populated (it rewrites already-built
// ConstructorDecl/ConstructorImpl entries), so this must fire at
// HookAfterFill, not HookAfterCreate — at creation time Declarations and
// Implementations are still nil.
func systemObjectHandler(node *cpptype.CppType, hook cpptype.Hook) {
	if hook != cpptype.HookAfterFill {
		return
	}
	node.Parent = &cpptype.InterfaceRef{Name: names.Components{Name: ObjectWrapperType}}
	node.Requirements.AddDeclarationInclude(ObjectWrapperType + ".hpp")

	for i, d := range node.Declarations {
		if ctor, ok := d.(writer.Constructor); ok {
			ctor.OwnerType = ObjectWrapperType
			node.Declarations[i] = ctor
		}
	}
	for i, d := range node.Implementations {
		if ctor, ok := d.(writer.ConstructorImpl); ok {
			ctor.BaseCtor = ObjectWrapperType + "()"
			node.Implementations[i] = ctor
		}
	}
}

func registerValueTypeHandler(registry *cpptype.HandlerRegistry, facade *metadata.Facade, log *golog.Helper) {
	namesToRegister := []string{"ValueType", "Enum"}
	for _, name := range namesToRegister {
		if _, err := facade.TDIByName("System", name); err != nil {
			if log != nil {
				log.Warnf("System.%s not found in metadata, skipping value-type handler: %v", name, err)
			}
			continue
		}
		registry.Register("System", name, valueTypeHandler)
	}
}

// valueTypeHandler strips the inherited wrapper chain from System.ValueType
// / System.Enum (these must not carry a C++ base at all, since every value
// type embeds its layout inline), drops every constructor implementation,
// and resets each constructor declaration to a parameterless one — the Go port
// of value_type.rs's value_type_handler. Like systemObjectHandler, this
// rewrites already-built constructor declarations/implementations, so it
// must run at HookAfterFill.
func valueTypeHandler(node *cpptype.CppType, hook cpptype.Hook) {
	if hook != cpptype.HookAfterFill {
		return
	}
	node.Parent = nil

	kept := node.Implementations[:0]
	for _, d := range node.Implementations {
		if _, ok := d.(writer.ConstructorImpl); ok {
			continue
		}
		kept = append(kept, d)
	}
	node.Implementations = kept

	for i, d := range node.Declarations {
		if _, ok := d.(writer.Constructor); ok {
			node.Declarations[i] = writer.Constructor{OwnerType: node.Name.Name}
		}
	}
}
