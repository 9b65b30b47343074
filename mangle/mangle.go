// Package mangle holds the pure string-transform functions that turn
// managed (namespace, identifier) strings into legal C++ identifiers,
// namespace paths, and filesystem paths (spec.md §4.A). Every function here
// is a pure function from input string(s) to output string — no state, no
// I/O — grounded on the teacher's own small pure-helper style in helper.go
// (IsValidDosFilename, IsValidFunctionName et al.).
package mangle

import (
	"strings"
	"unicode"
)

// GlobalNamespaceSentinel is rendered for the empty (root) namespace.
const GlobalNamespaceSentinel = "GlobalNamespace"

// WhitespaceOnlySentinel is rendered for an identifier that is empty or
// made up entirely of whitespace, so every generated name stays
// recognizable and stable across runs.
const WhitespaceOnlySentinel = "__cordl_whitespace_identifier"

// ReservedPrefix is prepended to any identifier colliding with a reserved
// word or an extra per-call exclusion.
const ReservedPrefix = "_cordl_"

// reservedWords is the full C++ keyword set, the common <errno.h> macros,
// and a short list of commonly-clashing preprocessor macros, all of which
// would break a naive emission if used verbatim as a C++ identifier.
var reservedWords = buildReservedWords()

func buildReservedWords() map[string]bool {
	words := []string{
		// C++ keywords (C++20).
		"alignas", "alignof", "and", "and_eq", "asm", "atomic_cancel",
		"atomic_commit", "atomic_noexcept", "auto", "bitand", "bitor", "bool",
		"break", "case", "catch", "char", "char8_t", "char16_t", "char32_t",
		"class", "compl", "concept", "const", "consteval", "constexpr",
		"constinit", "const_cast", "continue", "co_await", "co_return",
		"co_yield", "decltype", "default", "delete", "do", "double",
		"dynamic_cast", "else", "enum", "explicit", "export", "extern",
		"false", "float", "for", "friend", "goto", "if", "inline", "int",
		"long", "mutable", "namespace", "new", "noexcept", "not", "not_eq",
		"nullptr", "operator", "or", "or_eq", "private", "protected",
		"public", "reflexpr", "register", "reinterpret_cast", "requires",
		"return", "short", "signed", "sizeof", "static", "static_assert",
		"static_cast", "struct", "switch", "synchronized", "template",
		"this", "thread_local", "throw", "true", "try", "typedef", "typeid",
		"typename", "union", "unsigned", "using", "virtual", "void",
		"volatile", "wchar_t", "while", "xor", "xor_eq",
		// <errno.h> macros, plus errno itself.
		"errno",
		"EPERM", "ENOENT", "ESRCH", "EINTR", "EIO", "ENXIO", "E2BIG",
		"ENOEXEC", "EBADF", "ECHILD", "EAGAIN", "ENOMEM", "EACCES", "EFAULT",
		"ENOTBLK", "EBUSY", "EEXIST", "EXDEV", "ENODEV", "ENOTDIR", "EISDIR",
		"EINVAL", "ENFILE", "EMFILE", "ENOTTY", "ETXTBSY", "EFBIG", "ENOSPC",
		"ESPIPE", "EROFS", "EMLINK", "EPIPE", "EDOM", "ERANGE",
		// Commonly clashing macros.
		"NULL", "VERSION", "MOD_ID", "TRUE", "FALSE",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func replaceAny(s string, chars string, with string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			b.WriteString(with)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWhitespaceOnly(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// applyReservedWordGuard prepends ReservedPrefix when s collides with a
// global reserved word or one of the per-call extra exclusions.
func applyReservedWordGuard(s string, extra []string) string {
	if reservedWords[s] {
		return ReservedPrefix + s
	}
	for _, e := range extra {
		if s == e {
			return ReservedPrefix + s
		}
	}
	return s
}

// NamespaceToCpp replaces every `.` with `::`, rendering the empty
// namespace as GlobalNamespaceSentinel.
func NamespaceToCpp(namespace string) string {
	if namespace == "" {
		return GlobalNamespaceSentinel
	}
	return strings.ReplaceAll(namespace, ".", "::")
}

// NamespaceToPath replaces `.` with `/` and each of `<>`+"`"+`/` with `_`,
// for deriving a header/impl file path from a namespace.
func NamespaceToPath(namespace string) string {
	if namespace == "" {
		return GlobalNamespaceSentinel
	}
	s := replaceAny(namespace, "<>`/", "_")
	return strings.ReplaceAll(s, ".", "/")
}

// Identifier mangles a single managed identifier (type name, field name,
// method name, parameter name) into a legal C++ identifier: the escape set
// is `<>`+"`"+`/.|,()[]`, whitespace-only input maps to the fixed sentinel,
// and reserved-word collisions (global set plus any extra exclusions passed
// for this call) get ReservedPrefix prepended.
func Identifier(name string, extra ...string) string {
	if isWhitespaceOnly(name) {
		return WhitespaceOnlySentinel
	}
	mangled := replaceAny(name, "<>`/.|,()[]", "_")
	return applyReservedWordGuard(mangled, extra)
}

// NestedGenericIdentifier is Identifier plus `:` in the escape set, for
// names that already contain a `::`-joined nested-generic path segment that
// must be flattened into one identifier.
func NestedGenericIdentifier(name string, extra ...string) string {
	if isWhitespaceOnly(name) {
		return WhitespaceOnlySentinel
	}
	mangled := replaceAny(name, "<>`/.|,()[]:", "_")
	return applyReservedWordGuard(mangled, extra)
}

// PathComponent mangles one filesystem path component: escape set
// `<>`+"`"+`./,()`.
func PathComponent(name string, extra ...string) string {
	if isWhitespaceOnly(name) {
		return WhitespaceOnlySentinel
	}
	mangled := replaceAny(name, "<>`./,()", "_")
	return applyReservedWordGuard(mangled, extra)
}

// ScopeRoot conditionally prefixes a rendered namespace with a leading `::`
// scope-root qualifier, per spec.md §4.A's configuration flag.
func ScopeRoot(rendered string, enabled bool) string {
	if !enabled {
		return rendered
	}
	return "::" + rendered
}
