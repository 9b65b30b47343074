package cpptype

import "errors"

// Sentinel errors for the cpptype package, declared first per this
// module's error-handling convention (see DESIGN.md / SPEC_FULL.md §2).
var (
	ErrNoParentAndNotInterface = errors.New("cpptype: type has no parent and is not an interface")
	ErrUnresolvableParent      = errors.New("cpptype: parent type index could not be resolved")
	ErrContextNotFound         = errors.New("cpptype: no context registered for tag")
	ErrRecursiveFill           = errors.New("cpptype: fill called re-entrantly on a type already filling")
	ErrRecursiveBorrow         = errors.New("cpptype: borrow called re-entrantly on the same context")
	ErrAlreadyBorrowing        = errors.New("cpptype: context is currently borrowed and cannot be mutated")
)
