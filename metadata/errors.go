package metadata

import "errors"

// Sentinel errors returned by the metadata facade. Declared first, the way
// the teacher's helper.go raises its Err* values before any function body.
var (
	ErrTypeDefNotFound   = errors.New("metadata: type definition index out of range")
	ErrTypeNotFound      = errors.New("metadata: type index out of range")
	ErrMethodNotFound    = errors.New("metadata: method index out of range")
	ErrFieldNotFound     = errors.New("metadata: field index out of range")
	ErrNameNotFound      = errors.New("metadata: name not found in string heap")
	ErrNoGenericInst     = errors.New("metadata: generic class has no instantiation")
	ErrBlacklistedType   = errors.New("metadata: type definition is blacklisted")
)
