// Package cordl is the top-level orchestrator: given a metadata facade and
// a GenerationConfig, it drives the collection through creation and fill
// for every top-level type definition, then the writer across every
// finished context. The core type-graph/layout/mangling machinery lives in
// the cpptype/layout/mangle/names/metadata/writer/handlers packages; this
// package only sequences them, the way the teacher's file.go sequences its
// own ParseDataDirectories funcMaps dispatch over an already-mapped file.
package cordl

import "errors"

// Sentinel errors for the top-level orchestrator.
var (
	ErrNoMetadata  = errors.New("cordl: no metadata facade provided")
	ErrNoOutputDir = errors.New("cordl: output directory not configured")
)
