// Package metadatasrc memory-maps the two on-disk artifacts a generation
// run is fed (spec.md §6's Input 1/2): the global-metadata blob and the
// native image. It performs no parsing of either format — per spec.md §1
// that is an external collaborator's job — it only owns the mmap lifecycle,
// the way the teacher's file.go opens and maps the PE file before any of
// its own table parsers ever see a byte.
package metadatasrc

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedFile is one memory-mapped input file. Callers read Bytes() and
// decode it however their format requires (the CLI's JSON-fixture loader,
// for instance); this package never interprets the contents.
type MappedFile struct {
	f  *os.File
	mm mmap.MMap
}

// Open maps path read-only into memory, the same os.OpenFile + mmap.Map
// pairing the teacher's file.go uses for the PE image itself.
func Open(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metadatasrc: opening %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("metadatasrc: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		// mmap.Map refuses to map an empty file; treat it as an empty
		// in-memory buffer instead of failing the whole load.
		f.Close()
		return &MappedFile{}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("metadatasrc: mmap %s: %w", path, err)
	}
	return &MappedFile{f: f, mm: mm}, nil
}

// Bytes returns the mapped file's contents. The slice is only valid until
// Close is called.
func (m *MappedFile) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.mm
}

// Close unmaps and closes the underlying file.
func (m *MappedFile) Close() error {
	if m == nil || m.f == nil {
		return nil
	}
	var errs []error
	if m.mm != nil {
		if err := m.mm.Unmap(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.f.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("metadatasrc: close: %v", errs)
	}
	return nil
}
