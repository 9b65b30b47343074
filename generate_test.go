package cordl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2ad/cordl/config"
	"github.com/sc2ad/cordl/metadata"
)

func heap(names ...string) ([]byte, []uint32) {
	var buf []byte
	offsets := make([]uint32, len(names))
	for i, n := range names {
		offsets[i] = uint32(len(buf))
		buf = append(buf, []byte(n)...)
		buf = append(buf, 0)
	}
	return buf, offsets
}

func newTestFacade() *metadata.Facade {
	stringHeap, offsets := heap("Game", "Marker")
	md := &metadata.GlobalMetadata{
		StringHeap: stringHeap,
		TypeDefinitions: []metadata.TypeDefinition{
			{
				NamespaceIndex:        offsets[0],
				NameIndex:             offsets[1],
				ParentIndex:           metadata.NoIndex,
				Flags:                 metadata.TypeAttrInterface,
				FieldStart:            metadata.NoIndex,
				MethodStart:           metadata.NoIndex,
				PropertyStart:         metadata.NoIndex,
				GenericContainerIndex: metadata.NoIndex,
				DeclaringTypeIndex:    metadata.NoIndex,
			},
		},
	}
	return metadata.NewFacade(md, &metadata.NativeImage{PointerSize: 8}, nil)
}

func TestNewRequiresFacade(t *testing.T) {
	_, err := New(Options{Config: config.Default()})
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestNewRejectsEmptyOutputDir(t *testing.T) {
	_, err := New(Options{Facade: newTestFacade(), Config: &config.GenerationConfig{}})
	assert.ErrorIs(t, err, ErrNoOutputDir)
}

func TestNewAppliesDefaultConfig(t *testing.T) {
	gen, err := New(Options{Facade: newTestFacade()})
	require.NoError(t, err)
	assert.Equal(t, "out", gen.opts.Config.OutputDir)
}

func TestGenerateThenWriteAllProducesHeader(t *testing.T) {
	gen, err := New(Options{Facade: newTestFacade()})
	require.NoError(t, err)
	require.NoError(t, gen.Generate())

	written := make(map[string][]byte)
	err = gen.WriteAll(func(path string, contents []byte) error {
		written[path] = contents
		return nil
	})
	require.NoError(t, err)
	require.Len(t, written, 3)

	var defPath, implPath, fundamentalPath string
	for path := range written {
		switch {
		case containsSuffix(path, "__Marker_def.hpp"):
			defPath = path
		case containsSuffix(path, "__Marker_impl.hpp"):
			implPath = path
		case containsSuffix(path, "Marker.hpp"):
			fundamentalPath = path
		}
	}
	require.NotEmpty(t, defPath)
	require.NotEmpty(t, implPath)
	require.NotEmpty(t, fundamentalPath)

	assert.Contains(t, string(written[defPath]), "struct Marker")
	assert.Contains(t, string(written[fundamentalPath]), "__Marker_def.hpp")
	assert.Contains(t, string(written[fundamentalPath]), "__Marker_impl.hpp")
}

func containsSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func TestSplitQualifiedName(t *testing.T) {
	ns, name := splitQualifiedName("System.Collections.Generic.List")
	assert.Equal(t, "System.Collections.Generic", ns)
	assert.Equal(t, "List", name)

	ns, name = splitQualifiedName("NoDotHere")
	assert.Equal(t, "", ns)
	assert.Equal(t, "NoDotHere", name)
}
