package main

import (
	"encoding/json"
	"fmt"

	"github.com/sc2ad/cordl/metadata"
	"github.com/sc2ad/cordl/metadatasrc"
)

// loadFixtureMetadata decodes a JSON fixture of metadata.GlobalMetadata
// from path. It is explicitly not a reimplementation of the real
// global-metadata.dat binary format (spec.md §1 places that parsing out of
// core scope); it exists only so this CLI has something concrete to drive
// the generator with end to end.
func loadFixtureMetadata(path string) (*metadata.GlobalMetadata, error) {
	mf, err := metadatasrc.Open(path)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	var md metadata.GlobalMetadata
	if err := json.Unmarshal(mf.Bytes(), &md); err != nil {
		return nil, fmt.Errorf("cordlgen: decoding metadata fixture %s: %w", path, err)
	}
	return &md, nil
}

// loadFixtureImage decodes a JSON fixture of metadata.NativeImage from
// path, the same fixture convention as loadFixtureMetadata.
func loadFixtureImage(path string) (*metadata.NativeImage, error) {
	mf, err := metadatasrc.Open(path)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	var img metadata.NativeImage
	if err := json.Unmarshal(mf.Bytes(), &img); err != nil {
		return nil, fmt.Errorf("cordlgen: decoding image fixture %s: %w", path, err)
	}
	return &img, nil
}
