package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sc2ad/cordl"
	"github.com/sc2ad/cordl/config"
	"github.com/sc2ad/cordl/metadata"
)

func main() {
	genCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	metadataPath := genCmd.String("metadata", "", "path to a JSON global-metadata fixture")
	imagePath := genCmd.String("image", "", "path to a JSON native-image fixture")
	configPath := genCmd.String("config", "", "path to a TOML GenerationConfig override file")
	outDir := genCmd.String("out", "", "output directory (overrides the config file's output_dir)")
	workers := genCmd.Int("workers", 4, "number of concurrent file-writer workers")

	verCmd := flag.NewFlagSet("version", flag.ExitOnError)

	if len(os.Args) < 2 {
		showHelp()
	}

	switch os.Args[1] {
	case "generate":
		genCmd.Parse(os.Args[2:])
		if *metadataPath == "" || *imagePath == "" {
			fmt.Println("generate requires -metadata and -image")
			os.Exit(1)
		}
		if err := runGenerate(*metadataPath, *imagePath, *configPath, *outDir, *workers); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "version":
		verCmd.Parse(os.Args[2:])
		fmt.Println("cordlgen 0.1.0")
	default:
		showHelp()
	}
}

func runGenerate(metadataPath, imagePath, configPath, outDir string, workerCount int) error {
	md, err := loadFixtureMetadata(metadataPath)
	if err != nil {
		return err
	}
	img, err := loadFixtureImage(imagePath)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("cordlgen: reading config %s: %w", configPath, err)
		}
		cfg, err = config.LoadTOML(data)
		if err != nil {
			return fmt.Errorf("cordlgen: decoding config %s: %w", configPath, err)
		}
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}

	facade := metadata.NewFacade(md, img, nil)

	gen, err := cordl.New(cordl.Options{Facade: facade, Config: cfg})
	if err != nil {
		return err
	}
	if err := gen.Generate(); err != nil {
		return err
	}

	write, wait := parallelDiskWriter(workerCount)
	writeErr := gen.WriteAll(write)
	if poolErr := wait(); poolErr != nil {
		return poolErr
	}
	if writeErr != nil {
		return writeErr
	}

	for _, anomaly := range gen.Anomalies() {
		fmt.Fprintln(os.Stderr, "cordlgen: "+anomaly)
	}
	return nil
}

// parallelDiskWriter returns a cordl.WriteFunc that fans writes out across
// a bounded pool of goroutines, plus a wait function that drains the pool
// and reports the first write error (if any). Grounded on the teacher's
// cmd/dump.go loopFilesWorker + sync.WaitGroup/channel pattern for walking
// a directory tree concurrently — here applied to writing already-rendered
// contexts instead of reading PE files, per SPEC_FULL.md §7's "CLI may
// parallelize writing" carve-out.
func parallelDiskWriter(workerCount int) (write cordl.WriteFunc, wait func() error) {
	if workerCount < 1 {
		workerCount = 1
	}

	type job struct {
		path     string
		contents []byte
	}

	jobs := make(chan job)
	errs := make(chan error, workerCount)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
					select {
					case errs <- err:
					default:
					}
					continue
				}
				if err := os.WriteFile(j.path, j.contents, 0o644); err != nil {
					select {
					case errs <- err:
					default:
					}
				}
			}
		}()
	}

	write = func(path string, contents []byte) error {
		jobs <- job{path: path, contents: contents}
		return nil
	}
	wait = func() error {
		close(jobs)
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	}
	return write, wait
}

func showHelp() {
	fmt.Print(
		`
┌─┐┌─┐┬─┐┌┬┐┬
│  │ │├┬┘ │││
└─┘└─┘┴└──┴┴┴─┘

	An IL2CPP-to-C++ header generator.
`)
	fmt.Println("\nAvailable sub-commands: 'generate' or 'version'")
	os.Exit(1)
}
