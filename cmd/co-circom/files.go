package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// shareFileName returns the canonical name of party i's share of the
// file at path: "<base>.<i>.shared" in outDir.
func shareFileName(outDir, path string, i int) string {
	return filepath.Join(outDir, fmt.Sprintf("%s.%d.shared", filepath.Base(path), i))
}

func withInputFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return xerrors.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}

func writeOutputFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return xerrors.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
