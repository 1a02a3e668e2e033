// Package input expands optimizer arguments into SVG sources. An argument
// may name a single file, a directory walked recursively for SVG files, or
// a zip archive whose SVG entries are read in place without extraction.
package input

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source identifies one discovered SVG input. Name is the file path, or
// the entry path within the archive when Container is set.
type Source struct {
	Name      string
	Container string
}

// WalkFunc is called for each SVG source visited by Walk. The reader is
// valid only for the duration of the call. If an error is returned,
// processing of the current argument stops.
type WalkFunc func(src Source, r io.Reader) error

// Walk visits every SVG source the argument names: the file itself, all
// SVG files under a directory, or all SVG entries of a zip archive.
func Walk(root string, fn WalkFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return walkDir(root, fn)
	}
	if strings.EqualFold(filepath.Ext(root), ".zip") {
		return walkZip(root, fn)
	}
	return walkFile(root, fn)
}

// IsSVGPath reports whether the path names an SVG file by extension.
func IsSVGPath(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".svg")
}

func walkFile(name string, fn WalkFunc) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(Source{Name: name}, f)
}

func walkDir(root string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSVGPath(p) {
			return nil
		}
		return walkFile(p, fn)
	})
}

// walkZip visits SVG entries of an archive. Entries with path traversal
// components ("..") or absolute paths abort the walk so a crafted archive
// can never direct output outside its own directory.
func walkZip(archive string, fn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !IsSVGPath(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("zip entry %q: %w", name, err)
		}
		err = fn(Source{Name: name, Container: archive}, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the archive's own
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
