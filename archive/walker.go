// Package archive looks for style sources inside zip based containers (plain
// zip archives and EPUB books).
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// WalkFunc is called for every entry accepted by Walk. Returning an error
// stops the walk and the error is returned by Walk.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for regular entries of archive accepted by keep (all
// entries when keep is nil) in archive order. Archive containing an entry
// with absolute path or ".." component is rejected before anything is
// visited.
func Walk(archive string, keep func(name string) bool, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || (keep != nil && !keep(f.Name)) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// IsArchive sniffs file header and reports whether it is a zip container.
func IsArchive(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// enough for any matcher filetype has
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	head = head[:n]
	return filetype.IsType(head, matchers.TypeZip) || filetype.IsType(head, matchers.TypeEpub), nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
