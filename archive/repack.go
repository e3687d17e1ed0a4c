package archive

import (
	"fmt"
	"os"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
)

// Repack copies archive src to dst replacing content of entries named in
// replace, entry order is kept. Untouched entries are copied raw without
// recompression and lose data descriptors, EPUB readers are picky about
// "mimetype" entry layout.
func Repack(src, dst string, replace map[string][]byte) (err error) {
	r, err := fixzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", src, err)
	}
	defer r.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", dst, err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(out))

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		data, ok := replace[file.Name]
		if !ok {
			file.Flags &= ^fixzip.FlagDataDescriptor
			if err := w.CopyFile(file); err != nil {
				return fmt.Errorf("unable to copy entry %q: %w", file.Name, err)
			}
			continue
		}

		fw, err := w.CreateHeader(&fixzip.FileHeader{
			Name:     file.Name,
			Method:   file.Method,
			Modified: file.Modified,
		})
		if err != nil {
			return fmt.Errorf("unable to create entry %q: %w", file.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("unable to write entry %q: %w", file.Name, err)
		}
	}
	return w.Close()
}
