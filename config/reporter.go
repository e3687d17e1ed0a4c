package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/multierr"

	"cssr/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is either a path to a file which is read when report is finalized
// or data captured at the time of the call.
type entry struct {
	source string
	path   string
	stamp  time.Time
	data   []byte
}

// Report collects files (logs, configuration, sources and results) for the
// debug archive. All methods are no-ops on nil report, so callers do not
// need to check whether report was requested. Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
	// directories holding copies made by StoreCopy
	temps []string
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// unique versions name when it is already taken.
func (r *Report) unique(name string, stamp time.Time) string {
	if _, exists := r.entries[name]; !exists {
		return name
	}
	return fmt.Sprintf("%s-%d", name, stamp.UnixNano())
}

// Store remembers path, file is read when report is closed. Storing the
// same path under the same name again is allowed.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, exists := r.entries[name]; exists && old.source == path {
		return
	}

	e := entry{source: path, path: path, stamp: time.Now()}
	if p, err := filepath.Abs(path); err == nil {
		e.path = p
	}
	r.entries[r.unique(name, e.stamp)] = e
}

// StoreData puts data into report under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	e := entry{data: data, stamp: time.Now()}
	r.entries[r.unique(name, e.stamp)] = e
}

// StoreCopy copies file at path now, so later changes to it do not affect
// the report.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unable to store copy of %s: not a regular file", path)
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}
	r.temps = append(r.temps, dir)

	dst := filepath.Join(dir, filepath.Base(abs))
	if err := copyFile(dst, abs); err != nil {
		return err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	e := entry{source: path, path: dst, stamp: time.Now()}
	r.entries[r.unique(name, e.stamp)] = e
	return nil
}

func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(out))

	_, err = io.Copy(out, in)
	return err
}

// Close writes report archive and removes temporary copies.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
		r.file = nil
		for _, dir := range r.temps {
			os.RemoveAll(dir)
		}
	}()

	arc := zip.NewWriter(r.file)
	defer multierr.AppendInvoke(&err, multierr.Close(arc))

	names := slices.Sorted(maps.Keys(r.entries))
	if err := writeEntry(arc, "MANIFEST", time.Now(), r.manifest(names)); err != nil {
		return err
	}
	for _, name := range names {
		if err := r.writeEntry(arc, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) manifest(names []string) io.Reader {
	var buf bytes.Buffer
	for _, name := range names {
		e := r.entries[name]
		source := e.source
		if len(source) == 0 {
			source = "<data>"
		}
		fmt.Fprintf(&buf, "%s\t%s\t%s\n", e.stamp.UTC().Format(time.RFC3339), name, source)
	}
	return &buf
}

func (r *Report) writeEntry(arc *zip.Writer, name string) error {
	e := r.entries[name]
	if e.data != nil {
		return writeEntry(arc, name, e.stamp, bytes.NewReader(e.data))
	}

	info, err := os.Stat(e.path)
	if err != nil || !info.Mode().IsRegular() {
		// file may legitimately be gone (empty panic log, for example)
		return nil
	}
	f, err := os.Open(e.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeEntry(arc, name, info.ModTime(), f)
}

func writeEntry(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
