package process

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"cssr/config"
	"cssr/state"
)

const (
	marginSrc      = "p { margin: 1px 2px }"
	marginExpanded = "p { margin-top: 1px; margin-right: 2px; margin-bottom: 1px; margin-left: 2px; }\n"
)

func newTestEnv(t *testing.T) *state.LocalEnv {
	t.Helper()

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env := state.EnvFromContext(state.ContextWithEnv(context.Background()))
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	if err := env.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}
	return env
}

func newTestProcessor(t *testing.T, setup func(env *state.LocalEnv)) (*processor, *bytes.Buffer) {
	t.Helper()

	env := newTestEnv(t)
	if setup != nil {
		setup(env)
	}
	p, err := newProcessor(env, env.Log)
	if err != nil {
		t.Fatalf("newProcessor() error = %v", err)
	}
	out := &bytes.Buffer{}
	p.stdout = out
	return p, out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestProcess_FileToStdout(t *testing.T) {
	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, marginSrc)

	p, out := newTestProcessor(t, nil)
	if err := p.run(context.Background(), src, ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out.String() != marginExpanded {
		t.Errorf("stdout = %q, want %q", out.String(), marginExpanded)
	}
	if p.total != 1 || p.failed != 0 {
		t.Errorf("total = %d, failed = %d", p.total, p.failed)
	}
}

func TestProcess_FileToDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "site.css")
	writeFile(t, src, marginSrc)

	t.Run("directory", func(t *testing.T) {
		dst := filepath.Join(dir, "out")
		if err := os.Mkdir(dst, 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		p, out := newTestProcessor(t, nil)
		if err := p.run(context.Background(), src, dst); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got := readFile(t, filepath.Join(dst, "site.css")); got != marginExpanded {
			t.Errorf("result = %q", got)
		}
		if out.Len() != 0 {
			t.Errorf("nothing should go to stdout, got %q", out.String())
		}
	})

	t.Run("file exists", func(t *testing.T) {
		dst := filepath.Join(dir, "exists.css")
		writeFile(t, dst, "old")
		p, _ := newTestProcessor(t, nil)
		if err := p.run(context.Background(), src, dst); err == nil {
			t.Error("expected error for existing destination")
		}
		if got := readFile(t, dst); got != "old" {
			t.Errorf("existing file was modified: %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		dst := filepath.Join(dir, "exists.css")
		p, _ := newTestProcessor(t, func(env *state.LocalEnv) { env.Overwrite = true })
		if err := p.run(context.Background(), src, dst); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got := readFile(t, dst); got != marginExpanded {
			t.Errorf("result = %q", got)
		}
	})
}

func TestProcess_InPlace(t *testing.T) {
	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, marginSrc)

	p, _ := newTestProcessor(t, nil)
	if err := p.run(context.Background(), src, src); err == nil {
		t.Fatal("expected error when destination is the source")
	}

	p, _ = newTestProcessor(t, func(env *state.LocalEnv) { env.Overwrite = true })
	if err := p.run(context.Background(), src, src); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := readFile(t, src); got != marginExpanded {
		t.Errorf("result = %q", got)
	}
}

func TestProcess_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.css"), marginSrc)
	writeFile(t, filepath.Join(dir, "sub", "b.html"), `<div style="padding: 0 1px">x</div>`)
	writeFile(t, filepath.Join(dir, "readme.txt"), marginSrc)

	t.Run("beside sources", func(t *testing.T) {
		p, _ := newTestProcessor(t, nil)
		if err := p.run(context.Background(), dir, ""); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got := readFile(t, filepath.Join(dir, "a.out.css")); got != marginExpanded {
			t.Errorf("a.out.css = %q", got)
		}
		html := readFile(t, filepath.Join(dir, "sub", "b.out.html"))
		if !strings.Contains(html, `style="padding-top: 0; padding-right: 1px; padding-bottom: 0; padding-left: 1px;"`) {
			t.Errorf("b.out.html = %q", html)
		}
		if _, err := os.Stat(filepath.Join(dir, "readme.out.txt")); !os.IsNotExist(err) {
			t.Error("unknown extensions must be skipped")
		}
		if p.total != 2 {
			t.Errorf("total = %d, want 2", p.total)
		}
	})

	t.Run("mirrored", func(t *testing.T) {
		dst := t.TempDir()
		p, _ := newTestProcessor(t, nil)
		if err := p.run(context.Background(), dir, dst); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got := readFile(t, filepath.Join(dst, "a.css")); got != marginExpanded {
			t.Errorf("a.css = %q", got)
		}
		if _, err := os.Stat(filepath.Join(dst, "sub", "b.html")); err != nil {
			t.Errorf("sub/b.html was not written: %v", err)
		}
		// results written beside sources by previous subtest are not sources
		if _, err := os.Stat(filepath.Join(dst, "a.out.css")); !os.IsNotExist(err) {
			t.Error("previous results must be skipped")
		}
		if p.total != 2 {
			t.Errorf("total = %d, want 2", p.total)
		}
	})
}

func TestProcess_DirectoryFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1-bad.css"), "p { margin: 1px 2px 3px 4px 5px }")
	writeFile(t, filepath.Join(dir, "2-good.css"), marginSrc)
	dst := t.TempDir()

	p, _ := newTestProcessor(t, func(env *state.LocalEnv) { env.SkipInvalid = false })
	err := p.run(context.Background(), dir, dst)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected summary error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "1-bad.css")); !os.IsNotExist(err) {
		t.Error("failed source must not produce output")
	}
	if got := readFile(t, filepath.Join(dst, "2-good.css")); got != marginExpanded {
		t.Errorf("2-good.css = %q", got)
	}

	// same sources succeed when invalid rule sets are kept
	dst = t.TempDir()
	p, _ = newTestProcessor(t, func(env *state.LocalEnv) { env.SkipInvalid = true })
	if err := p.run(context.Background(), dir, dst); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "1-bad.css")); got != "p { margin: 1px 2px 3px 4px 5px; }\n" {
		t.Errorf("1-bad.css = %q", got)
	}
}

func createBook(t *testing.T, arc string) {
	t.Helper()

	f, err := os.Create(arc)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range [][2]string{
		{"OEBPS/style.css", marginSrc},
		{"OEBPS/ch01.xhtml", `<html xmlns="http://www.w3.org/1999/xhtml"><body><p style="margin: 0">x</p></body></html>`},
		{"OEBPS/cover.jpg", "not really an image"},
	} {
		fw, err := w.Create(e[0])
		if err != nil {
			t.Fatalf("Failed to create entry: %v", err)
		}
		if _, err := fw.Write([]byte(e[1])); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
}

func TestProcess_Archive(t *testing.T) {
	dir := t.TempDir()
	arc := filepath.Join(dir, "book.epub")
	createBook(t, arc)

	dst := filepath.Join(dir, "out")
	p, _ := newTestProcessor(t, nil)
	if err := p.run(context.Background(), arc, dst); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "book", "OEBPS", "style.css")); got != marginExpanded {
		t.Errorf("style.css = %q", got)
	}
	if got := readFile(t, filepath.Join(dst, "book", "OEBPS", "ch01.xhtml")); !strings.Contains(got, "margin-left: 0;") {
		t.Errorf("ch01.xhtml = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dst, "book", "OEBPS", "cover.jpg")); !os.IsNotExist(err) {
		t.Error("non style entries must be skipped")
	}
	if p.total != 2 {
		t.Errorf("total = %d, want 2", p.total)
	}
}

func TestProcess_ArchiveRepack(t *testing.T) {
	dir := t.TempDir()
	arc := filepath.Join(dir, "book.epub")
	createBook(t, arc)

	p, _ := newTestProcessor(t, func(env *state.LocalEnv) { env.Repack = true })
	if err := p.run(context.Background(), arc, ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	r, err := zip.OpenReader(filepath.Join(dir, "book.out.epub"))
	if err != nil {
		t.Fatalf("unable to open repacked archive: %v", err)
	}
	defer r.Close()

	if len(r.File) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(r.File))
	}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		switch f.Name {
		case "OEBPS/style.css":
			if buf.String() != marginExpanded {
				t.Errorf("style.css = %q", buf.String())
			}
		case "OEBPS/cover.jpg":
			if buf.String() != "not really an image" {
				t.Errorf("cover.jpg changed: %q", buf.String())
			}
		}
	}

	// second run must not clobber existing copy
	p, _ = newTestProcessor(t, func(env *state.LocalEnv) { env.Repack = true })
	if err := p.run(context.Background(), arc, ""); err == nil {
		t.Error("expected error for existing repacked archive")
	}
}

func TestProcess_Stdin(t *testing.T) {
	p, out := newTestProcessor(t, func(env *state.LocalEnv) {
		env.Pipeline = config.PipelineContract
		env.ForceImportant = true
	})
	p.stdin = strings.NewReader("a { margin-top: 0; margin-right: 0; margin-bottom: 0; margin-left: 0 }")

	if err := p.run(context.Background(), "-", ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if want := "a { margin: 0 !important; }\n"; out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestProcess_ForcedFormat(t *testing.T) {
	src := filepath.Join(t.TempDir(), "page.txt")
	writeFile(t, src, `<p style="margin: 1px">x</p>`)

	p, out := newTestProcessor(t, func(env *state.LocalEnv) { env.Format = config.InputFormatHtml })
	if err := p.run(context.Background(), src, ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), `<p style="margin-top: 1px; margin-right: 1px; margin-bottom: 1px; margin-left: 1px;">x</p>`) {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestProcess_MissingSource(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	if err := p.run(context.Background(), filepath.Join(t.TempDir(), "nope.css"), ""); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestProcess_ReportName(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	if got, want := p.reportName("results", "a/b/Site Main.css"), "results-"+p.runID+"/a-b-site-main.css"; got != want {
		t.Errorf("reportName() = %q, want %q", got, want)
	}
}

func TestProcess_DebugReport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "site.css")
	writeFile(t, src, marginSrc)

	conf := config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	p, _ := newTestProcessor(t, func(env *state.LocalEnv) { env.Rpt = rpt })
	if err := p.run(context.Background(), src, ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer r.Close()

	var sources, results int
	for _, f := range r.File {
		switch {
		case f.Name == "sources-"+p.runID+"/site.css":
			sources++
		case strings.HasPrefix(f.Name, "results-"+p.runID+"/") && strings.HasSuffix(f.Name, "site.css"):
			results++
		}
	}
	if sources != 1 || results != 1 {
		t.Errorf("report entries: sources=%d results=%d", sources, results)
	}
}

func TestProcess_BesideSource(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	if got := p.besideSource(filepath.Join("x", "site.css")); got != filepath.Join("x", "site.out.css") {
		t.Errorf("besideSource() = %q", got)
	}
	p.env.Cfg.Output.Suffix = ""
	if got := p.besideSource("site.css"); got != "site.css" {
		t.Errorf("besideSource() without suffix = %q", got)
	}
}

func TestApplyFlags(t *testing.T) {
	env := newTestEnv(t)

	cmd := &cli.Command{
		Name:  "expand",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return applyFlags(cmd, env)
		},
	}
	if err := cmd.Run(context.Background(), []string{"expand", "--format", "xhtml", "-i", "--encoding", "koi8-r", "--ow", "--rp"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.Format != config.InputFormatXhtml {
		t.Errorf("Format = %v", env.Format)
	}
	if !env.ForceImportant || !env.Overwrite || !env.Repack {
		t.Errorf("boolean flags not applied: %+v", env)
	}
	if env.CodePage == nil {
		t.Error("encoding flag not applied")
	}
	// not given on command line - configuration value stays
	if !env.SkipInvalid {
		t.Error("skip invalid must keep configured value")
	}

	bad := &cli.Command{
		Name:   "expand",
		Flags:  Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error { return applyFlags(cmd, env) },
	}
	if err := bad.Run(context.Background(), []string{"expand", "--format", "sass"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
