// Package process implements expand, contract and roundtrip commands: it
// resolves sources (file, directory, zip container or stdin), decides how
// each one is treated and where results go.
package process

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssr/archive"
	"cssr/config"
	"cssr/rewrite"
	"cssr/state"
)

// Run is the action shared by transformation commands, command name selects
// pipeline.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named(cmd.Name)

	if env.Pipeline, err = config.ParsePipeline(cmd.Name); err != nil {
		return err
	}
	if err := applyFlags(cmd, env); err != nil {
		return err
	}

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	p, err := newProcessor(env, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst), zap.Stringer("pipeline", env.Pipeline), zap.String("run_id", p.runID))
	defer func(start time.Time) {
		log.Info("Processing completed",
			zap.Duration("elapsed", time.Since(start)), zap.Int("sources", p.total), zap.Int("failed", p.failed))
	}(time.Now())

	return p.run(ctx, src, dst)
}

// Flags returns options shared by transformation commands. Every one of them
// overrides corresponding configuration value when given.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"},
			Usage: "treat sources as `FORMAT` (" + strings.Join(config.InputFormatNames(), ", ") + "), auto decides by file extension"},
		&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Usage: "decode sources from `CHARSET` (IANA name), results are always UTF-8"},
		&cli.BoolFlag{Name: "force-important", Aliases: []string{"i"}, Usage: "render every declaration as !important"},
		&cli.BoolFlag{Name: "skip-invalid", Aliases: []string{"s"}, Usage: "keep rule sets which cannot be expanded unchanged instead of failing"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
		&cli.BoolFlag{Name: "repack", Aliases: []string{"rp"}, Usage: "for archives produce modified copy of the archive instead of extracting results"},
	}
}

// applyFlags lets command line override configuration.
func applyFlags(cmd *cli.Command, env *state.LocalEnv) error {
	if cmd.IsSet("format") {
		f, err := config.ParseInputFormat(cmd.String("format"))
		if err != nil {
			return fmt.Errorf("unsupported input format: %w", err)
		}
		env.Format = f
	}
	if cmd.IsSet("encoding") {
		if err := env.SetCodePage(cmd.String("encoding")); err != nil {
			return err
		}
	}
	if cmd.IsSet("force-important") {
		env.ForceImportant = cmd.Bool("force-important")
	}
	if cmd.IsSet("skip-invalid") {
		env.SkipInvalid = cmd.Bool("skip-invalid")
	}
	if cmd.IsSet("overwrite") {
		env.Overwrite = cmd.Bool("overwrite")
	}
	if cmd.IsSet("repack") {
		env.Repack = cmd.Bool("repack")
	}
	return nil
}

type processor struct {
	env    *state.LocalEnv
	rw     *rewrite.Rewriter
	log    *zap.Logger
	runID  string
	stdin  io.Reader
	stdout io.Writer

	total, failed int
}

func newProcessor(env *state.LocalEnv, log *zap.Logger) (*processor, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate run id: %w", err)
	}
	return &processor{
		env: env,
		rw: rewrite.New(rewrite.Options{
			Pipeline:       env.Pipeline,
			ForceImportant: env.ForceImportant,
			SkipInvalid:    env.SkipInvalid,
		}, log),
		log:    log,
		runID:  id.String(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}, nil
}

// formatFor decides how source is treated, forced format wins.
func (p *processor) formatFor(name string) config.InputFormat {
	in := p.env.Cfg.Input
	in.Format = p.env.Format
	if f := in.FormatFor(name); f != config.InputFormatAuto {
		return f
	}
	return config.InputFormatCss
}

// selected reports whether file found in directory or archive is a source,
// only known extensions are considered regardless of forced format.
func (p *processor) selected(name string) bool {
	in := p.env.Cfg.Input
	in.Format = config.InputFormatAuto
	return in.FormatFor(name) != config.InputFormatAuto
}

func (p *processor) run(ctx context.Context, src, dst string) error {
	if src == "-" {
		return p.stream(ctx, dst)
	}

	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	switch {
	case fi.IsDir():
		return p.dir(ctx, src, dst)
	case !fi.Mode().IsRegular():
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	isArchive, err := archive.IsArchive(src)
	if err != nil {
		return fmt.Errorf("unable to check archive type: %w", err)
	}
	if isArchive {
		return p.archive(ctx, src, dst)
	}
	return p.file(ctx, src, dst)
}

// stream processes standard input, result goes to dst or standard output.
func (p *processor) stream(ctx context.Context, dst string) error {
	p.total++
	format := config.InputFormatCss
	if p.env.Format != config.InputFormatAuto {
		format = p.env.Format
	}
	if err := p.source(ctx, p.stdin, "stdin", format, dst); err != nil {
		p.failed++
		return err
	}
	return nil
}

// file processes single file. Without destination result goes to standard
// output, existing directory as destination receives file with source name.
func (p *processor) file(ctx context.Context, src, dst string) error {
	p.total++
	if len(dst) != 0 {
		if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
		if abs, err := filepath.Abs(dst); err == nil && abs == src && !p.env.Overwrite {
			p.failed++
			return fmt.Errorf("destination is the source itself (%s), use --overwrite to rewrite in place", src)
		}
	}

	p.keepSource(filepath.Base(src), src)

	f, err := os.Open(src)
	if err != nil {
		p.failed++
		return err
	}
	defer f.Close()

	if err := p.source(ctx, f, src, p.formatFor(src), dst); err != nil {
		p.failed++
		return err
	}
	return nil
}

// dir processes every source found in directory tree in natural order.
// Results are written next to sources (with configured suffix) or mirrored
// under dst.
func (p *processor) dir(ctx context.Context, dir, dst string) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !p.selected(path) {
			p.log.Debug("Skipping file, not recognized as style source", zap.String("file", path))
			return nil
		}
		if p.isResult(path) {
			p.log.Debug("Skipping file, looks like result of previous run", zap.String("file", path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}
	sort.Sort(natural.StringSlice(files))

	if len(dst) != 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if len(dst) == 0 {
			out = p.besideSource(path)
		}
		p.total++
		if err := p.openAndProcess(ctx, path, rel, out); err != nil {
			p.failed++
			p.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	return p.summary()
}

func (p *processor) openAndProcess(ctx context.Context, path, name, out string) error {
	p.keepSource(name, path)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.source(ctx, f, name, p.formatFor(path), out)
}

// archive processes sources inside zip container. Results are extracted
// under dst (working directory when not given) into directory named after
// the archive, or, when repacking, written into a copy of the archive.
func (p *processor) archive(ctx context.Context, src, dst string) (err error) {
	if p.env.Repack {
		return p.repack(ctx, src, dst)
	}

	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	root := filepath.Join(dst, config.CleanFileName(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))))

	return p.walkArchive(ctx, src, func(name string, data []byte) error {
		return p.write(filepath.Join(root, filepath.FromSlash(name)), data)
	})
}

// repack writes copy of the archive with sources replaced by results. Copy
// goes next to the archive (with configured suffix), into existing
// directory dst or to file dst.
func (p *processor) repack(ctx context.Context, src, dst string) (err error) {
	out := p.besideSource(src)
	if len(dst) != 0 {
		if out, err = filepath.Abs(dst); err != nil {
			return err
		}
		if fi, err := os.Stat(out); err == nil && fi.IsDir() {
			out = filepath.Join(out, filepath.Base(src))
		}
	}
	if out == src {
		return fmt.Errorf("destination is the source itself (%s)", src)
	}

	results := make(map[string][]byte)
	err = p.walkArchive(ctx, src, func(name string, data []byte) error {
		results[name] = data
		return nil
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	if _, err := os.Stat(out); err == nil {
		if !p.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", out)
		}
		p.log.Warn("Overwriting existing file", zap.String("file", out))
	}
	if err := archive.Repack(src, out, results); err != nil {
		return fmt.Errorf("unable to repack archive: %w", err)
	}
	p.log.Debug("Archive repacked", zap.String("file", out), zap.Int("replaced", len(results)))
	return nil
}

// walkArchive renders every source in archive and hands result to emit.
// Failed sources are logged and counted, summary error is returned at the
// end.
func (p *processor) walkArchive(ctx context.Context, src string, emit func(name string, data []byte) error) error {
	var count int
	err := archive.Walk(src, p.selected, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		p.total++

		data, err := p.renderEntry(ctx, arc, f)
		if err == nil {
			err = emit(f.Name, data)
		}
		if err != nil {
			p.failed++
			p.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to process archive: %w", err)
	}
	if count == 0 {
		p.log.Debug("Nothing to process", zap.String("archive", src))
		return nil
	}
	return p.summary()
}

func (p *processor) renderEntry(ctx context.Context, arc string, f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return p.render(ctx, r, path.Join(filepath.Base(arc), f.Name), p.formatFor(f.Name))
}

func (p *processor) summary() error {
	if p.failed > 0 {
		return fmt.Errorf("unable to process %d of %d sources", p.failed, p.total)
	}
	return nil
}

func (p *processor) isResult(path string) bool {
	suffix := p.env.Cfg.Output.Suffix
	return len(suffix) != 0 && strings.HasSuffix(strings.TrimSuffix(path, filepath.Ext(path)), suffix)
}

// besideSource inserts configured suffix before extension.
func (p *processor) besideSource(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + p.env.Cfg.Output.Suffix + ext
}

// source renders single source and writes result to out, standard output
// when out is empty. Nothing is written when transformation fails.
func (p *processor) source(ctx context.Context, r io.Reader, name string, format config.InputFormat, out string) error {
	data, err := p.render(ctx, r, name, format)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		_, err := p.stdout.Write(data)
		return err
	}
	return p.write(out, data)
}

func (p *processor) render(ctx context.Context, r io.Reader, name string, format config.InputFormat) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.log.Debug("Processing source", zap.String("source", name), zap.Stringer("format", format))

	var (
		buf bytes.Buffer
		err error
	)
	switch format {
	case config.InputFormatHtml:
		err = p.rw.HTML(&buf, r, p.env.CodePage, name)
	case config.InputFormatXhtml:
		err = p.rw.XHTML(&buf, r, p.env.CodePage, name)
	default:
		err = p.rw.WriteStylesheet(&buf, r, p.env.CodePage, name)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to rewrite %s: %w", name, err)
	}

	p.env.Rpt.StoreData(p.reportName("results", name), buf.Bytes())
	return buf.Bytes(), nil
}

func (p *processor) reportName(kind, name string) string {
	ext := path.Ext(filepath.ToSlash(name))
	return path.Join(kind+"-"+p.runID, slug.Make(strings.TrimSuffix(name, ext))+ext)
}

// keepSource puts copy of the source file into debug report.
func (p *processor) keepSource(name, file string) {
	if err := p.env.Rpt.StoreCopy(p.reportName("sources", name), file); err != nil {
		p.log.Warn("Unable to store source in debug report", zap.String("file", file), zap.Error(err))
	}
}

func (p *processor) write(out string, data []byte) error {
	if _, err := os.Stat(out); err == nil {
		if !p.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", out)
		}
		p.log.Warn("Overwriting existing file", zap.String("file", out))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	p.log.Debug("Result written", zap.String("file", out), zap.Int("bytes", len(data)))
	return nil
}
