// Package rewrite applies shorthand transformations to stylesheets and to
// styles embedded into HTML and XHTML documents.
package rewrite

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"cssr/config"
	"cssr/css"
)

// Options controls what happens to every declaration block.
type Options struct {
	Pipeline       config.Pipeline
	ForceImportant bool
	// SkipInvalid leaves blocks which fail to expand unchanged instead of
	// reporting an error.
	SkipInvalid bool
}

// Rewriter transforms stylesheets, style elements and style attributes.
type Rewriter struct {
	opts   Options
	parser *css.Parser
	log    *zap.Logger
}

// New creates rewriter, nil log disables logging.
func New(opts Options, log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{
		opts:   opts,
		parser: css.NewParser(log),
		log:    log,
	}
}

// shorthands is implemented by anything holding a declaration block.
type shorthands interface {
	ExpandShorthand() error
	CreateShorthand()
}

// block adapts bare declarations (style attribute) to shorthands.
type block struct {
	decls *css.Declarations
	log   *zap.Logger
}

func (b block) ExpandShorthand() error {
	return css.ExpandShorthands(b.decls, b.log)
}

func (b block) CreateShorthand() {
	css.CreateShorthands(b.decls, b.log)
}

func (rw *Rewriter) apply(s shorthands) error {
	if rw.opts.Pipeline.Expands() {
		if err := s.ExpandShorthand(); err != nil {
			if !rw.opts.SkipInvalid {
				return err
			}
			rw.log.Warn("Declarations left unchanged", zap.Error(err))
		}
	}
	if rw.opts.Pipeline.Contracts() {
		s.CreateShorthand()
	}
	return nil
}

// Stylesheet parses data and transforms every rule set of it, nested ones
// included. At-rules are kept as they are. Parser warnings are logged, rule
// sets are processed even after one of them fails and all failures are
// returned together.
func (rw *Rewriter) Stylesheet(data []byte, origin string) (*css.Stylesheet, error) {
	sheet := rw.parser.Parse(data, origin)
	for _, w := range sheet.Warnings {
		rw.log.Warn("Stylesheet problem", zap.String("details", w))
	}

	var err error
	for _, rs := range sheet.Rules() {
		err = multierr.Append(err, rw.apply(rs))
	}
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// WriteStylesheet transforms stylesheet from r and writes result to w. When
// enc is not nil source is decoded from it, output is always UTF-8.
func (rw *Rewriter) WriteStylesheet(w io.Writer, r io.Reader, enc encoding.Encoding, origin string) error {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	sheet, err := rw.Stylesheet(data, origin)
	if err != nil {
		return err
	}
	if _, err := sheet.Write(w, css.WriteOptions{ForceImportant: rw.opts.ForceImportant}); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

// Declarations transforms content of a style attribute. Blocks without any
// recognizable declaration are returned as is.
func (rw *Rewriter) Declarations(text string) (string, error) {
	decls := rw.parser.ParseDeclarations(text)
	if decls.Len() == 0 {
		return text, nil
	}
	if err := rw.apply(block{decls: decls, log: rw.log}); err != nil {
		return "", fmt.Errorf("unable to rewrite style %q: %w", text, err)
	}
	return decls.Format(rw.opts.ForceImportant), nil
}

// styleText transforms content of a style element.
func (rw *Rewriter) styleText(text, origin string) (string, error) {
	sheet, err := rw.Stylesheet([]byte(text), origin)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := sheet.Write(&buf, css.WriteOptions{ForceImportant: rw.opts.ForceImportant}); err != nil {
		return "", err
	}
	return "\n" + buf.String(), nil
}

func isStyleAttr(key string) bool {
	return strings.EqualFold(key, "style")
}
