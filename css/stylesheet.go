package css

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/multierr"
)

// Item is a single stylesheet entry. Exactly one of Rule, AtRule or Block is
// not nil.
type Item struct {
	Rule   *RuleSet
	AtRule *AtRule // kept verbatim
	Block  *Block  // conditional group with nested items
}

// AtRule is an at-rule which is not rewritten: statements (@import, @charset,
// @namespace) and blocks we do not look into (@font-face, @page, @keyframes).
type AtRule struct {
	Name   string // at-keyword as written, "@import"
	Text   string // source text up to and including ';' or closing '}'
	Offset Offset
}

// Block is a conditional group rule (@media, @supports and friends) whose
// body is a list of items.
type Block struct {
	Name    string // at-keyword as written, "@media"
	Prelude string // "print and (min-width: 10em)"
	Items   []Item
	Offset  Offset
}

// Stylesheet is an ordered list of top-level items.
type Stylesheet struct {
	Items    []Item
	Warnings []string
}

// Rules returns every rule set, nested ones included, in source order.
func (s *Stylesheet) Rules() []*RuleSet {
	return collectRules(nil, s.Items)
}

func collectRules(rules []*RuleSet, items []Item) []*RuleSet {
	for _, item := range items {
		switch {
		case item.Rule != nil:
			rules = append(rules, item.Rule)
		case item.Block != nil:
			rules = collectRules(rules, item.Block.Items)
		}
	}
	return rules
}

// Imports returns text of @import statements in source order.
func (s *Stylesheet) Imports() []string {
	var imports []string
	for _, item := range s.Items {
		if item.AtRule != nil && strings.EqualFold(item.AtRule.Name, "@import") {
			imports = append(imports, item.AtRule.Text)
		}
	}
	return imports
}

// ExpandShorthand expands shorthands of every rule set. Rule sets which fail
// are left untouched and do not prevent expansion of the rest, all errors
// are returned together.
func (s *Stylesheet) ExpandShorthand() (err error) {
	for _, rs := range s.Rules() {
		err = multierr.Append(err, rs.ExpandShorthand())
	}
	return err
}

// CreateShorthand contracts longhands of every rule set.
func (s *Stylesheet) CreateShorthand() {
	for _, rs := range s.Rules() {
		rs.CreateShorthand()
	}
}

// WriteOptions controls stylesheet rendering.
type WriteOptions struct {
	ForceImportant bool
}

// Write renders items in source order, one rule set per line. At-rules are
// written as they were in source, blocks put their items one level deeper.
func (s *Stylesheet) Write(w io.Writer, opts WriteOptions) (int64, error) {
	sw := &sheetWriter{w: bufio.NewWriter(w), opts: opts}
	sw.items(0, s.Items)
	if sw.err == nil {
		sw.err = sw.w.Flush()
	}
	return sw.total, sw.err
}

// sheetWriter keeps first error, once it happens nothing else is written.
type sheetWriter struct {
	w     *bufio.Writer
	opts  WriteOptions
	total int64
	err   error
}

func (sw *sheetWriter) line(depth int, text string) {
	if sw.err != nil {
		return
	}
	n, err := sw.w.WriteString(strings.Repeat("  ", depth) + text + "\n")
	sw.total += int64(n)
	sw.err = err
}

func (sw *sheetWriter) items(depth int, items []Item) {
	for _, item := range items {
		switch {
		case item.Rule != nil:
			sw.line(depth, item.Rule.Format(sw.opts.ForceImportant))
		case item.AtRule != nil:
			sw.line(depth, item.AtRule.Text)
		case item.Block != nil:
			head := item.Block.Name
			if len(item.Block.Prelude) > 0 {
				head += " " + item.Block.Prelude
			}
			sw.line(depth, head+" {")
			sw.items(depth+1, item.Block.Items)
			sw.line(depth, "}")
		}
	}
}

// WriteTo implements io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	return s.Write(w, WriteOptions{})
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	_, _ = s.WriteTo(&sb)
	return sb.String()
}
