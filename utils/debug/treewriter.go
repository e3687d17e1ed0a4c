// Package debug renders parsed stylesheets as indented trees for the dump
// command.
package debug

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cssr/css"
)

const indent = "  "

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) pad(depth int) {
	tw.w.WriteString(strings.Repeat(indent, depth))
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Stylesheet writes items in source order: rule sets with their source
// position, selectors from the most specific one and declarations in store
// order, at-rules with their text, blocks with nested items. Parser warnings
// follow.
func (tw TreeWriter) Stylesheet(depth int, name string, ss *css.Stylesheet) {
	tw.Line(depth, "stylesheet %s items=%d rules=%d warnings=%d", encodeText(name), len(ss.Items), len(ss.Rules()), len(ss.Warnings))
	index := 0
	tw.items(depth+1, &index, ss.Items)
	if len(ss.Warnings) == 0 {
		return
	}
	tw.Line(depth+1, "warnings")
	for _, w := range ss.Warnings {
		tw.TextBlock(depth+2, "warning", w)
	}
}

// items numbers rule sets through nested blocks.
func (tw TreeWriter) items(depth int, index *int, items []css.Item) {
	for _, item := range items {
		switch {
		case item.Rule != nil:
			tw.RuleSet(depth, *index, item.Rule)
			*index++
		case item.AtRule != nil:
			tw.Line(depth, "at-rule %s at %s", item.AtRule.Name, item.AtRule.Offset)
			tw.TextBlock(depth+1, "text", item.AtRule.Text)
		case item.Block != nil:
			tw.Line(depth, "block %s %s at %s", item.Block.Name, encodeText(item.Block.Prelude), item.Block.Offset)
			tw.items(depth+1, index, item.Block.Items)
		}
	}
}

func (tw TreeWriter) RuleSet(depth, index int, rs *css.RuleSet) {
	if off, origin, ok := rs.Source(); ok {
		tw.Line(depth, "rule #%d at %s:%s", index, origin, off)
	} else {
		tw.Line(depth, "rule #%d", index)
	}

	selectors := slices.Collect(rs.EachSelector(css.EachSelectorOptions{}))
	slices.SortStableFunc(selectors, func(a, b css.SelectorInfo) int {
		return css.CalculateSpecificity(b.Selector).Compare(css.CalculateSpecificity(a.Selector))
	})
	for _, info := range selectors {
		tw.Line(depth+1, "selector %s specificity=%d", encodeText(info.Selector), info.Specificity)
	}
	for d := range rs.EachDeclaration() {
		if d.Important {
			tw.Line(depth+1, "%s: %s !important", d.Property, encodeText(d.Text))
			continue
		}
		tw.Line(depth+1, "%s: %s", d.Property, encodeText(d.Text))
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
