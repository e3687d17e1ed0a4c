package rewrite

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// HTML rewrites style attributes and style elements of HTML document read
// from r. Without explicit enc source encoding is detected from BOM or meta
// declaration. Result is rendered as UTF-8 and meta declarations are updated
// to say so.
func (rw *Rewriter) HTML(w io.Writer, r io.Reader, enc encoding.Encoding, origin string) error {
	var err error
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	} else if r, err = charset.NewReader(r, ""); err != nil {
		return fmt.Errorf("unable to detect document encoding: %w", err)
	}

	doc, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return fmt.Errorf("unable to parse HTML: %w", err)
	}

	var (
		errs   error
		styles int
	)
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		for i := range n.Attr {
			if len(n.Attr[i].Namespace) != 0 || !isStyleAttr(n.Attr[i].Key) {
				continue
			}
			val, err := rw.Declarations(n.Attr[i].Val)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			n.Attr[i].Val = val
		}
		switch n.DataAtom {
		case atom.Style:
			styles++
			errs = multierr.Append(errs, rw.htmlStyle(n, fmt.Sprintf("%s<style:%d>", origin, styles)))
		case atom.Meta:
			fixMetaCharset(n)
		}
	}
	if errs != nil {
		return errs
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("unable to render HTML: %w", err)
	}
	rw.log.Debug("HTML rewritten", zap.String("origin", origin), zap.Int("style elements", styles))
	return nil
}

func (rw *Rewriter) htmlStyle(n *html.Node, origin string) error {
	var sb strings.Builder
	for c := range n.ChildNodes() {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	text, err := rw.styleText(sb.String(), origin)
	if err != nil {
		return err
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

func fixMetaCharset(n *html.Node) {
	var httpEquiv bool
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "http-equiv") && strings.EqualFold(strings.TrimSpace(a.Val), "content-type") {
			httpEquiv = true
		}
	}
	for i := range n.Attr {
		switch {
		case strings.EqualFold(n.Attr[i].Key, "charset"):
			n.Attr[i].Val = "utf-8"
		case httpEquiv && strings.EqualFold(n.Attr[i].Key, "content"):
			n.Attr[i].Val = "text/html; charset=utf-8"
		}
	}
}
