package rewrite

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// XHTML is HTML for documents which must stay well formed XML (EPUB content
// documents, for example). Encoding declared in XML prolog is honored unless
// enc is given, result is always UTF-8.
func (rw *Rewriter) XHTML(w io.Writer, r io.Reader, enc encoding.Encoding, origin string) error {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
		// already decoded, ignore whatever prolog says
		doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return fmt.Errorf("unable to parse XHTML: %w", err)
	}

	var (
		errs   error
		styles int
	)
	for _, el := range doc.FindElements("//*") {
		for i := range el.Attr {
			if len(el.Attr[i].Space) != 0 || !isStyleAttr(el.Attr[i].Key) {
				continue
			}
			val, err := rw.Declarations(el.Attr[i].Value)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			el.Attr[i].Value = val
		}
		if strings.EqualFold(el.Tag, "style") {
			styles++
			text, err := rw.styleText(el.Text(), fmt.Sprintf("%s<style:%d>", origin, styles))
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			el.SetText(text)
		}
	}
	if errs != nil {
		return errs
	}

	for _, t := range doc.Child {
		if pi, ok := t.(*etree.ProcInst); ok && pi.Target == "xml" && strings.Contains(pi.Inst, "encoding") {
			pi.Inst = `version="1.0" encoding="utf-8"`
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write XHTML: %w", err)
	}
	rw.log.Debug("XHTML rewritten", zap.String("origin", origin), zap.Int("style elements", styles))
	return nil
}
