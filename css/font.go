package css

import (
	"fmt"
	"strconv"
	"strings"
)

const fontDefault = "normal"

// FontParts is the decomposed font shorthand. Family is empty when no family
// list followed the size. System holds system font keyword, when set the
// rest of the fields are not meaningful.
type FontParts struct {
	Style      string
	Variant    string
	Weight     string
	Size       string
	LineHeight string
	Family     string
	System     string
}

func newFontParts() FontParts {
	return FontParts{
		Style:      fontDefault,
		Variant:    fontDefault,
		Weight:     fontDefault,
		Size:       fontDefault,
		LineHeight: fontDefault,
	}
}

func inheritedFontParts() FontParts {
	const inherit = "inherit"
	return FontParts{
		Style:      inherit,
		Variant:    inherit,
		Weight:     inherit,
		Size:       inherit,
		LineHeight: inherit,
		Family:     inherit,
	}
}

// Declarations returns longhand declarations in canonical order.
func (p FontParts) Declarations() []Declaration {
	return []Declaration{
		{Property: "font-style", Value: Value{Text: p.Style}},
		{Property: "font-variant", Value: Value{Text: p.Variant}},
		{Property: "font-weight", Value: Value{Text: p.Weight}},
		{Property: "font-size", Value: Value{Text: p.Size}},
		{Property: "line-height", Value: Value{Text: p.LineHeight}},
		{Property: "font-family", Value: Value{Text: p.Family}},
	}
}

// fontScanner walks tokens strictly forward. Whitespace is skipped when
// looking at the next token.
type fontScanner struct {
	tokens []Token
	pos    int
}

func (s *fontScanner) skipWhitespace() {
	for s.pos < len(s.tokens) && s.tokens[s.pos].IsWhitespace() {
		s.pos++
	}
}

func (s *fontScanner) peek() (Token, bool) {
	s.skipWhitespace()
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *fontScanner) next() {
	s.pos++
}

func (s *fontScanner) rest() []Token {
	s.skipWhitespace()
	return s.tokens[s.pos:]
}

// ScanFont decomposes font shorthand value:
//
//	[ <style> || <variant> || <weight> ]? <size> [ / <line-height> ]? <family>
//
// or a single system font keyword or "inherit".
func ScanFont(value string) (FontParts, error) {
	parts := newFontParts()
	s := fontScanner{tokens: Tokenize(value)}

	if tok, ok := s.peek(); ok {
		switch kw := tok.Keyword(); {
		case kw == "inherit":
			s.next()
			return inheritedFontParts(), nil
		case IsSystemFont(kw):
			s.next()
			parts.System = kw
			return parts, nil
		}
	}

	// style, variant and weight in any order, the last one of each axis wins
	for {
		tok, ok := s.peek()
		if !ok {
			break
		}
		if slot := parts.axisFor(tok); slot != nil {
			*slot = tok.Data
			s.next()
			continue
		}
		break
	}

	tok, ok := s.peek()
	if !ok || !isFontSize(tok) {
		return parts, fmt.Errorf("%w: %q", ErrFontSizeMissing, value)
	}
	parts.Size = tok.Data
	s.next()

	if tok, ok := s.peek(); ok && tok.IsDelim('/') {
		s.next()
		tok, ok = s.peek()
		if !ok || !isLineHeight(tok) {
			return parts, fmt.Errorf("%w: %q", ErrLineHeightMissing, value)
		}
		parts.LineHeight = tok.Data
		s.next()
	}

	parts.Family = Stringify(s.rest())
	return parts, nil
}

// axisFor classifies tok as style, variant or weight and returns slot to
// store it in, nil when token belongs to none of them.
func (p *FontParts) axisFor(tok Token) *string {
	kw := tok.Keyword()
	switch {
	case fontStyleKeywords.has(kw):
		return &p.Style
	case fontVariantKeywords.has(kw):
		return &p.Variant
	case fontWeightKeywords.has(kw), isNumericWeight(tok):
		return &p.Weight
	}
	return nil
}

func isNumericWeight(tok Token) bool {
	if tok.Kind != NumberToken {
		return false
	}
	n, err := strconv.ParseFloat(tok.Data, 64)
	if err != nil {
		return false
	}
	return n >= 100 && n <= 900
}

func isFontSize(tok Token) bool {
	switch tok.Kind {
	case DimensionToken, PercentageToken:
		return true
	case NumberToken:
		return isZero(tok.Data)
	case IdentToken:
		kw := tok.Keyword()
		return fontSizeKeywords.has(kw) || kw == "inherit"
	}
	return false
}

func isLineHeight(tok Token) bool {
	switch tok.Kind {
	case DimensionToken, PercentageToken, NumberToken:
		return true
	case IdentToken:
		kw := tok.Keyword()
		return kw == "normal" || kw == "inherit"
	}
	return false
}

func isZero(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "+"), 64)
	return err == nil && f == 0
}
