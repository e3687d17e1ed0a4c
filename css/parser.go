package css

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser turns declaration blocks and stylesheets into rule sets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseDeclarations parses "property: value; ..." text. Surrounding braces
// are tolerated, malformed declarations are skipped. Value text keeps source
// spacing with whitespace runs collapsed and comments removed.
func (p *Parser) ParseDeclarations(block string) *Declarations {
	decls := NewDeclarations()

	block = strings.TrimSpace(block)
	if strings.HasPrefix(block, "{") {
		block = strings.TrimSuffix(strings.TrimPrefix(block, "{"), "}")
	}

	var (
		name, value []Token
		colon       bool
		depth       int
	)
	flush := func() {
		defer func() { name, value, colon = name[:0], value[:0], false }()

		property := Stringify(name)
		if len(property) == 0 && !colon {
			return
		}
		if !colon || len(property) == 0 || strings.ContainsFunc(property, unicode.IsSpace) {
			p.log.Debug("Skipping malformed declaration", zap.String("text", Stringify(append(name, value...))))
			return
		}
		v := NewValue(Stringify(value))
		if len(v.Text) == 0 {
			p.log.Debug("Skipping empty declaration", zap.String("property", property))
			return
		}
		decls.Set(property, v)
	}

	for _, tok := range Tokenize(block) {
		switch tok.Kind {
		case FunctionToken, LeftParenToken, LeftBracket, LeftBraceToken:
			depth++
		case RightParenToken, RightBracket, RightBraceToken:
			if depth > 0 {
				depth--
			}
		case SemicolonToken:
			if depth == 0 {
				flush()
				continue
			}
		case ColonToken:
			if depth == 0 && !colon {
				colon = true
				continue
			}
		}
		if colon {
			value = append(value, tok)
		} else {
			name = append(name, tok)
		}
	}
	flush()
	return decls
}

// groupRules are at-rules whose body is a list of rules.
var groupRules = map[string]bool{
	"@media":         true,
	"@supports":      true,
	"@container":     true,
	"@layer":         true,
	"@document":      true,
	"@-moz-document": true,
}

// Parse splits stylesheet into items in source order. Rule sets inside
// conditional group rules (@media, @supports) are parsed too, other at-rules
// are kept verbatim. When origin is not empty every rule set remembers its
// byte range in data and origin.
func (p *Parser) Parse(data []byte, origin string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(origin) > 0 {
		p.log.Debug("Parsing CSS", zap.String("source", origin), zap.Int("bytes", len(data)))
	}
	sheet.Items = p.parseItems(sheet, data, 0, origin)
	return sheet
}

// parseItems frames items of data, base is offset of data in the whole
// stylesheet.
func (p *Parser) parseItems(sheet *Stylesheet, data []byte, base int, origin string) []Item {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	var (
		items   []Item
		pos     int
		start   = -1
		atRule  string
		prelude []Token
	)
	reset := func() {
		start, atRule, prelude = -1, "", prelude[:0]
	}

	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			break
		}
		at := pos
		pos += len(text)

		switch tt {
		case css.CommentToken, css.CDOToken, css.CDCToken:
			continue
		case css.WhitespaceToken:
			if start >= 0 {
				prelude = append(prelude, Token{Kind: WhitespaceToken, Data: " "})
			}
			continue
		case css.AtKeywordToken:
			if start < 0 {
				start, atRule = at, string(text)
			}
		case css.SemicolonToken:
			if len(atRule) > 0 {
				items = append(items, Item{AtRule: &AtRule{
					Name:   atRule,
					Text:   string(data[start:pos]),
					Offset: Offset{Start: base + start, End: base + pos},
				}})
				reset()
				continue
			}
		case css.RightBraceToken:
			sheet.warn(origin, base+at, "unexpected '}'")
			reset()
			continue
		case css.LeftBraceToken:
			end, closed := skipBlock(l, &pos)
			if !closed {
				sheet.warn(origin, base+at, "unterminated block")
			}
			if start < 0 {
				start = at
			}
			offset := Offset{Start: base + start, End: base + pos}

			switch selectors := Stringify(prelude); {
			case len(atRule) > 0:
				items = append(items, p.atRuleItem(sheet, atRule, selectors, data[start:pos], data[at+1:end], base+at+1, offset, closed, origin))
			case len(selectors) == 0:
				sheet.warn(origin, base+start, "rule without selector")
			default:
				if rs := p.newRuleSet(selectors, string(data[at+1:end]), offset, origin); rs != nil {
					items = append(items, Item{Rule: rs})
				}
			}
			reset()
			continue
		}

		if start < 0 {
			start = at
		}
		prelude = append(prelude, Token{Kind: tt, Data: string(text)})
	}

	switch {
	case start >= 0 && len(atRule) > 0:
		sheet.warn(origin, base+start, "%s statement is not terminated", atRule)
		items = append(items, Item{AtRule: &AtRule{
			Name:   atRule,
			Text:   strings.TrimSpace(string(data[start:])) + ";",
			Offset: Offset{Start: base + start, End: base + len(data)},
		}})
	case start >= 0:
		sheet.warn(origin, base+start, "incomplete rule %q", Stringify(prelude))
	}
	return items
}

// atRuleItem makes block out of group rule and keeps everything else as
// written. Prelude starts with at-keyword.
func (p *Parser) atRuleItem(sheet *Stylesheet, name, prelude string, raw, body []byte, base int, offset Offset, closed bool, origin string) Item {
	if !groupRules[strings.ToLower(name)] {
		p.log.Debug("Keeping @-rule as is", zap.String("rule", name))
		text := string(raw)
		if !closed {
			text += "}"
		}
		return Item{AtRule: &AtRule{Name: name, Text: text, Offset: offset}}
	}
	return Item{Block: &Block{
		Name:    name,
		Prelude: strings.TrimSpace(strings.TrimPrefix(prelude, name)),
		Items:   p.parseItems(sheet, body, base, origin),
		Offset:  offset,
	}}
}

func (p *Parser) newRuleSet(selectors, block string, offset Offset, origin string) *RuleSet {
	opts := []RuleSetOption{WithBlock(block), WithLogger(p.log)}
	if len(origin) > 0 {
		opts = append(opts, WithOffset(offset), WithOrigin(origin))
	}
	rs, err := NewRuleSet(selectors, opts...)
	if err != nil {
		// only possible with inconsistent source reference
		p.log.Debug("Unable to create rule set", zap.String("selectors", selectors), zap.Error(err))
		return nil
	}
	return rs
}

// skipBlock consumes tokens up to and including brace matching already
// consumed '{'. It returns offset of the closing brace (end of input when
// block is not terminated).
func skipBlock(l *css.Lexer, pos *int) (int, bool) {
	depth := 1
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			return *pos, false
		}
		at := *pos
		*pos += len(text)
		switch tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			if depth--; depth == 0 {
				return at, true
			}
		}
	}
}

func (s *Stylesheet) warn(origin string, offset int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(origin) > 0 {
		msg = fmt.Sprintf("%s:%d: %s", origin, offset, msg)
	}
	s.Warnings = append(s.Warnings, msg)
}
