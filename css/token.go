package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// TokenKind is the lexical class of a value token.
type TokenKind = css.TokenType

// Token kinds used by shorthand grammars.
const (
	IdentToken      = css.IdentToken
	NumberToken     = css.NumberToken
	DimensionToken  = css.DimensionToken
	PercentageToken = css.PercentageToken
	DelimToken      = css.DelimToken
	WhitespaceToken = css.WhitespaceToken
	StringToken     = css.StringToken
	CommaToken      = css.CommaToken
	FunctionToken   = css.FunctionToken
	URLToken        = css.URLToken
	HashToken       = css.HashToken
	RightParenToken = css.RightParenthesisToken
	LeftParenToken  = css.LeftParenthesisToken
	CommentToken    = css.CommentToken
	ColonToken      = css.ColonToken
	SemicolonToken  = css.SemicolonToken
	LeftBraceToken  = css.LeftBraceToken
	RightBraceToken = css.RightBraceToken
	LeftBracket     = css.LeftBracketToken
	RightBracket    = css.RightBracketToken
)

// Token is a single lexical unit of a property value.
type Token struct {
	Kind TokenKind
	Data string
}

// IsWhitespace reports whether the token is whitespace.
func (t Token) IsWhitespace() bool {
	return t.Kind == WhitespaceToken
}

// IsIdent reports whether the token is an identifier equal to kw (case-insensitive).
func (t Token) IsIdent(kw string) bool {
	return t.Kind == IdentToken && strings.EqualFold(t.Data, kw)
}

// IsDelim reports whether the token is the delimiter r.
func (t Token) IsDelim(r byte) bool {
	return t.Kind == DelimToken && len(t.Data) == 1 && t.Data[0] == r
}

// Keyword returns lower-cased identifier text or empty string for non-identifiers.
func (t Token) Keyword() string {
	if t.Kind != IdentToken {
		return ""
	}
	return strings.ToLower(t.Data)
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Data + ")"
}

// Tokenize splits value into tokens. Comments are dropped.
func Tokenize(value string) []Token {
	l := css.NewLexer(parse.NewInputString(value))

	var tokens []Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return tokens
		case css.CommentToken:
			continue
		}
		tokens = append(tokens, Token{Kind: tt, Data: string(data)})
	}
}

// Stringify renders tokens back to text. Every run of whitespace becomes a
// single space and the result is trimmed.
func Stringify(tokens []Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		switch {
		case t.Kind == CommentToken:
			continue
		case t.IsWhitespace():
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.WriteString(t.Data)
	}
	return sb.String()
}
