package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenText        TokenType = iota // Literal text
	TokenPlaceholder                  // {{ identifier }}
	TokenEOF                          // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenPlaceholder:
		return "PLACEHOLDER"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Position tracks a location inside a scalar for error reporting.
type Position struct {
	Line   int
	Column int
}

// Token represents a lexical token.
//
// For placeholders Value holds the trimmed identifier and Raw the full
// "{{ ... }}" text. For text tokens both hold the literal text.
type Token struct {
	Type  TokenType
	Value string
	Raw   string
	Pos   Position
}

// Lexer splits a scalar into literal text and placeholders.
//
// Anything that is not a well-formed placeholder is literal text: an
// unclosed "{{", or "{{ ... }}" whose content is not an identifier.
type Lexer struct {
	input    string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens ending with TokenEOF.
// Adjacent text is merged into a single token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token

	for {
		tok := l.nextToken()
		if tok.Type == TokenText && len(tokens) > 0 && tokens[len(tokens)-1].Type == TokenText {
			prev := &tokens[len(tokens)-1]
			prev.Value += tok.Value
			prev.Raw += tok.Raw
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens
}

func (l *Lexer) nextToken() Token {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}
	}

	if l.matchString("{{") {
		if tok, ok := l.scanPlaceholder(); ok {
			return tok
		}
		// Not a placeholder: emit one brace as text so a placeholder
		// starting at the next byte, as in "{{{x}}}", is still found.
		l.markStart()
		l.advance()
		return Token{Type: TokenText, Value: "{", Raw: "{", Pos: l.startPosition()}
	}

	return l.scanText()
}

// scanText scans literal text until the next "{{" or EOF.
func (l *Lexer) scanText() Token {
	l.markStart()
	start := l.pos

	for l.pos < len(l.input) && !l.matchString("{{") {
		l.advance()
	}

	text := l.input[start:l.pos]
	return Token{Type: TokenText, Value: text, Raw: text, Pos: l.startPosition()}
}

// scanPlaceholder tries to scan "{{ identifier }}" at the current
// position. The lexer only advances when it succeeds.
func (l *Lexer) scanPlaceholder() (Token, bool) {
	rest := l.input[l.pos+2:]
	end := strings.Index(rest, "}}")
	if end < 0 {
		return Token{}, false
	}

	name := strings.TrimSpace(rest[:end])
	if !IsIdentifier(name) {
		return Token{}, false
	}

	l.markStart()
	raw := l.input[l.pos : l.pos+2+end+2]
	for range utf8.RuneCountInString(raw) {
		l.advance()
	}

	return Token{Type: TokenPlaceholder, Value: name, Raw: raw, Pos: l.startPosition()}, true
}

// IsIdentifier reports whether s is a non-empty run of letters, digits
// and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.col}
}

func (l *Lexer) startPosition() Position {
	return Position{Line: l.lastLine, Column: l.lastCol}
}
