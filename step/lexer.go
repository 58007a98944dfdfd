package step

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIso       // ISO-10303-21
	TokenEndIso    // END-ISO-10303-21
	TokenHeader    // HEADER
	TokenData      // DATA
	TokenEndsec    // ENDSEC
	TokenIdent     // CARTESIAN_POINT, PRODUCT, ...
	TokenInteger   // 42, -17
	TokenReal      // 1.5, -2.E-3
	TokenString    // '...'
	TokenEnum      // .T.
	TokenBinary    // "0FF"
	TokenRef       // #123
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenSemicolon // ;
	TokenEquals    // =
	TokenDollar    // $
	TokenStar      // *
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIso:
		return "ISO-10303-21"
	case TokenEndIso:
		return "END-ISO-10303-21"
	case TokenHeader:
		return "HEADER"
	case TokenData:
		return "DATA"
	case TokenEndsec:
		return "ENDSEC"
	case TokenIdent:
		return "identifier"
	case TokenInteger:
		return "integer"
	case TokenReal:
		return "real"
	case TokenString:
		return "string"
	case TokenEnum:
		return "enumeration"
	case TokenBinary:
		return "binary"
	case TokenRef:
		return "entity reference"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenSemicolon:
		return "';'"
	case TokenEquals:
		return "'='"
	case TokenDollar:
		return "'$'"
	case TokenStar:
		return "'*'"
	}
	return "unknown token"
}

// Token is a single Part 21 token. Literal holds the token text with
// delimiters stripped: strings without quotes (and with '' undoubled),
// enumerations without dots, references without the leading #.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// keywords maps the section delimiter words to their token types. They
// are the only identifiers that may contain hyphens.
var keywords = map[string]TokenType{
	"ISO-10303-21":     TokenIso,
	"END-ISO-10303-21": TokenEndIso,
	"HEADER":           TokenHeader,
	"DATA":             TokenData,
	"ENDSEC":           TokenEndsec,
}

// Lexer tokenizes Part 21 exchange structure input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment consumes a /* ... */ comment. Comments do not nest.
func (l *Lexer) skipComment() error {
	start := l.pos
	l.readChar() // consume /
	l.readChar() // consume *
	for {
		if l.ch == 0 {
			return &SyntaxError{Offset: start, Msg: "unterminated comment"}
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.ch == '/' && l.peekChar() == '*' {
			if err := l.skipComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	pos := l.pos
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Literal: "", Pos: pos}
	case '(':
		tok = Token{Type: TokenLParen, Literal: "(", Pos: pos}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")", Pos: pos}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Literal: ",", Pos: pos}
		l.readChar()
	case ';':
		tok = Token{Type: TokenSemicolon, Literal: ";", Pos: pos}
		l.readChar()
	case '=':
		tok = Token{Type: TokenEquals, Literal: "=", Pos: pos}
		l.readChar()
	case '$':
		tok = Token{Type: TokenDollar, Literal: "$", Pos: pos}
		l.readChar()
	case '*':
		tok = Token{Type: TokenStar, Literal: "*", Pos: pos}
		l.readChar()
	case '#':
		l.readChar()
		if !isDigit(l.ch) {
			return Token{}, &SyntaxError{Offset: pos, Msg: "expected entity id after '#'"}
		}
		return Token{Type: TokenRef, Literal: l.readDigits(), Pos: pos}, nil
	case '\'':
		lit, err := l.readString()
		if err != nil {
			return Token{}, err
		}
		tok = Token{Type: TokenString, Literal: lit, Pos: pos}
	case '"':
		lit, err := l.readBinary()
		if err != nil {
			return Token{}, err
		}
		tok = Token{Type: TokenBinary, Literal: lit, Pos: pos}
	case '.':
		lit, err := l.readEnum()
		if err != nil {
			return Token{}, err
		}
		tok = Token{Type: TokenEnum, Literal: lit, Pos: pos}
	case '+', '-':
		if !isDigit(l.peekChar()) {
			return Token{}, &SyntaxError{Offset: pos, Msg: fmt.Sprintf("unexpected character %q", l.ch)}
		}
		return l.readNumber()
	default:
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isLetter(l.ch) {
			lit := l.readIdent()
			if kw, ok := keywords[lit]; ok {
				return Token{Type: kw, Literal: lit, Pos: pos}, nil
			}
			if strings.ContainsRune(lit, '-') {
				return Token{}, &SyntaxError{Offset: pos, Msg: fmt.Sprintf("malformed identifier %q", lit)}
			}
			return Token{Type: TokenIdent, Literal: lit, Pos: pos}, nil
		}
		return Token{}, &SyntaxError{Offset: pos, Msg: fmt.Sprintf("unexpected character %q", l.ch)}
	}

	return tok, nil
}

// readIdent consumes an identifier. Hyphens are accepted here so that
// the section keywords lex as single tokens; NextToken rejects them in
// ordinary identifiers.
func (l *Lexer) readIdent() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '-' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readDigits() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber consumes an integer or real literal. A real has a decimal
// point, an exponent, or both.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	isReal := false
	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		isReal = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'E' || l.ch == 'e' {
		isReal = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return Token{}, &SyntaxError{Offset: start, Msg: "malformed real: missing exponent digits"}
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lit := l.input[start:l.pos]
	if isReal {
		return Token{Type: TokenReal, Literal: lit, Pos: start}, nil
	}
	return Token{Type: TokenInteger, Literal: lit, Pos: start}, nil
}

// readString consumes a single-quoted string. A doubled quote is an
// embedded quote; all other bytes, control directives included, pass
// through untouched.
func (l *Lexer) readString() (string, error) {
	start := l.pos
	l.readChar() // consume opening quote
	var result []byte
	for {
		if l.ch == 0 {
			return "", &SyntaxError{Offset: start, Msg: "unterminated string"}
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				result = append(result, '\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // consume closing quote
			return string(result), nil
		}
		result = append(result, l.ch)
		l.readChar()
	}
}

// readBinary consumes a double-quoted binary literal, kept as raw text.
func (l *Lexer) readBinary() (string, error) {
	start := l.pos
	l.readChar() // consume opening quote
	lit := l.pos
	for l.ch != '"' {
		if l.ch == 0 {
			return "", &SyntaxError{Offset: start, Msg: "unterminated binary literal"}
		}
		l.readChar()
	}
	s := l.input[lit:l.pos]
	l.readChar() // consume closing quote
	return s, nil
}

// readEnum consumes a dotted enumeration such as .STERADIAN. and
// returns the name without the dots.
func (l *Lexer) readEnum() (string, error) {
	start := l.pos
	l.readChar() // consume opening dot
	lit := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.pos == lit || l.ch != '.' {
		return "", &SyntaxError{Offset: start, Msg: "malformed enumeration"}
	}
	s := l.input[lit:l.pos]
	l.readChar() // consume closing dot
	return s, nil
}

func isLetter(ch byte) bool {
	return ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, stopping at the first
// lexical error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}
