package step

import (
	"fmt"
	"io"
	"strconv"
)

// Parse consumes a complete Part 21 exchange structure and returns its
// model. The parser is strict about syntax but knows no schema:
// unknown entity types and argument shapes are preserved symbolically.
func Parse(input []byte) (*Model, error) {
	p := &parser{lex: NewLexer(string(input))}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader) (*Model, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(input)
}

type parser struct {
	lex *Lexer
	tok Token
}

func (p *parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(t TokenType) error {
	if p.tok.Type != t {
		return p.unexpected(t.String())
	}
	return p.advance()
}

func (p *parser) unexpected(want string) error {
	return &SyntaxError{
		Offset: p.tok.Pos,
		Msg:    fmt.Sprintf("expected %s, found %s", want, p.tok.Type),
	}
}

func (p *parser) parseFile() (*Model, error) {
	m := NewModel()

	for _, t := range []TokenType{TokenIso, TokenSemicolon, TokenHeader, TokenSemicolon} {
		if err := p.expect(t); err != nil {
			return nil, err
		}
	}

	for p.tok.Type == TokenIdent {
		typed, err := p.parseTyped()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		m.Header = append(m.Header, typed)
	}

	for _, t := range []TokenType{TokenEndsec, TokenSemicolon, TokenData, TokenSemicolon} {
		if err := p.expect(t); err != nil {
			return nil, err
		}
	}

	for p.tok.Type == TokenRef {
		if err := p.parseRecord(m); err != nil {
			return nil, err
		}
	}

	for _, t := range []TokenType{TokenEndsec, TokenSemicolon, TokenEndIso, TokenSemicolon} {
		if err := p.expect(t); err != nil {
			return nil, err
		}
	}
	if p.tok.Type != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return m, nil
}

func (p *parser) parseRecord(m *Model) error {
	refTok := p.tok
	id, err := strconv.ParseInt(refTok.Literal, 10, 64)
	if err != nil {
		return &SyntaxError{Offset: refTok.Pos, Msg: fmt.Sprintf("entity id #%s out of range", refTok.Literal)}
	}
	if id < 1 {
		return &SyntaxError{Offset: refTok.Pos, Msg: "entity id must be positive"}
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expect(TokenEquals); err != nil {
		return err
	}

	var e *Entity
	switch p.tok.Type {
	case TokenIdent:
		typed, err := p.parseTyped()
		if err != nil {
			return err
		}
		e = &Entity{ID: id, Type: typed.Name, Args: typed.Args}
	case TokenLParen:
		if err := p.advance(); err != nil {
			return err
		}
		var parts []Typed
		for p.tok.Type == TokenIdent {
			typed, err := p.parseTyped()
			if err != nil {
				return err
			}
			parts = append(parts, typed)
		}
		if len(parts) == 0 {
			return p.unexpected("identifier")
		}
		if err := p.expect(TokenRParen); err != nil {
			return err
		}
		e = NewComplex(id, parts...)
	default:
		return p.unexpected("identifier or '('")
	}

	if err := p.expect(TokenSemicolon); err != nil {
		return err
	}
	if !m.Insert(e) {
		return &SyntaxError{Offset: refTok.Pos, Msg: fmt.Sprintf("duplicate entity id #%d", id)}
	}
	return nil
}

func (p *parser) parseTyped() (Typed, error) {
	name := p.tok.Literal
	if err := p.advance(); err != nil {
		return Typed{}, err
	}
	args, err := p.parseParens()
	if err != nil {
		return Typed{}, err
	}
	return Typed{Name: name, Args: args}, nil
}

// parseParens parses a parenthesized, comma-separated argument list,
// starting at the opening parenthesis.
func (p *parser) parseParens() (List, error) {
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	if p.tok.Type == TokenRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return List{}, nil
	}
	var args List
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if p.tok.Type != TokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseValue() (Value, error) {
	tok := p.tok
	switch tok.Type {
	case TokenInteger:
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: tok.Pos, Msg: fmt.Sprintf("integer %s out of range", tok.Literal)}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Integer(n), nil
	case TokenReal:
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: tok.Pos, Msg: fmt.Sprintf("malformed real %s", tok.Literal)}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Real(f), nil
	case TokenString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return String(tok.Literal), nil
	case TokenEnum:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Enum(tok.Literal), nil
	case TokenBinary:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Binary(tok.Literal), nil
	case TokenRef:
		id, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: tok.Pos, Msg: fmt.Sprintf("entity id #%s out of range", tok.Literal)}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Ref(id), nil
	case TokenDollar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Omitted{}, nil
	case TokenStar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Redeclared{}, nil
	case TokenLParen:
		list, err := p.parseParens()
		if err != nil {
			return nil, err
		}
		return list, nil
	case TokenIdent:
		typed, err := p.parseTyped()
		if err != nil {
			return nil, err
		}
		return typed, nil
	default:
		return nil, p.unexpected("a value")
	}
}
