package sexp

import (
	"fmt"
	"io"
	"strings"
)

// ParseError describes structurally malformed input. Offset is the byte
// position of the offending token.
type ParseError struct {
	Offset int64
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sexp: %s at offset %d", e.Msg, e.Offset)
}

// Parser parses s-expressions from a lexer
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// Parse parses all top-level s-expressions from a reader.
func Parse(r io.Reader) ([]Node, error) {
	return NewParser(r).ParseAll()
}

// ParseString parses s-expressions from a string.
func ParseString(s string) ([]Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseAll parses all top-level s-expressions from the input
func (p *Parser) ParseAll() ([]Node, error) {
	var result []Node

	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.current.Type != TokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return &ParseError{Offset: p.current.Offset, Msg: err.Error()}
	}
	p.current = tok
	return nil
}

// parseExpr parses a single s-expression
func (p *Parser) parseExpr() (Node, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()

	case TokenSymbol:
		return Symbol(p.current.Value), nil

	case TokenString:
		return Str(p.current.Value), nil

	case TokenRightParen:
		return nil, &ParseError{Offset: p.current.Offset, Msg: "unexpected ')'"}

	case TokenEOF:
		return nil, &ParseError{Offset: p.current.Offset, Msg: "unexpected end of input"}

	default:
		return nil, &ParseError{Offset: p.current.Offset, Msg: fmt.Sprintf("unexpected token type %v", p.current.Type)}
	}
}

// parseList parses a list: ( ... )
func (p *Parser) parseList() (Node, error) {
	if p.current.Type != TokenLeftParen {
		return nil, &ParseError{Offset: p.current.Offset, Msg: "expected '('"}
	}

	var elements []Node

	for {
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.current.Type == TokenRightParen {
			break
		}

		if p.current.Type == TokenEOF {
			return nil, &ParseError{Offset: p.current.Offset, Msg: "unexpected end of input in list"}
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}

	return &List{Elements: elements}, nil
}
