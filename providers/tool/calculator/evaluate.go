package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxDepth bounds operator and parenthesis nesting.
const maxDepth = 256

// ErrInvalidCharacters is returned when an expression contains anything
// outside digits, '.', '(', ')', ' ' and the operators + - * /.
// The message is shown to clients verbatim.
var ErrInvalidCharacters = errors.New("Invalid characters in expression") //nolint:staticcheck

// EvaluationError reports a syntactically invalid expression.
type EvaluationError struct {
	// Pos is the zero-based byte offset where parsing failed.
	Pos    int
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Reason, e.Pos+1)
}

func allowed(r rune) bool {
	return (r >= '0' && r <= '9') || strings.ContainsRune("+-*/.() ", r)
}

// Sanitize strips disallowed characters from expr. If anything was stripped,
// it returns [ErrInvalidCharacters].
func Sanitize(expr string) (string, error) {
	sanitized := strings.Map(func(r rune) rune {
		if allowed(r) {
			return r
		}
		return -1
	}, expr)
	if sanitized != expr {
		return sanitized, ErrInvalidCharacters
	}
	return sanitized, nil
}

// Evaluate sanitizes and evaluates expr.
//
// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | "(" expr ")"
//
// "**" is right associative and its base may not carry a bare sign
// ("-2**2" must be written "(-2)**2"). Numbers with redundant leading
// zeros, such as "01", are rejected, as are "++" and "--". Nesting deeper
// than 256 levels is rejected.
func Evaluate(expr string) (float64, error) {
	sanitized, err := Sanitize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{src: sanitized}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.skipSpaces(); p.pos < len(p.src) {
		return 0, p.unexpected()
	}
	return value, nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// peek returns the next non-space byte, or 0 at end of input.
func (p *parser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) atPower() bool {
	return p.peek() == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*'
}

func (p *parser) fail(reason string) error {
	return &EvaluationError{Pos: p.pos, Reason: reason}
}

func (p *parser) unexpected() error {
	if p.peek() == 0 {
		return p.fail("unexpected end of expression")
	}
	return p.fail(fmt.Sprintf("unexpected token '%c'", p.src[p.pos]))
}

// consumeSign consumes a '+' or '-' and rejects an immediately repeated one.
func (p *parser) consumeSign() (byte, error) {
	sign := p.src[p.pos]
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == sign {
		return 0, p.fail(fmt.Sprintf("'%c%c' is not allowed", sign, sign))
	}
	p.pos++
	return sign, nil
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		c := p.peek()
		if c != '+' && c != '-' {
			return left, nil
		}
		op, err := p.consumeSign()
		if err != nil {
			return 0, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary(false)
	if err != nil {
		return 0, err
	}
	for {
		c := p.peek()
		if (c != '*' && c != '/') || p.atPower() {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary(false)
		if err != nil {
			return 0, err
		}
		if c == '*' {
			left *= right
		} else {
			left /= right
		}
	}
}

// parseUnary parses a signed operand. signed is true when a sign has
// already been applied, which forbids a following "**".
func (p *parser) parseUnary(signed bool) (float64, error) {
	if p.depth >= maxDepth {
		return 0, p.fail("expression nested too deeply")
	}
	p.depth++
	defer func() { p.depth-- }()

	c := p.peek()
	if c != '+' && c != '-' {
		return p.parsePower(signed)
	}
	sign, err := p.consumeSign()
	if err != nil {
		return 0, err
	}
	value, err := p.parseUnary(true)
	if err != nil {
		return 0, err
	}
	if sign == '-' {
		return -value, nil
	}
	return value, nil
}

func (p *parser) parsePower(signed bool) (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if !p.atPower() {
		return base, nil
	}
	if signed {
		return 0, p.fail("unary operator before '**' requires parentheses")
	}
	p.pos += 2
	exponent, err := p.parseUnary(false)
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exponent), nil
}

func (p *parser) parsePrimary() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			if p.pos >= len(p.src) {
				return 0, p.fail("missing closing parenthesis")
			}
			return 0, p.unexpected()
		}
		p.pos++
		return value, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return 0, p.unexpected()
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	intDigits := p.pos - start
	if intDigits > 1 && p.src[start] == '0' {
		p.pos = start
		return 0, p.fail("numbers may not have leading zeros")
	}

	fracDigits := 0
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		p.pos = start
		return 0, p.unexpected()
	}

	literal := p.src[start:p.pos]
	if strings.HasSuffix(literal, ".") {
		literal += "0"
	}
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			// Overflowing literals evaluate to ±Inf.
			return value, nil
		}
		p.pos = start
		return 0, p.fail(fmt.Sprintf("invalid number %q", literal))
	}
	return value, nil
}
