package transform

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/commerceops/flowline/pkg/template"
)

// Arithmetic expressions in calculate transformations are authored by
// workflow users, so they are parsed by a minimal recursive-descent
// evaluator supporting + - * / ( ), numeric literals and dotted field
// references. No general-purpose expression engine sits behind it.

type calcParser struct {
	tokens []calcToken
	pos    int
	data   map[string]any
}

type calcTokenKind int

const (
	tokenNumber calcTokenKind = iota
	tokenField
	tokenOperator
	tokenLeftParen
	tokenRightParen
)

type calcToken struct {
	kind  calcTokenKind
	value string
}

// evaluateExpression evaluates an arithmetic expression against the data
// context, resolving dotted identifiers to numeric field values.
func evaluateExpression(expression string, data map[string]any) (float64, error) {
	tokens, err := tokenizeExpression(expression)
	if err != nil {
		return 0, err
	}

	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty expression")
	}

	p := &calcParser{tokens: tokens, data: data}

	result, err := p.parseSum()
	if err != nil {
		return 0, err
	}

	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("unexpected token %q", p.tokens[p.pos].value)
	}

	return result, nil
}

func tokenizeExpression(expression string) ([]calcToken, error) {
	var tokens []calcToken

	runes := []rune(expression)
	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, calcToken{kind: tokenLeftParen, value: "("})
			i++
		case r == ')':
			tokens = append(tokens, calcToken{kind: tokenRightParen, value: ")"})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/':
			tokens = append(tokens, calcToken{kind: tokenOperator, value: string(r)})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}

			tokens = append(tokens, calcToken{kind: tokenNumber, value: string(runes[start:i])})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '.') {
				i++
			}

			tokens = append(tokens, calcToken{kind: tokenField, value: string(runes[start:i])})
		default:
			return nil, fmt.Errorf("unexpected character %q in expression", string(r))
		}
	}

	return tokens, nil
}

func (p *calcParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}

	for p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenOperator {
		op := p.tokens[p.pos].value
		if op != "+" && op != "-" {
			break
		}

		p.pos++

		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}

		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}

	return left, nil
}

func (p *calcParser) parseProduct() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}

	for p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenOperator {
		op := p.tokens[p.pos].value
		if op != "*" && op != "/" {
			break
		}

		p.pos++

		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}

		if op == "*" {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}

			left /= right
		}
	}

	return left, nil
}

func (p *calcParser) parseFactor() (float64, error) {
	if p.pos >= len(p.tokens) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	token := p.tokens[p.pos]

	switch token.kind {
	case tokenNumber:
		p.pos++

		value, err := strconv.ParseFloat(token.value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", token.value)
		}

		return value, nil
	case tokenField:
		p.pos++

		raw, ok := template.Lookup(p.data, token.value)
		if !ok {
			return 0, fmt.Errorf("unknown field %q", token.value)
		}

		return fieldToNumber(token.value, raw)
	case tokenLeftParen:
		p.pos++

		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}

		if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokenRightParen {
			return 0, fmt.Errorf("missing closing parenthesis")
		}

		p.pos++

		return value, nil
	case tokenOperator:
		// Unary minus.
		if token.value == "-" {
			p.pos++

			value, err := p.parseFactor()
			if err != nil {
				return 0, err
			}

			return -value, nil
		}
	}

	return 0, fmt.Errorf("unexpected token %q", token.value)
}

func fieldToNumber(field string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("field %q is not numeric", field)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("field %q is not numeric", field)
	}
}
