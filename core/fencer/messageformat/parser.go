// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package messageformat

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

type dialect int

const (
	dialectJava dialect = iota
	dialectIntl
)

const eof rune = -1

// identifierStops end argument names, format types and option selectors.
const identifierStops = "{},#'|"

// intlQuotable are the characters an apostrophe quotes in the intl dialect.
const intlQuotable = "{}#|"

// ParseJava parses s as a java.text.MessageFormat pattern.
func ParseJava(s string) ([]Node, error) {
	return parse(s, dialectJava)
}

// ParseIntl parses s as an intl-messageformat pattern.
func ParseIntl(s string) ([]Node, error) {
	return parse(s, dialectIntl)
}

func parse(s string, d dialect) ([]Node, error) {
	p := &parser{src: []rune(s), dialect: d}

	nodes, err := p.message("")
	if err != nil {
		return nil, err
	}

	return nodes, nil
}

// parser is a recursive-descent parser over the codepoints of a pattern.
type parser struct {
	src     []rune
	pos     int
	dialect dialect

	// plural counts the enclosing plural and selectordinal bodies, in which
	// "#" is a placeholder.
	plural int
}

func (p *parser) peek() rune {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) rune {
	if p.pos+n >= len(p.src) {
		return eof
	}

	return p.src[p.pos+n]
}

func (p *parser) advance() {
	if p.pos < len(p.src) {
		p.pos++
	}
}

func (p *parser) skipSpace() {
	for r := p.peek(); r != eof && unicode.IsSpace(r); r = p.peek() {
		p.advance()
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(want string) error {
	if p.peek() == eof {
		return p.errorf("expected %s, found end of pattern", want)
	}

	return p.errorf("expected %s, found %q", want, p.peek())
}

func (p *parser) expect(r rune) error {
	p.skipSpace()

	if p.peek() != r {
		return p.unexpected(strconv.QuoteRune(r))
	}

	p.advance()

	return nil
}

// message parses text and arguments until the end of the pattern or, when
// stops is not empty, until one of the runes in stops. The stop rune is not
// consumed.
func (p *parser) message(stops string) ([]Node, error) {
	var (
		nodes     []Node
		text      strings.Builder
		textStart = -1
	)

	flush := func() {
		if textStart < 0 {
			return
		}

		nodes = append(nodes, &Text{Value: text.String(), span: Span{Start: textStart, End: p.pos - 1}})
		text.Reset()

		textStart = -1
	}

	literal := func(start int, r rune) {
		if textStart < 0 {
			textStart = start
		}

		text.WriteRune(r)
	}

	for {
		r := p.peek()

		switch {
		case r == eof:
			if stops != "" {
				return nil, p.unexpected("'}'")
			}

			flush()

			return nodes, nil
		case stops != "" && strings.ContainsRune(stops, r):
			flush()

			return nodes, nil
		case r == '{':
			flush()

			arg, err := p.argument()
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, arg)
		case r == '}':
			if p.dialect == dialectIntl {
				return nil, p.errorf("unmatched '}'")
			}

			literal(p.pos, r)
			p.advance()
		case r == '#' && p.plural > 0:
			flush()

			nodes = append(nodes, &Pound{span: Span{Start: p.pos, End: p.pos}})
			p.advance()
		case r == '\\' && p.dialect == dialectIntl && strings.ContainsRune(`{}#\`, p.peekAt(1)):
			literal(p.pos, p.peekAt(1))
			p.advance()
			p.advance()
		case r == '\'':
			p.quote(literal)
		default:
			literal(p.pos, r)
			p.advance()
		}
	}
}

// quote consumes an apostrophe and, when it opens a quoted section, the
// section up to and including the closing apostrophe. A doubled apostrophe
// is a literal one both inside and outside a quote. An unterminated quote
// runs to the end of the pattern.
func (p *parser) quote(literal func(int, rune)) {
	start := p.pos

	if p.peekAt(1) == '\'' {
		literal(start, '\'')
		p.advance()
		p.advance()

		return
	}

	if p.dialect == dialectIntl && !strings.ContainsRune(intlQuotable, p.peekAt(1)) {
		literal(start, '\'')
		p.advance()

		return
	}

	p.advance()

	for r := p.peek(); r != eof; r = p.peek() {
		if r == '\'' {
			if p.peekAt(1) != '\'' {
				p.advance()

				return
			}

			p.advance()
		}

		literal(start, r)
		p.advance()
	}
}

func (p *parser) identifier() string {
	start := p.pos

	for r := p.peek(); r != eof && !unicode.IsSpace(r) && !strings.ContainsRune(identifierStops, r); r = p.peek() {
		p.advance()
	}

	return string(p.src[start:p.pos])
}

// argument parses a placeholder starting at "{" through its closing "}".
func (p *parser) argument() (*Argument, error) {
	start := p.pos
	p.advance()
	p.skipSpace()

	arg := &Argument{Name: p.identifier()}
	if arg.Name == "" {
		return nil, p.unexpected("argument name")
	}

	if p.dialect == dialectJava && !isDigits(arg.Name) {
		return nil, &SyntaxError{Offset: start + 1, Msg: fmt.Sprintf("argument index %q is not a number", arg.Name)}
	}

	p.skipSpace()

	switch p.peek() {
	case '}':
		p.advance()
		arg.span = Span{Start: start, End: p.pos - 1}

		return arg, nil
	case ',':
		p.advance()
	default:
		return nil, p.unexpected("',' or '}'")
	}

	p.skipSpace()

	arg.Type = p.identifier()
	if arg.Type == "" {
		return nil, p.unexpected("format type")
	}

	if err := p.format(arg); err != nil {
		return nil, err
	}

	arg.span = Span{Start: start, End: p.pos - 1}

	return arg, nil
}

// format parses everything after an argument's type through the closing "}".
func (p *parser) format(arg *Argument) error {
	switch arg.Type {
	case "plural", "selectordinal":
		if err := p.expect(','); err != nil {
			return err
		}

		if err := p.pluralOffset(arg); err != nil {
			return err
		}

		p.plural++
		defer func() { p.plural-- }()

		return p.options(arg)
	case "select":
		if err := p.expect(','); err != nil {
			return err
		}

		return p.options(arg)
	case "choice":
		if p.dialect != dialectJava {
			break
		}

		if err := p.expect(','); err != nil {
			return err
		}

		return p.choices(arg)
	case "number", "date", "time":
		return p.simpleFormat(arg)
	case "spellout", "ordinal", "duration":
		if p.dialect != dialectJava {
			break
		}

		return p.simpleFormat(arg)
	}

	return p.errorf("unknown format type %q", arg.Type)
}

func (p *parser) simpleFormat(arg *Argument) error {
	p.skipSpace()

	if p.peek() == ',' {
		p.advance()
		arg.Style = strings.TrimSpace(p.style())
	}

	return p.expect('}')
}

// style returns the raw text of a simple format style. Braces inside it must
// balance; quoted sections are skipped over.
func (p *parser) style() string {
	var (
		start  = p.pos
		depth  = 0
		quoted = false
	)

	for r := p.peek(); r != eof; r = p.peek() {
		switch {
		case r == '\'':
			quoted = !quoted
		case quoted:
		case r == '{':
			depth++
		case r == '}':
			if depth == 0 {
				return string(p.src[start:p.pos])
			}

			depth--
		}

		p.advance()
	}

	return string(p.src[start:p.pos])
}

func (p *parser) pluralOffset(arg *Argument) error {
	const prefix = "offset:"

	p.skipSpace()

	if !strings.HasPrefix(string(p.src[p.pos:min(p.pos+len(prefix), len(p.src))]), prefix) {
		return nil
	}

	p.pos += len(prefix)
	p.skipSpace()

	start := p.pos
	for r := p.peek(); r >= '0' && r <= '9'; r = p.peek() {
		p.advance()
	}

	n, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil {
		return &SyntaxError{Offset: start, Msg: "invalid plural offset"}
	}

	arg.Offset = n

	return nil
}

// options parses "selector {message}" branches through the argument's closing "}".
func (p *parser) options(arg *Argument) error {
	for {
		p.skipSpace()

		if p.peek() == '}' {
			break
		}

		selStart := p.pos

		selector := p.identifier()
		if selector == "" {
			return p.unexpected("option selector")
		}

		if rest, ok := strings.CutPrefix(selector, "="); ok && !isDigits(rest) {
			return &SyntaxError{Offset: selStart, Msg: fmt.Sprintf("invalid explicit selector %q", selector)}
		}

		if slices.ContainsFunc(arg.Options, func(o *Option) bool { return o.Selector == selector }) {
			return &SyntaxError{Offset: selStart, Msg: fmt.Sprintf("duplicate selector %q", selector)}
		}

		p.skipSpace()

		if p.peek() != '{' {
			return p.unexpected("'{' after selector " + strconv.Quote(selector))
		}

		bodyStart := p.pos
		p.advance()

		body, err := p.message("}")
		if err != nil {
			return err
		}

		p.advance()

		arg.Options = append(arg.Options, &Option{
			Selector: selector,
			Body:     body,
			BodySpan: Span{Start: bodyStart, End: p.pos - 1},
		})
	}

	if len(arg.Options) == 0 {
		return p.errorf("%s argument %q has no options", arg.Type, arg.Name)
	}

	p.advance()

	return nil
}

// choices parses "limit#message|limit<message" branches through the
// argument's closing "}".
func (p *parser) choices(arg *Argument) error {
	for {
		p.skipSpace()

		limitStart := p.pos

		for r := p.peek(); r != '#' && r != '<' && r != '≤'; r = p.peek() {
			if r == eof || r == '|' || r == '}' {
				return p.unexpected("choice separator '#' or '<'")
			}

			p.advance()
		}

		limit := strings.TrimSpace(string(p.src[limitStart:p.pos]))
		if !isChoiceLimit(limit) {
			return &SyntaxError{Offset: limitStart, Msg: fmt.Sprintf("invalid choice limit %q", limit)}
		}

		separator := p.peek()
		p.advance()

		bodyStart := p.pos

		body, err := p.message("|}")
		if err != nil {
			return err
		}

		arg.Options = append(arg.Options, &Option{
			Selector: limit + string(separator),
			Body:     body,
			BodySpan: Span{Start: bodyStart, End: p.pos - 1},
		})

		if p.peek() == '}' {
			p.advance()

			return nil
		}

		p.advance()
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func isChoiceLimit(s string) bool {
	switch s {
	case "∞", "-∞":
		return true
	}

	_, err := strconv.ParseFloat(s, 64)

	return err == nil
}
