// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package messageformat parses ICU-style message patterns into a small AST whose
nodes carry exact codepoint spans into the source.

Two dialects are supported:

  - [ParseJava]: java.text.MessageFormat, with numeric argument indexes,
    "choice" sub-patterns and Java quoting (every apostrophe opens a quote,
    two apostrophes are a literal one).
  - [ParseIntl]: intl-messageformat, with named arguments, plural, select and
    selectordinal options, "#" inside plural bodies, backslash escapes and
    ICU optional apostrophe quoting.

Parse failures are reported as *[SyntaxError].
*/
package messageformat

import "fmt"

// Span is an inclusive [Start, End] codepoint range.
type Span struct {
	Start int
	End   int
}

// Node is an element of a parsed message.
type Node interface {
	Span() Span
}

// Text is a run of literal text. Value has quoting and escapes resolved.
type Text struct {
	Value string
	span  Span
}

func (t *Text) Span() Span { return t.span }

// Pound is a "#" inside a plural or selectordinal option body.
type Pound struct {
	span Span
}

func (p *Pound) Span() Span { return p.span }

// Argument is a "{...}" placeholder, including any nested options.
type Argument struct {
	// Name is the argument index (Java) or identifier (intl).
	Name string
	// Type is the format type, such as "number", "plural" or "choice". Empty for "{name}".
	Type string
	// Style is the raw style text for simple formats, such as "integer" or "short".
	Style string
	// Offset is the plural offset from "offset:n". Zero when absent.
	Offset int
	// Options holds the branches of choice, plural, select and selectordinal arguments.
	Options []*Option

	span Span
}

func (a *Argument) Span() Span { return a.span }

// Complex reports whether the argument selects between options.
func (a *Argument) Complex() bool {
	return len(a.Options) > 0
}

// Option is one branch of a complex argument.
type Option struct {
	// Selector is the branch key: "=0", "one", "other", or a choice limit such as "1#".
	Selector string
	// Body is the parsed branch message.
	Body []Node
	// BodySpan covers the branch's "{...}", or the sub-message text for choice branches.
	BodySpan Span
}

// Literal reports whether the branch body is plain text with no placeholders.
func (o *Option) Literal() bool {
	for _, n := range o.Body {
		if _, ok := n.(*Text); !ok {
			return false
		}
	}

	return true
}

// SyntaxError describes a pattern that could not be parsed.
type SyntaxError struct {
	// Offset is the codepoint offset at which parsing failed.
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("messageformat: %s at offset %d", e.Msg, e.Offset)
}
