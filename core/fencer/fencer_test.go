// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rs(pairs ...int) []Range {
	out := make([]Range, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Range{Start: pairs[i], End: pairs[i+1]})
	}

	return out
}

func TestFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  Kind
		input string
		want  TokenMap
	}{
		{"printf literal percent", Printf, "%%", TokenMap{}},
		{"printf sequential", Printf, "%s and %s", TokenMap{"%1$s": rs(0, 1), "%2$s": rs(7, 8)}},
		{"printf explicit positions", Printf, "%2$s %s %1$d", TokenMap{
			"%2$s": rs(0, 3),
			"%3$s": rs(5, 6),
			"%1$d": rs(8, 11),
		}},
		{"printf flags and width", Printf, "%-5.2f%%", TokenMap{"%1$-5.2f": rs(0, 5)}},
		{"printf zero position", Printf, "%0$s then %s", TokenMap{"%1$s": rs(10, 11)}},
		{"printf overflowing position", Printf, "%99999999999999999999$s", TokenMap{}},
		{"printf multibyte", Printf, "日本 %d", TokenMap{"%1$d": rs(3, 4)}},
		{"printf after literal percent", Printf, "100%% done", TokenMap{}},
		{"strftime literal percent", Strftime, "100%% done", TokenMap{"%1$%": rs(3, 4)}},
		{"strftime date", Strftime, "%Y-%m-%d", TokenMap{
			"%1$Y": rs(0, 1),
			"%2$m": rs(3, 4),
			"%3$d": rs(6, 7),
		}},
		{"braces single and double", Braces, "{{name}} and {count}", TokenMap{
			"{{name}}": rs(0, 7),
			"{count}":  rs(13, 19),
		}},
		{"braces repeated", Android, "{n} of {n}", TokenMap{"{n}": rs(0, 2, 7, 9)}},
		{"braces unbalanced open", Braces, "{{name}", TokenMap{"{name}": rs(1, 6)}},
		{"mustache", Mustache, "Hi {{name}}, {{{html}}}", TokenMap{
			"{{name}}":   rs(3, 10),
			"{{{html}}}": rs(13, 22),
		}},
		{"erb", Erb, "<%= name %> hi", TokenMap{"<%= name %>": rs(0, 10)}},
		{"html tags and entities", HTML, "<b>x</b> &amp;", TokenMap{
			"<b>":   rs(0, 2),
			"</b>":  rs(4, 7),
			"&amp;": rs(9, 13),
		}},
		{"html numeric entities", HTML, "&#123;&#x1F;", TokenMap{
			"&#123;": rs(0, 5),
			"&#x1F;": rs(6, 11),
		}},
		{"message format choice", MessageFormat, "{0,choice,0#are no files|1#is one file}", TokenMap{
			"{0,choice,0#are no files|1#is one file}": rs(0, 38),
		}},
		{"message format simple", MessageFormat, "{0} and {1,number}", TokenMap{
			"{0}":        rs(0, 2),
			"{1,number}": rs(8, 17),
		}},
		{"message format unparsable", MessageFormat, "Hello {0", TokenMap{}},
		{"intl plural branches", IntlMessageFormat, "{count, plural, =0 {none} other {{count} items}}", TokenMap{
			"count:plural|=0": rs(19, 24),
			"{count}":         rs(33, 39),
		}},
		{"intl pound", IntlMessageFormat, "{n, plural, one {# item} other {# items}}", TokenMap{
			"#": rs(17, 17, 32, 32),
		}},
		{"intl select", IntlMessageFormat, "{gender, select, female {She} other {They}} said {n}", TokenMap{
			"gender:select|female": rs(24, 28),
			"gender:select|other":  rs(36, 41),
			"{n}":                  rs(49, 51),
		}},
		{"intl escaped braces", IntlMessageFormat, `\{ not a token \}`, TokenMap{}},
		{"intl unparsable", IntlMessageFormat, "{n, plural,}", TokenMap{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.kind.Fence(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s.Fence(%q) mismatch (-want +got):\n%s", tt.kind, tt.input, diff)
			}
		})
	}
}

// "%%" is a literal for printf but a conversion for strftime.
func TestPrintfAndStrftimeDisagreeOnPercent(t *testing.T) {
	t.Parallel()

	const s = "100%% done"

	assert.Empty(t, Printf.Fence(s))
	assert.Equal(t, TokenMap{"%1$%": rs(3, 4)}, Strftime.Fence(s))
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  Kind
		input string
		want  bool
	}{
		{Printf, "%q %", true},
		{Android, "{name} and {other_name}", true},
		{Android, "{Name}", false},
		{Android, "{name1}", false},
		{Braces, "{{a}} {b}", true},
		{Braces, "{{{a}}}", false},
		{Braces, "{}", false},
		{Braces, "{a", false},
		{Braces, "a}", false},
		{Mustache, "{{#items}}{{name}}{{/items}}", true},
		{Mustache, "{{#items}}{{name}}", false},
		{Erb, "<%= a %> and <% b %>", true},
		{Erb, "<%= a", false},
		{HTML, `Some <b id="bar">valid<br /> XHTML</b>.`, true},
		{HTML, "An <b>unclosed tag.", false},
		{HTML, "A <b>mismatched</i>.", false},
		{HTML, "An <foo>unknown</foo> tag.", false},
		{HTML, "Plain text &amp; entities.", true},
		{MessageFormat, "{0,choice,0#are no files|1#is one file|1<are {0,number,integer} files}", true},
		{MessageFormat, "{0,choice,0#are no files", false},
		{MessageFormat, "{name}", false},
		{IntlMessageFormat, "{count, plural, =0 {none} other {# items}}", true},
		{IntlMessageFormat, "{count, plural, =0 {none} other {# items}", false},
		{IntlMessageFormat, `Escaped \{braces\}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.kind.Valid(tt.input))
		})
	}
}

func TestFenceIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"%1$s of %d",
		"{{name}} <b>{0}</b> &amp; <%= x %>",
		"{n, plural, one {# thing} other {{n} things}}",
		"日本語 %s {名前}",
	}

	for _, k := range Kinds() {
		for _, s := range inputs {
			first := k.Fence(s)
			second := k.Fence(s)

			assert.True(t, first.Equal(second), "%s.Fence(%q) differed between calls", k, s)
		}
	}
}

func TestRangesStayInBoundsAndNeverOverlap(t *testing.T) {
	t.Parallel()

	const s = "%s {0} {{a}} <i>&lt;</i> %% <%= b %> {n, plural, one {#} other {x}}"

	for _, k := range Kinds() {
		ranges := k.Fence(s).Ranges()

		for i, r := range ranges {
			assert.GreaterOrEqual(t, r.Start, 0, k.String())
			assert.Less(t, r.End, len([]rune(s)), k.String())
			assert.LessOrEqual(t, r.Start, r.End, k.String())

			if i > 0 {
				assert.False(t, ranges[i-1].Overlaps(r), "%s: %s overlaps %s", k, ranges[i-1], r)
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("Intl-Message-Format")
	require.NoError(t, err)
	assert.Equal(t, IntlMessageFormat, got)

	_, err = ParseKind("sprintf")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestFenceAllMergesKinds(t *testing.T) {
	t.Parallel()

	got := FenceAll("<b>%s</b>", HTML, Printf)

	want := TokenMap{
		"<b>":  rs(0, 2),
		"%1$s": rs(3, 4),
		"</b>": rs(5, 8),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FenceAll mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, ValidAll("<b>{0}</b>", HTML, MessageFormat))
	assert.False(t, ValidAll("<b>{0</b>", HTML, MessageFormat))
}
