// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package blocktag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlockTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"<p>", true},
		{"</p>", true},
		{"  <DIV class=\"x\">\n", true},
		{"<pre>", true},
		{"<header>", true},
		{"<hr/>", true},
		{"<b>", false},
		{"<p>text</p>", false},
		{"<param>", false},
		{"text", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsBlockTag(tt.input))
		})
	}
}

func TestSplitKeepsWhitespaceWithTags(t *testing.T) {
	t.Parallel()

	const s = "<p>One <b>bold</b></p>\n  <p>Two</p>"

	got := Split(s)

	assert.Equal(t, []Segment{
		{Text: "<p>", Tag: true},
		{Text: "One <b>bold</b>"},
		{Text: "</p>\n  ", Tag: true},
		{Text: "<p>", Tag: true},
		{Text: "Two"},
		{Text: "</p>", Tag: true},
	}, got)

	var b strings.Builder
	for _, seg := range got {
		b.WriteString(seg.Text)
	}

	assert.Equal(t, s, b.String())
}

func TestSplitWithoutBlockTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Segment{{Text: "just <i>inline</i>"}}, Split("just <i>inline</i>"))
	assert.Nil(t, Split(""))
}

func TestContent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"One", "Two"}, Content("<div>\n  <p>One</p>\n  <p>Two</p>\n</div>"))
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	got := Names()

	assert.Contains(t, got, "blockquote")
	assert.IsNonDecreasing(t, got)
}
