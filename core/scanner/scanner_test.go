// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	percentRegexp = regexp.MustCompile(`%`)
	wordRegexp    = regexp.MustCompile(`\w+`)
)

func TestScanUntil(t *testing.T) {
	t.Parallel()

	s := New("héllo % wörld %")

	text, ok := s.ScanUntil(percentRegexp)
	require.True(t, ok)
	assert.Equal(t, "%", text)
	assert.Equal(t, 6, s.MatchStart(), "match start is a codepoint offset")
	assert.Equal(t, 7, s.Pos())

	_, ok = s.ScanUntil(percentRegexp)
	require.True(t, ok)
	assert.Equal(t, 14, s.MatchStart())
	assert.True(t, s.EOS())

	_, ok = s.ScanUntil(percentRegexp)
	assert.False(t, ok)
	assert.False(t, s.MatchedOK())
	assert.Equal(t, 15, s.Pos(), "failed scan leaves the cursor in place")
}

func TestScanIsAnchored(t *testing.T) {
	t.Parallel()

	s := New("ab cd")

	_, ok := s.Scan(regexp.MustCompile(`cd`))
	assert.False(t, ok, "cd is not at the cursor")
	assert.Equal(t, 0, s.Pos())

	text, ok := s.Scan(wordRegexp)
	require.True(t, ok)
	assert.Equal(t, "ab", text)
	assert.Equal(t, 2, s.Pos())
}

func TestSetPosRewinds(t *testing.T) {
	t.Parallel()

	s := New("日本語テキスト")

	s.SetPos(3)
	r, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'テ', r)

	s.SetPos(1)
	r, _ = s.Next()
	assert.Equal(t, '本', r)
	assert.Equal(t, 2, s.Pos())

	s.SetPos(100)
	assert.True(t, s.EOS())
	assert.Equal(t, 7, s.Pos())

	s.SetPos(-4)
	assert.Equal(t, 0, s.Pos())
}

func TestCheckDoesNotAdvance(t *testing.T) {
	t.Parallel()

	s := New("word rest")

	text, ok := s.Check(wordRegexp)
	require.True(t, ok)
	assert.Equal(t, "word", text)
	assert.Equal(t, 0, s.Pos())
	assert.Equal(t, "word rest", s.Rest())
}
