// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package scanner provides a cursor over a Unicode string that advances by
matching regular expressions, in the manner of Ruby's StringScanner.

All positions exposed by a [Scanner] are codepoint offsets, not byte offsets,
so ranges computed from them stay meaningful for multi-byte scripts. Byte
offsets are tracked internally and never leak through the API.

A Scanner is not safe for concurrent use; create one per string.
*/
package scanner

import (
	"regexp"
	"unicode/utf8"
)

// Scanner is a codepoint-aware cursor over a string.
//
// The zero value is an empty scanner positioned at the end of an empty string.
type Scanner struct {
	src string

	bytePos int // byte offset of the cursor into src
	pos     int // codepoint offset of the cursor

	matchStart int    // codepoint offset where the last successful match began
	matched    string // text of the last successful match
	ok         bool   // whether the last scan succeeded
}

// New returns a Scanner positioned at the start of s.
func New(s string) *Scanner {
	return &Scanner{src: s}
}

// String returns the whole string being scanned.
func (s *Scanner) String() string {
	return s.src
}

// Len returns the length of the scanned string in codepoints.
func (s *Scanner) Len() int {
	return utf8.RuneCountInString(s.src)
}

// Pos returns the cursor position as a codepoint offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// SetPos moves the cursor to the codepoint offset p. Offsets outside the
// string are clamped to its bounds. Setting the position clears the last match.
func (s *Scanner) SetPos(p int) {
	s.ok = false
	s.matched = ""

	if p <= 0 {
		s.pos, s.bytePos = 0, 0

		return
	}

	// Walk forward from the cursor when possible, otherwise from the start.
	runePos, bytePos := 0, 0
	if p >= s.pos {
		runePos, bytePos = s.pos, s.bytePos
	}

	for runePos < p && bytePos < len(s.src) {
		_, size := utf8.DecodeRuneInString(s.src[bytePos:])
		bytePos += size
		runePos++
	}

	s.pos, s.bytePos = runePos, bytePos
}

// EOS reports whether the cursor is at the end of the string.
func (s *Scanner) EOS() bool {
	return s.bytePos >= len(s.src)
}

// Rest returns the unscanned remainder of the string.
func (s *Scanner) Rest() string {
	return s.src[s.bytePos:]
}

// Matched returns the text of the last successful match, or "" if the last
// scan failed.
func (s *Scanner) Matched() string {
	if !s.ok {
		return ""
	}

	return s.matched
}

// MatchedOK reports whether the last scan succeeded.
func (s *Scanner) MatchedOK() bool {
	return s.ok
}

// MatchStart returns the codepoint offset at which the last successful match
// began. It is only meaningful when [Scanner.MatchedOK] is true.
func (s *Scanner) MatchStart() int {
	return s.matchStart
}

// ScanUntil searches for the first match of re at or after the cursor. On
// success the cursor moves past the match and the matched text is returned.
// On failure the cursor does not move.
//
// A pattern that can match the empty string may leave the cursor in place;
// callers looping on ScanUntil must use patterns that consume input.
func (s *Scanner) ScanUntil(re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(s.src[s.bytePos:])
	if loc == nil {
		s.ok = false

		return "", false
	}

	skipped := s.src[s.bytePos : s.bytePos+loc[0]]
	text := s.src[s.bytePos+loc[0] : s.bytePos+loc[1]]

	s.matchStart = s.pos + utf8.RuneCountInString(skipped)
	s.advance(loc[1])
	s.matched, s.ok = text, true

	return text, true
}

// Scan attempts to match re anchored at the cursor. On success the cursor
// moves past the match and the matched text is returned. On failure the
// cursor does not move.
func (s *Scanner) Scan(re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(s.src[s.bytePos:])
	if loc == nil || loc[0] != 0 {
		s.ok = false

		return "", false
	}

	text := s.src[s.bytePos : s.bytePos+loc[1]]

	s.matchStart = s.pos
	s.advance(loc[1])
	s.matched, s.ok = text, true

	return text, true
}

// Check is like [Scanner.Scan] but never moves the cursor.
func (s *Scanner) Check(re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(s.src[s.bytePos:])
	if loc == nil || loc[0] != 0 {
		return "", false
	}

	return s.src[s.bytePos : s.bytePos+loc[1]], true
}

// Peek returns the rune at the cursor without consuming it.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOS() {
		return utf8.RuneError, false
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.bytePos:])

	return r, true
}

// Next consumes and returns the rune at the cursor.
func (s *Scanner) Next() (rune, bool) {
	if s.EOS() {
		return utf8.RuneError, false
	}

	r, size := utf8.DecodeRuneInString(s.src[s.bytePos:])

	s.bytePos += size
	s.pos++

	return r, true
}

// advance moves the cursor forward by n bytes of the remaining input.
func (s *Scanner) advance(n int) {
	s.pos += utf8.RuneCountInString(s.src[s.bytePos : s.bytePos+n])
	s.bytePos += n
}
