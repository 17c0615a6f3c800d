// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package fencer locates interpolation placeholders ("fences") inside
translatable strings without altering them.

Each interpolation syntax has its own fencer. Every fencer exposes the same
two operations:

	Fence(s string) TokenMap // canonical token text => occurrence ranges
	Valid(s string) bool     // whether s is well-formed for the syntax

Fencers are pure functions of their input. They hold no state, perform no
I/O and are safe for concurrent use.

# Registry

The set of fencers is closed and enumerated by [Kind]:

	k, err := fencer.ParseKind("printf")
	tokens := k.Fence("%s of %d")

Ranges are inclusive codepoint offsets, see [Range].
*/
package fencer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by [ParseKind] for unrecognised fencer names.
var ErrUnknownKind = errors.New("unknown fencer")

// Fencer is the contract every fencer satisfies.
type Fencer interface {
	Fence(s string) TokenMap
	Valid(s string) bool
}

// Kind enumerates the supported interpolation syntaxes.
type Kind int

// Supported fencers. The zero value is not a valid Kind.
const (
	Printf Kind = iota + 1
	Strftime
	Android
	Braces
	Mustache
	Erb
	HTML
	MessageFormat
	IntlMessageFormat
)

var kindNames = map[Kind]string{
	Printf:            "printf",
	Strftime:          "strftime",
	Android:           "android",
	Braces:            "braces",
	Mustache:          "mustache",
	Erb:               "erb",
	HTML:              "html",
	MessageFormat:     "message_format",
	IntlMessageFormat: "intl_message_format",
}

// Kinds returns every supported fencer in declaration order.
func Kinds() []Kind {
	return []Kind{Printf, Strftime, Android, Braces, Mustache, Erb, HTML, MessageFormat, IntlMessageFormat}
}

// ParseKind returns the Kind named name. Matching is case-insensitive and
// accepts hyphens in place of underscores.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")

	for k, n := range kindNames {
		if n == normalized {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("fencer(%d)", int(k))
}

// Fence returns the tokens found in s by the fencer k.
// An invalid Kind fences nothing.
func (k Kind) Fence(s string) TokenMap {
	switch k {
	case Printf:
		return fencePrintf(s)
	case Strftime:
		return fenceStrftime(s)
	case Android, Braces:
		return fenceBraces(s)
	case Mustache:
		return fenceMustache(s)
	case Erb:
		return fenceErb(s)
	case HTML:
		return fenceHTML(s)
	case MessageFormat:
		return fenceMessageFormat(s)
	case IntlMessageFormat:
		return fenceIntlMessageFormat(s)
	default:
		return TokenMap{}
	}
}

// Valid reports whether s is well-formed according to the fencer k.
// An invalid Kind accepts every string.
func (k Kind) Valid(s string) bool {
	switch k {
	case Printf, Strftime:
		return true
	case Android:
		return validAndroid(s)
	case Braces:
		return validBraces(s)
	case Mustache:
		return validMustache(s)
	case Erb:
		return validErb(s)
	case HTML:
		return validHTML(s)
	case MessageFormat:
		return validMessageFormat(s)
	case IntlMessageFormat:
		return validIntlMessageFormat(s)
	default:
		return true
	}
}

// FenceAll fences s with every kind and merges the results.
func FenceAll(s string, kinds ...Kind) TokenMap {
	out := TokenMap{}
	for _, k := range kinds {
		out.Merge(k.Fence(s))
	}

	return out
}

// ValidAll reports whether s is valid for every kind.
func ValidAll(s string, kinds ...Kind) bool {
	for _, k := range kinds {
		if !k.Valid(s) {
			return false
		}
	}

	return true
}
