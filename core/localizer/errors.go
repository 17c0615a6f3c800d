// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"errors"
	"fmt"
)

var (
	// ErrTagNotFound means no node in the document matches a translation's key.
	ErrTagNotFound = errors.New("no matching tag")

	// ErrAmbiguousTag means more than one node matches a translation's key.
	ErrAmbiguousTag = errors.New("multiple matching tags")

	// ErrInvalidCopy means the translated copy cannot be written in the file's format.
	ErrInvalidCopy = errors.New("invalid copy")

	// ErrUnsupportedKey means a key cannot be parsed by the localizer.
	ErrUnsupportedKey = errors.New("unsupported key")
)

// KeyError reports a structural failure for a single translation.
type KeyError struct {
	Key    string
	Reason string
	Err    error
}

func newKeyError(key string, err error, format string, args ...any) *KeyError {
	return &KeyError{Key: key, Reason: fmt.Sprintf(format, args...), Err: err}
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %q: %s", e.Key, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
