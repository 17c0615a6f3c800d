// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"fmt"
	"strings"

	"codeberg.org/shuttle/shuttle/core/locale"
)

// File is a source or localized file. An output File starts empty and is
// only emitted once a localizer has set both Path and Content.
type File struct {
	Path    string
	Content []byte
}

// Ready reports whether both Path and Content have been set.
func (f *File) Ready() bool {
	return f.Path != "" && f.Content != nil
}

// Importer identifies the importer that extracted a key from its source file.
type Importer int

const (
	ImporterUnknown Importer = iota
	ImporterAndroid
	ImporterStoryboard
	ImporterXib
	ImporterXib3
	ImporterSVG
	ImporterPlaintext
	ImporterMustache
	ImporterGettext
)

var importerNames = map[Importer]string{
	ImporterUnknown:    "unknown",
	ImporterAndroid:    "android",
	ImporterStoryboard: "storyboard",
	ImporterXib:        "xib",
	ImporterXib3:       "xib3",
	ImporterSVG:        "svg",
	ImporterPlaintext:  "plaintext",
	ImporterMustache:   "mustache",
	ImporterGettext:    "gettext",
}

// ParseImporter returns the importer named name, or ImporterUnknown.
func ParseImporter(name string) Importer {
	name = strings.ToLower(strings.TrimSpace(name))

	for imp, n := range importerNames {
		if n == name {
			return imp
		}
	}

	return ImporterUnknown
}

func (i Importer) String() string {
	if n, ok := importerNames[i]; ok {
		return n
	}

	return fmt.Sprintf("importer(%d)", int(i))
}

// Key is a translatable string extracted from a source file.
type Key struct {
	// Key is the unique key, for example "/res/values/strings.xml:hello".
	// Whole-file keys are the file path with a leading slash.
	Key string
	// OriginalKey is the key as it appears in the source file, for example
	// "hello" or "UYf-ov-HUl.state[normal].title".
	OriginalKey string
	// Source is the repository path of the file the key was extracted from.
	Source   string
	Importer Importer
}

// Translation is the copy of a key in one locale.
type Translation struct {
	Key        Key
	Locale     locale.Locale
	SourceCopy string
	Copy       string
	Approved   bool
}

// Project is the unit that owns keys and their translations.
type Project struct {
	Name       string
	BaseLocale locale.Locale
	// Locales are the locales a project build targets by default.
	Locales []locale.Locale
}

// Commit is a revision of a project together with its translations.
type Commit struct {
	Project      Project
	Revision     string
	Translations []Translation
}

// Receiver accepts the files produced by a build.
type Receiver interface {
	AddFile(path string, content []byte, overwrite bool) error
}

// Localizer writes translated copy into a copy of a source file.
//
// Localize reads input and, on success, sets both fields of output. It may
// leave output untouched when none of its translations apply to input.
type Localizer interface {
	Localize(input File, output *File, l locale.Locale) error
}
