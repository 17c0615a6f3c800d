// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package manifest reads the JSON description of a commit to localize.

	{
	  "project": {"name": "web", "baseLocale": "en", "locales": ["de", "fr"]},
	  "revision": "3f2a9c1",
	  "translations": [
	    {
	      "key": "/po/en.po:Hello",
	      "originalKey": "Hello",
	      "source": "po/en.po",
	      "importer": "gettext",
	      "locale": "de",
	      "sourceCopy": "Hello",
	      "copy": "Hallo",
	      "approved": true
	    }
	  ]
	}

Unknown importers are kept as [localizer.ImporterUnknown]. Keys without a
source are taken from the part of the key before the first ":".
*/
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/shuttle/shuttle/core/locale"
	"codeberg.org/shuttle/shuttle/core/localizer"
)

var (
	errInvalidJSON     = errors.New("manifest is not valid JSON")
	errMissingProject  = errors.New("manifest has no project name")
	errMissingLocale   = errors.New("manifest has no base locale")
	errMissingRevision = errors.New("manifest has no revision")
)

// TranslationError reports a translation entry that could not be read.
type TranslationError struct {
	Index int
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation %d: %v", e.Index, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Parse reads a commit from data.
func Parse(data []byte) (localizer.Commit, error) {
	if !gjson.ValidBytes(data) {
		return localizer.Commit{}, errInvalidJSON
	}

	root := gjson.ParseBytes(data)

	project, err := parseProject(root.Get("project"))
	if err != nil {
		return localizer.Commit{}, err
	}

	commit := localizer.Commit{
		Project:  project,
		Revision: root.Get("revision").String(),
	}

	if commit.Revision == "" {
		return localizer.Commit{}, errMissingRevision
	}

	var errs []error

	root.Get("translations").ForEach(func(idx, value gjson.Result) bool {
		t, err := parseTranslation(value)
		if err != nil {
			errs = append(errs, &TranslationError{Index: int(idx.Int()), Err: err})

			return true
		}

		commit.Translations = append(commit.Translations, t)

		return true
	})

	if err := errors.Join(errs...); err != nil {
		return localizer.Commit{}, err
	}

	return commit, nil
}

func parseProject(v gjson.Result) (localizer.Project, error) {
	p := localizer.Project{Name: v.Get("name").String()}
	if p.Name == "" {
		return p, errMissingProject
	}

	base := v.Get("baseLocale").String()
	if base == "" {
		return p, errMissingLocale
	}

	var err error

	if p.BaseLocale, err = locale.Parse(base); err != nil {
		return p, fmt.Errorf("base locale: %w", err)
	}

	var names []string
	for _, l := range v.Get("locales").Array() {
		names = append(names, l.String())
	}

	if p.Locales, err = locale.ParseAll(names...); err != nil {
		return p, fmt.Errorf("project locales: %w", err)
	}

	return p, nil
}

func parseTranslation(v gjson.Result) (localizer.Translation, error) {
	l, err := locale.Parse(v.Get("locale").String())
	if err != nil {
		return localizer.Translation{}, err
	}

	key := localizer.Key{
		Key:         v.Get("key").String(),
		OriginalKey: v.Get("originalKey").String(),
		Source:      v.Get("source").String(),
		Importer:    localizer.ParseImporter(v.Get("importer").String()),
	}

	if key.Source == "" {
		key.Source, _, _ = strings.Cut(strings.TrimPrefix(key.Key, "/"), ":")
	}

	return localizer.Translation{
		Key:        key,
		Locale:     l,
		SourceCopy: v.Get("sourceCopy").String(),
		Copy:       v.Get("copy").String(),
		Approved:   v.Get("approved").Bool(),
	}, nil
}
