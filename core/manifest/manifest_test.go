// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/shuttle/shuttle/core/locale"
	"codeberg.org/shuttle/shuttle/core/localizer"
)

const sample = `{
  "project": {"name": "web", "baseLocale": "en", "locales": ["de", "pt_BR"]},
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
    },
    {
      "key": "/res/values/strings.xml:hello",
      "originalKey": "hello",
      "importer": "ANDROID",
      "locale": "pt-BR",
      "copy": "Olá"
    }
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	commit, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "web", commit.Project.Name)
	assert.Equal(t, "en", commit.Project.BaseLocale.String())
	assert.Equal(t, []string{"de", "pt-BR"}, locale.Strings(commit.Project.Locales))
	assert.Equal(t, "3f2a9c1", commit.Revision)

	require.Len(t, commit.Translations, 2)

	first := commit.Translations[0]
	assert.Equal(t, localizer.Key{
		Key:         "/po/en.po:Hello",
		OriginalKey: "Hello",
		Source:      "po/en.po",
		Importer:    localizer.ImporterGettext,
	}, first.Key)
	assert.Equal(t, "Hallo", first.Copy)
	assert.Equal(t, "Hello", first.SourceCopy)
	assert.True(t, first.Approved)

	second := commit.Translations[1]
	assert.Equal(t, "res/values/strings.xml", second.Key.Source)
	assert.Equal(t, localizer.ImporterAndroid, second.Key.Importer)
	assert.Equal(t, "pt-BR", second.Locale.String())
	assert.False(t, second.Approved)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{"project":`, errInvalidJSON},
		{"no project", `{"revision":"a"}`, errMissingProject},
		{"no base locale", `{"project":{"name":"web"},"revision":"a"}`, errMissingLocale},
		{"bad base locale", `{"project":{"name":"web","baseLocale":"!!"},"revision":"a"}`, locale.ErrInvalidLocale},
		{"bad project locale", `{"project":{"name":"web","baseLocale":"en","locales":["de","??"]},"revision":"a"}`, locale.ErrInvalidLocale},
		{"no revision", `{"project":{"name":"web","baseLocale":"en"}}`, errMissingRevision},
		{"bad translation locale", `{"project":{"name":"web","baseLocale":"en"},"revision":"a","translations":[{"key":"/a","locale":""}]}`, locale.ErrInvalidLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseReportsTranslationIndex(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"project":{"name":"web","baseLocale":"en"},"revision":"a",
		"translations":[{"key":"/a","locale":"de"},{"key":"/b","locale":"x y"}]}`))

	var te *TranslationError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Index)
}
