// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package compile builds the localized files of a commit.

A [Builder] groups the approved translations of a commit by localizer kind,
source file and locale, fetches every source file once, runs the matching
localizer for each locale and adds the results to a [localizer.Receiver].
Once every file of a kind is written, the kind's post-processing step runs
over the paths that were written.

Keys no localizer claims and source files the store does not have are
skipped. A file that fails to localize is reported in the returned error
without stopping the rest of the build.
*/
package compile

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/shuttle/shuttle/core/archive"
	"codeberg.org/shuttle/shuttle/core/audit"
	"codeberg.org/shuttle/shuttle/core/idgen"
	"codeberg.org/shuttle/shuttle/core/locale"
	"codeberg.org/shuttle/shuttle/core/localizer"
	"codeberg.org/shuttle/shuttle/core/lrucache"
	"codeberg.org/shuttle/shuttle/core/store"
)

const (
	defaultConcurrency = 4
	defaultCacheSize   = 128
)

var errNoStore = errors.New("builder has no store")

// LocalizeError reports a source file that could not be localized into one
// locale, or a failed post-processing step when Path is empty.
type LocalizeError struct {
	Project  string
	Revision string
	Kind     localizer.Kind
	Locale   locale.Locale
	Path     string
	Err      error
}

func (e *LocalizeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s post-processing failed (project %s, revision %s): %v",
			e.Kind, e.Project, e.Revision, e.Err)
	}

	return fmt.Sprintf("failed to localize %s into %s (project %s, revision %s): %v",
		e.Path, e.Locale, e.Project, e.Revision, e.Err)
}

func (e *LocalizeError) Unwrap() error {
	return e.Err
}

// Builder runs localizers over the files of a commit.
type Builder struct {
	Store store.Store

	// Concurrency bounds the number of source files processed at once.
	Concurrency int

	// CacheSize and CacheCompress configure the per-build content cache.
	CacheSize     int
	CacheCompress bool
}

// Localize builds commit into a new archive. The archive holds every file
// that was localized, even when the returned error is not nil.
func (b *Builder) Localize(ctx context.Context, commit localizer.Commit, locales ...locale.Locale) (*archive.Archive, error) {
	a := archive.New()

	return a, b.Build(ctx, commit, a, locales...)
}

// Build localizes commit into r, for the given locales or, if there are
// none, for every locale of the project. It returns the [*LocalizeError]s
// of the build joined together.
func (b *Builder) Build(ctx context.Context, commit localizer.Commit, r localizer.Receiver, locales ...locale.Locale) error {
	if b.Store == nil {
		return errNoStore
	}

	project := commit.Project

	if len(locales) == 0 {
		locales = project.Locales
	}

	locales = targetLocales(project.BaseLocale, locales)

	cache, err := lrucache.New(cmp.Or(b.CacheSize, defaultCacheSize), b.CacheCompress)
	if err != nil {
		return fmt.Errorf("failed to create content cache: %w", err)
	}
	defer cache.Close()

	bld := &build{
		id:     idgen.Make(),
		commit: commit,
		store:  b.Store,
		cache:  cache,
	}
	bld.log = log.With().
		Str("sys", "compile").
		Str("build", bld.id).
		Str("project", project.Name).
		Str("revision", commit.Revision).
		Logger()

	groups := group(commit, locales)

	bld.log.Info().
		Int("kinds", len(groups)).
		Strs("locales", locale.Strings(locales)).
		Msg("Starting build")

	for _, kind := range localizer.Kinds() {
		sources, ok := groups[kind]
		if !ok {
			continue
		}

		bld.outputs = nil

		if err := bld.runKind(ctx, kind, sources, r, cmp.Or(b.Concurrency, defaultConcurrency)); err != nil {
			return err
		}

		if err := kind.PostProcess(commit, r, bld.outputs); err != nil {
			bld.fail(&LocalizeError{
				Project:  project.Name,
				Revision: commit.Revision,
				Kind:     kind,
				Err:      err,
			})
		}
	}

	bld.log.Info().
		Int("files", bld.written).
		Int("skipped", bld.skipped).
		Int("failed", len(bld.errs)).
		Msg("Finished build")

	slices.SortFunc(bld.errs, func(x, y *LocalizeError) int {
		return cmp.Or(
			cmp.Compare(x.Kind, y.Kind),
			cmp.Compare(x.Path, y.Path),
			cmp.Compare(x.Locale.String(), y.Locale.String()),
		)
	})

	errs := make([]error, len(bld.errs))
	for i, e := range bld.errs {
		errs[i] = e
	}

	return errors.Join(errs...)
}

// targetLocales drops the base locale and duplicates.
func targetLocales(base locale.Locale, locales []locale.Locale) []locale.Locale {
	out := make([]locale.Locale, 0, len(locales))

	for _, l := range locales {
		if l.IsZero() || l.Equal(base) || slices.ContainsFunc(out, l.Equal) {
			continue
		}

		out = append(out, l)
	}

	return out
}

// sourceGroup holds the translations of one source file, by locale.
type sourceGroup struct {
	path    string
	locales map[string][]localizer.Translation
}

// group sorts the approved translations of commit into the requested
// locales by localizer kind and source path.
func group(commit localizer.Commit, locales []locale.Locale) map[localizer.Kind][]*sourceGroup {
	wanted := make(map[string]bool, len(locales))
	for _, l := range locales {
		wanted[l.String()] = true
	}

	index := make(map[localizer.Kind]map[string]*sourceGroup)

	for _, t := range commit.Translations {
		if !t.Approved || t.Locale.Equal(commit.Project.BaseLocale) || !wanted[t.Locale.String()] {
			continue
		}

		kind, ok := localizer.For(commit.Project, t.Key)
		if !ok {
			continue
		}

		sources := index[kind]
		if sources == nil {
			sources = make(map[string]*sourceGroup)
			index[kind] = sources
		}

		g := sources[t.Key.Source]
		if g == nil {
			g = &sourceGroup{path: t.Key.Source, locales: make(map[string][]localizer.Translation)}
			sources[t.Key.Source] = g
		}

		code := t.Locale.String()
		g.locales[code] = append(g.locales[code], t)
	}

	groups := make(map[localizer.Kind][]*sourceGroup, len(index))
	for kind, sources := range index {
		for _, p := range slices.Sorted(maps.Keys(sources)) {
			groups[kind] = append(groups[kind], sources[p])
		}
	}

	return groups
}

type build struct {
	id     string
	commit localizer.Commit
	store  store.Store
	cache  *lrucache.Cache
	log    zerolog.Logger

	mu      sync.Mutex
	errs    []*LocalizeError
	written int
	skipped int

	// outputs are the paths written for the kind being built.
	outputs []string
}

// runKind localizes every source of kind. It only fails when ctx is done.
func (b *build) runKind(ctx context.Context, kind localizer.Kind, sources []*sourceGroup, r localizer.Receiver, concurrency int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, src := range sources {
		g.Go(func() error {
			return b.runSource(gctx, kind, src, r)
		})
	}

	return g.Wait()
}

func (b *build) runSource(ctx context.Context, kind localizer.Kind, src *sourceGroup, r localizer.Receiver) error {
	logger := b.log.With().Str("kind", kind.String()).Str("path", src.path).Logger()

	content, err := b.fetch(ctx, src.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if errors.Is(err, store.ErrNotFound) {
			logger.Debug().Msg("Source file not in store, skipping")
		} else {
			logger.Warn().Err(err).Msg("Failed to fetch source file, skipping")
		}

		b.mu.Lock()
		b.skipped++
		b.mu.Unlock()

		return nil
	}

	input := localizer.File{Path: src.path, Content: content}

	for _, code := range slices.Sorted(maps.Keys(src.locales)) {
		translations := src.locales[code]
		target := translations[0].Locale

		var output localizer.File

		if err := kind.New(b.commit.Project, translations).Localize(input, &output, target); err != nil {
			logger.Error().Err(err).Str("locale", code).Msg("Failed to localize file")

			b.fail(&LocalizeError{
				Project:  b.commit.Project.Name,
				Revision: b.commit.Revision,
				Kind:     kind,
				Locale:   target,
				Path:     src.path,
				Err:      err,
			})

			continue
		}

		if !output.Ready() {
			logger.Debug().Str("locale", code).Msg("Localizer produced no output")

			continue
		}

		if err := r.AddFile(output.Path, output.Content, true); err != nil {
			b.fail(&LocalizeError{
				Project:  b.commit.Project.Name,
				Revision: b.commit.Revision,
				Kind:     kind,
				Locale:   target,
				Path:     src.path,
				Err:      fmt.Errorf("failed to add %s: %w", output.Path, err),
			})

			continue
		}

		logger.Debug().Str("locale", code).Str("output", output.Path).Msg("Localized file")

		b.mu.Lock()
		b.written++
		b.outputs = append(b.outputs, output.Path)
		b.mu.Unlock()
	}

	return nil
}

// fetch returns the content of a source file at the commit's revision,
// through the build's cache.
func (b *build) fetch(ctx context.Context, p string) ([]byte, error) {
	project := b.commit.Project.Name
	revision := b.commit.Revision
	key := store.MapKey(project, revision, p)

	span := audit.Span{
		Backend:   audit.FromCache,
		RequestID: idgen.Child(b.id),
		Project:   project,
		Revision:  revision,
		Path:      p,
	}

	span.Begin(ctx)
	content, ok := b.cache.Get(key)
	span.End()

	if ok {
		span.Size = len(content)
		span.Log()

		return content, nil
	}

	content, err := b.store.Fetch(ctx, project, revision, p)
	if err != nil {
		return nil, err
	}

	b.cache.Add(key, content)

	return content, nil
}

func (b *build) fail(err *LocalizeError) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errs = append(b.errs, err)
}
