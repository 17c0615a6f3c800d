// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Span represents a blob fetch in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Backend    Backend
	RequestID  string
	Project    string
	Revision   string
	Path       string
	URL        string // only set by the http backend
	StatusCode int    // only set by the http backend
	Size       int
	Error      error
}

// Backend names the store implementation that served a fetch.
type Backend string

const (
	FromFS     Backend = "fs"
	FromSQLite Backend = "sqlite"
	FromHTTP   Backend = "http"
	FromCache  Backend = "cache"
)

func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "store."+string(span.Backend))

	return ctx
}

// End stops the span timer. It is safe to call more than once.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()
		span.task = nil
	}
}

// Duration returns the time between Begin and the first End.
func (span Span) Duration() time.Duration {
	return span.duration
}

func (span Span) Log() {
	event := log.Debug()
	if span.Error != nil {
		event = log.Warn().Err(span.Error)
	}

	span.fields(event).Send()
}

func (span Span) fields(event *zerolog.Event) *zerolog.Event {
	event.Str("sys", "store").
		Str("backend", string(span.Backend)).
		Str("project", span.Project).
		Str("revision", span.Revision).
		Str("path", span.Path).
		Str("len", humanizeSize(span.Size)).
		Dur("dur", span.duration)

	if span.RequestID != "" {
		event.Str("request_id", span.RequestID)
	}

	if span.URL != "" {
		event.Str("url", span.URL).Int("status_code", span.StatusCode)
	}

	return event
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
