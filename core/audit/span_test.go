// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{1023, "1023"},
		{1024, "1.00K"},
		{1536, "1.50K"},
		{bytesInMB * 3, "3.00M"},
		{bytesInGB, "1.00G"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeSize(tt.in))
	}
}

func TestSpanFields(t *testing.T) {
	t.Parallel()

	span := Span{
		Backend:    FromHTTP,
		RequestID:  "b1-r1",
		Project:    "web",
		Revision:   "abc",
		Path:       "po/en.po",
		URL:        "https://blobs.example/web/raw/abc/po/en.po",
		StatusCode: 200,
		Size:       2048,
	}

	span.Begin(context.Background())
	span.End()
	span.End()

	assert.GreaterOrEqual(t, span.Duration(), time.Duration(0))

	var buf bytes.Buffer

	logger := zerolog.New(&buf)
	span.fields(logger.Info()).Send()

	out := buf.String()
	assert.Equal(t, "store", gjson.Get(out, "sys").String())
	assert.Equal(t, "http", gjson.Get(out, "backend").String())
	assert.Equal(t, "2.00K", gjson.Get(out, "len").String())
	assert.Equal(t, int64(200), gjson.Get(out, "status_code").Int())
	assert.Equal(t, "b1-r1", gjson.Get(out, "request_id").String())

	buf.Reset()

	span = Span{Backend: FromFS, Path: "a.txt", Error: errors.New("boom")}
	span.fields(logger.Info()).Send()

	assert.False(t, gjson.Get(buf.String(), "url").Exists())
	assert.False(t, gjson.Get(buf.String(), "request_id").Exists())
}
