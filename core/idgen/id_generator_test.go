// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.Equal(t, strings.ReplaceAll(now.Format("15:04:05"), ":", ""), maketime(now))
	assert.Len(t, Make(), 10)
}

func TestChild(t *testing.T) {
	t.Parallel()

	child := Child("parent")

	assert.True(t, strings.HasPrefix(child, "parent-"))
	assert.Len(t, child, len("parent-")+10)
	assert.Len(t, Child(""), 10)
}
