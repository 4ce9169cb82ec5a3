package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asheshgoplani/chat-sweep/internal/catalog"
)

func batchFixture() []*catalog.Entry {
	var out []*catalog.Entry
	for i := 0; i < 3; i++ {
		out = append(out, &catalog.Entry{
			ID: fmt.Sprintf("e%d", i), Workspace: "w", Kind: catalog.KindEmpty,
		})
	}
	for i := 0; i < 5; i++ {
		out = append(out, &catalog.Entry{
			ID: fmt.Sprintf("n%d", i), Workspace: "w", Kind: catalog.KindNormal,
			Title: fmt.Sprintf("chat %d", i),
		})
	}
	out = append(out, &catalog.Entry{
		ID: "warm", Workspace: "w", Kind: catalog.KindWarmup,
	})
	return out
}

func TestSelectBatchTargetsEmptyOnly(t *testing.T) {
	targets, skipped := selectBatchTargets(batchFixture(), true, false)

	require.Len(t, targets, 3)
	for _, e := range targets {
		assert.Equal(t, catalog.KindEmpty, e.Kind)
	}
	// 5 normal + 1 warmup left alone.
	assert.Equal(t, 6, skipped)
}

func TestSelectBatchTargetsEmptyOnThreeEmptyFiveNormal(t *testing.T) {
	entries := batchFixture()[:8] // 3 Empty + 5 Normal

	targets, skipped := selectBatchTargets(entries, true, false)
	require.Len(t, targets, 3)
	assert.Equal(t, 5, skipped)
}

func TestSelectBatchTargetsWarmup(t *testing.T) {
	targets, skipped := selectBatchTargets(batchFixture(), false, true)

	require.Len(t, targets, 1)
	assert.Equal(t, catalog.KindWarmup, targets[0].Kind)
	assert.Equal(t, 8, skipped)

	both, skipped := selectBatchTargets(batchFixture(), true, true)
	assert.Len(t, both, 4)
	assert.Equal(t, 5, skipped)
}

func TestBatchHeaderReportsSkippedAndWarnings(t *testing.T) {
	h := batchHeader(3, 5, 0)
	assert.Contains(t, h, "(5 skipped)")
	assert.NotContains(t, h, "unreadable")

	h = batchHeader(3, 5, 2)
	assert.Contains(t, h, "2 unreadable conversation(s) skipped")
	assert.Contains(t, h, "(5 skipped)")
}

func TestClipPlain(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "exactly te", clip("exactly te", 10))
	assert.Equal(t, "way too l…", clip("way too long line", 10))
	assert.Equal(t, "unclipped", clip("unclipped", 0))
}

func TestClipStyledLine(t *testing.T) {
	styled := "\x1b[31m" + strings.Repeat("a", 20) + "\x1b[0m"

	out := clip(styled, 10)
	assert.Equal(t, 10, ansi.StringWidth(out))
	assert.True(t, strings.HasSuffix(ansi.Strip(out), "…"),
		"display text should end with the ellipsis, got %q", ansi.Strip(out))
	// The opening color sequence survives the cut intact.
	assert.Contains(t, out, "\x1b[31m")
}
