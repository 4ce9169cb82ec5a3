package purge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asheshgoplani/chat-sweep/internal/catalog"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestPlanClosure(t *testing.T) {
	ws := t.TempDir()

	primary := filepath.Join(ws, "s1.jsonl")
	folder := filepath.Join(ws, "s1")
	ref1 := filepath.Join(ws, "agent-a.jsonl")
	ref2 := filepath.Join(ws, "agent-b.jsonl")
	refFolder := filepath.Join(ws, "agent-b")

	touch(t, primary)
	touch(t, filepath.Join(folder, "tool-output.json"))
	touch(t, ref1)
	touch(t, ref2)
	touch(t, filepath.Join(refFolder, "scratch.txt"))

	e := &catalog.Entry{
		ID:              "s1",
		Workspace:       "-home-user-proj",
		Path:            primary,
		RelatedFolder:   folder,
		LegacyAgentRefs: []string{ref1, ref2},
	}

	plans, err := Plan([]*catalog.Entry{e}, false)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	assert.ElementsMatch(t, []string{primary, ref1, ref2}, plans[0].Files)
	// agent-a has no sibling folder, agent-b does.
	assert.ElementsMatch(t, []string{folder, refFolder}, plans[0].Folders)

	out := Execute(plans)
	assert.Empty(t, out.Failures())
	assert.Equal(t, 5, out.DeletedCount())

	for _, p := range []string{primary, folder, ref1, ref2, refFolder} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be gone", p)
	}
}

func TestPlanRefusesActiveWithoutAck(t *testing.T) {
	ws := t.TempDir()
	path := filepath.Join(ws, "s1.jsonl")
	touch(t, path)

	e := &catalog.Entry{ID: "s1", Workspace: "-home-user-proj", Path: path, Active: true}

	_, err := Plan([]*catalog.Entry{e}, false)
	var activeErr *ActiveEntriesError
	require.ErrorAs(t, err, &activeErr)
	require.Len(t, activeErr.Keys, 1)
	assert.Equal(t, e.Key(), activeErr.Keys[0])

	// Nothing was touched by the refusal.
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	plans, err := Plan([]*catalog.Entry{e}, true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
}

func TestExecuteIsolatesFailures(t *testing.T) {
	ws := t.TempDir()

	primary := filepath.Join(ws, "s1.jsonl")
	folder := filepath.Join(ws, "s1")
	touch(t, primary)
	touch(t, filepath.Join(folder, "data.json"))

	// A ref whose parent is a regular file fails with ENOTDIR even as root.
	blocker := filepath.Join(ws, "blocker")
	touch(t, blocker)
	badRef := filepath.Join(blocker, "agent-c.jsonl")

	other := filepath.Join(ws, "s2.jsonl")
	touch(t, other)

	plans, err := Plan([]*catalog.Entry{
		{ID: "s1", Workspace: "w", Path: primary, RelatedFolder: folder, LegacyAgentRefs: []string{badRef}},
		{ID: "s2", Workspace: "w", Path: other},
	}, false)
	require.NoError(t, err)

	out := Execute(plans)

	failures := out.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, badRef, failures[0].Path)
	assert.NotEmpty(t, failures[0].Reason)

	// The rest of the first entry's closure and the second entry still went.
	for _, p := range []string{primary, folder, other} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be gone despite the failed ref", p)
	}
}

func TestExecuteCountsMissingAsDeleted(t *testing.T) {
	ws := t.TempDir()
	gone := filepath.Join(ws, "already-gone.jsonl")

	out := Execute([]EntryPlan{{
		Key:   catalog.Key{Workspace: "w", ID: "already-gone"},
		Files: []string{gone},
	}})

	assert.Empty(t, out.Failures())
	assert.Equal(t, 1, out.DeletedCount())
	require.Len(t, out.Entries, 1)
}
