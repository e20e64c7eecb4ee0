package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

func clock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestOpenCreatesStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "journal")
	j, err := Open(dir)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(filepath.Join(dir, dbFileName))
	assert.NoError(t, err)
	assert.NotEmpty(t, j.Session())
	assert.Equal(t, dir, j.Dir())
}

func TestRecordsEveryActorMethod(t *testing.T) {
	j, err := Open(t.TempDir(), WithSession("s1"), WithClock(clock()))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Click("#edit-submit"))
	require.NoError(t, j.FillField("#edit-title", "Hello"))
	require.NoError(t, j.SelectOption("#edit-colour", "red"))
	require.NoError(t, j.CheckOption("#edit-status"))
	require.NoError(t, j.UncheckOption("#edit-sticky"))
	require.NoError(t, j.AttachFile("#edit-file", "/tmp/a.png"))
	require.NoError(t, j.See("Saved", ".messages"))
	require.NoError(t, j.DontSee("Error"))
	value, err := j.GrabAttributeFrom("#edit-title", "value")
	require.NoError(t, err)
	assert.Empty(t, value)

	got, err := j.Interactions("")
	require.NoError(t, err)
	require.Len(t, got, 9)

	methods := make([]string, len(got))
	for i, in := range got {
		methods[i] = in.Method
		assert.Equal(t, i+1, in.Seq)
		assert.Equal(t, "s1", in.Session)
		assert.NotEmpty(t, in.ID)
	}
	assert.Equal(t, []string{
		types.MethodClick, types.MethodFillField, types.MethodSelectOption,
		types.MethodCheckOption, types.MethodUncheckOption, types.MethodAttachFile,
		types.MethodSee, types.MethodDontSee, types.MethodGrabAttributeFrom,
	}, methods)

	assert.Equal(t, "#edit-title", got[1].Selector)
	assert.Equal(t, []any{"Hello"}, got[1].Args)
	assert.Equal(t, []any{}, got[0].Args)
	assert.Equal(t, ".messages", got[6].Selector)
	assert.Equal(t, []any{"Saved"}, got[6].Args)
	assert.Equal(t, "", got[7].Selector)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, int(2*time.Millisecond), time.UTC), got[1].CreatedAt)
}

func TestStructuredArgs(t *testing.T) {
	j, err := Open(t.TempDir())
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.FillField("#edit-link", map[string]any{"title": "Home", "url": "/"}))
	got, err := j.Interactions(j.Session())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []any{map[string]any{"title": "Home", "url": "/"}}, got[0].Args)
}

func TestCloseExportsAndReopenLoads(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, WithSession("run-1"), WithClock(clock()))
	require.NoError(t, err)
	require.NoError(t, first.Click("#a"))
	require.NoError(t, first.Click("#b"))
	require.NoError(t, first.Close())
	require.NoError(t, first.Close(), "close is idempotent")

	data, err := os.ReadFile(filepath.Join(dir, jsonlFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"method":"click"`)
	assert.Contains(t, lines[0], `"session_id":"run-1"`)

	second, err := Open(dir, WithSession("run-2"), WithClock(func() time.Time {
		return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Click("#c"))

	old, err := second.Interactions("run-1")
	require.NoError(t, err)
	require.Len(t, old, 2)
	assert.Equal(t, "#b", old[1].Selector)

	sessions, err := second.Sessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2"}, sessions)
}

func TestResumedSessionContinuesSequence(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(dir, WithSession("same"))
	require.NoError(t, err)
	require.NoError(t, j.Click("#a"))
	require.NoError(t, j.Close())

	j, err = Open(dir, WithSession("same"))
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Click("#b"))

	got, err := j.Interactions("same")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].Seq)
}

func TestMalformedJSONLLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `{"interaction_id":"x1","session_id":"old","seq":1,"method":"click","selector":"#a","args":[],"created_at":"2026-01-01T00:00:00Z"}
not json

{"session_id":"old","seq":2}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonlFileName), []byte(content), 0o644))

	j, err := Open(dir)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.Interactions("old")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x1", got[0].ID)
}

func TestClosedJournal(t *testing.T) {
	j, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.ErrorIs(t, j.Click("#a"), types.ErrJournalClosed)
	_, err = j.Interactions("")
	assert.ErrorIs(t, err, types.ErrJournalClosed)
	_, err = j.Sessions()
	assert.ErrorIs(t, err, types.ErrJournalClosed)
}

func TestExportReplacesFileAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, jsonlFileName)
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	in := Interaction{ID: "x1", Session: "s", Seq: 1, Method: types.MethodClick, Selector: "#a",
		Args: []any{}, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, exportInteractions(path, []Interaction{in}))

	got, err := readInteractions(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x1", got[0].ID)
	assert.True(t, in.CreatedAt.Equal(got[0].CreatedAt))

	require.NoError(t, exportInteractions(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestReadInteractionsMissingFile(t *testing.T) {
	got, err := readInteractions(filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
