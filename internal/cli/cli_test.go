package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ctregistry/internal/journal"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

const testDoc = `
GlobalFields:
  - machineName: body
    label: Body
    type: Text area (multiple rows)
    testData: Lorem ipsum
GlobalExtras:
  - machineName: status
    label: Published
    widget: Single on/off checkbox
    selector: '#edit-status'
    testData: true
ContentTypes:
  - humanName: Article
    machineName: article
    fields:
      - globals: [body]
      - machineName: title
        label: Title
        type: Node module element
        testData: Hello
      - machineName: field_internal
        label: Internal
        widget: Text field
        skipRoles: [editor]
        testData: secret
    extras:
      - globalExtras: [status]
  - humanName: Tags
    machineName: tags
    entityType: taxonomy_term
`

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "contentTypes.yml"), []byte(testDoc), 0o644))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ctregistry v"+Version)
}

func TestConfigFileCreated(t *testing.T) {
	dir := t.TempDir()
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config-dir", dir, "version"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: warn")
}

func TestConfigFileSuppliesRoot(t *testing.T) {
	dir := t.TempDir()
	projectRoot := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("root: "+projectRoot+"\n"), 0o644))

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config-dir", dir, "list"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "article")
}

func TestList(t *testing.T) {
	root := project(t)

	out, err := run(t, "--root", root, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "MACHINE NAME")
	assert.Contains(t, out, "article")
	assert.Contains(t, out, "taxonomy_term")

	out, err = run(t, "--root", root, "--json", "list")
	require.NoError(t, err)
	var rows []bundleSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, bundleSummary{
		MachineName: "article", HumanName: "Article", EntityType: "node", Fields: 3, Extras: 1,
	}, rows[0])
	assert.Equal(t, 2, rows[1].Fields)
}

func TestShow(t *testing.T) {
	root := project(t)

	out, err := run(t, "--root", root, "--json", "show", "article")
	require.NoError(t, err)
	var view bundleView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "admin/structure/types/manage/article/fields", view.ManageFieldsURL)
	assert.Equal(t, "#edit-submit", view.Submit)
	require.Len(t, view.Fields, 3)
	assert.Equal(t, "title", view.Fields[0].MachineName)
	assert.True(t, view.Fields[0].Required)
	assert.Equal(t, "#edit-title", view.Fields[0].Selector)
	assert.Equal(t, []string{"editor"}, view.Fields[2].SkipRoles)

	out, err = run(t, "--root", root, "show", "article")
	require.NoError(t, err)
	assert.Contains(t, out, "Extras:")
	assert.Contains(t, out, "#edit-status")

	_, err = run(t, "--root", root, "show", "blog")
	assert.ErrorIs(t, err, types.ErrContentTypeNotFound)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestValidate(t *testing.T) {
	root := project(t)
	out, err := run(t, "--root", root, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "2 content types, 1 global fields, 1 global extras")

	broken := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(broken, "tests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "tests", "contentTypes.yml"),
		[]byte("ContentTypes:\n  - machineName: x\n    fields:\n      - globals: [nope]\n"), 0o644))
	_, err = run(t, "--root", broken, "validate")
	assert.ErrorIs(t, err, types.ErrGlobalNotFound)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = run(t, "--root", t.TempDir(), "validate")
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
}

func TestFill(t *testing.T) {
	root := project(t)
	journalDir := t.TempDir()

	out, err := run(t, "--root", root, "--journal-dir", journalDir,
		"fill", "article", "--role", "editor", "--extras", "--submit", "--set", "title=Custom")
	require.NoError(t, err)
	assert.Contains(t, out, "4 interactions recorded")

	j, err := journal.Open(journalDir)
	require.NoError(t, err)
	defer j.Close()
	sessions, err := j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	got, err := j.Interactions(sessions[0])
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "#edit-title", got[0].Selector)
	assert.Equal(t, []any{"Custom"}, got[0].Args)
	assert.Equal(t, "#edit-body-und-0-value", got[1].Selector)
	assert.Equal(t, types.MethodCheckOption, got[2].Method)
	assert.Equal(t, types.MethodClick, got[3].Method)
	assert.Equal(t, "#edit-submit", got[3].Selector)
}

func TestFillBadOverride(t *testing.T) {
	_, err := run(t, "--root", project(t), "--journal-dir", t.TempDir(), "fill", "article", "--set", "novalue")
	assert.ErrorContains(t, err, "machine_name=value")
}

func TestInit(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--suite", "acceptance", "init")
	require.NoError(t, err)
	path := filepath.Join(root, "tests", "acceptance", "contentTypes.yml")
	assert.Contains(t, out, path)

	out, err = run(t, "--root", root, "--suite", "acceptance", "--json", "show", "page")
	require.NoError(t, err)
	var view bundleView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, []string{"title", "body"}, []string{view.Fields[0].MachineName, view.Fields[1].MachineName})
	assert.Equal(t, "Text area with a summary", view.Fields[1].Widget)

	require.NoError(t, os.WriteFile(path, []byte("ContentTypes: []\n"), 0o644))
	_, err = run(t, "--root", root, "--suite", "acceptance", "init")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ContentTypes: []\n", string(data), "existing document is kept")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(types.ErrUnknownWidget))
	assert.Equal(t, exitUserError, exitCode(types.ErrFieldNotFound))
	assert.Equal(t, exitSysError, exitCode(os.ErrPermission))
}
