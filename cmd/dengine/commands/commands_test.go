package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dengine/internal/config"
	"github.com/satishbabariya/dengine/internal/ui"
)

// setup isolates configuration and returns a fresh sqlite path.
func setup(t *testing.T) (afero.Fs, string) {
	t.Helper()
	prevFs, prevCache, prevColor := config.AppFs, homedir.DisableCache, color.NoColor
	fs := afero.NewMemMapFs()
	config.AppFs = fs
	homedir.DisableCache = true
	color.NoColor = true
	t.Setenv("HOME", "/home/tester")
	t.Setenv("DATABASE_URL", "")
	t.Cleanup(func() {
		config.AppFs = prevFs
		homedir.DisableCache = prevCache
		color.NoColor = prevColor
	})
	return fs, filepath.Join(t.TempDir(), "app.db")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := ui.Out
	ui.Out = &buf
	defer func() { ui.Out = prev }()

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestSQLiteWorkflow(t *testing.T) {
	_, path := setup(t)
	db := []string{"--provider", "sqlite", "--path", path}

	mustRun(t, append([]string{"exec", "create table users (id integer primary key, first text, last text)"}, db...)...)

	out := mustRun(t, append([]string{"exec",
		"insert into users (id, first, last) values (?, ?, ?), (?, ?, ?), (?, ?, ?)",
		"--params=1, 'ann', 'lee', 2, 'bob', 'ray', 3, 'cy', 'o''neil'"}, db...)...)
	assert.Contains(t, out, "3 rows affected")

	out = mustRun(t, append([]string{"value", "select last from users where id = ?", "last", "--params=3"}, db...)...)
	assert.Equal(t, "o'neil\n", out)

	out = mustRun(t, append([]string{"query", "select id, first from users order by id limit 2", "--found-rows"}, db...)...)
	assert.Contains(t, out, "ann")
	assert.Contains(t, out, "bob")
	assert.NotContains(t, out, "cy")
	assert.Contains(t, out, "2 of 3 rows")

	out = mustRun(t, append([]string{"query", "select id from users where id > ?", "--params=5"}, db...)...)
	assert.Equal(t, "0 rows\n", out)

	out = mustRun(t, append([]string{"delete", "users", "id", "--keys=2", "--exclude"}, db...)...)
	assert.Contains(t, out, "2 rows deleted")

	out = mustRun(t, append([]string{"value", "select count(*) as n from users", "n"}, db...)...)
	assert.Equal(t, "1\n", out)

	out = mustRun(t, append([]string{"concat", "first", "last"}, db...)...)
	assert.Equal(t, "(first || ' ' || last)\n", out)
}

func TestValueWithoutRows(t *testing.T) {
	_, path := setup(t)
	db := []string{"--provider", "sqlite", "--path", path}

	mustRun(t, append([]string{"exec", "create table t (id integer)"}, db...)...)
	_, err := run(t, append([]string{"value", "select id from t", "id"}, db...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestAttach(t *testing.T) {
	_, path := setup(t)
	logs := filepath.Join(t.TempDir(), "logs.db")

	out := mustRun(t, "attach", logs, "logs", "--provider", "sqlite", "--path", path)
	assert.Contains(t, out, "attached")
	assert.Contains(t, out, "• logs")

	_, err := run(t, "attach", logs, "bad alias", "--provider", "sqlite", "--path", path)
	assert.Error(t, err)
}

func TestExplainDoesNotConnect(t *testing.T) {
	setup(t)

	out := mustRun(t, "query", "select id from users where name <> ? limit ?", "--params=x'00', 10",
		"--found-rows", "--explain", "--provider", "oracle")
	assert.Contains(t, out, "count(*)")
	assert.Contains(t, out, "found rows")
}

func TestErrors(t *testing.T) {
	_, path := setup(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unsupported provider", []string{"exec", "select 1", "--provider", "oracle"}, `unsupported provider "oracle"`},
		{"bad params", []string{"exec", "select ?", "--params='open", "--path", path}, "invalid --params"},
		{"missing keys", []string{"delete", "users", "id", "--path", path}, "keys"},
		{"sql error", []string{"exec", "select * from missing", "--path", path}, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigShowAndSave(t *testing.T) {
	fs, _ := setup(t)
	t.Setenv("DENGINE_DATABASE_PASSWORD", "hunter2")

	out := mustRun(t, "config", "show", "--provider", "postgres", "--url", "postgres://app:s3cret@db/shop")
	assert.Contains(t, out, "postgres://app:********@db/shop")
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "hunter2")

	out = mustRun(t, "config", "save", "--provider", "mysql", "--url", "mysql://app:s3cret@db/shop")
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "password was not saved")

	data, err := afero.ReadFile(fs, "/home/tester/.config/dengine/.dengine.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: mysql")
	assert.Contains(t, string(data), "mysql://app@db/shop")
	assert.NotContains(t, string(data), "hunter2")
	assert.NotContains(t, string(data), "s3cret")
}

func TestVersion(t *testing.T) {
	_, path := setup(t)

	out := mustRun(t, "version")
	assert.Contains(t, out, "dengine version")
	assert.NotContains(t, out, "Engine:")

	out = mustRun(t, "version", "--engine", "--provider", "sqlite", "--path", path)
	assert.Contains(t, out, "Engine: sqlite 3.")
}
