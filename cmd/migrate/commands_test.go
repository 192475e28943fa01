package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopmgmt/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSchema struct {
	calls  []string
	steps  int
	target uint
	forced int
	status *migration.Status
}

func (f *fakeSchema) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeSchema) Up() error   { return f.record("up") }
func (f *fakeSchema) Down() error { return f.record("down") }
func (f *fakeSchema) Drop() error { return f.record("drop") }

func (f *fakeSchema) Steps(n int) error {
	f.steps = n
	return f.record("steps")
}

func (f *fakeSchema) GoTo(version uint) error {
	f.target = version
	return f.record("goto")
}

func (f *fakeSchema) Force(version int) error {
	f.forced = version
	return f.record("force")
}

func (f *fakeSchema) Status() (*migration.Status, error) {
	return f.status, f.record("status")
}

func newEnv(t *testing.T) (*cliEnv, *fakeSchema, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	fake := &fakeSchema{}
	return &cliEnv{dir: t.TempDir(), out: out, log: zap.NewNop(), schema: fake}, fake, out
}

func execute(t *testing.T, env *cliEnv, line string) error {
	t.Helper()
	fields := strings.Fields(line)
	cmd, ok := lookup(fields[0])
	require.True(t, ok, "unknown command %s", fields[0])
	return cmd.exec(env, fields[1:])
}

func TestLookup(t *testing.T) {
	cmd, ok := lookup("version")
	require.True(t, ok)
	assert.Equal(t, "status", cmd.name)

	cmd, ok = lookup("new")
	require.True(t, ok)
	assert.Equal(t, "create", cmd.name)
	assert.False(t, cmd.needsDB)

	_, ok = lookup("migrate")
	assert.False(t, ok)
}

func TestSchemaCommands(t *testing.T) {
	env, fake, _ := newEnv(t)

	require.NoError(t, execute(t, env, "up"))
	require.NoError(t, execute(t, env, "step -2"))
	assert.Equal(t, -2, fake.steps)
	require.NoError(t, execute(t, env, "step 3"))
	assert.Equal(t, 3, fake.steps)
	require.NoError(t, execute(t, env, "goto 20240601000003"))
	assert.Equal(t, uint(20240601000003), fake.target)
	require.NoError(t, execute(t, env, "force 20240601000002"))
	assert.Equal(t, 20240601000002, fake.forced)
	require.NoError(t, execute(t, env, "down -all"))
	require.NoError(t, execute(t, env, "drop -yes"))

	assert.Equal(t, []string{"up", "steps", "steps", "goto", "force", "down", "drop"}, fake.calls)
}

func TestSchemaCommands_RejectBadArguments(t *testing.T) {
	for _, line := range []string{
		"up now",
		"step",
		"step 0",
		"step many",
		"goto -5",
		"force",
		"down",
		"drop",
		"drop -force",
	} {
		t.Run(line, func(t *testing.T) {
			env, fake, _ := newEnv(t)
			err := execute(t, env, line)
			assert.True(t, errors.Is(err, errUsage), "got %v", err)
			assert.Empty(t, fake.calls, "nothing may run on bad arguments")
		})
	}
}

func TestStatusCommand(t *testing.T) {
	env, fake, out := newEnv(t)
	fake.status = &migration.Status{
		Version:   20240601000002,
		Dirty:     true,
		Available: []string{"20240601000001_create_users", "20240601000002_create_catalog", "20240601000003_create_sales"},
		Pending:   []string{"20240601000003_create_sales"},
	}

	require.NoError(t, execute(t, env, "status"))
	assert.Equal(t,
		"version 20240601000002 (dirty), 1 of 3 files pending\n  pending 20240601000003_create_sales\n",
		out.String())
}

func TestCreateAndList(t *testing.T) {
	env, _, out := newEnv(t)

	require.NoError(t, execute(t, env, "list"))
	assert.Contains(t, out.String(), "no migrations in")

	out.Reset()
	require.NoError(t, execute(t, env, "create -desc notes add_customer_notes"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "_add_customer_notes.up.sql"))
	assert.Equal(t, env.dir, filepath.Dir(lines[0]))

	out.Reset()
	require.NoError(t, execute(t, env, "list"))
	assert.Contains(t, out.String(), "_add_customer_notes")

	assert.ErrorIs(t, execute(t, env, "create"), errUsage)
}

func TestRun_UsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "commands:")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"rollback"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "rollback"`)

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"-dir", t.TempDir(), "create"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: migrate create")
}

func TestRun_ListNeedsNoDatabase(t *testing.T) {
	var stdout, stderr bytes.Buffer
	dir := t.TempDir()
	_, err := migration.CreateMigration(dir, "create_users", "")
	require.NoError(t, err)

	assert.Equal(t, 0, run([]string{"-dir", dir, "-log-level", "error", "list"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "_create_users")
}

func TestMigrationsDir_ExplicitFlag(t *testing.T) {
	dir := t.TempDir()
	got, err := migrationsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
