package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/warunglab/storeapi/internal/cli/config"
)

// execMigrate runs the migrate command tree with args and a prepared config.
func execMigrate(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	cmd := NewMigrateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

func testConfig(migrationsDir string) *config.Config {
	return &config.Config{
		Database:      config.DatabaseConfig{Driver: "mysql"},
		MigrationsDir: migrationsDir,
	}
}

func TestMigrateStampRequiresVersion(t *testing.T) {
	_, err := execMigrate(t, testConfig(t.TempDir()), "stamp")
	if err == nil {
		t.Fatal("expected an error when no version is given")
	}
	if !strings.Contains(err.Error(), "accepts 1 arg") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMigrateStampRejectsNonNumericVersion(t *testing.T) {
	_, err := execMigrate(t, testConfig(t.TempDir()), "stamp", "abc123")
	if err == nil {
		t.Fatal("expected an error for a non-numeric version")
	}
	if !strings.Contains(err.Error(), "invalid version") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMigrateCreateRequiresMessage(t *testing.T) {
	_, err := execMigrate(t, testConfig(t.TempDir()), "create")
	if err == nil {
		t.Fatal("expected an error when no message is given")
	}
	if !strings.Contains(err.Error(), "accepts 1 arg") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMigrateCreateScaffoldsFile(t *testing.T) {
	dir := t.TempDir()

	out, err := execMigrate(t, testConfig(dir), "create", "add_notes_table")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Created new migration") {
		t.Errorf("output should confirm creation, got: %s", out)
	}

	// Files land in the dialect subdirectory for the configured driver.
	matches, err := filepath.Glob(filepath.Join(dir, "mysql", "*_add_notes_table.sql"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one scaffolded migration file, found %d", len(matches))
	}
}

func TestMigrateCommandTree(t *testing.T) {
	cmd := NewMigrateCommand()

	want := []string{"up", "down", "current", "history", "stamp", "create", "reset"}
	got := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		got[strings.Fields(sub.Use)[0]] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("migrate is missing subcommand %q", name)
		}
	}
}
