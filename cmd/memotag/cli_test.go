// ABOUTME: Integration tests for memotag CLI commands.
// ABOUTME: Builds the binary once and drives full add/tag/edit/rm workflows.

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var memotagBin string

func TestMain(m *testing.M) {
	binDir, err := os.MkdirTemp("", "memotag-bin-*")
	if err != nil {
		panic(err)
	}
	memotagBin = filepath.Join(binDir, "memotag")

	cmd := exec.Command("go", "build", "-o", memotagBin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	code := m.Run()
	_ = os.RemoveAll(binDir)
	os.Exit(code)
}

type cli struct {
	t         *testing.T
	configDir string
	dbPath    string
	dataDir   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	return &cli{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dbPath:    filepath.Join(dir, "data", "test.db"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

func (c *cli) run(args ...string) (string, error) {
	allArgs := append([]string{"--config-dir", c.configDir, "--db", c.dbPath}, args...)
	cmd := exec.Command(memotagBin, allArgs...) //nolint:gosec // Running our own test binary is expected in integration tests
	cmd.Env = append(os.Environ(), "MEMOTAG_DATA_DIR="+c.dataDir, "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// firstID returns the id prefix of the list entry titled title.
func (c *cli) firstID(title string) string {
	c.t.Helper()
	out := c.mustRun("list")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, title) {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				return fields[0]
			}
		}
	}
	c.t.Fatalf("could not find %q in list:\n%s", title, out)
	return ""
}

func TestAddListShowDelete(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("add", "Test Note", "--content", "Test content here")
	if !strings.Contains(out, "Created note") {
		t.Errorf("expected 'Created note' in output: %s", out)
	}

	id := c.firstID("Test Note")

	out = c.mustRun("show", id)
	if !strings.Contains(out, "Test content") {
		t.Errorf("expected 'Test content' in show: %s", out)
	}

	out = c.mustRun("rm", id, "--force")
	if !strings.Contains(out, "Deleted") {
		t.Errorf("expected 'Deleted' in output: %s", out)
	}
}

func TestTagReconciliation(t *testing.T) {
	c := newCLI(t)

	c.mustRun("add", "Tagged Note", "--content", "Content", "--tags", "work, urgent, work")
	id := c.firstID("Tagged Note")

	if out := c.mustRun("tag", "show", id); strings.TrimSpace(out) != "work,urgent" {
		t.Errorf("expected tag string %q, got %q", "work,urgent", out)
	}

	// Editing without --tags leaves them alone.
	c.mustRun("edit", id, "--title", "Renamed Note")
	if out := c.mustRun("tag", "show", id); strings.TrimSpace(out) != "work,urgent" {
		t.Errorf("expected tags to survive edit, got %q", out)
	}

	c.mustRun("tag", "set", id, "urgent,later")
	if out := c.mustRun("tag", "show", id); strings.TrimSpace(out) != "urgent,later" {
		t.Errorf("expected tag string %q, got %q", "urgent,later", out)
	}

	out := c.mustRun("list", "--tag", "later")
	if !strings.Contains(out, "Renamed Note") {
		t.Errorf("expected note in tag filter: %s", out)
	}
	out = c.mustRun("list", "--tag", "work")
	if strings.Contains(out, "Renamed Note") {
		t.Errorf("did not expect note under removed tag: %s", out)
	}

	// An explicitly empty --tags clears.
	c.mustRun("edit", id, "--tags", "")
	if out := c.mustRun("tag", "show", id); strings.TrimSpace(out) != "" {
		t.Errorf("expected no tags, got %q", out)
	}
}

func TestTagList(t *testing.T) {
	c := newCLI(t)

	c.mustRun("add", "One", "--content", "Content", "--tags", "red,blue")
	c.mustRun("add", "Two", "--content", "Content", "--tags", "red")

	out := c.mustRun("tag", "list")
	red := strings.Index(out, "red")
	blue := strings.Index(out, "blue")
	if red < 0 || blue < 0 || red > blue {
		t.Errorf("expected red before blue in tag list: %s", out)
	}
}

func TestImportFrontMatter(t *testing.T) {
	c := newCLI(t)

	src := filepath.Join(t.TempDir(), "imported.md")
	doc := "---\ntitle: Imported\ntags:\n  - alpha\n  - beta\n---\nImported body\n"
	if err := os.WriteFile(src, []byte(doc), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c.mustRun("import", src)
	id := c.firstID("Imported")

	if out := c.mustRun("tag", "show", id); strings.TrimSpace(out) != "alpha,beta" {
		t.Errorf("expected imported tags, got %q", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	c := newCLI(t)
	if err := os.MkdirAll(c.configDir, 0o750); err != nil {
		t.Fatal(err)
	}
	bad := "link_table: \"bad table\"\n"
	if err := os.WriteFile(filepath.Join(c.configDir, "config.yaml"), []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}

	if out, err := c.run("list"); err == nil {
		t.Errorf("expected invalid config to fail, got: %s", out)
	}
}

func TestHelpAndCompletionSkipSetup(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{{"help"}, {"help", "add"}, {"completion", "bash"}} {
		out := c.mustRun(args...)
		if out == "" {
			t.Errorf("expected output from %s", strings.Join(args, " "))
		}
	}

	if _, err := os.Stat(filepath.Join(c.configDir, "config.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected no config file to be written, got %v", err)
	}
	if _, err := os.Stat(c.dbPath); !os.IsNotExist(err) {
		t.Errorf("expected no database to be created, got %v", err)
	}
}
