package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sidepad/internal/cli"
	"sidepad/internal/commands"
	"sidepad/internal/config"
	"sidepad/internal/exitcode"
	"sidepad/internal/service"
	"sidepad/internal/store"
	"sidepad/internal/testutil"
)

// testBackends returns backends sharing one in-memory store and a signed-in fake.
func testBackends(kv *store.MemoryStore, drive *testutil.FakeDrive) cli.Backends {
	id := testutil.NewFakeIdentity(true)
	return cli.Backends{
		OpenStore: func(cfg *config.Config) (store.KV, func() error, error) {
			return kv, func() error { return nil }, nil
		},
		OpenIdentity: func(ctx context.Context, cfg *config.Config, log *zap.Logger) (commands.Identity, error) {
			return id, nil
		},
		OpenDrive: func(ctx context.Context, h *http.Client) (service.Drive, error) {
			return drive, nil
		},
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	code := d.Run(context.Background(), argv, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func newDispatcher() (*cli.Dispatcher, *store.MemoryStore, *testutil.FakeDrive) {
	kv := store.NewMemory()
	drive := testutil.NewFakeDrive()
	return cli.NewDispatcher(commands.DefaultRegistry, testBackends(kv, drive)), kv, drive
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _, _ := newDispatcher()

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d, _, _ := newDispatcher()

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsListsTodos(t *testing.T) {
	d, kv, _ := newDispatcher()
	if err := store.SaveList(kv, store.TodosKey, []service.TodoItem{{Title: "Buy milk"}}); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d, _, _ := newDispatcher()
	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d, _, _ := newDispatcher()
	stdout, stderr, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "sidepad 0.1.0\n" {
		t.Errorf("expected 'sidepad 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"help", "--unknown"}, "error: unknown flag: -unknown\n"},
		{"missing value", []string{"addnote", "--title"}, "error: flag needs an argument: -title\n"},
		{"flag after double dash", []string{"add", "--", "--nope"}, "error: unknown flag: --nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _ := newDispatcher()

			var stdout, stderr bytes.Buffer
			code := d.Run(context.Background(), tt.args, &stdout, &stderr)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr.String())
			}
		})
	}
}

func TestDispatcher_AliasAndQuiet(t *testing.T) {
	d, kv, _ := newDispatcher()

	stdout, stderr, code := run(t, d, "add", "--quiet", "Buy", "milk")
	if code != exitcode.Success || stdout != "" || stderr != "" {
		t.Fatalf("add: code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}

	stdout, _, code = run(t, d, "todos")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	items, err := store.LoadList[service.TodoItem](kv, store.TodosKey)
	if err != nil || len(items) != 1 {
		t.Errorf("expected one stored todo, got %v (%v)", items, err)
	}
}

func TestDispatcher_UploadFlow(t *testing.T) {
	d, _, drive := newDispatcher()

	if _, stderr, code := run(t, d, "addnote", "--title", "Trip", "Pack", "sunscreen"); code != exitcode.Success {
		t.Fatalf("addnote failed: %d %q", code, stderr)
	}
	stdout, stderr, code := run(t, d, "upload")
	if code != exitcode.Success {
		t.Fatalf("upload failed: %d %q", code, stderr)
	}
	if stdout != "uploaded: Trip\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	files := drive.Files()
	if len(files) != 1 || string(files[0].File.Content) != "Pack sunscreen" {
		t.Errorf("unexpected uploads %+v", files)
	}
}

func TestDispatcher_BoltStore(t *testing.T) {
	dir := t.TempDir()
	backends := testBackends(store.NewMemory(), testutil.NewFakeDrive())
	backends.OpenStore = nil // default bbolt store
	d := cli.NewDispatcher(commands.DefaultRegistry, backends)

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"add", "--config", dir, "Buy milk"}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, config.DefaultStoreFile)); err != nil {
		t.Errorf("expected database file: %v", err)
	}

	stdout.Reset()
	code = d.Run(context.Background(), []string{"list", "--config", dir}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}

func TestDispatcher_StoreOpenError(t *testing.T) {
	backends := testBackends(store.NewMemory(), testutil.NewFakeDrive())
	backends.OpenStore = func(cfg *config.Config) (store.KV, func() error, error) {
		return nil, nil, os.ErrPermission
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, backends)

	stdout, stderr, code := run(t, d, "list")
	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if stdout != "" || !strings.HasPrefix(stderr, "error: storage error: ") {
		t.Errorf("unexpected output stdout=%q stderr=%q", stdout, stderr)
	}

	// Commands that don't touch the lists never open the store
	stdout, _, code = run(t, d, "version")
	if code != exitcode.Success || stdout != "sidepad 0.1.0\n" {
		t.Errorf("version: code=%d stdout=%q", code, stdout)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	d, _, _ := newDispatcher()

	stdout, stderr, code := run(t, d, "version", "--debug")
	if code != exitcode.Success || stdout != "sidepad 0.1.0\n" {
		t.Fatalf("version: code=%d stdout=%q", code, stdout)
	}
	if !strings.Contains(stderr, "dispatch") || !strings.Contains(stderr, `"command": "version"`) {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}

	_, stderr, _ = run(t, d, "version")
	if stderr != "" {
		t.Errorf("expected no log output without --debug, got %q", stderr)
	}
}
