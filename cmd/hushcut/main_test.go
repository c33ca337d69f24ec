package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"hushcut/internal/config"
	"hushcut/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	configPath := filepath.Join(base, "config.toml")
	data, err := toml.Marshal(*cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func (env *cliTestEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.execute(t)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"run", "probe", "watch", "queue", "status", "config"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestQueueAddAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "talk.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	out, err := env.execute(t, "queue", "add", video)
	if err != nil {
		t.Fatalf("queue add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Enqueued") {
		t.Fatalf("unexpected add output:\n%s", out)
	}

	out, err = env.execute(t, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "talk.mp4") || !strings.Contains(out, "Pending") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
}

func TestQueueAddRejectsNonVideo(t *testing.T) {
	env := setupCLITestEnv(t)
	notes := filepath.Join(env.baseDir, "notes.txt")
	if err := os.WriteFile(notes, []byte("text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := env.execute(t, "queue", "add", notes); err == nil {
		t.Fatal("expected non-video file to be rejected")
	}
}

func TestQueueClearEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.execute(t, "queue", "clear")
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	if !strings.Contains(out, "Removed 0") {
		t.Fatalf("unexpected clear output:\n%s", out)
	}
}

func TestRunCommandRejectsBadInput(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := env.execute(t, "run", filepath.Join(env.baseDir, "missing.mp4")); err == nil {
		t.Fatal("expected missing input to be rejected")
	}

	notes := filepath.Join(env.baseDir, "notes.txt")
	if err := os.WriteFile(notes, []byte("text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := env.execute(t, "run", notes); err == nil {
		t.Fatal("expected non-video input to be rejected")
	}
}

func TestRunCommandRejectsBadOutputExtension(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "talk.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	_, err := env.execute(t, "run", video, "-o", filepath.Join(env.baseDir, "out.avi"))
	if err == nil || !strings.Contains(err.Error(), ".mp4 or .mkv") {
		t.Fatalf("expected output extension error, got %v", err)
	}
}

func TestRunCommandRefusesExistingOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	video := filepath.Join(env.baseDir, "talk.mp4")
	existing := filepath.Join(env.baseDir, "talk_cleaned.mp4")
	for _, path := range []string{video, existing} {
		if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	_, err := env.execute(t, "run", video)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	out, err := env.execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := env.execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init to fail without --overwrite")
	}
	if out, err := env.execute(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v\n%s", err, out)
	}

	out, err = env.execute(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "is valid") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestConfigShowPrintsSettings(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"cutter.threshold", "paths.inbox_dir", "logging.format"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusReportsSections(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	out, err := env.execute(t, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	for _, want := range []string{"== Tools ==", "== Directories ==", "== Queue ==", "auto-editor"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "[OK] ffprobe") || !strings.Contains(out, "[OK] ffmpeg") {
		t.Fatalf("expected stubbed tools to report available:\n%s", out)
	}
	if strings.Contains(out, "Install the missing tools") {
		t.Fatalf("no tools should be missing with stubs on PATH:\n%s", out)
	}
}
