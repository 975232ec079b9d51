package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/sprout/internal/config"
	"github.com/vango-dev/sprout/internal/errors"
)

// writeConfig writes a sprout.yaml holding content and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprout.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvPort, "")
	t.Setenv(config.EnvHost, "")
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("version --short = %q, want %q", out, version+"\n")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Version:    dev", "Go version:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestRender(t *testing.T) {
	cfgPath := writeConfig(t, "name: test\n")

	out, err := execute(t, "render", "counter", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Counter</title>",
		`<div id="sprout-root">`,
		`<span class="count">0</span>`,
		"/_sprout/client.js",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "render", "counter", "--static", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "client.js") {
		t.Errorf("static render should not load the client:\n%s", out)
	}
}

func TestRenderDefaultsToShowcase(t *testing.T) {
	cfgPath := writeConfig(t, "render:\n  pretty: true\n")

	out, err := execute(t, "render", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<title>Sprout showcase</title>") {
		t.Errorf("render output:\n%s", out)
	}
}

func TestRenderUnknownDemo(t *testing.T) {
	cfgPath := writeConfig(t, "name: test\n")

	_, err := execute(t, "render", "chess", "--config", cfgPath)
	if !errors.HasCode(err, "E142") {
		t.Fatalf("err = %v, want E142", err)
	}
}

func TestRenderInvalidConfig(t *testing.T) {
	cfgPath := writeConfig(t, "dev:\n  port: 70000\n")

	_, err := execute(t, "render", "counter", "--config", cfgPath)
	if !errors.HasCode(err, "E122") {
		t.Fatalf("err = %v, want E122", err)
	}
}

func TestDiff(t *testing.T) {
	out, err := execute(t, "diff", "counter", "--from=0", "--to=1")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`SetText [1,0] "1"`, "RemoveAttr [3] disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "diff", "counter", "--from=2", "--to=2")
	if err != nil {
		t.Fatal(err)
	}
	if out != "no changes\n" {
		t.Errorf("diff of equal states = %q", out)
	}

	out, err = execute(t, "diff", "counter", "--from=2", "--to=2", "--listeners")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "AddListener") {
		t.Errorf("--listeners output missing listener patches:\n%s", out)
	}
}

func TestDiffKeyedRemoval(t *testing.T) {
	out, err := execute(t, "diff", "todo", "--from=3", "--to=2", "--keyed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Remove [1] #2") {
		t.Errorf("diff output should remove the third row:\n%s", out)
	}
}

func TestExportToDir(t *testing.T) {
	cfgPath := writeConfig(t, "name: test\n")
	dir := t.TempDir()

	out, err := execute(t, "export", "counter", "todo", "--dir", dir, "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Exported 2 page(s)") {
		t.Errorf("export output:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "counter.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<span class="count">0</span>`) {
		t.Errorf("counter.html:\n%s", data)
	}
	if strings.Contains(string(data), "client.js") {
		t.Error("exported page should not load the client")
	}

	data, err = os.ReadFile(filepath.Join(dir, "todo.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Water the seedlings") {
		t.Errorf("todo.html should list the sample items:\n%s", data)
	}
}

func TestExportS3NeedsRegion(t *testing.T) {
	cfgPath := writeConfig(t, "name: test\n")

	_, err := execute(t, "export", "counter", "--bucket", "site", "--config", cfgPath)
	if !errors.HasCode(err, "E162") {
		t.Fatalf("err = %v, want E162", err)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Name = "demo"
	cfg.Dev.Port = 9001
	cfg.Server.ReadTimeout = "5s"
	cfg.Server.HeartbeatInterval = "1s"
	cfg.Server.MaxSessions = 3
	cfg.Server.MaxMessageSize = 1024

	sc := serverConfig(cfg)
	if sc.Address != "localhost:9001" {
		t.Errorf("Address = %q", sc.Address)
	}
	if sc.Title != "demo" || sc.MaxSessions != 3 {
		t.Errorf("Title = %q, MaxSessions = %d", sc.Title, sc.MaxSessions)
	}
	sess := sc.SessionConfig
	if sess.ReadTimeout != 5*time.Second || sess.HeartbeatInterval != time.Second {
		t.Errorf("session timeouts = %v, %v", sess.ReadTimeout, sess.HeartbeatInterval)
	}
	if sess.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want default 10s", sess.WriteTimeout)
	}
	if sess.MaxMessageSize != 1024 {
		t.Errorf("MaxMessageSize = %d", sess.MaxMessageSize)
	}
}

func TestLookupDemo(t *testing.T) {
	for _, name := range demoNames() {
		d, err := lookupDemo(name)
		if err != nil {
			t.Fatalf("lookupDemo(%q) error: %v", name, err)
		}
		if d.name != name {
			t.Errorf("name = %q, want %q", d.name, name)
		}
	}
	if got := strings.Join(demoNames(), ","); got != "counter,showcase,todo" {
		t.Errorf("demoNames() = %s", got)
	}
}
