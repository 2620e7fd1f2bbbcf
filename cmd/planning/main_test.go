package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInputs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func writeConfig(t *testing.T, root string) string {
	t.Helper()
	path := filepath.Join(root, "config.toml")
	content := "[data]\ndata_dir = \"" + filepath.ToSlash(filepath.Join(root, "data")) + "\"\n\n[log]\nlevel = \"error\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRun_OneShot(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "input")
	out := filepath.Join(root, "output")
	writeInputs(t, in, map[string]string{
		"jours.csv":     "Jour\n01/09/2025\n02/09/2025\n03/09/2025\n",
		"modules_A.csv": "Module,NbSeances\nM1,4\n",
		"modules_B.csv": "Module,NbSeances\nN1,1\n",
		"liens.csv":     "Module,Jour\n",
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", writeConfig(t, root), "-input", in, "-output", out}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(out, "modules_non_places.csv"))
	if err != nil {
		t.Fatalf("read shortfalls: %v", err)
	}
	if string(data) != "Module,NbNonPlaces\nM1,1\n" {
		t.Fatalf("shortfalls=%q", data)
	}
	if !strings.Contains(stdout.String(), "M1 (A) 1") {
		t.Fatalf("stdout=%s", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(root, "data", "planning.db")); err != nil {
		t.Fatalf("run history not persisted: %v", err)
	}
}

func TestRun_FatalInput(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "input")
	out := filepath.Join(root, "output")
	writeInputs(t, in, map[string]string{
		"jours.csv":     "Jour\n01/09/2025\n02/09/2025\n",
		"modules_A.csv": "Module,NbSeances\nM1,1\n",
		"modules_B.csv": "Module,NbSeances\nN1,1\n",
		"liens.csv":     "Module,Jour\nX,01/09/2025\nY,01/09/2025\n",
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", writeConfig(t, root), "-input", in, "-output", out}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit=%d", code)
	}
	if !strings.HasPrefix(stderr.String(), "ERREUR BLOQUANTE: ") {
		t.Fatalf("stderr=%s", stderr.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output dir should not exist: %v", err)
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit=%d", code)
	}
}

func TestRun_WriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-writeConfig", path, "-port", "8080", "-input", "cours"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"port = 8080", "cours", "Libre"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("config missing %q:\n%s", want, data)
		}
	}
}
