package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hugo-glez/androsoo/dexapktest"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func runArgs(args ...string) (int, string, string) {
	var out, errw bytes.Buffer
	code := run(args, &out, &errw)
	return code, out.String(), errw.String()
}

func TestRunOrdered(t *testing.T) {
	path := writeFile(t, "classes.dex", dexapktest.BuildDEX(dexapktest.DexLayout{
		StringOffsets: []uint32{10, 20, 30},
	}))
	code, out, errw := runArgs(path, "--no-color")
	if code != 0 {
		t.Errorf("exit code %d, stderr '%s'", code, errw)
	}
	if !strings.Contains(out, "=== androsoo 1.0") {
		t.Errorf("banner missing from '%s'", out)
	}
	if !strings.HasSuffix(out, "String offset IN order: "+path+"\n") {
		t.Errorf("unexpected stdout '%s'", out)
	}
}

func TestRunAnomalySilentFlagAfterPath(t *testing.T) {
	path := writeFile(t, "classes.dex", dexapktest.BuildDEX(dexapktest.DexLayout{
		HeaderSize:    0x68,
		StringOffsets: []uint32{10, 20, 15},
	}))
	code, out, errw := runArgs(path, "-s", "--no-color")
	if code != 2 {
		t.Errorf("exit code %d, want 2", code)
	}
	expected := "String offset not in order: " + path + "\n"
	if out != expected {
		t.Errorf("stdout '%s' expected '%s'", out, expected)
	}
	if errw != "Warning: Header size != 0x70 (got 0x68)\n" {
		t.Errorf("unexpected stderr '%s'", errw)
	}
}

func TestRunLegacyExit(t *testing.T) {
	path := writeFile(t, "classes.dex", dexapktest.BuildDEX(dexapktest.DexLayout{
		StringOffsets: []uint32{2, 1},
	}))
	if code, _, _ := runArgs("-s", "--legacy-exit", path); code != 0 {
		t.Errorf("exit code %d, want 0", code)
	}
}

func TestRunBadMagic(t *testing.T) {
	path := writeFile(t, "classes.dex", dexapktest.BuildDEX(dexapktest.DexLayout{
		Magic:         []byte("zex\n035\x00"),
		StringOffsets: []uint32{10, 20, 15},
	}))
	code, out, errw := runArgs("-s", path)
	if code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if strings.Contains(out, "order") {
		t.Errorf("scan result printed for bad magic: '%s'", out)
	}
	expected := "androsoo: ERROR: reading dex " + path + ": not a DEX file\n"
	if errw != expected {
		t.Errorf("stderr '%s' expected '%s'", errw, expected)
	}
}

func TestRunMissingFile(t *testing.T) {
	code, _, errw := runArgs("-s", filepath.Join(t.TempDir(), "missing.dex"))
	if code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if !strings.Contains(errw, "unable to open") {
		t.Errorf("unexpected stderr '%s'", errw)
	}
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{}},
		{"unknown flag", []string{"classes.dex", "-x"}},
		{"two paths", []string{"a.dex", "b.dex"}},
	}
	for _, tc := range tests {
		code, _, errw := runArgs(tc.args...)
		if code != 1 {
			t.Errorf("%s: exit code %d, want 1", tc.name, code)
		}
		if !strings.Contains(errw, "Usage: androsoo <file.dex|file.apk> [options]") {
			t.Errorf("%s: usage missing from '%s'", tc.name, errw)
		}
	}
}

func TestRunAPKYAML(t *testing.T) {
	data, err := dexapktest.BuildAPK(
		dexapktest.APKEntry{Name: "classes.dex", Data: dexapktest.BuildDEX(dexapktest.DexLayout{
			StringOffsets: []uint32{1, 2, 3},
		})},
		dexapktest.APKEntry{Name: "classes2.dex", Data: dexapktest.BuildDEX(dexapktest.DexLayout{
			StringOffsets: []uint32{3, 2, 1},
		})},
	)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "app.apk", data)
	code, out, _ := runArgs("-s", "--yaml", path)
	if code != 2 {
		t.Errorf("exit code %d, want 2", code)
	}
	for _, want := range []string{"name: classes.dex", "name: classes2.dex", "first_unordered_index: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("'%s' missing from '%s'", want, out)
		}
	}
}
