package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeTree creates files under root from a path -> content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, string(data), want)
	}
}

func TestCopyTreeCopiesNestedFiles(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	writeTree(t, src, map[string]string{
		"package.json":              `{"name":"starter"}`,
		"components/ui/button.tsx":  "export const Button = () => null",
		"public/manifest.json":      `{"name":"app"}`,
		"public/icons/icon-192.png": "png",
	})

	ops := New()
	if err := ops.CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	assertFileContent(t, filepath.Join(dst, "package.json"), `{"name":"starter"}`)
	assertFileContent(t, filepath.Join(dst, "components", "ui", "button.tsx"), "export const Button = () => null")
	assertFileContent(t, filepath.Join(dst, "public", "icons", "icon-192.png"), "png")
}

func TestCopyTreeMergesIntoExisting(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	writeTree(t, src, map[string]string{"app/page.tsx": "template page"})
	writeTree(t, dst, map[string]string{
		"app/page.tsx":   "generated page",
		"app/layout.tsx": "generated layout",
	})

	if err := New().CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	assertFileContent(t, filepath.Join(dst, "app", "page.tsx"), "template page")
	assertFileContent(t, filepath.Join(dst, "app", "layout.tsx"), "generated layout")
}

func TestCopyTreeMissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := New().CopyTree(filepath.Join(tmp, "missing"), filepath.Join(tmp, "dst"))

	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	var snf *SourceNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("expected *SourceNotFoundError, got %T", err)
	}
}

func TestCopyTreeFallsBackToCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fallback exercised with cp on Unix")
	}
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	writeTree(t, src, map[string]string{"lib/utils.ts": "export {}"})

	ops := newForOS(runtime.GOOS)
	ops.primary = func(string, string) error { return errors.New("native copy failed") }

	if err := ops.CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree with fallback: %v", err)
	}
	assertFileContent(t, filepath.Join(dst, "lib", "utils.ts"), "export {}")
}

func TestCopyTreeBothCopiersFail(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	writeTree(t, src, map[string]string{"a.txt": "a"})

	ops := &nativeOps{
		primary:  func(string, string) error { return errors.New("primary") },
		fallback: func(string, string) error { return errors.New("fallback") },
	}
	err := ops.CopyTree(src, filepath.Join(tmp, "dst"))
	if err == nil {
		t.Fatal("expected error when both copiers fail")
	}
}

func TestCopyTreePreservesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("native symlinks need developer mode on Windows")
	}
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	writeTree(t, src, map[string]string{"public/icon.png": "png"})
	if err := os.Symlink("icon.png", filepath.Join(src, "public", "favicon.png")); err != nil {
		t.Fatal(err)
	}

	if err := New().CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dst, "public", "favicon.png"))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != "icon.png" {
		t.Errorf("symlink target = %q, want %q", target, "icon.png")
	}
}

func TestCopyFileCreatesParent(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "tailwind.config.ts")
	if err := os.WriteFile(src, []byte("export default {}"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(tmp, "project", "nested", "tailwind.config.ts")
	if err := New().CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	assertFileContent(t, dst, "export default {}")
}

func TestRemoveTreeMissingIsNoop(t *testing.T) {
	if err := New().RemoveTree(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("RemoveTree on missing path: %v", err)
	}
}
