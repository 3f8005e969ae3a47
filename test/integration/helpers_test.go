//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // CNSP_CACHE_DIR points here
	RepoDir    string // local git repository serving as the template remote
	ProjectDir string // a mock generated project
}

// setupTestEnv creates isolated temp directories and sets environment
// variables so nothing touches the real home directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	env := &testEnv{
		HomeDir:    t.TempDir(),
		RepoDir:    t.TempDir(),
		ProjectDir: filepath.Join(t.TempDir(), "demo"),
	}
	t.Setenv("CNSP_CACHE_DIR", env.HomeDir)
	t.Setenv("GIT_AUTHOR_NAME", "test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")

	// The generator would have created this.
	writeFile(t, filepath.Join(env.ProjectDir, "package.json"), `{"name":"demo"}`)
	writeFile(t, filepath.Join(env.ProjectDir, "app", "layout.tsx"), "generated layout")
	return env
}

// repoURL returns the file:// URL of the template repository.
func (e *testEnv) repoURL() string {
	return "file://" + filepath.ToSlash(e.RepoDir)
}

// setupTemplateRepo writes the starter template into env.RepoDir and
// commits it. Returns the commit SHA.
func setupTemplateRepo(t *testing.T, env *testEnv, packageJSON string) string {
	t.Helper()
	git(t, env.RepoDir, "init", "--quiet")

	files := map[string]string{
		"package.json":                     packageJSON,
		"components/ui/button.tsx":         "export function Button() {}\n",
		"components/installPWA.tsx":        "export function InstallPWA() {}\n",
		"components/disableRightClick.tsx": "export function DisableRightClick() {}\n",
		"app/page.tsx":                     "export default function Page() {}\n",
		"lib/utils.ts":                     "export const cn = () => ''\n",
		"styles/globals.css":               "@tailwind base;\n",
		"tailwind.config.ts":               "export default {}\n",
		"postcss.config.js":                "module.exports = {}\n",
		"next.config.js":                   "module.exports = {}\n",
		"public/manifest.json":             `{"name":"Next Starter","short_name":"Starter"}`,
		"public/icons/icon-192x192.png":    "png",
		"README.md":                        "# Starter\n",
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(env.RepoDir, rel), content)
	}
	return commitAll(t, env.RepoDir, "initial template")
}

func commitAll(t *testing.T, dir, msg string) string {
	t.Helper()
	git(t, dir, "add", ".")
	git(t, dir, "commit", "--quiet", "-m", msg)
	return git(t, dir, "rev-parse", "HEAD")
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// newRegistryServer serves abbreviated packuments for the given
// name -> versions table; everything else is a 404.
func newRegistryServer(t *testing.T, published map[string][]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.Replace(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "%2F", "/", 1)
		versions, ok := published[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		doc := map[string]any{
			"name":      name,
			"dist-tags": map[string]string{"latest": versions[len(versions)-1]},
			"versions":  map[string]any{},
		}
		for _, v := range versions {
			doc["versions"].(map[string]any)[v] = map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// recordingInstaller stands in for bun/npm and records requested packages.
type recordingInstaller struct {
	mu    sync.Mutex
	added [][]string
}

func (r *recordingInstaller) Name() string { return "recording" }

func (r *recordingInstaller) Add(_ context.Context, _ string, pkgs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, pkgs)
	return nil
}

func (r *recordingInstaller) InstallCommand() string            { return "recording install" }
func (r *recordingInstaller) RunCommand(script string) string   { return "recording " + script }
func (r *recordingInstaller) CreateCommand(pkg string) []string { return []string{"recording", pkg} }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// readTree maps every regular file under root (relative, slash-separated)
// to its content.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return out
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to exist", path)
	}
}
