package fetch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// initTemplateRepo creates a local repository with one commit.
func initTemplateRepo(t *testing.T) (string, string) {
	t.Helper()
	repo := t.TempDir()
	git(t, repo, "init", "--quiet")
	files := map[string]string{
		"package.json":             `{"name":"starter"}`,
		"components/ui/button.tsx": "export {}\n",
	}
	for rel, content := range files {
		path := filepath.Join(repo, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	git(t, repo, "add", ".")
	git(t, repo, "commit", "--quiet", "-m", "initial")
	return repo, git(t, repo, "rev-parse", "HEAD")
}

func TestGitFetcherFetch(t *testing.T) {
	requireGit(t)
	repo, head := initTemplateRepo(t)

	dest := filepath.Join(t.TempDir(), "template")
	// A leftover tree from a previous run is replaced.
	if err := os.MkdirAll(filepath.Join(dest, "stale"), 0755); err != nil {
		t.Fatal(err)
	}

	result, err := NewGitFetcher("file://"+filepath.ToSlash(repo)).Fetch(context.Background(), dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if result.Dir != dest {
		t.Errorf("Dir = %q, want %q", result.Dir, dest)
	}
	if result.Ref != head {
		t.Errorf("Ref = %q, want %q", result.Ref, head)
	}
	if _, err := os.Stat(filepath.Join(dest, "components", "ui", "button.tsx")); err != nil {
		t.Errorf("expected cloned file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, ".git")); !os.IsNotExist(err) {
		t.Error(".git should be stripped")
	}
	if _, err := os.Stat(filepath.Join(dest, "stale")); !os.IsNotExist(err) {
		t.Error("previous contents should be replaced")
	}

	leftovers, _ := filepath.Glob(dest + ".tmp-*")
	if len(leftovers) != 0 {
		t.Errorf("temp directories left behind: %v", leftovers)
	}
}

func TestGitFetcherMissingRepo(t *testing.T) {
	requireGit(t)

	dest := filepath.Join(t.TempDir(), "template")
	missing := "file://" + filepath.ToSlash(filepath.Join(t.TempDir(), "nope"))

	_, err := NewGitFetcher(missing).Fetch(context.Background(), dest)

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fetch.Error, got %v", err)
	}
	if !errors.Is(err, ErrFetch) {
		t.Error("errors.Is(err, ErrFetch) should be true")
	}
	if fe.Repo != missing {
		t.Errorf("Repo = %q, want %q", fe.Repo, missing)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("dest should not exist after a failed fetch")
	}
}

func TestGitFetcherWithRef(t *testing.T) {
	requireGit(t)
	repo, head := initTemplateRepo(t)

	git(t, repo, "checkout", "--quiet", "-b", "canary")
	if err := os.WriteFile(filepath.Join(repo, "canary.txt"), []byte("canary"), 0644); err != nil {
		t.Fatal(err)
	}
	git(t, repo, "add", ".")
	git(t, repo, "commit", "--quiet", "-m", "canary")
	canary := git(t, repo, "rev-parse", "HEAD")
	git(t, repo, "checkout", "--quiet", "-")

	url := "file://" + filepath.ToSlash(repo)

	dest := filepath.Join(t.TempDir(), "template")
	result, err := NewGitFetcher(url, WithRef("canary")).Fetch(context.Background(), dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Ref != canary {
		t.Errorf("Ref = %q, want branch head %q", result.Ref, canary)
	}
	if _, err := os.Stat(filepath.Join(dest, "canary.txt")); err != nil {
		t.Errorf("expected branch file: %v", err)
	}

	dest = filepath.Join(t.TempDir(), "template")
	result, err = NewGitFetcher(url, WithRef("")).Fetch(context.Background(), dest)
	if err != nil {
		t.Fatalf("Fetch with empty ref: %v", err)
	}
	if result.Ref != head {
		t.Errorf("Ref = %q, want default branch head %q", result.Ref, head)
	}
}

func TestWorkDirUnique(t *testing.T) {
	a, b := WorkDir(), WorkDir()
	if a == b {
		t.Errorf("WorkDir returned %q twice", a)
	}
	if !strings.HasPrefix(filepath.Base(a), "create-next-shadcn-pwa-") {
		t.Errorf("WorkDir = %q, want CLI-name prefix", a)
	}
}
