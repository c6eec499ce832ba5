// Package testutil provides helpers for building throwaway git
// repositories in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WriteFile writes content to a file, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// InitGitRepo creates an empty git repository in a temp directory.
func InitGitRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit error: %v", err)
	}
	return dir, repo
}

// Commit writes the given files into the repository worktree and
// commits them with a fixed author. Returns the commit hash string.
func Commit(t *testing.T, dir string, repo *git.Repository, message string, files map[string]string) string {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree error: %v", err)
	}

	for name, content := range files {
		WriteFile(t, filepath.Join(dir, name), content)
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	return hash.String()
}

// RemoveFile deletes a file from the worktree and stages the deletion.
func RemoveFile(t *testing.T, dir string, repo *git.Repository, name string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree error: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		t.Fatalf("Remove(%s) error: %v", name, err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("Add(%s) error: %v", name, err)
	}
}
