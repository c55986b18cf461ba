// Package vcs retrieves the source versions a merge needs from a git
// working tree. It is deliberately thin: the merge engine only ever sees
// already-resolved source texts.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitSource reads file versions out of a git repository by shelling out to
// the git binary.
type GitSource struct {
	RepoPath string
}

// NewGitSource creates a source rooted at repoPath.
func NewGitSource(repoPath string) *GitSource {
	if repoPath == "" {
		repoPath = "."
	}
	return &GitSource{RepoPath: repoPath}
}

// IsAvailable reports whether RepoPath is inside a git work tree.
func (g *GitSource) IsAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = g.RepoPath
	return cmd.Run() == nil
}

// BaselineContent returns the file content at the given revision (HEAD when
// rev is empty).
func (g *GitSource) BaselineContent(ctx context.Context, relPath, rev string) (string, error) {
	if rev == "" {
		rev = "HEAD"
	}
	return g.runGit(ctx, []string{"show", rev + ":" + filepath.ToSlash(relPath)})
}

// WorkingContent returns the current on-disk content of the file.
func (g *GitSource) WorkingContent(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(g.RepoPath, relPath))
	if err != nil {
		return "", fmt.Errorf("read working copy: %w", err)
	}
	return string(data), nil
}

// ApplyPatch applies a unified diff to baseline content in a throwaway
// directory and returns the patched text. The file is staged at its
// original relative path so the patch's paths resolve.
func (g *GitSource) ApplyPatch(ctx context.Context, relPath, baseline, patch string) (string, error) {
	tmp, err := os.MkdirTemp("", "treemend-patch-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmp)

	target := filepath.Join(tmp, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, []byte(baseline), 0o644); err != nil {
		return "", err
	}
	patchFile := filepath.Join(tmp, ".treemend.patch")
	if err := os.WriteFile(patchFile, []byte(patch), 0o644); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "git", "apply", "--unsafe-paths", patchFile)
	cmd.Dir = tmp
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git apply failed: %s", strings.TrimSpace(stderr.String()))
	}

	patched, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read patched file: %w", err)
	}
	return string(patched), nil
}

// Versions bundles the three texts a merge consumes.
type Versions struct {
	Baseline string
	Modified string
	Patched  string
}

// Retrieve gathers baseline (from rev), modified (working copy), and
// patched (baseline plus the supplied diff) for one file.
func (g *GitSource) Retrieve(ctx context.Context, relPath, rev, patch string) (*Versions, error) {
	baseline, err := g.BaselineContent(ctx, relPath, rev)
	if err != nil {
		return nil, fmt.Errorf("baseline for %s: %w", relPath, err)
	}
	modified, err := g.WorkingContent(relPath)
	if err != nil {
		return nil, fmt.Errorf("working copy for %s: %w", relPath, err)
	}
	patched, err := g.ApplyPatch(ctx, relPath, baseline, patch)
	if err != nil {
		return nil, fmt.Errorf("apply patch for %s: %w", relPath, err)
	}
	return &Versions{Baseline: baseline, Modified: modified, Patched: patched}, nil
}

func (g *GitSource) runGit(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.RepoPath
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
