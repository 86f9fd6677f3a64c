// Package git wraps the git CLI for change discovery. The updater uses it
// to find source files whose tests need regeneration.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
)

// Client wraps git CLI operations.
type Client struct {
	repoPath string
	timeout  time.Duration
}

// NewClient creates a new git client rooted at repoPath.
func NewClient(repoPath string) (*Client, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	client := &Client{
		repoPath: absPath,
		timeout:  30 * time.Second,
	}

	if err := client.verifyRepo(); err != nil {
		return nil, err
	}

	return client, nil
}

// verifyRepo checks if path is a git repository.
func (c *Client) verifyRepo() error {
	_, err := c.run(context.Background(), "rev-parse", "--git-dir")
	if err != nil {
		return core.ErrValidation("NOT_GIT_REPO", fmt.Sprintf("%s is not a git repository", c.repoPath))
	}
	return nil
}

// run executes a git command.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", core.ErrTimeout("git command timed out")
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), stderr.String(), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ChangedFiles returns paths (relative to the repo root) that differ from
// baseRef, plus untracked files. An empty baseRef compares the working tree
// against HEAD.
func (c *Client) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	args := []string{"diff", "--name-only"}
	if baseRef != "" {
		args = append(args, baseRef)
	}

	diffOut, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	statusOut, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	return mergeChanged(parseNameOnly(diffOut), parseUntracked(statusOut)), nil
}

// RepoRoot returns the absolute path of the repository top level.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--show-toplevel")
}

func parseNameOnly(output string) []string {
	var files []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}

func parseUntracked(output string) []string {
	var files []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "?? ") {
			files = append(files, strings.TrimPrefix(line, "?? "))
		}
	}
	return files
}

// mergeChanged deduplicates while preserving order of first appearance.
func mergeChanged(groups ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, group := range groups {
		for _, f := range group {
			if !seen[f] {
				seen[f] = true
				merged = append(merged, f)
			}
		}
	}
	return merged
}
