// Package gitx runs the git operations the sync loop needs: staging the
// converted trees, committing from a message file and pushing.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/danieljhkim/atr2git/internal/config"
)

// ErrTimeout is returned when a git command runs past its timeout.
var ErrTimeout = errors.New("git timed out")

// waitDelay bounds how long a killed git command may hold its output pipes
// open, e.g. through an ssh child of git push.
const waitDelay = 2 * time.Second

// PushSentinel is the commit message that requests a push instead of a commit.
const PushSentinel = "PUSH"

// IsPushRequest reports whether a commit message is the push sentinel.
func IsPushRequest(msg string) bool {
	return strings.TrimSpace(msg) == PushSentinel
}

// GitRepo provides an abstraction for git repository operations.
type GitRepo interface {
	// Discover finds the git repository root starting from cwd.
	Discover(cwd string) (root string, err error)

	// Add stages paths, which may be absolute or relative to root.
	Add(ctx context.Context, root string, paths ...string) error

	// Commit records the staged changes using the message in msgFile.
	Commit(ctx context.Context, root, msgFile string) error

	// Push pushes the current branch to its upstream.
	Push(ctx context.Context, root string) error

	// Head returns the abbreviated revision of HEAD.
	Head(ctx context.Context, root string) (string, error)
}

// RealGitRepo implements GitRepo using actual git commands.
type RealGitRepo struct {
	binary  string
	timeout time.Duration
}

// NewRealGitRepo creates a new RealGitRepo.
func NewRealGitRepo(s config.GitSettings) *RealGitRepo {
	return &RealGitRepo{binary: s.Binary, timeout: s.Timeout.Duration}
}

// Discover finds the git repository root by walking up from cwd looking for .git directory.
func (g *RealGitRepo) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (for worktrees/submodules)
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("not in a git repository")
		}
		current = parent
	}
}

// Add runs git add for each path.
func (g *RealGitRepo) Add(ctx context.Context, root string, paths ...string) error {
	for _, p := range paths {
		if filepath.IsAbs(p) {
			rel, err := relPath(root, p)
			if err != nil {
				return err
			}
			p = rel
		}
		if _, err := g.run(ctx, root, "add", "--", p); err != nil {
			return err
		}
	}
	return nil
}

// Commit runs git commit -F msgFile.
func (g *RealGitRepo) Commit(ctx context.Context, root, msgFile string) error {
	_, err := g.run(ctx, root, "commit", "-F", msgFile)
	return err
}

// Push runs git push.
func (g *RealGitRepo) Push(ctx context.Context, root string) error {
	_, err := g.run(ctx, root, "push")
	return err
}

// Head runs git rev-parse --short HEAD.
func (g *RealGitRepo) Head(ctx context.Context, root string) (string, error) {
	return g.run(ctx, root, "rev-parse", "--short", "HEAD")
}

func (g *RealGitRepo) run(ctx context.Context, dir string, args ...string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s: %w after %s", args[0], ErrTimeout, g.timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func relPath(root, absPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute root: %w", err)
	}

	absTarget, err := filepath.Abs(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute target: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside repository")
	}

	return rel, nil
}

// FakeGitRepo implements GitRepo by recording the commands it is asked to
// run.
type FakeGitRepo struct {
	root     string
	head     string
	err      error
	commands [][]string
}

// NewFakeGitRepo creates a new FakeGitRepo rooted at root.
func NewFakeGitRepo(root string) *FakeGitRepo {
	return &FakeGitRepo{root: root, head: "0000000"}
}

// SetError sets an error to be returned by all methods.
func (g *FakeGitRepo) SetError(err error) {
	g.err = err
}

// SetHead sets the revision returned by Head.
func (g *FakeGitRepo) SetHead(rev string) {
	g.head = rev
}

// Commands returns the recorded git invocations, without the binary.
func (g *FakeGitRepo) Commands() [][]string {
	return g.commands
}

// Discover returns the predetermined root.
func (g *FakeGitRepo) Discover(cwd string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.root, nil
}

// Add records one add per path.
func (g *FakeGitRepo) Add(_ context.Context, root string, paths ...string) error {
	if g.err != nil {
		return g.err
	}
	for _, p := range paths {
		if filepath.IsAbs(p) {
			rel, err := relPath(root, p)
			if err != nil {
				return err
			}
			p = rel
		}
		g.commands = append(g.commands, []string{"add", "--", p})
	}
	return nil
}

// Commit records a commit.
func (g *FakeGitRepo) Commit(_ context.Context, _, msgFile string) error {
	if g.err != nil {
		return g.err
	}
	g.commands = append(g.commands, []string{"commit", "-F", msgFile})
	return nil
}

// Push records a push.
func (g *FakeGitRepo) Push(context.Context, string) error {
	if g.err != nil {
		return g.err
	}
	g.commands = append(g.commands, []string{"push"})
	return nil
}

// Head returns the predetermined revision.
func (g *FakeGitRepo) Head(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.head, nil
}
