// Package extract unpacks Atari disk images into a directory by running an
// external tool (lsatr by default).
package extract

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

// ErrTimeout is returned when the extraction command runs past its timeout.
var ErrTimeout = errors.New("extraction timed out")

// waitDelay bounds how long Extract waits for a killed command's output.
const waitDelay = 2 * time.Second

// Extractor unpacks the files of a disk image into dir.
type Extractor interface {
	Extract(ctx context.Context, image, dir string) error
}

// CommandExtractor runs an external command. Its arguments may contain the
// {dir} and {image} placeholders.
type CommandExtractor struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCommandExtractor creates a CommandExtractor from settings.
func NewCommandExtractor(s config.ExtractorSettings) *CommandExtractor {
	return &CommandExtractor{
		command: s.Command,
		args:    append([]string(nil), s.Args...),
		timeout: s.Timeout.Duration,
	}
}

// Args returns the command arguments with the placeholders substituted.
func (e *CommandExtractor) Args(image, dir string) []string {
	r := strings.NewReplacer(config.PlaceholderDir, dir, config.PlaceholderImage, image)
	out := make([]string, len(e.args))
	for i, a := range e.args {
		out[i] = r.Replace(a)
	}
	return out
}

// Extract runs the command and maps a non-zero exit status to an error that
// carries the command's stderr.
func (e *CommandExtractor) Extract(ctx context.Context, image, dir string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.command, e.Args(image, dir)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w after %s", e.command, filepath.Base(image), ErrTimeout, e.timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", e.command, filepath.Base(image), err, msg)
		}
		return fmt.Errorf("%s %s: %w", e.command, filepath.Base(image), err)
	}
	return nil
}

// Call records one FakeExtractor invocation.
type Call struct {
	Image string
	Dir   string
}

// FakeExtractor writes a fixed set of files instead of running a command.
type FakeExtractor struct {
	files map[string][]byte
	err   error
	calls []Call
}

// NewFakeExtractor creates a FakeExtractor that produces files.
func NewFakeExtractor(files map[string][]byte) *FakeExtractor {
	return &FakeExtractor{files: files}
}

// SetError makes subsequent calls fail with err without writing anything.
func (f *FakeExtractor) SetError(err error) {
	f.err = err
}

// SetFiles replaces the files written by subsequent calls.
func (f *FakeExtractor) SetFiles(files map[string][]byte) {
	f.files = files
}

// Calls returns the recorded invocations.
func (f *FakeExtractor) Calls() []Call {
	return f.calls
}

// Extract records the call and writes the configured files into dir.
func (f *FakeExtractor) Extract(_ context.Context, image, dir string) error {
	f.calls = append(f.calls, Call{Image: image, Dir: dir})
	if f.err != nil {
		return f.err
	}
	for name, data := range f.files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return err
		}
	}
	return nil
}
