// Package opener hands generated charts and exports to the desktop's default
// application.
package opener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrUnsupportedPlatform is returned when no opener is allowlisted for
	// the running OS.
	ErrUnsupportedPlatform = errors.New("no file opener for this platform")
	// ErrFileType is returned for files other than .xlsx and .csv.
	ErrFileType = errors.New("only .xlsx and .csv files can be opened")
)

// allowedCommands maps GOOS to the only command that may be run, with its
// fixed leading arguments.
var allowedCommands = map[string][]string{
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"cmd", "/c", "start", ""},
}

var allowedExts = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

// Runner executes a command. It exists so tests can observe invocations.
type Runner func(ctx context.Context, name string, args ...string) error

// Opener opens files with the platform's default handler.
type Opener struct {
	goos string
	run  Runner
}

// New creates an Opener for the running OS.
func New() *Opener {
	return &Opener{goos: runtime.GOOS, run: execRun}
}

// NewWithRunner creates an Opener for goos that runs commands through run.
func NewWithRunner(goos string, run Runner) *Opener {
	return &Opener{goos: goos, run: run}
}

// Command returns the command line that would open path.
func (o *Opener) Command(path string) (string, []string, error) {
	base, ok := allowedCommands[o.goos]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, o.goos)
	}
	if !allowedExts[strings.ToLower(filepath.Ext(path))] {
		return "", nil, fmt.Errorf("%w: %s", ErrFileType, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", ErrFileType, abs)
	}

	args := append(append([]string{}, base[1:]...), abs)
	return base[0], args, nil
}

// Open opens path with the default application.
func (o *Opener) Open(ctx context.Context, path string) error {
	name, args, err := o.Command(path)
	if err != nil {
		return err
	}
	return o.run(ctx, name, args...)
}

func execRun(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
