package engines

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-shellwords"
)

// Command is a single backend invocation.
type Command struct {
	// Args holds the program followed by its arguments
	Args []string

	// Stdin is handed to the process before it starts
	Stdin string

	// Env is appended to the current environment
	Env []string

	// Timeout overrides the runner default when positive
	Timeout time.Duration
}

// Runner executes backend processes. Stdin is attached before the process
// starts so a backend can never observe a half-written input.
type Runner struct {
	defaultTimeout time.Duration
}

// NewRunner creates a runner. A non-positive timeout means 30 seconds.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{defaultTimeout: timeout}
}

// Run executes cmd and returns its stdout.
func (r *Runner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New("empty command")
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Stdin = strings.NewReader(cmd.Stdin)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	log.Debug("Running backend", "command", cmd.Args[0], "args", len(cmd.Args)-1, "timeout", timeout)
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Args[0], err)
	}
	err := c.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %v", cmd.Args[0], timeout)
		}
		return nil, fmt.Errorf("%s cancelled: %w", cmd.Args[0], ctxErr)
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("subprocess failed: %w\nstderr: %s", err, msg)
		}
		return nil, fmt.Errorf("subprocess failed: %w", err)
	}
	return stdout.Bytes(), nil
}

// ParseCommand splits a shell-words command line and substitutes
// {name} placeholders from vars. Substitution happens per argument after
// splitting, so values containing spaces stay a single argument.
func ParseCommand(template string, vars map[string]string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true

	args, err := parser.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", template, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("invalid command %q: no program", template)
	}

	if len(vars) > 0 {
		pairs := make([]string, 0, len(vars)*2)
		for k, v := range vars {
			pairs = append(pairs, "{"+k+"}", v)
		}
		replacer := strings.NewReplacer(pairs...)
		for i, a := range args {
			args[i] = replacer.Replace(a)
		}
	}
	return args, nil
}

// LookupProgram resolves the program of a parsed command in PATH.
func LookupProgram(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("empty command")
	}
	path, err := exec.LookPath(args[0])
	if err != nil {
		return "", fmt.Errorf("binary '%s' not found in PATH: %w", args[0], err)
	}
	return path, nil
}
