package graphviz

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/observability"
)

// Defaults for Exec.
const (
	DefaultCommand = "dot"
	DefaultTimeout = 30 * time.Second
)

// DefaultArgs requests "plain" output on stdout.
var DefaultArgs = []string{"-Tplain"}

// Exec runs the graphviz command line tool as a child process.
//
// The DOT document is written to stdin while stdout and stderr are read
// concurrently, so neither side can block on a full pipe buffer.
type Exec struct {
	Command string        // Executable, default "dot"
	Args    []string      // Arguments, default DefaultArgs
	Env     []string      // Extra environment entries appended to os.Environ
	Timeout time.Duration // Per-run deadline, default DefaultTimeout
}

// Plain implements Engine.
func (e *Exec) Plain(ctx context.Context, dot []byte) (PlainOutput, error) {
	command := e.Command
	if command == "" {
		command = DefaultCommand
	}
	args := e.Args
	if args == nil {
		args = DefaultArgs
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	observability.Process().OnProcessStart(ctx, command, len(dot))
	out, code, err := e.run(ctx, command, args, dot)
	observability.Process().OnProcessComplete(ctx, command, code, time.Since(start), err)
	return out, err
}

func (e *Exec) run(ctx context.Context, command string, args []string, dot []byte) (PlainOutput, int, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return PlainOutput{}, -1, errors.Wrap(errors.ErrCodeExternalProcess, err, "open stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return PlainOutput{}, -1, errors.Wrap(errors.ErrCodeExternalProcess, err, "open stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return PlainOutput{}, -1, errors.Wrap(errors.ErrCodeExternalProcess, err, "open stderr")
	}
	if err := cmd.Start(); err != nil {
		return PlainOutput{}, -1, errors.Wrap(errors.ErrCodeExternalProcess, err, "start %s", command)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := stdin.Write(dot)
		if cerr := stdin.Close(); err == nil {
			err = cerr
		}
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	ioErr := g.Wait()
	waitErr := cmd.Wait()

	out := PlainOutput{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}
	code := cmd.ProcessState.ExitCode()

	if ctx.Err() == context.DeadlineExceeded {
		return out, code, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s did not finish in time", command)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(waitErr, &exitErr) {
			return out, code, errors.Wrap(errors.ErrCodeExternalProcess, &errors.ProcessError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(errBuf.String()),
			}, "run %s", command)
		}
		return out, code, errors.Wrap(errors.ErrCodeExternalProcess, waitErr, "wait for %s", command)
	}
	if ioErr != nil {
		return out, code, errors.Wrap(errors.ErrCodeExternalProcess, ioErr, "exchange data with %s", command)
	}
	return out, code, nil
}
