package testrun

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/shlex"
)

// Invoker runs the test command once. A non-zero exit code means tests
// failed and is not an error.
type Invoker interface {
	Invoke(ctx context.Context, onLine func(string)) (int, error)
}

// DefaultWaitDelay bounds how long a cancelled command may keep its output
// open before it is killed and its pipes are closed.
const DefaultWaitDelay = 5 * time.Second

// ExecInvoker runs a shell-style command line in Dir. On cancellation the
// command's whole process group is terminated.
type ExecInvoker struct {
	Command   string
	Dir       string
	Env       []string
	WaitDelay time.Duration // zero means DefaultWaitDelay
}

func (e *ExecInvoker) waitDelay() time.Duration {
	if e.WaitDelay > 0 {
		return e.WaitDelay
	}
	return DefaultWaitDelay
}

// Invoke starts the command, passes every output line to onLine and waits
// for it to exit.
func (e *ExecInvoker) Invoke(ctx context.Context, onLine func(string)) (int, error) {
	args, err := shlex.Split(e.Command)
	if err != nil {
		return 0, fmt.Errorf("parsing command %q: %w", e.Command, err)
	}
	if len(args) == 0 {
		return 0, errors.New("empty test command")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = append(os.Environ(), e.Env...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminateGroup(cmd) }
	cmd.WaitDelay = e.waitDelay()

	pipeReader, pipeWriter := io.Pipe()
	cmd.Stdout = pipeWriter
	cmd.Stderr = pipeWriter

	scanner := bufio.NewScanner(pipeReader)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)

	if err := cmd.Start(); err != nil {
		_ = pipeWriter.Close()
		_ = pipeReader.Close()
		return 0, fmt.Errorf("starting %s: %w", args[0], err)
	}

	var readWG sync.WaitGroup
	readWG.Add(1)
	go func() {
		defer readWG.Done()
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
		// Drain so the child never blocks on a full pipe after an over-long line.
		_, _ = io.Copy(io.Discard, pipeReader)
	}()

	waitErr := cmd.Wait()
	_ = pipeWriter.Close()
	readWG.Wait()
	_ = pipeReader.Close()

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitCode(exitErr), nil
		}
		return 0, fmt.Errorf("running %s: %w", args[0], waitErr)
	}
	return 0, nil
}
