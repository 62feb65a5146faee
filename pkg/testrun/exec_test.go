package testrun

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecInvoker_StreamsOutputAndExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var lines []string
	inv := &ExecInvoker{Command: `sh -c "echo one; echo two >&2; exit 3"`, Dir: t.TempDir()}

	code, err := inv.Invoke(context.Background(), func(l string) { lines = append(lines, l) })
	require.NoError(t, err, "a failing test command is not an error")
	assert.Equal(t, 3, code)
	assert.ElementsMatch(t, []string{"one", "two"}, lines)
}

func TestExecInvoker_BadCommand(t *testing.T) {
	_, err := (&ExecInvoker{Command: `mvn "test`}).Invoke(context.Background(), nil)
	assert.ErrorContains(t, err, "parsing command")

	_, err = (&ExecInvoker{Command: "   "}).Invoke(context.Background(), nil)
	assert.ErrorContains(t, err, "empty test command")

	_, err = (&ExecInvoker{Command: "testalot-no-such-binary-xyz"}).Invoke(context.Background(), nil)
	assert.ErrorContains(t, err, "starting testalot-no-such-binary-xyz")
}

func TestExecInvoker_CancelKillsProcessGroup(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	// The background sleep keeps the output pipe open unless the whole
	// group is signalled.
	inv := &ExecInvoker{Command: `sh -c "sleep 30 & sleep 30"`, Dir: t.TempDir(), WaitDelay: 20 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := inv.Invoke(ctx, func(string) {})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second, "cancellation waited for the forked child")
}
