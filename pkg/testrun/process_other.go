//go:build !unix

package testrun

import "os/exec"

// setProcessGroup is a no-op on non-Unix platforms.
func setProcessGroup(*exec.Cmd) {}

// terminateGroup kills the command itself; there are no process groups.
func terminateGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func exitCode(exitErr *exec.ExitError) int {
	return exitErr.ExitCode()
}
