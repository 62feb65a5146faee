package magetasks

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// golangciDisabled are linters that fight the codebase's conventions.
const golangciDisabled = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// linter is one step of LintAll. Optional linters are skipped when the tool
// is not installed.
type linter struct {
	name     string
	run      func() error
	optional bool
}

func linters() []linter {
	return []linter{
		{name: "gofmt", run: LintFormat},
		{name: "go vet", run: LintVet},
		{name: "staticcheck", run: LintStaticcheck, optional: true},
		{name: "golangci-lint", run: LintGolangci, optional: true},
	}
}

// LintAll runs every linter and reports all failures together.
func LintAll() error {
	var errs []error
	for _, l := range linters() {
		err := l.run()
		if err == nil || (l.optional && IsCommandNotFound(err)) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", l.name, err))
	}
	if err := errors.Join(errs...); err != nil {
		PrintError("Linting failed")
		return err
	}
	PrintSuccess("All linters passed")
	return nil
}

// LintFormat fails when any file needs gofmt.
func LintFormat() error {
	out, err := exec.Command("gofmt", "-l", "cmd", "internal", "pkg").Output()
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if files := strings.TrimSpace(string(out)); files != "" {
		return fmt.Errorf("files need gofmt:\n%s", files)
	}
	return nil
}

// LintVet runs go vet.
func LintVet() error {
	return Run("Go Vet", "go", "vet", "./...")
}

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error {
	return optionalTool("Staticcheck", "honnef.co/go/tools/cmd/staticcheck@latest", "staticcheck", "./...")
}

// LintGolangci runs golangci-lint.
func LintGolangci() error {
	return optionalTool("Golangci-lint", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
		"golangci-lint", "run", golangciDisabled, "--timeout=5m", "./...")
}

// LintGolangciFix runs golangci-lint with auto-fixes.
func LintGolangciFix() error {
	return optionalTool("Golangci-lint Fix", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
		"golangci-lint", "run", "--fix", golangciDisabled, "--timeout=5m", "./...")
}

// optionalTool runs a linter that may not be installed, pointing at its
// install path when it is missing.
func optionalTool(label, install, name string, args ...string) error {
	err := Run(label, name, args...)
	if IsCommandNotFound(err) {
		PrintWarning(fmt.Sprintf("%s not found (install: go install %s)", label, install))
	}
	return err
}
