package surefire

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ReportsDirPrefix names archived report directories:
// surefire-reports-<token> or surefire-reports-<token>-<module>.
const ReportsDirPrefix = "surefire-reports"

// RunTokenLayout formats the run token, e.g. 20210209T114442.
const RunTokenLayout = "20060102T150405"

var runDirRe = regexp.MustCompile(`^` + ReportsDirPrefix + `-([0-9T]+)(?:-([0-9]+))?$`)

// NewRunToken returns the run token for a run started at t.
func NewRunToken(t time.Time) string {
	return t.Format(RunTokenLayout)
}

// RunDirName returns the archive directory name for one module's reports.
// Module 0 means the run produced a single reports directory.
func RunDirName(token string, module int) string {
	if module <= 0 {
		return ReportsDirPrefix + "-" + token
	}
	return fmt.Sprintf("%s-%s-%d", ReportsDirPrefix, token, module)
}

// RunToken extracts the run token from the innermost archive directory in
// path. Reports of different modules from the same run share a token.
func RunToken(path string) (string, bool) {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if m := runDirRe.FindStringSubmatch(segments[i]); m != nil {
			return m[1], true
		}
	}
	return "", false
}
