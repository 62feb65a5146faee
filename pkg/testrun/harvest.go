package testrun

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/dkoosis/testalot/pkg/surefire"
)

// ErrNoReports reports a run that produced no reports directory, which
// usually means no tests ran at all.
var ErrNoReports = errors.New("no test reports produced")

// Default project layout, relative to the project root.
const (
	DefaultReportsDir = "target/surefire-reports"
	DefaultArchiveDir = "target/testalot"
)

// Harvester finds the reports directories a run left behind and moves them
// into the archive:
//
//	<archive>/surefire-reports-<token>      single module
//	<archive>/surefire-reports-<token>-<i>  module i of a multi-module build
type Harvester struct {
	fs         afero.Fs
	root       string
	reportsDir string
	archiveDir string
	log        logrus.FieldLogger
}

// NewHarvester returns a Harvester for the project at root. reportsDir and
// archiveDir are relative to root; empty values select the defaults.
func NewHarvester(fsys afero.Fs, root, reportsDir, archiveDir string, log logrus.FieldLogger) *Harvester {
	if reportsDir == "" {
		reportsDir = DefaultReportsDir
	}
	if archiveDir == "" {
		archiveDir = DefaultArchiveDir
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Harvester{
		fs:         fsys,
		root:       root,
		reportsDir: filepath.Clean(reportsDir),
		archiveDir: filepath.Clean(archiveDir),
		log:        log,
	}
}

// ArchivePath returns the archive directory.
func (h *Harvester) ArchivePath() string {
	return resolve(h.root, h.archiveDir)
}

// resolve returns p unchanged when it is absolute and joined to root
// otherwise.
func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Find returns every reports directory below the root, in walk order. The
// archive and version control directories are not searched. An absolute
// reports directory is the only candidate.
func (h *Harvester) Find() ([]string, error) {
	if filepath.IsAbs(h.reportsDir) {
		ok, err := afero.DirExists(h.fs, h.reportsDir)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", h.reportsDir, err)
		}
		if !ok {
			return nil, nil
		}
		return []string{h.reportsDir}, nil
	}

	archive := h.ArchivePath()
	suffix := string(filepath.Separator) + h.reportsDir

	var found []string
	err := afero.Walk(h.fs, h.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path == archive || info.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, relErr := filepath.Rel(h.root, path)
		if relErr != nil {
			return relErr
		}
		if rel == h.reportsDir || strings.HasSuffix(string(filepath.Separator)+rel, suffix) {
			found = append(found, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s for %s: %w", h.root, h.reportsDir, err)
	}
	return found, nil
}

// Clean removes reports left over from an earlier build.
func (h *Harvester) Clean() error {
	dirs, err := h.Find()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		h.log.WithField("path", d).Debug("removing stale reports")
		if err := h.fs.RemoveAll(d); err != nil {
			return fmt.Errorf("removing %s: %w", d, err)
		}
	}
	return nil
}

// Archive moves the current reports into the archive under a run token
// derived from at. The token moves forward one second at a time until it is
// unused. It returns the archived directories.
func (h *Harvester) Archive(at time.Time) ([]string, error) {
	dirs, err := h.Find()
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: no %s below %s", ErrNoReports, h.reportsDir, h.root)
	}

	archive := h.ArchivePath()
	if err := h.fs.MkdirAll(archive, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", archive, err)
	}
	used, err := h.usedTokens()
	if err != nil {
		return nil, err
	}
	token := surefire.NewRunToken(at)
	for used[token] {
		at = at.Add(time.Second)
		token = surefire.NewRunToken(at)
	}

	archived := make([]string, 0, len(dirs))
	for i, src := range dirs {
		module := 0
		if len(dirs) > 1 {
			module = i + 1
		}
		dst := filepath.Join(archive, surefire.RunDirName(token, module))
		if err := moveDir(h.fs, src, dst); err != nil {
			return archived, fmt.Errorf("archiving %s: %w", src, err)
		}
		h.log.WithFields(logrus.Fields{"from": src, "to": dst}).Debug("archived reports")
		archived = append(archived, dst)
	}
	return archived, nil
}

func (h *Harvester) usedTokens() (map[string]bool, error) {
	entries, err := afero.ReadDir(h.fs, h.ArchivePath())
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		if tok, ok := surefire.RunToken(e.Name()); ok {
			used[tok] = true
		}
	}
	return used, nil
}

// moveDir copies src into dst, keeping modification times, then removes src.
func moveDir(fsys afero.Fs, src, dst string) error {
	err := afero.Walk(fsys, src, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsys.MkdirAll(target, 0o755)
		}
		if err := copyFile(fsys, path, target, info.Mode().Perm()); err != nil {
			return err
		}
		return fsys.Chtimes(target, info.ModTime(), info.ModTime())
	})
	if err != nil {
		return err
	}
	return fsys.RemoveAll(src)
}

func copyFile(fsys afero.Fs, src, dst string, perm fs.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
