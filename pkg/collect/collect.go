// Package collect gathers Surefire outcomes from report files and directories.
package collect

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/dkoosis/testalot/pkg/surefire"
)

// DefaultExtension is the suffix a file needs to be treated as a report.
const DefaultExtension = ".xml"

// Collector parses every report below a set of locations.
type Collector struct {
	fs        afero.Fs
	extension string
	log       logrus.FieldLogger
}

// Option configures a Collector.
type Option func(*Collector)

// WithExtension changes the report file suffix.
func WithExtension(ext string) Option {
	return func(c *Collector) {
		if ext != "" {
			c.extension = ext
		}
	}
}

// WithLogger sets the logger used for per-document debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Collector) {
		if log != nil {
			c.log = log
		}
	}
}

// New returns a Collector reading from fsys.
func New(fsys afero.Fs, opts ...Option) *Collector {
	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)
	c := &Collector{fs: fsys, extension: DefaultExtension, log: quiet}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect parses the documents at paths. A path may name a report file or a
// directory searched recursively. Results keep document order within each
// file and walk order across files. A missing path is an error.
func (c *Collector) Collect(paths []string) ([]surefire.Outcome, error) {
	var all []surefire.Outcome
	for _, p := range paths {
		info, err := c.fs.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("report location %s: %w", p, err)
		}
		if !info.IsDir() {
			if !c.matches(p) {
				c.log.WithField("path", p).Debug("skipping file without report extension")
				continue
			}
			outcomes, err := c.parseFile(p, info)
			if err != nil {
				return nil, err
			}
			all = append(all, outcomes...)
			continue
		}

		err = afero.Walk(c.fs, p, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return fmt.Errorf("walking %s: %w", path, err)
			}
			if info.IsDir() || !c.matches(path) {
				return nil
			}
			outcomes, err := c.parseFile(path, info)
			if err != nil {
				return err
			}
			all = append(all, outcomes...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return all, nil
}

func (c *Collector) matches(path string) bool {
	return strings.HasSuffix(filepath.Base(path), c.extension)
}

func (c *Collector) parseFile(path string, info fs.FileInfo) ([]surefire.Outcome, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	defer f.Close()

	outcomes, err := surefire.ParseStream(f)
	if err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	mod := info.ModTime()
	for i := range outcomes {
		outcomes[i].Path = path
		outcomes[i].Timestamp = mod
	}
	c.log.WithFields(logrus.Fields{"path": path, "tests": len(outcomes)}).Debug("parsed report")
	return outcomes, nil
}
