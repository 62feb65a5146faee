package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config is the complete testalot configuration.
type Config struct {
	Runs          int          `yaml:"runs" validate:"gte=1"`
	Command       string       `yaml:"command" validate:"required"`
	ProjectMarker string       `yaml:"project_marker" validate:"required"`
	ReportsDir    string       `yaml:"reports_dir" validate:"required"`
	ArchiveDir    string       `yaml:"archive_dir" validate:"required,nefield=ReportsDir"`
	Extension     string       `yaml:"extension" validate:"required,startswith=."`
	Report        ReportConfig `yaml:"report"`
	Debug         bool         `yaml:"debug"`
	NoProgress    bool         `yaml:"no_progress"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Top    int    `yaml:"top" validate:"gte=1,lte=1000"`
	Format string `yaml:"format" validate:"oneof=markdown terminal json"`
	Theme  string `yaml:"theme" validate:"oneof=default muted mono"`
}

// Defaults.
const (
	DefaultRuns          = 10
	DefaultCommand       = "mvn test"
	DefaultProjectMarker = "pom.xml"
	DefaultReportsDir    = "target/surefire-reports"
	DefaultArchiveDir    = "target/testalot"
	DefaultExtension     = ".xml"
	DefaultTop           = 10
	DefaultFormat        = "markdown"
	DefaultTheme         = "default"

	LocalFile = ".testalot.yaml"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Runs:          DefaultRuns,
		Command:       DefaultCommand,
		ProjectMarker: DefaultProjectMarker,
		ReportsDir:    DefaultReportsDir,
		ArchiveDir:    DefaultArchiveDir,
		Extension:     DefaultExtension,
		Report: ReportConfig{
			Top:    DefaultTop,
			Format: DefaultFormat,
			Theme:  DefaultTheme,
		},
	}
}

// Load reads the configuration file and returns it on top of the defaults,
// along with the path it came from. An empty explicit path searches the
// local file and then the user config directory; finding neither yields
// the defaults and an empty path.
func Load(fsys afero.Fs, explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		path = findConfigPath(fsys)
		if path == "" {
			return Default(), "", nil
		}
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Config{}, path, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data, Default())
	if err != nil {
		return Config{}, path, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, path, nil
}

// Parse substitutes environment references in data, decodes it over base
// and validates the result. Keys absent from data keep base's values.
func Parse(data []byte, base Config) (Config, error) {
	expanded, err := envsubst.Bytes(data)
	if err != nil {
		return Config{}, fmt.Errorf("substituting environment: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// findConfigPath checks the local directory first, then the XDG config dir.
func findConfigPath(fsys afero.Fs) string {
	if ok, _ := afero.Exists(fsys, LocalFile); ok {
		return LocalFile
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "testalot", "config.yaml")
	if _, err := fsys.Stat(xdgPath); err == nil {
		return xdgPath
	} else if !errors.Is(err, fs.ErrNotExist) {
		return xdgPath // let Load report the real problem
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field and reports all violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	// Namespace is "Config.report.top"; drop the type name.
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case "nefield":
		return field + " must differ from reports_dir"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
