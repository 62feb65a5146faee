package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	cfg, path, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_LocalFileWinsOverXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, LocalFile, []byte("runs: 3\n"), 0o644))
	require.NoError(t, fsys.MkdirAll("/xdg/testalot", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/xdg/testalot/config.yaml", []byte("runs: 7\n"), 0o644))

	cfg, path, err := Load(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, LocalFile, path)
	assert.Equal(t, 3, cfg.Runs)
}

func TestLoad_XDGWhenLocalMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/xdg/testalot", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/xdg/testalot/config.yaml", []byte("runs: 7\n"), 0o644))

	cfg, path, err := Load(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, "/xdg/testalot/config.yaml", path)
	assert.Equal(t, 7, cfg.Runs)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, _, err := Load(afero.NewMemMapFs(), "/etc/testalot.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/etc/testalot.yaml")
}

func TestParse_KeepsUnsetKeys(t *testing.T) {
	cfg, err := Parse([]byte("report:\n  top: 5\n"), Default())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Report.Top)
	assert.Equal(t, DefaultFormat, cfg.Report.Format)
	assert.Equal(t, DefaultCommand, cfg.Command)
}

func TestParse_FullFile(t *testing.T) {
	data := []byte(`runs: 25
command: "./mvnw -q test"
project_marker: pom.xml
reports_dir: target/surefire-reports
archive_dir: build/testalot
extension: .xml
report:
  top: 20
  format: terminal
  theme: muted
debug: true
`)
	cfg, err := Parse(data, Default())
	require.NoError(t, err)
	assert.Equal(t, Config{
		Runs:          25,
		Command:       "./mvnw -q test",
		ProjectMarker: "pom.xml",
		ReportsDir:    "target/surefire-reports",
		ArchiveDir:    "build/testalot",
		Extension:     ".xml",
		Report:        ReportConfig{Top: 20, Format: "terminal", Theme: "muted"},
		Debug:         true,
	}, cfg)
}

func TestParse_SubstitutesEnvironment(t *testing.T) {
	t.Setenv("MAVEN_PROFILE", "nightly")
	cfg, err := Parse([]byte(`command: "mvn -P${MAVEN_PROFILE} test"`+"\narchive_dir: ${TESTALOT_TEST_UNSET_ARCHIVE:-out/runs}\n"), Default())
	require.NoError(t, err)
	assert.Equal(t, "mvn -Pnightly test", cfg.Command)
	assert.Equal(t, "out/runs", cfg.ArchiveDir)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "runs: [", "decoding yaml"},
		{"zero runs", "runs: 0", "runs must be at least 1"},
		{"unknown format", "report:\n  format: html", `report.format must be one of [markdown terminal json], got "html"`},
		{"unknown theme", "report:\n  theme: neon", "report.theme must be one of"},
		{"empty command", `command: ""`, "command is required"},
		{"extension without dot", "extension: xml", `extension must start with "."`},
		{"archive equals reports", "archive_dir: target/surefire-reports", "archive_dir must differ from reports_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), Default())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	cfg := Default()
	cfg.Runs = 0
	cfg.Report.Top = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runs must be at least 1")
	assert.Contains(t, err.Error(), "report.top must be at least 1")
}
