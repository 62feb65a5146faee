package config

import "strconv"

// Overrides holds values from a higher-priority source. Nil fields are
// left alone.
type Overrides struct {
	Runs       *int
	Command    *string
	ArchiveDir *string
	Top        *int
	Format     *string
	Theme      *string
	Debug      *bool
	NoProgress *bool
}

// FromEnv reads overrides from the environment through getenv.
func FromEnv(getenv func(string) string) Overrides {
	var o Overrides
	if v := getenv("TESTALOT_COMMAND"); v != "" {
		o.Command = &v
	}
	if v := getenv("TESTALOT_ARCHIVE_DIR"); v != "" {
		o.ArchiveDir = &v
	}
	if v := getenv("TESTALOT_FORMAT"); v != "" {
		o.Format = &v
	}
	if v := getenv("TESTALOT_THEME"); v != "" {
		o.Theme = &v
	} else if getenv("NO_COLOR") != "" {
		mono := "mono"
		o.Theme = &mono
	}
	if b, ok := envBool(getenv, "TESTALOT_DEBUG"); ok {
		o.Debug = &b
	}
	if b, ok := envBool(getenv, "TESTALOT_NO_PROGRESS"); ok {
		o.NoProgress = &b
	} else if b, ok := envBool(getenv, "CI"); ok && b {
		o.NoProgress = &b
	}
	return o
}

func envBool(getenv func(string) string, key string) (bool, bool) {
	v := getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Apply returns c with every non-nil override set.
func (c Config) Apply(o Overrides) Config {
	if o.Runs != nil {
		c.Runs = *o.Runs
	}
	if o.Command != nil {
		c.Command = *o.Command
	}
	if o.ArchiveDir != nil {
		c.ArchiveDir = *o.ArchiveDir
	}
	if o.Top != nil {
		c.Report.Top = *o.Top
	}
	if o.Format != nil {
		c.Report.Format = *o.Format
	}
	if o.Theme != nil {
		c.Report.Theme = *o.Theme
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	if o.NoProgress != nil {
		c.NoProgress = *o.NoProgress
	}
	return c
}

// Resolve layers env and then cli over the file configuration and
// validates the result.
func Resolve(file Config, env, cli Overrides) (Config, error) {
	cfg := file.Apply(env).Apply(cli)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
