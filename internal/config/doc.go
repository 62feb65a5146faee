// Package config loads testalot settings.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags that were set explicitly (--command, --top, --format, ...)
//  2. Environment variables (TESTALOT_COMMAND, TESTALOT_FORMAT, NO_COLOR, CI)
//  3. YAML config file: --config, else ./.testalot.yaml, else
//     $XDG_CONFIG_HOME/testalot/config.yaml
//  4. Hardcoded defaults
//
// # Environment Substitution
//
// The config file passes through envsubst before it is decoded, so values
// may reference the environment:
//
//	command: "mvn -P${MAVEN_PROFILE:-ci} test"
//
// # CI and NO_COLOR
//
// CI=true disables the live progress view. NO_COLOR selects the mono theme
// unless a theme flag was given.
package config
