// Package magetasks provides the build, test and lint tasks used by the
// testalot Magefile.
package magetasks
