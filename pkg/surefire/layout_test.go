package surefire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunToken(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		want  string
		found bool
	}{
		{"module suffix", "target/testalot/surefire-reports-20210209T114442-1/TEST-Foo.xml", "20210209T114442", true},
		{"second module same run", "target/testalot/surefire-reports-20210209T114442-2/TEST-Bar.xml", "20210209T114442", true},
		{"single module", "/tmp/a/surefire-reports-20210209T114442/TEST-Foo.xml", "20210209T114442", true},
		{"innermost wins", "surefire-reports-20200101T000000/surefire-reports-20210209T114442/x.xml", "20210209T114442", true},
		{"plain maven dir", "target/surefire-reports/TEST-Foo.xml", "", false},
		{"token with letters", "surefire-reports-yesterday/TEST-Foo.xml", "", false},
		{"no directory", "TEST-Foo.xml", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RunToken(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunDirName(t *testing.T) {
	assert.Equal(t, "surefire-reports-20210209T114442", RunDirName("20210209T114442", 0))
	assert.Equal(t, "surefire-reports-20210209T114442-3", RunDirName("20210209T114442", 3))

	tok, ok := RunToken(RunDirName("20210209T114442", 2) + "/TEST-x.xml")
	assert.True(t, ok)
	assert.Equal(t, "20210209T114442", tok)
}

func TestNewRunToken(t *testing.T) {
	at := time.Date(2021, 2, 9, 11, 44, 42, 0, time.UTC)
	assert.Equal(t, "20210209T114442", NewRunToken(at))
}
