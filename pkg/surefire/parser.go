package surefire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Example: <testcase name="aclExcudeSingleCommand" classname="redis.clients.jedis.tests.commands.AccessControlListCommandsTest" time="0"/>
var testcaseRe = regexp.MustCompile(`^  <testcase name="([^"]+)" classname="([^"]+)"`)

// timeRe finds the time attribute wherever it sits among the remaining ones.
var timeRe = regexp.MustCompile(`\stime="([^"]*)"`)

// Example: <error message="ERR unknown command `ZMSCORE`" type="redis.clients.jedis.exceptions.JedisDataException">
var errorRe = regexp.MustCompile(`^    <error `)

// Example: <failure message="expected:&lt;4&gt; but was:&lt;3&gt;" type="java.lang.AssertionError">
var failureRe = regexp.MustCompile(`^    <failure `)

// ErrBadDuration reports a time attribute that is not a non-negative number.
var ErrBadDuration = errors.New("bad test duration")

// maxLineSize bounds a single report line; system-out blocks can be long.
const maxLineSize = 16 * 1024 * 1024

// ParseStream reads one report document line by line. Outcomes come back in
// document order with Timestamp and Path unset.
func ParseStream(r io.Reader) ([]Outcome, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		results []Outcome
		current *Outcome
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if m := testcaseRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				results = append(results, *current)
			}
			var raw string
			if t := timeRe.FindStringSubmatch(line[len(m[0]):]); t != nil {
				raw = t[1]
			}
			d, err := ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current = &Outcome{
				Name:     m[2] + "." + m[1] + "()",
				Kind:     Pass,
				Duration: d,
			}
			continue
		}

		var marker Kind
		switch {
		case errorRe.MatchString(line):
			marker = Error
		case failureRe.MatchString(line):
			marker = Fail
		default:
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: %w: %s marker outside a testcase", lineNo, ErrMalformedEntry, marker)
		}
		kind, err := current.Kind.Escalate(marker)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, current.Name, err)
		}
		current.Kind = kind
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	if current != nil {
		results = append(results, *current)
	}
	return results, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte) ([]Outcome, error) {
	return ParseStream(bytes.NewReader(data))
}

// ParseDuration converts a Surefire time attribute to a duration. Thousands
// separators are dropped, so "1,234.567" is 1234.567 seconds. An empty value
// is zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}
