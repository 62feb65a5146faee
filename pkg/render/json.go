package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkoosis/testalot/pkg/pattern"
)

// SchemaVersion is the version of the JSON document layout.
const SchemaVersion = "1.0"

// JSON renders patterns as one indented JSON document:
//
//	{"version": "1.0", "patterns": [{"type": "leaderboard", "data": {...}}, ...]}
//
// Test names are written verbatim; HTML characters are not escaped.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonDocument struct {
	Version  string        `json:"version"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type pattern.PatternType `json:"type"`
	Data pattern.Pattern     `json:"data"`
}

// Render formats all patterns as JSON.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	doc := jsonDocument{Version: SchemaVersion, Patterns: make([]jsonPattern, len(patterns))}
	for i, p := range patterns {
		doc.Patterns[i] = jsonPattern{Type: p.Type(), Data: p}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Sprintf("{\"error\": %q}\n", err.Error())
	}
	return buf.String()
}
