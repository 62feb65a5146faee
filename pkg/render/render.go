// Package render provides output renderers for testalot's report patterns.
package render

import (
	"fmt"

	"github.com/dkoosis/testalot/pkg/pattern"
)

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// Output formats accepted by New.
const (
	FormatMarkdown = "markdown"
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatMarkdown, FormatTerminal, FormatJSON}

// New returns the renderer for format. Theme and width only affect the
// terminal renderer.
func New(format, theme string, width int) (Renderer, error) {
	switch format {
	case FormatMarkdown, "":
		return NewMarkdown(), nil
	case FormatTerminal:
		return NewTerminal(ThemeByName(theme), width), nil
	case FormatJSON:
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}
