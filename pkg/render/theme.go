package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass  string
	Fail  string
	Flaky string
	Info  string
}

// palette is a theme's ANSI 256 colors; empty entries stay unstyled.
type palette struct {
	primary, success, warning, failure, muted string
}

var themes = map[string]struct {
	colors palette
	icons  ThemeIcons
}{
	"default": {
		colors: palette{primary: "39", success: "34", warning: "214", failure: "196", muted: "242"},
		icons:  ThemeIcons{Pass: "✓", Fail: "✗", Flaky: "⚠", Info: "●"},
	},
	"muted": {
		colors: palette{primary: "75", success: "108", warning: "179", failure: "167", muted: "245"},
		icons:  ThemeIcons{Pass: "✓", Fail: "✗", Flaky: "!", Info: "·"},
	},
	"mono": {
		icons: ThemeIcons{Pass: "+", Fail: "x", Flaky: "!", Info: "*"},
	},
}

// ThemeNames lists the built-in themes accepted by ThemeByName.
var ThemeNames = []string{"default", "muted", "mono"}

func foreground(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// ThemeByName returns a built-in theme, falling back to "default".
func ThemeByName(name string) Theme {
	def, ok := themes[name]
	if !ok {
		name = "default"
		def = themes[name]
	}
	return Theme{
		Name:    name,
		Primary: foreground(def.colors.primary),
		Success: foreground(def.colors.success),
		Warning: foreground(def.colors.warning),
		Error:   foreground(def.colors.failure),
		Muted:   foreground(def.colors.muted),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons:   def.icons,
	}
}

// MonoTheme returns the colorless theme.
func MonoTheme() Theme { return ThemeByName("mono") }

// Status returns the icon and style for a test status.
func (th Theme) Status(status string) (string, lipgloss.Style) {
	switch status {
	case "pass":
		return th.Icons.Pass, th.Success
	case "fail", "error":
		return th.Icons.Fail, th.Error
	case "flaky":
		return th.Icons.Flaky, th.Warning
	default:
		return th.Icons.Info, th.Muted
	}
}

// Metric returns the icon and style for a summary metric kind.
func (th Theme) Metric(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return th.Icons.Pass, th.Success
	case "error":
		return th.Icons.Fail, th.Error
	case "warning":
		return th.Icons.Flaky, th.Warning
	default:
		return th.Icons.Info, th.Primary
	}
}

// History colors each outcome symbol of a history string: failures and
// errors in the error style, passes in the success style.
func (th Theme) History(history string) string {
	var sb strings.Builder
	for i := 0; i < len(history); i++ {
		sym := history[i : i+1]
		if sym == "x" || sym == "E" {
			sb.WriteString(th.Error.Render(sym))
			continue
		}
		sb.WriteString(th.Success.Render(sym))
	}
	return sb.String()
}
