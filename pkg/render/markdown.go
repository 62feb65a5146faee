package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/dkoosis/testalot/pkg/pattern"
)

const markdownTemplate = `
{{- range .Boards -}}
## {{ .Label }}
{{ if .Items }}
| Result | {{ .MetricName }} | {{ .ContrastName }} | Test |
| ------ | ---: | ---: | ---- |
{{- range .Items }}
| {{ .Status | upper }} | {{ .Metric }} | {{ .Contrast }} | {{ .Name | cell }} |
{{- end }}

{{ share . }}
{{ else }}
No tests found.
{{ end }}
{{ end -}}
{{- range .Tables -}}
## {{ .Label }}
{{ if .Results }}
| History | Test |
| ------- | ---- |
{{- range .Results }}
| {{ .History | code }} | {{ .Name | cell }} |
{{- end }}
{{ else }}
{{ .Empty }}
{{ end }}
{{ end -}}
`

// Markdown renders the slow and flaky sections as GitHub-flavored Markdown
// tables. Summary and trend patterns are not part of the Markdown document.
type Markdown struct {
	tmpl *template.Template
}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown() *Markdown {
	funcs := sprig.TxtFuncMap()
	funcs["cell"] = func(s string) string {
		return "`" + strings.ReplaceAll(s, "|", `\|`) + "`"
	}
	funcs["code"] = func(s string) string {
		return "`" + s + "`"
	}
	funcs["share"] = shareSentence
	return &Markdown{tmpl: template.Must(template.New("markdown").Funcs(funcs).Parse(markdownTemplate))}
}

type markdownData struct {
	Boards []*pattern.Leaderboard
	Tables []*pattern.TestTable
}

// Render formats the Leaderboard and TestTable patterns as Markdown.
func (m *Markdown) Render(patterns []pattern.Pattern) string {
	var data markdownData
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Leaderboard:
			data.Boards = append(data.Boards, v)
		case *pattern.TestTable:
			data.Tables = append(data.Tables, v)
		}
	}

	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("rendering markdown: %v\n", err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return ""
	}
	return out + "\n"
}

func shareSentence(l *pattern.Leaderboard) string {
	if len(l.Items) == 1 {
		return fmt.Sprintf("The slowest test accounts for %d%% of the total test time.", l.Share)
	}
	return fmt.Sprintf("The %d slowest tests account for %d%% of the total test time.", len(l.Items), l.Share)
}
