package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
)

// Report is a per-country summary of one mode table.
type Report struct {
	Title       string
	Perspective string
	Mode        string
	Years       string
	Total       float64
	Countries   int
	Rows        []Row
}

type Row struct {
	Code  string
	Name  string
	Value float64
}

type TableConfig struct {
	CodeWidth  int
	NameWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CodeWidth:  6,
		NameWidth:  40,
		ValueWidth: 20,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(code, name string, value interface{}) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v |",
				c.config.CodeWidth, code,
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, value)
		},
		"amount": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.CodeWidth+2),
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
	}

	tmpl := `
{{.Title}}
Perspective: {{.Perspective}}  Mode: {{.Mode}}  Years: {{.Years}}
Countries: {{.Countries}}  Total (USD): {{amount .Total}}

{{separator}}
{{formatRow "Code" "Country" "USD"}}
{{separator}}
{{range .Rows}}{{formatRow .Code .Name (amount .Value)}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
