package banner

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// TemplateVars contains variables for the banner text template.
type TemplateVars struct {
	MainTitle   string
	SubTitle    string
	CreatedAt   string
	SizeLabel   string
	SizeValue   string
	FramesLabel string
	FramesValue string
	CycleLabel  string
	CycleValue  string
}

// NewTemplateVars creates template variables from banner input.
func NewTemplateVars(source, format string, width, height, frames int, cycle time.Duration) TemplateVars {
	if source == "" {
		source = "-"
	}
	sub := strings.ToUpper(format)
	if sub == "" {
		sub = "UNKNOWN"
	}
	vars := TemplateVars{
		MainTitle:   source,
		SubTitle:    sub,
		CreatedAt:   time.Now().Format("2006/01/02 15:04:05"),
		SizeLabel:   "Size",
		SizeValue:   fmt.Sprintf("%dx%d", width, height),
		FramesLabel: "Frames",
		FramesValue: fmt.Sprintf("%d", frames),
	}
	if frames > 1 {
		vars.CycleLabel = "Cycle"
		vars.CycleValue = fmt.Sprintf("%.2f sec.", cycle.Seconds())
	}
	return vars
}

// RenderLines renders the banner template and returns its non-empty lines.
func RenderLines(vars TemplateVars) ([]string, error) {
	tmpl, err := template.New("banner").Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// defaultTemplate is the banner text template, one drawn line per row.
const defaultTemplate = `{{.MainTitle}}
{{.SubTitle}}  {{.CreatedAt}}
{{.SizeLabel}} {{.SizeValue}}   {{.FramesLabel}} {{.FramesValue}}{{if .CycleLabel}}   {{.CycleLabel}} {{.CycleValue}}{{end}}
`
