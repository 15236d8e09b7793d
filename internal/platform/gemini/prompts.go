package gemini

import (
	"bytes"
	"fmt"
	"text/template"
)

var prompts = template.Must(template.New("prompts").Parse(`
{{define "summarize"}}Summarize the following email for a busy reader.
{{- if .MaxLength}} Use at most {{.MaxLength}} characters.{{end}}
Return only the summary text.

Email:
{{.Content}}{{end}}

{{define "reply"}}Suggest three short, distinct replies to the email below.
{{- if .Context}}
The user adds this context: {{.Context}}{{end}}

Email:
{{.Content}}{{end}}

{{define "categorize"}}Classify the email below into exactly one of these categories: {{.Categories}}.

Email:
{{.Content}}{{end}}

{{define "schedule"}}Extract the scheduling request from the text below.
The current time is {{.Now}}. Resolve relative dates against it and give datetime in RFC 3339.
Use intent_type "meeting", "appointment", "reminder" or "none", and a confidence between 0 and 1.

Text:
{{.Content}}{{end}}

{{define "complete"}}{{if .Thread}}Email thread:
{{.Thread}}

{{end}}{{.Prompt}}{{- if .MaxLength}}

Keep the answer under {{.MaxLength}} characters.{{end}}{{end}}
`))

func renderPrompt(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute %s prompt template: %w", name, err)
	}
	return buf.String(), nil
}
