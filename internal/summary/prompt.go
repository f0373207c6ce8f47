package summary

import (
	"strings"
	"text/template"
	"time"
)

var promptTmpl = template.Must(template.New("upcoming").Parse(`You are a personal assistant who summarizes upcoming deadlines.

The current date is {{.Now}}.

Here is a list of tasks:
{{- range .Tasks}}
- {{.Title}} (Due: {{if .DueDate}}{{.DueDate}}{{else}}no due date{{end}}, Priority: {{.Priority}})
{{- end}}
{{if .IncludePlannedDates}}
Also include planned dates in the summary, sorted chronologically.
{{end}}
Summarize the upcoming deadlines, grouping them by day and prioritizing by urgency. Focus on what's most important first.
Make it actionable and easy to understand, focusing on what needs to be done.
Be concise. If there are no tasks, return 'No upcoming deadlines'.

Respond with a JSON object of the form {"summary": "..."}.
`))

type promptData struct {
	Request
	Now string
}

func renderPrompt(req Request, now time.Time) (string, error) {
	var b strings.Builder
	if err := promptTmpl.Execute(&b, promptData{Request: req, Now: now.Format("2006-01-02")}); err != nil {
		return "", err
	}
	return b.String(), nil
}
