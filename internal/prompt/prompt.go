// Package prompt builds the text sent to the attacking model: initial attack
// briefs per vulnerability category, follow-up briefs per escalation
// technique, and analysis briefs that ask the judge for a labeled verdict.
// Templates are plain text/template; all of them are parsed at init so a
// malformed template fails fast rather than mid-run.
package prompt

import (
	"strings"
	"text/template"

	"github.com/zero-day-ai/provoke/internal/redteam"
)

// maxAttemptPreview bounds how much of a previous attempt is echoed into the
// avoid-list.
const maxAttemptPreview = 100

// maxHistoryPreview bounds how much of a past turn is echoed into follow-up
// context.
const maxHistoryPreview = 200

// historyWindow is how many trailing turns the general follow-up brief sees.
const historyWindow = 4

var funcMap = template.FuncMap{
	"truncate": func(n int, s string) string {
		if len(s) <= n {
			return s
		}
		return s[:n]
	},
}

// render executes a pre-parsed template. Execution can only fail on a
// template bug, never on input data, since every referenced field is a
// plain string or slice; a failure here is a programming error.
func render(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic("prompt: template execution failed: " + err.Error())
	}
	return b.String()
}

// expandCategory substitutes the category name into a brief header. Briefs
// use a literal {{CATEGORY}} marker instead of template syntax so the header
// strings stay grep-able.
func expandCategory(s string, c redteam.Category) string {
	return strings.ReplaceAll(s, "{{CATEGORY}}", string(c))
}

// turnView is the template-facing projection of a conversation turn.
type turnView struct {
	Role    string
	Content string
}

func historyView(turns []redteam.Turn) []turnView {
	start := 0
	if len(turns) > historyWindow {
		start = len(turns) - historyWindow
	}
	out := make([]turnView, 0, historyWindow)
	for _, t := range turns[start:] {
		role := "USER"
		if t.Role == redteam.RoleTarget {
			role = "ASSISTANT"
		}
		out = append(out, turnView{Role: role, Content: t.Content})
	}
	return out
}
