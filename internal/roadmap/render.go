package roadmap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

const notAvailable = "N/A"

// Free-form list items such as project ideas can contain commas, so those
// lists are joined with "; ".
const (
	listSep = ", "
	ideaSep = "; "
)

func joinOrNA(items []string, sep string) string {
	if len(items) == 0 {
		return notAvailable
	}
	return strings.Join(items, sep)
}

func textOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// Markdown renders the roadmap the way the web form displays it. Missing
// optional fields show as N/A.
func Markdown(rm *Roadmap) string {
	var b strings.Builder
	b.WriteString("# Your Personalized Roadmap\n")

	for _, y := range rm.Years {
		fmt.Fprintf(&b, "\n## Year %d: %s\n\n", y.Year, textOrNA(y.Focus))
		fmt.Fprintf(&b, "- **Skills:** %s\n", joinOrNA(y.Skills, listSep))
		fmt.Fprintf(&b, "- **Projects:** %s\n", joinOrNA(y.Projects, ideaSep))
		fmt.Fprintf(&b, "- **Courses/Certs:** %s\n", joinOrNA(y.Courses, listSep))
		fmt.Fprintf(&b, "- **Books:** %s\n", joinOrNA(y.Books, listSep))
		fmt.Fprintf(&b, "- **Networking:** %s\n", joinOrNA(y.Networking, ideaSep))
		fmt.Fprintf(&b, "- **Internships:** %s\n", joinOrNA(y.Internships, ideaSep))
		fmt.Fprintf(&b, "- **Routine:** %s\n", textOrNA(y.Routine))
		fmt.Fprintf(&b, "- **Advice:** %s\n", textOrNA(y.Advice))
	}

	if strings.TrimSpace(rm.OverallAdvice) != "" {
		fmt.Fprintf(&b, "\n## Overall Advice\n\n%s\n", rm.OverallAdvice)
	}
	return b.String()
}

// HTML converts the Markdown rendering to an HTML fragment.
func HTML(rm *Roadmap) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(rm)), &buf); err != nil {
		return nil, fmt.Errorf("failed to render roadmap: %w", err)
	}
	return buf.Bytes(), nil
}
