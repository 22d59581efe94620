package roadmap

import (
	"encoding/json"
	"regexp"
	"strings"
)

const ExportContentType = "text/plain; charset=utf-8"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^a-z0-9_\-]`)
)

// Export pretty-prints the roadmap for download.
func Export(rm *Roadmap) ([]byte, error) {
	return json.MarshalIndent(rm, "", "  ")
}

// ExportFilename names the download after the discipline,
// e.g. engineering_roadmap_computer_science.txt.
func ExportFilename(discipline string) string {
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(discipline)), "_")
	slug = unsafeChars.ReplaceAllString(slug, "")
	if slug == "" {
		slug = "custom"
	}
	return "engineering_roadmap_" + slug + ".txt"
}
