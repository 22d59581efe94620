package roadmap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoadmap() *Roadmap {
	return &Roadmap{
		Years: []RoadmapYear{
			{
				Year:       1,
				Focus:      "Foundations",
				Skills:     StringList{"Python", "Git"},
				Projects:   StringList{"Portfolio site, with blog", "CLI tool"},
				Courses:    StringList{"CS50"},
				Books:      StringList{"Clean Code"},
				Networking: StringList{"Join ACM", "Attend meetups"},
				Routine:    "1h daily practice",
			},
			{Year: 2, Focus: "Depth"},
		},
		OverallAdvice: "Stay curious.",
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRoadmap())

	assert.Contains(t, md, "## Year 1: Foundations")
	assert.Contains(t, md, "- **Skills:** Python, Git")
	assert.Contains(t, md, "- **Projects:** Portfolio site, with blog; CLI tool")
	assert.Contains(t, md, "- **Networking:** Join ACM; Attend meetups")
	assert.Contains(t, md, "- **Internships:** N/A")
	assert.Contains(t, md, "- **Advice:** N/A")
	assert.Contains(t, md, "## Year 2: Depth")
	assert.Contains(t, md, "## Overall Advice\n\nStay curious.")
	assert.Equal(t, 2, strings.Count(md, "- **Books:**"))
}

func TestMarkdown_NoOverallAdvice(t *testing.T) {
	rm := sampleRoadmap()
	rm.OverallAdvice = ""
	assert.NotContains(t, Markdown(rm), "Overall Advice")
}

func TestHTML(t *testing.T) {
	rm := sampleRoadmap()
	rm.Years[0].Focus = "<script>alert(1)</script>"

	out, err := HTML(rm)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<h2>Year 2: Depth</h2>")
	assert.Contains(t, html, "<strong>Skills:</strong> Python, Git")
	assert.NotContains(t, html, "<script>")
}

func TestExport_RoundTrip(t *testing.T) {
	rm := sampleRoadmap()
	out, err := Export(rm)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"years\": [\n")

	var back Roadmap
	require.NoError(t, json.Unmarshal(out, &back))
	if diff := cmp.Diff(rm, &back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("export round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportFilename(t *testing.T) {
	tests := map[string]string{
		"Computer Science":           "engineering_roadmap_computer_science.txt",
		"  Electrical  Engineering ": "engineering_roadmap_electrical_engineering.txt",
		"":                           "engineering_roadmap_custom.txt",
		`Other"; x=y`:                "engineering_roadmap_other_xy.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExportFilename(in), "discipline %q", in)
	}
}
