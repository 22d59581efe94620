package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/muhammadolammi/careerroadmap/internal/roadmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPromptCommand(t *testing.T) {
	t.Setenv("ROADMAP_CONFIG", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"prompt",
		"--discipline", "Computer Science",
		"--goals", "Backend engineer",
		"--interests", "Databases",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "**Discipline:** Computer Science")
	assert.NotContains(t, out.String(), "**Strengths:**")
}

func TestWriteResult(t *testing.T) {
	logger = zap.NewNop()
	profile = roadmap.ProfileInput{Discipline: "Civil Engineering"}
	t.Cleanup(func() {
		outPath, markdown = "", false
		profile = roadmap.ProfileInput{}
	})

	rm := &roadmap.Roadmap{Years: []roadmap.RoadmapYear{{Year: 1, Focus: "Statics"}}}

	var out bytes.Buffer
	require.NoError(t, writeResult(&out, roadmap.NewResult(rm, nil)))
	assert.Contains(t, out.String(), `"focus": "Statics"`)

	out.Reset()
	markdown = true
	require.NoError(t, writeResult(&out, roadmap.NewResult(rm, nil)))
	assert.Contains(t, out.String(), "## Year 1: Statics")
	markdown = false

	outPath = filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, writeResult(&out, roadmap.NewResult(rm, nil)))
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"year": 1`)

	_, perr := roadmap.Process("no json here")
	err = writeResult(&out, roadmap.NewResult(nil, perr))
	assert.EqualError(t, err, roadmap.MsgNoJSON)
}

func TestGenerateRejectsOutWithMarkdown(t *testing.T) {
	t.Setenv("ROADMAP_CONFIG", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		outPath, markdown = "", false
		profile = roadmap.ProfileInput{}
	})

	rootCmd.SetArgs([]string{"generate",
		"--discipline", "Computer Science",
		"--goals", "Backend engineer",
		"--interests", "Databases",
		"--markdown",
		"--out", filepath.Join(t.TempDir(), "plan.txt"),
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}
