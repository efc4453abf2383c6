package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"resume.txt":       "8 years of Go experience",
		"linkedin.json":    `{"headline": "Engineer"}`,
		"cover_letter.md":  "I am excited to apply",
		"scan.pdf":         "%PDF-1.4 binary",
		"screenshot.png":   "not text",
		".hidden_metadata": "ignored",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 5)

	byName := make(map[string]Document)
	for _, d := range docs {
		byName[d.Name] = d
	}

	assert.Equal(t, KindResume, byName["resume.txt"].Kind)
	assert.Equal(t, "8 years of Go experience", byName["resume.txt"].Content)
	assert.Equal(t, KindProfile, byName["linkedin.json"].Kind)
	assert.Equal(t, KindFreeText, byName["cover_letter.md"].Kind)

	assert.Error(t, byName["scan.pdf"].Err)
	assert.Error(t, byName["screenshot.png"].Err)
	_, hidden := byName[".hidden_metadata"]
	assert.False(t, hidden)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir("/nonexistent/candidate")
	assert.Error(t, err)
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"My_Resume_2024.txt", KindResume},
		{"jane-cv.md", KindResume},
		{"linkedin_export.txt", KindProfile},
		{"portfolio_summary.md", KindProfile},
		{"anything.json", KindProfile},
		{"notes.txt", KindFreeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFile(tt.name))
		})
	}
}
