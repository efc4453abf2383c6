package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every file in a candidate's directory into Documents.
// Unsupported or unreadable files are returned with Err set so Aggregate can
// record the skip instead of aborting the candidate.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		docs = append(docs, loadFile(filepath.Join(dir, entry.Name())))
	}
	return docs, nil
}

func loadFile(path string) Document {
	name := filepath.Base(path)
	doc := Document{Name: name, Kind: classifyFile(name)}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md", ".text", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			doc.Err = err
			return doc
		}
		doc.Content = string(data)
	case ".pdf":
		doc.Err = fmt.Errorf("pdf text extraction not supported, convert %s to text first", name)
	default:
		doc.Err = fmt.Errorf("unsupported file type %q", ext)
	}
	return doc
}

// classifyFile guesses the document kind from the filename. JSON files are
// treated as structured profiles; resume-like names win over the freetext
// default.
func classifyFile(name string) Kind {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".json") {
		return KindProfile
	}
	for _, hint := range []string{"linkedin", "profile", "portfolio"} {
		if strings.Contains(lower, hint) {
			return KindProfile
		}
	}
	for _, hint := range []string{"resume", "cv"} {
		if strings.Contains(lower, hint) {
			return KindResume
		}
	}
	return KindFreeText
}
