// Package documents merges heterogeneous candidate evidence sources into a
// single labeled corpus for grounding evaluation requests.
package documents

import (
	"fmt"
	"strings"
)

// Kind tags the origin of an evidence document.
type Kind string

// Document kinds
const (
	KindResume   Kind = "resume"   // CV/resume-like documents
	KindProfile  Kind = "profile"  // structured profiles (LinkedIn exports, portfolios)
	KindFreeText Kind = "freetext" // cover letters, notes, anything else
)

// sectionHeaders maps each kind to its corpus section label.
var sectionHeaders = map[Kind]string{
	KindResume:   "=== Resume Documents (CVs, Resumes, etc.) ===",
	KindProfile:  "=== Profile Documents (LinkedIn, Portfolio, etc.) ===",
	KindFreeText: "=== Text Documents ===",
}

// sectionOrder fixes the order sections appear in the corpus so output is
// deterministic regardless of input order across kinds.
var sectionOrder = []Kind{KindResume, KindProfile, KindFreeText}

// Document is one evidence source for a candidate. Err marks a document that
// was found but could not be read or parsed by the ingestion layer.
type Document struct {
	Name    string
	Kind    Kind
	Content string
	Err     error
}

// SkipRecord notes a document that was excluded from the corpus and why.
type SkipRecord struct {
	Name   string
	Reason string
}

// Corpus is the merged evidence text for one candidate, with per-source
// attribution preserved as inline labels.
type Corpus struct {
	Text    string
	Sources []string
	Skipped []SkipRecord
}

// Empty reports whether the corpus contains no usable evidence.
func (c *Corpus) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Summary describes the corpus size for evaluation prompts.
func (c *Corpus) Summary() string {
	if len(c.Sources) == 0 {
		return "no documents"
	}
	return fmt.Sprintf("%d document(s)", len(c.Sources))
}

// Aggregate merges documents into a labeled corpus. Malformed documents
// (Err set, unknown kind, or empty content) are skipped with a recorded
// reason; one bad source never aborts aggregation of the others. Zero usable
// documents yields an empty corpus, not an error: scoring on an empty corpus
// is rejected later by the request builder.
func Aggregate(docs []Document) *Corpus {
	corpus := &Corpus{}
	byKind := make(map[Kind][]Document)

	for _, doc := range docs {
		if doc.Err != nil {
			corpus.Skipped = append(corpus.Skipped, SkipRecord{
				Name:   doc.Name,
				Reason: fmt.Sprintf("unreadable: %v", doc.Err),
			})
			continue
		}
		if _, known := sectionHeaders[doc.Kind]; !known {
			corpus.Skipped = append(corpus.Skipped, SkipRecord{
				Name:   doc.Name,
				Reason: fmt.Sprintf("unknown document kind %q", doc.Kind),
			})
			continue
		}
		cleaned := CleanText(doc.Content)
		if cleaned == "" {
			corpus.Skipped = append(corpus.Skipped, SkipRecord{
				Name:   doc.Name,
				Reason: "empty after cleaning",
			})
			continue
		}
		doc.Content = cleaned
		byKind[doc.Kind] = append(byKind[doc.Kind], doc)
	}

	var sections []string
	for _, kind := range sectionOrder {
		kindDocs := byKind[kind]
		if len(kindDocs) == 0 {
			continue
		}
		parts := []string{sectionHeaders[kind]}
		for _, doc := range kindDocs {
			parts = append(parts, fmt.Sprintf("\n--- %s ---\n%s", doc.Name, doc.Content))
			corpus.Sources = append(corpus.Sources, doc.Name)
		}
		sections = append(sections, strings.Join(parts, "\n"))
	}

	corpus.Text = strings.Join(sections, "\n\n")
	return corpus
}
