// Package prompts embeds the model prompt templates used by the evaluation,
// feedback, and question generators. Each template file is a flat JSON object
// mapping a prompt name to its text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

var (
	mu     sync.RWMutex
	loaded = make(map[string]map[string]string)
)

// Get returns one prompt from a template file, parsing and caching the file
// on first use. The filename carries no path, e.g. "evaluation.json".
func Get(file, name string) (string, error) {
	templates, err := load(file)
	if err != nil {
		return "", err
	}

	prompt, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", name, file)
	}
	return prompt, nil
}

// MustGet is Get for prompts embedded at compile time, where absence is a
// build defect. Generators call it when assembling their request schemas.
func MustGet(file, name string) string {
	prompt, err := Get(file, name)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with values from data. Templates
// are plain strings, not text/template documents; substitution is literal and
// unmatched placeholders are left in place.
func Format(template string, data map[string]string) string {
	for key, value := range data {
		template = strings.ReplaceAll(template, "{{."+key+"}}", value)
	}
	return template
}

func load(file string) (map[string]string, error) {
	mu.RLock()
	templates, ok := loaded[file]
	mu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := templateFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	mu.Lock()
	loaded[file] = templates
	mu.Unlock()
	return templates, nil
}
