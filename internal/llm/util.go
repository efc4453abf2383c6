package llm

import "strings"

// CleanJSONBlock strips a single markdown code fence from a model response.
// Gemini frequently fences its evaluation JSON in ```json ... ``` even with
// the response MIME type forced to application/json; the recovery chain's
// text strategy runs raw responses through here before parsing.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")

	// Drop a language identifier on the opening fence line. Anything short
	// and word-shaped counts; a line already holding JSON does not.
	if nl := strings.Index(body, "\n"); nl >= 0 {
		first := strings.TrimSpace(body[:nl])
		if first == "" || (len(first) < 20 && !strings.ContainsAny(first, " {[")) {
			body = body[nl+1:]
		}
	}

	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
