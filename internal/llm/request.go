// Package llm - request.go provides generation-request construction from a
// schema descriptor, an instruction, and grounding evidence.
package llm

import (
	"fmt"
	"strings"
)

// SchemaField defines a single field in the expected model output.
type SchemaField struct {
	Name        string   // JSON field name
	Type        string   // Type hint: "string", ["string"], number, object
	Description string   // Description for the LLM
	Required    bool     // Whether this field is required
	Enum        []string // Allowed values, when the field is enum-constrained
}

// Schema describes the structured output a request expects. The prompt-facing
// fields tell the model what to produce; JSONSchema is the machine-checkable
// contract the recovery chain validates recovered values against.
type Schema struct {
	Name        string        // Schema name (e.g., "CandidateEvaluation")
	Description string        // System prompt preamble describing the task
	Fields      []SchemaField // Expected output fields
	JSONSchema  string        // JSON Schema document for post-recovery validation
}

// GenerationRequest is an opaque, ready-to-dispatch model request. It carries
// everything the recovery chain needs to validate what comes back.
type GenerationRequest struct {
	Prompt      string
	Temperature float32
	Schema      Schema
}

// BuildScoringRequest assembles a request for deterministic evaluation work.
// Evidence is the grounding text (job requirements plus candidate corpus);
// an empty evidence string is a caller error, rejected before dispatch.
func BuildScoringRequest(schema Schema, instruction, evidence string) (*GenerationRequest, error) {
	return buildRequest(schema, instruction, evidence, ScoringTemperature)
}

// BuildGenerationRequest assembles a request for open-ended generation such
// as interview questions or feedback, at the higher generation temperature.
func BuildGenerationRequest(schema Schema, instruction, evidence string) (*GenerationRequest, error) {
	return buildRequest(schema, instruction, evidence, GenerationTemperature)
}

func buildRequest(schema Schema, instruction, evidence string, temperature float32) (*GenerationRequest, error) {
	if strings.TrimSpace(evidence) == "" {
		return nil, ErrNoEvidence
	}

	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	if instruction != "" {
		sb.WriteString(instruction)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s%s", field.Name, typeHint, requiredHint))
		if len(field.Enum) > 0 {
			sb.WriteString(fmt.Sprintf(" // one of: %s", strings.Join(field.Enum, "|")))
		} else if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base every judgment on the evidence text, do not invent information.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Evidence:\n\"\"\"\n")
	sb.WriteString(evidence)
	sb.WriteString("\n\"\"\"\n")

	return &GenerationRequest{
		Prompt:      sb.String(),
		Temperature: temperature,
		Schema:      schema,
	}, nil
}
