// Package recovery turns raw model responses into schema-valid typed values.
// Models return structured output unreliably: sometimes an already-decoded
// value, sometimes a loose map, sometimes JSON wrapped in a markdown fence.
// The chain tries each shape in order and validates whatever it lands on.
package recovery

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/schemas"
)

// Validator is implemented by targets that carry struct-level bounds beyond
// what JSON Schema expresses.
type Validator interface {
	Validate() error
}

// strategy attempts to populate a fresh copy of the target from the response.
// It returns the raw JSON representation of what it recovered, for schema
// validation. A failed strategy must leave no trace on the caller's target.
type strategy struct {
	name string
	run  func(resp *llm.ModelResponse, target any) (string, error)
}

var chain = []strategy{
	{name: "direct", run: recoverDirect},
	{name: "coerce", run: recoverCoerce},
	{name: "text", run: recoverText},
}

// Recover decodes a model response into target (a non-nil pointer) using the
// ordered strategy chain. First success wins. The recovered value is then
// checked against the request schema's JSON Schema text and, when the target
// implements Validator, its struct-level bounds. A validation failure fails
// the entire recovery; only decode failures fall through to the next
// strategy.
func Recover(resp *llm.ModelResponse, schema llm.Schema, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("recovery target must be a non-nil pointer, got %T", target)
	}

	attempts := make([]string, 0, len(chain))
	for _, s := range chain {
		fresh := reflect.New(rv.Type().Elem())
		raw, err := s.run(resp, fresh.Interface())
		if err != nil {
			attempts = append(attempts, s.name)
			continue
		}

		if schema.JSONSchema != "" {
			if verr := schemas.ValidateJSONString(schema.JSONSchema, raw); verr != nil {
				return &SchemaViolationError{Strategy: s.name, Cause: verr}
			}
		}
		if v, ok := fresh.Interface().(Validator); ok {
			if verr := v.Validate(); verr != nil {
				return &SchemaViolationError{Strategy: s.name, Cause: verr}
			}
		}

		rv.Elem().Set(fresh.Elem())
		return nil
	}

	return &UnrecoverableError{RawText: resp.Text, Attempts: attempts}
}

// recoverDirect accepts a response value whose dynamic type already matches
// the target.
func recoverDirect(resp *llm.ModelResponse, target any) (string, error) {
	if resp.Value == nil {
		return "", fmt.Errorf("no typed value in response")
	}

	src := reflect.ValueOf(resp.Value)
	dst := reflect.ValueOf(target).Elem()

	// Accept both T and *T as the response value.
	if src.Kind() == reflect.Pointer && !src.IsNil() && src.Elem().Type() == dst.Type() {
		src = src.Elem()
	}
	if src.Type() != dst.Type() {
		return "", fmt.Errorf("value type %T does not match target %s", resp.Value, dst.Type())
	}

	dst.Set(src)
	raw, err := json.Marshal(dst.Interface())
	if err != nil {
		return "", fmt.Errorf("failed to marshal direct value: %w", err)
	}
	return string(raw), nil
}

// recoverCoerce decodes a map-shaped response value into the target via
// mapstructure, tolerating extra keys and weakly-typed scalars. Structural
// mismatch fails the strategy without touching the caller's target.
func recoverCoerce(resp *llm.ModelResponse, target any) (string, error) {
	if resp.Value == nil {
		return "", fmt.Errorf("no value to coerce")
	}
	if reflect.ValueOf(resp.Value).Kind() != reflect.Map {
		return "", fmt.Errorf("value is %T, not a map", resp.Value)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(resp.Value); err != nil {
		return "", fmt.Errorf("coercion failed: %w", err)
	}

	// Validate the map as the model sent it, not the coerced struct: the raw
	// shape is what the schema contract is about.
	raw, err := json.Marshal(resp.Value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal map value: %w", err)
	}
	return string(raw), nil
}

// recoverText strips at most one markdown fence from the raw text and parses
// the remainder as JSON.
func recoverText(resp *llm.ModelResponse, target any) (string, error) {
	cleaned := llm.CleanJSONBlock(resp.Text)
	if cleaned == "" {
		return "", fmt.Errorf("no text to parse")
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return "", fmt.Errorf("text parse failed: %w", err)
	}
	return cleaned, nil
}
