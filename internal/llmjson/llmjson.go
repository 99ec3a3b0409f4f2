// Package llmjson extracts JSON payloads from free-form model output.
//
// Search-capable models are asked to reply with bare JSON but routinely wrap
// it in prose or markdown fences. Clean recovers the payload with the same
// tolerant rules the rest of the pipeline was built around: fenced block
// first, then a first/last delimiter slice. The slice is deliberately naive —
// a literal brace or bracket inside a string value can mis-bound the payload.
// Callers treat the resulting decode error as a parse failure and retry.
package llmjson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape selects the expected top-level JSON value.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

func (s Shape) delimiters() (open, close string) {
	if s == ShapeArray {
		return "[", "]"
	}
	return "{", "}"
}

// ParseError reports that model output could not be decoded as the expected
// JSON shape. It is distinct from remote-call failures so callers can apply
// different retry policies.
type ParseError struct {
	Err     error
	Snippet string // truncated cleaned text that failed to decode
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("llmjson: decode model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const snippetLimit = 500

// Clean strips markdown fences and slices the text down to the expected JSON
// value. Only the first fenced block is considered. If no delimiters are
// found the text is returned unmodified and left for the decoder to reject.
func Clean(text string, shape Shape) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}
	text = strings.TrimSpace(text)

	open, close := shape.delimiters()
	if !strings.HasPrefix(text, open) {
		start := strings.Index(text, open)
		end := strings.LastIndex(text, close)
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}

	return strings.TrimSpace(text)
}

// Object cleans text and decodes it into out as a JSON object.
func Object(text string, out any) error {
	return decode(text, ShapeObject, out)
}

// Array cleans text and decodes it into out as a JSON array.
func Array(text string, out any) error {
	return decode(text, ShapeArray, out)
}

func decode(text string, shape Shape, out any) error {
	cleaned := Clean(text, shape)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &ParseError{Err: err, Snippet: truncate(cleaned, snippetLimit)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
