// Package jsonx decodes JSON from model responses that may carry markdown
// fences, surrounding prose, or minor formatting damage.
package jsonx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Fixer performs one external correction attempt on broken JSON. Implemented
// by the LLM client with a cheaper model.
type Fixer interface {
	FixJSON(ctx context.Context, raw string) (string, error)
}

// Decode unmarshals raw into v, tolerating common model formatting issues:
//
//  1. markdown code fences are stripped,
//  2. the substring between the first "{" and the last "}" is tried,
//  3. at most ONE correction attempt goes through fixer (when non-nil).
//
// The single bounded fixer call keeps a misbehaving model from triggering
// unbounded retries.
func Decode(ctx context.Context, raw string, v any, fixer Fixer) error {
	stripped := stripFences(raw)

	if err := json.Unmarshal([]byte(stripped), v); err == nil {
		return nil
	}

	if candidate, ok := braceSubstring(stripped); ok {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return nil
		}
	}

	if fixer == nil {
		return fmt.Errorf("invalid JSON and no fixer available")
	}
	fixed, err := fixer.FixJSON(ctx, stripped)
	if err != nil {
		return fmt.Errorf("fix JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(stripFences(fixed)), v); err != nil {
		return fmt.Errorf("JSON still invalid after one correction: %w", err)
	}
	return nil
}

// stripFences removes a wrapping markdown code fence, with or without a
// language tag, leaving other text untouched.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s[3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the language tag line ("json", "" etc).
		firstLine := strings.TrimSpace(body[:nl])
		if !strings.ContainsAny(firstLine, "{}") {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func braceSubstring(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
