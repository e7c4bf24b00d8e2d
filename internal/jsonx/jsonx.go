// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonx parses structured JSON out of model responses. Models are
// asked to return bare JSON but sometimes wrap it in prose; parsing is
// strict-first with exactly one bounded recovery attempt.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnmarshalObject decodes text into v. It first tries the whole text as
// JSON; on failure it makes one recovery attempt on the substring from the
// first '{' to the last '}' and gives up after that.
func UnmarshalObject(text string, v any) error {
	return unmarshal(text, v, '{', '}')
}

// UnmarshalArray decodes text into v, recovering on the substring from the
// first '[' to the last ']'.
func UnmarshalArray(text string, v any) error {
	return unmarshal(text, v, '[', ']')
}

func unmarshal(text string, v any, open, shut byte) error {
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	start := strings.IndexByte(trimmed, open)
	end := strings.LastIndexByte(trimmed, shut)
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON payload delimited by %q...%q in response", open, shut)
	}

	if err := json.Unmarshal([]byte(trimmed[start:end+1]), v); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}
	return nil
}
