package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrCorruptedPayload is returned when no JSON object can be decoded from the
// model's answer.
var ErrCorruptedPayload = errors.New("payload is not a JSON object")

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

// Decode returns the JSON object carried by raw. Models sometimes wrap the
// object in markdown fences or prose, so when raw is not a JSON object as a
// whole, the first balanced {...} that decodes is used.
func Decode(raw string) (map[string]any, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty text", ErrCorruptedPayload)
	}

	if obj, ok := decodeObject(cleaned); ok {
		return obj, nil
	}

	for from := 0; ; {
		candidate, next, found := nextObject(cleaned, from)
		if !found {
			break
		}
		if obj, ok := decodeObject(candidate); ok {
			return obj, nil
		}
		from = next
	}

	return nil, fmt.Errorf("%w: no decodable object in %d bytes of text", ErrCorruptedPayload, len(raw))
}

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

func decodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// nextObject finds the first '{' at or after from and returns the text up to
// its matching '}', ignoring braces inside JSON strings. next is where the
// search should resume if the candidate does not decode.
func nextObject(s string, from int) (candidate string, next int, found bool) {
	start := strings.IndexByte(s[from:], '{')
	if start < 0 {
		return "", 0, false
	}
	start += from

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], start + 1, true
			}
		}
	}
	// Unbalanced: let the caller resume after this brace.
	return "", start + 1, true
}
