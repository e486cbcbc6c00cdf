// Package contract extracts structured results from free-form judgment-call
// responses. Model output frequently wraps the JSON payload in prose or
// markdown code fences; Extract recovers the object boundary and Parse
// performs a strict decode. Parsing failures surface as ErrParseFailed so
// callers can apply their own retry policy — the parser itself never retries.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when no JSON object can be recovered from a
// response, either directly or after fence stripping and brace matching.
var ErrParseFailed = errors.New("failed to parse response")

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*\n?")
	fenceClose = regexp.MustCompile("\n?```\\s*$")
)

// Extract recovers the JSON object embedded in content. It strips leading and
// trailing code-fence markers, scans forward to the first '{', and walks a
// brace-depth counter to the matching '}'. Text after the matched brace is
// discarded.
//
// The depth counter does not account for braces inside string literals; a
// value such as {"reason": "use {x}"} truncates early. Upstream output is
// trusted enough that this has not warranted a full tokenizer.
func Extract(content string) (string, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = fenceOpen.ReplaceAllString(cleaned, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexByte(cleaned, '{')
	if start == -1 {
		return "", fmt.Errorf("%w: no object found", ErrParseFailed)
	}

	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: no matching closing brace", ErrParseFailed)
}

// Parse extracts the JSON object from content and unmarshals it into T.
// Returns ErrParseFailed if extraction or decoding fails; it never guesses
// at malformed payloads.
func Parse[T any](content string) (T, error) {
	var result T

	extracted, err := Extract(content)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	return result, nil
}

// Fields extracts and decodes content into a generic key-value map. Used when
// the caller needs presence checks before committing to a typed decode.
func Fields(content string) (map[string]any, error) {
	return Parse[map[string]any](content)
}
