package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// SnakeCase converts a camelCase or PascalCase key to snake_case:
//   - "attachmentStyle" becomes "attachment_style"
//   - "userID" becomes "user_id"
//   - keys already in snake_case are returned unchanged
func SnakeCase(key string) string {
	runes := []rune(key)

	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && needsBreak(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// needsBreak reports whether an underscore belongs before the upper-case
// rune at i.
func needsBreak(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '_' {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// End of an acronym: "HTTPServer" splits before "Server".
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// NormalizeKeys rewrites every object key in a decoded JSON value to
// snake_case, recursively. When both spellings of a key are present the
// snake_case one wins.
func NormalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			canonical := SnakeCase(k)
			if _, taken := out[canonical]; taken && canonical != k {
				continue
			}
			out[canonical] = NormalizeKeys(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = NormalizeKeys(item)
		}
		return out
	default:
		return v
	}
}

// DecodeNormalized parses externally sourced JSON, normalizes its keys and
// decodes the result into dst. Malformed input yields ErrParse.
func DecodeNormalized(raw []byte, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("empty document: %w", ErrParse)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	canonical, err := json.Marshal(NormalizeKeys(generic))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	if err := json.Unmarshal(canonical, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil
}

// DecodeProfileDocument parses a stored or transmitted profile document.
func DecodeProfileDocument(raw []byte) (ProfileDocument, error) {
	var doc ProfileDocument
	if err := DecodeNormalized(raw, &doc); err != nil {
		return ProfileDocument{}, err
	}
	doc.Canonicalize()
	return doc, nil
}

// EncodeProfileDocument serializes a document for storage.
func EncodeProfileDocument(doc ProfileDocument) (string, error) {
	doc.Canonicalize()
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode profile document: %w", err)
	}
	return string(raw), nil
}
