// Package envelope decodes responses of the profile tools defensively. A
// response may be the payload object itself or a content-array envelope
// ({"content":[{"type":"text","text":"<json>"}]}) whose text holds the
// payload. Either shape may carry an {"error":true,"message":...} body.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a response is neither a payload object nor
// a usable content-array envelope.
var ErrMalformed = errors.New("malformed response")

// RemoteError is an error reported by the server in the response body.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "remote error"
	}
	return e.Message
}

type contentEnvelope struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Unwrap returns the payload of raw, stripping a content-array envelope if
// there is one. An error body yields *RemoteError.
func Unwrap(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	payload := json.RawMessage(raw)
	isError := false
	if _, wrapped := fields["content"]; wrapped {
		var env contentEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: content: %w", ErrMalformed, err)
		}
		text, ok := firstText(env)
		if !ok {
			return nil, fmt.Errorf("%w: no text content", ErrMalformed)
		}
		payload = json.RawMessage(bytes.TrimSpace([]byte(text)))
		isError = env.IsError
		if !json.Valid(payload) {
			if isError {
				return nil, &RemoteError{Message: text}
			}
			return nil, fmt.Errorf("%w: content text is not JSON", ErrMalformed)
		}
	}

	var eb errorBody
	if err := json.Unmarshal(payload, &eb); err == nil && (eb.Error || isError) {
		return nil, &RemoteError{Message: eb.Message}
	}
	return payload, nil
}

// Decode unwraps raw and decodes the payload into dst.
func Decode(raw []byte, dst any) error {
	payload, err := Unwrap(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

func firstText(env contentEnvelope) (string, bool) {
	for _, c := range env.Content {
		if c.Type == "text" || c.Type == "" {
			return c.Text, true
		}
	}
	return "", false
}
