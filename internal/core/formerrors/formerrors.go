// Package formerrors carries field validation errors across a redirect as an
// opaque query parameter.
package formerrors

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError is one validation message shown in the error summary.
type FieldError struct {
	Text string `json:"text"`
	Href string `json:"href"`
	Key  string `json:"key"`
}

// Message is the inline text rendered next to a field.
type Message struct {
	Text string
}

// Encode serialises errs as base64 JSON for the errors query parameter.
func Encode(errs []FieldError) string {
	if errs == nil {
		errs = []FieldError{}
	}
	raw, _ := json.Marshal(errs)
	return base64.StdEncoding.EncodeToString(raw)
}

// Decode reverses Encode. An empty string decodes to no errors.
func Decode(encoded string) ([]FieldError, error) {
	if encoded == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// query strings may turn '+' into ' '
		raw, err = base64.StdEncoding.DecodeString(strings.ReplaceAll(encoded, " ", "+"))
		if err != nil {
			return nil, fmt.Errorf("failed to decode errors: %w", err)
		}
	}
	var errs []FieldError
	if err := json.Unmarshal(raw, &errs); err != nil {
		return nil, fmt.Errorf("failed to parse errors: %w", err)
	}
	return errs, nil
}

var dateKeys = map[string]bool{"day": true, "month": true, "year": true, "all": true}

// VisitDateKey collects the messages of the individual date parts.
const VisitDateKey = "visitDate"

// ByKey indexes errs by field key. Date part errors are also joined under
// VisitDateKey.
func ByKey(errs []FieldError) map[string]Message {
	out := make(map[string]Message, len(errs))
	var dateTexts []string
	for _, e := range errs {
		if dateKeys[e.Key] {
			dateTexts = append(dateTexts, e.Text)
		}
		out[e.Key] = Message{Text: e.Text}
	}
	if len(dateTexts) > 0 {
		out[VisitDateKey] = Message{Text: strings.Join(dateTexts, ", ")}
	}
	return out
}
