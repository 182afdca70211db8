package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// fieldError is returned by the lenient decoders below so the handler can name the field
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.reason)
}

// normalizeList turns a list field that arrived as a string into a list. The string is first
// decoded as a JSON array; when that fails it is split on commas. Items are trimmed and empty
// items dropped. Lists that arrive as real JSON arrays never reach this function.
func normalizeList(raw string) []string {
	raw = strings.TrimSpace(raw)
	out := []string{}
	if raw == "" {
		return out
	}
	if strings.HasPrefix(raw, "[") {
		var items []any
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			for _, item := range items {
				if s, ok := scalarString(item); ok && s != "" {
					out = append(out, s)
				}
			}
			return out
		}
	}
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// flexList accepts a JSON array, a JSON-encoded array inside a string, or a comma separated string
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := scalarString(item)
			if !ok {
				return fmt.Errorf("list items must be strings")
			}
			if s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("expected a list or a string")
		}
		*l = normalizeList(s)
		return nil
	}
}

// flexBool accepts true/false or their string spellings; Set is false when the field was absent or empty
type flexBool struct {
	Set   bool
	Value bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*b = flexBool{}
	case bool:
		*b = flexBool{Set: true, Value: t}
	case string:
		if strings.TrimSpace(t) == "" {
			*b = flexBool{}
			return nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", t)
		}
		*b = flexBool{Set: true, Value: parsed}
	default:
		return fmt.Errorf("expected true or false")
	}
	return nil
}

func (b flexBool) Or(def bool) bool {
	if b.Set {
		return b.Value
	}
	return def
}

func (b flexBool) Ptr() *bool {
	if !b.Set {
		return nil
	}
	v := b.Value
	return &v
}

// flexInt accepts a JSON number or a numeric string
type flexInt struct {
	Set   bool
	Value int
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*n = flexInt{}
	case float64:
		*n = flexInt{Set: true, Value: int(t)}
	case string:
		if strings.TrimSpace(t) == "" {
			*n = flexInt{}
			return nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("expected a whole number, got %q", t)
		}
		*n = flexInt{Set: true, Value: parsed}
	default:
		return fmt.Errorf("expected a number")
	}
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// flexTime accepts RFC 3339 timestamps and plain dates
type flexTime struct {
	Set   bool
	Value time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a date string")
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		*t = flexTime{}
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			*t = flexTime{Set: true, Value: parsed}
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", *s)
}

func (t flexTime) Ptr() *time.Time {
	if !t.Set {
		return nil
	}
	v := t.Value
	return &v
}

// challengeList accepts the challenges as a JSON array or as a JSON array encoded in a string
type challengeList []models.Challenge

func (c *challengeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*c = nil
			return nil
		}
		data = []byte(s)
	}
	var out []models.Challenge
	if err := json.Unmarshal(data, &out); err != nil {
		return &fieldError{field: "technicalChallengesAndSolutions", reason: "Invalid JSON for technicalChallengesAndSolutions"}
	}
	*c = out
	return nil
}

// linkList accepts footer links as a JSON array or as a JSON array encoded in a string
type linkList []models.Link

func (l *linkList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	var out []models.Link
	if err := json.Unmarshal(data, &out); err != nil {
		return &fieldError{field: "links", reason: "links must be a list of {icon, url}"}
	}
	*l = out
	return nil
}
