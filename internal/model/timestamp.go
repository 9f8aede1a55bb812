package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp is a point in time stored as text in the task document.
// Text that matches no known layout is kept verbatim in raw and written
// back unchanged.
type Timestamp struct {
	time.Time
	raw string
}

// Accepted on read. Older documents use the space-separated form.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// NewTimestamp drops the monotonic clock reading so values compare equal
// after a round trip through the document.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Round(0)}
}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Raw returns the stored text when it could not be parsed.
func (ts Timestamp) Raw() (string, bool) {
	return ts.raw, ts.raw != ""
}

func (ts Timestamp) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	return ts.Time.Format(time.RFC3339Nano)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be text: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		*ts = Timestamp{raw: s}
		return nil
	}
	*ts = parsed
	return nil
}
