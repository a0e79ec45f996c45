package models

import (
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var looseJSON = jsoniter.Config{UseNumber: true}.Froze()

// decodeLoose reads a JSON string or number as text. The scheduler is not
// consistent about quoting its ids and codes.
func decodeLoose(data []byte) (string, error) {
	var raw any
	if err := looseJSON.Unmarshal(data, &raw); err != nil {
		return "", err
	}
	switch val := raw.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", nil
	}
}

// EventID is the appointment identifier handed over by the scheduling system.
type EventID string

// IsZero reports whether the id is missing. Drafts in the scheduler come
// through with a literal zero.
func (v EventID) IsZero() bool {
	s := v.String()
	return s == "" || s == "0"
}

func (v EventID) String() string {
	return strings.TrimSpace(string(v))
}

func (v *EventID) UnmarshalJSON(data []byte) error {
	s, err := decodeLoose(data)
	*v = EventID(s)
	return err
}

// StatusCode is an appointment status as sent by the scheduler, either a
// name or its numeric code. See ParseStatus.
type StatusCode string

func (v *StatusCode) UnmarshalJSON(data []byte) error {
	s, err := decodeLoose(data)
	*v = StatusCode(s)
	return err
}
