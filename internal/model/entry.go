package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Entry is a single logged occurrence of an emotion
type Entry struct {
	Emotion   string         `json:"emotion" bson:"emotion"`
	Intensity int            `json:"intensity" bson:"intensity"`
	Responses map[string]int `json:"responses" bson:"responses"` // question key -> weight
	Date      EntryDate      `json:"date" bson:"date"`
	Note      *string        `json:"note" bson:"note"`
}

// Clone returns a copy that shares no maps or pointers with e
func (e Entry) Clone() Entry {
	out := e
	out.Responses = make(map[string]int, len(e.Responses))
	for k, v := range e.Responses {
		out.Responses[k] = v
	}
	if e.Note != nil {
		note := *e.Note
		out.Note = &note
	}
	return out
}

// EntryDate is the date of an entry kept in its string form.
// Clients send ISO dates, but any JSON scalar is accepted and stringified.
type EntryDate string

// UnmarshalJSON accepts strings, numbers and booleans
func (d *EntryDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("date: %w", ErrMissingField)
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = EntryDate(s)
	case '{', '[':
		return fmt.Errorf("date: expected a scalar, got %s", data)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*d = "False"
		if b {
			*d = "True"
		}
	default:
		s, err := formatNumber(string(data))
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		*d = EntryDate(s)
	}
	return nil
}

// formatNumber renders a JSON number the way the journal has always stored
// it: integers as written, floats in shortest round-trip form with a ".0"
// suffix when integral and exponent form outside [1e-4, 1e16).
func formatNumber(lit string) (string, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0", nil
		}
		return lit, nil
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return "", err
	}
	switch {
	case math.IsInf(f, 1):
		return "inf", nil
	case math.IsInf(f, -1):
		return "-inf", nil
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64), nil
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

func (d EntryDate) String() string {
	return string(d)
}
