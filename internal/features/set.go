package features

import (
	"encoding/json"
	"fmt"
	"io"
)

// Set maps a feature name to the raw string the user entered.
type Set map[string]string

// NewSet returns a set with every name present and empty.
func NewSet(names []string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = ""
	}
	return s
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Complete reports whether the set holds exactly the given names and every
// value parses.
func (s Set) Complete(names []string) bool {
	if len(names) == 0 || len(s) != len(names) {
		return false
	}
	for _, n := range names {
		v, ok := s[n]
		if !ok {
			return false
		}
		if _, err := Parse(v); err != nil {
			return false
		}
	}
	return true
}

// Vector converts the set into the numeric array expected by the service,
// following names exactly.
func (s Set) Vector(names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, n := range names {
		raw, ok := s[n]
		if !ok {
			return nil, fmt.Errorf("missing feature %q", n)
		}
		v, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", n, err)
		}
		out[i] = v
	}
	return out, nil
}

// WriteJSON writes the set as indented JSON.
func (s Set) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ReadJSON decodes a set previously written by WriteJSON. Numeric JSON
// values are accepted too and kept in their literal form.
func ReadJSON(r io.Reader) (Set, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode feature set: %w", err)
	}

	s := make(Set, len(raw))
	for k, v := range raw {
		var str string
		if err := json.Unmarshal(v, &str); err == nil {
			s[k] = str
			continue
		}
		var num json.Number
		if err := json.Unmarshal(v, &num); err != nil {
			return nil, fmt.Errorf("feature %q: value must be a string or number", k)
		}
		s[k] = num.String()
	}
	return s, nil
}
