package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StringList is a []string stored as a JSON column. It also accepts
// one-per-line text in request bodies, since the course form submits
// requirements and learning outcomes either way.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = SplitLines(text)
		return nil
	}

	return errors.New("expected a string array or newline-separated text")
}

// SplitLines turns one-per-line text into a trimmed list, dropping blanks.
func SplitLines(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// IntSet is a set of lesson indices stored as a JSON array.
type IntSet []int

func (s IntSet) Value() (driver.Value, error) {
	if s == nil {
		s = IntSet{}
	}
	return json.Marshal(s)
}

func (s *IntSet) Scan(value interface{}) error {
	if value == nil {
		*s = IntSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for IntSet: %T", value)
	}
}

func (s IntSet) Contains(n int) bool {
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}

// Add appends n if absent and reports whether the set changed.
func (s *IntSet) Add(n int) bool {
	if s.Contains(n) {
		return false
	}
	*s = append(*s, n)
	return true
}
