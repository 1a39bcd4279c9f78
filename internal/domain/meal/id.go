package meal

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
)

// ID is a meal id exactly as it appeared in JSON: a number literal (1, 1.0) or a
// quoted string ("abc"). The menu source is free to use either, and ids are written
// back in the form they arrived in.
type ID string

// StringID builds the id of a string-typed JSON id.
func StringID(s string) ID {
	b, _ := json.Marshal(s)
	return ID(b)
}

// ParseID reads an id from plain text such as a path segment. Text that is a JSON
// number becomes a numeric id, anything else a string id.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if isNumber(s) {
		return ID(s)
	}
	return StringID(s)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = ""
			return nil
		}
		*id = StringID(s)
		return nil
	}

	if !isNumber(string(b)) {
		return errors.New("id must be a string or a number")
	}
	*id = ID(b)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.IsNumber() || id.isQuoted() {
		return []byte(id), nil
	}
	// built from a bare Go string
	return json.Marshal(string(id))
}

func (id ID) IsZero() bool { return id == "" }

func (id ID) IsNumber() bool { return isNumber(string(id)) }

// String is the id's text without JSON quoting.
func (id ID) String() string {
	if id.isQuoted() {
		var s string
		if err := json.Unmarshal([]byte(id), &s); err == nil {
			return s
		}
	}
	return string(id)
}

// Equal compares two numeric ids by value (1 equals 1.0) and everything else by text.
func (id ID) Equal(other ID) bool {
	if id.IsNumber() && other.IsNumber() {
		a, okA := new(big.Rat).SetString(string(id))
		b, okB := new(big.Rat).SetString(string(other))
		if okA && okB {
			return a.Cmp(b) == 0
		}
	}
	return id != "" && id.String() == other.String()
}

func (id ID) isQuoted() bool {
	return len(id) >= 2 && id[0] == '"' && id[len(id)-1] == '"'
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	var n json.Number
	if err := json.Unmarshal([]byte(s), &n); err != nil {
		return false
	}
	return n.String() == s
}
