package imagelist

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List is a request field that accepts either a JSON array of URLs or a
// single delimited string (the textarea format).
type List []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = List{}
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("images: %w", err)
		}
		*l = List(Clean(items))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("images must be a string or an array of strings")
	}
	*l = List(Parse(raw))
	return nil
}
