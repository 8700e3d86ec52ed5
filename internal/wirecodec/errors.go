package wirecodec

import (
	"fmt"
	"sort"
)

const snippetRadius = 32

// DecodeError reports text that is not a valid wire payload.
type DecodeError struct {
	Offset  int64
	Snippet string
	Err     error
}

func newDecodeError(data []byte, offset int64, err error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Snippet: snippet(data, offset),
		Err:     err,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wirecodec: %v at offset %d near %q", e.Err, e.Offset, e.Snippet)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func snippet(data []byte, offset int64) string {
	if len(data) == 0 {
		return ""
	}
	if offset < 0 || offset > int64(len(data)) {
		offset = 0
	}
	start := int(offset) - snippetRadius
	if start < 0 {
		start = 0
	}
	end := int(offset) + snippetRadius
	if end > len(data) {
		end = len(data)
	}
	return string(data[start:end])
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
