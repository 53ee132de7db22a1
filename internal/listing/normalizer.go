// Package listing turns the storage service's loosely shaped listing payload
// into an ordered list of filenames.
package listing

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrEmptyPayload = errors.New("listing: empty payload")
	ErrNotAList     = errors.New("listing: payload is not a list")
)

// ParseError reports a payload that could not be decoded even after the
// quoting fallback.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("listing: parse payload: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decode parses payload into its elements, accepting single-quoted strings
// when the payload is not strict JSON.
func Decode(payload []byte) ([]Element, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, &ParseError{Err: ErrEmptyPayload}
	}

	if !json.Valid(payload) {
		payload = swapQuotes(payload)
		if !json.Valid(payload) {
			var discard any
			err := json.Unmarshal(payload, &discard)
			if err == nil {
				err = errors.New("invalid json")
			}
			return nil, &ParseError{Err: err}
		}
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Err: ErrNotAList}
	}

	elements := make([]Element, 0, len(items))
	for _, item := range items {
		elements = append(elements, newElement(item))
	}
	return elements, nil
}

// Normalize returns the canonical filename sequence for payload, in payload
// order. Elements that resolve to nothing are dropped.
func Normalize(payload []byte) ([]string, error) {
	elements, err := Decode(payload)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(elements))
	for _, el := range elements {
		if name, ok := el.Resolve(); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
