package listing

import (
	"github.com/goccy/go-json"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindRecord
	// KindScalar covers numbers, booleans and nested lists.
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// RecognizedKeys are probed in order when an element is a record.
var RecognizedKeys = []string{"name", "filename", "file"}

// Element is one entry of a listing payload. Exactly one of Text or Record
// is meaningful, depending on Kind.
type Element struct {
	Kind   Kind
	Text   string
	Record map[string]any
	value  any
}

func newElement(v any) Element {
	switch t := v.(type) {
	case nil:
		return Element{Kind: KindNull}
	case string:
		return Element{Kind: KindString, Text: t, value: t}
	case map[string]any:
		return Element{Kind: KindRecord, Record: t, value: t}
	default:
		return Element{Kind: KindScalar, value: t}
	}
}

// Resolve returns the canonical filename for the element. ok is false when
// the element resolves to nothing and must be dropped.
func (e Element) Resolve() (name string, ok bool) {
	switch e.Kind {
	case KindNull:
		return "", false
	case KindString:
		return e.Text, e.Text != ""
	case KindRecord:
		for _, key := range RecognizedKeys {
			if name, ok := textOf(e.Record[key]); ok {
				return name, true
			}
		}
		return compact(e.Record)
	default:
		return compact(e.value)
	}
}

// textOf renders a record value. Null and empty strings are treated as absent
// so probing moves on to the next key.
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	default:
		return compact(t)
	}
}

// compact serializes v as JSON. Map keys come out sorted, which keeps the
// fallback stable across calls.
func compact(v any) (string, bool) {
	b, err := json.Marshal(v)
	if err != nil || len(b) == 0 {
		return "", false
	}
	return string(b), true
}
