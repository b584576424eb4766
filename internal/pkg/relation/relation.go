// Package relation normalizes relation references that arrive in several payload
// shapes (raw id, {id}, {documentId}, {data:{...}}, {attributes:{...}}) into one identifier.
package relation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

type Kind uint8

const (
	KindNone Kind = iota
	// KindScalar is a bare number or string.
	KindScalar
	// KindDirect is an object carrying documentId or id itself.
	KindDirect
	// KindData is an object wrapping the reference under "data".
	KindData
	// KindAttributes is an object wrapping the reference under "attributes".
	KindAttributes
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindDirect:
		return "direct"
	case KindData:
		return "data"
	case KindAttributes:
		return "attributes"
	default:
		return "none"
	}
}

// ErrUnrecognized is returned when a non-null payload matches none of the known shapes.
var ErrUnrecognized = errors.New("relation: unrecognized reference shape")

// Ref is a classified relation reference. The zero value resolves to nothing.
type Ref struct {
	kind Kind
	id   string
}

// ID builds a scalar reference; an empty id yields the zero Ref.
func ID(id string) Ref {
	id = strings.TrimSpace(id)
	if id == "" {
		return Ref{}
	}
	return Ref{kind: KindScalar, id: id}
}

func (r Ref) Kind() Kind { return r.kind }

// ID returns the resolved identifier and whether one was found.
func (r Ref) ID() (string, bool) {
	if r.kind == KindNone || r.id == "" {
		return "", false
	}
	return r.id, true
}

func (r Ref) IsZero() bool { return r.kind == KindNone }

// Parse classifies a decoded JSON value. Shapes are tried in order: scalar,
// direct documentId/id, data wrapper, attributes wrapper. The first non-empty match wins.
func Parse(v any) Ref {
	if id, ok := scalar(v); ok {
		return Ref{kind: KindScalar, id: id}
	}

	m, ok := v.(map[string]any)
	if !ok {
		return Ref{}
	}
	if id, ok := idField(m); ok {
		return Ref{kind: KindDirect, id: id}
	}
	if inner, ok := m["data"].(map[string]any); ok {
		if id, ok := idField(inner); ok {
			return Ref{kind: KindData, id: id}
		}
	}
	if inner, ok := m["attributes"].(map[string]any); ok {
		if id, ok := idField(inner); ok {
			return Ref{kind: KindAttributes, id: id}
		}
	}
	return Ref{}
}

// ParseJSON decodes raw JSON and classifies it. Invalid JSON that is not a bare
// token (e.g. form values such as "12" or an uuid) is treated as a scalar string.
func ParseJSON(raw []byte) Ref {
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return ID(string(raw))
	}
	return Parse(v)
}

// UnmarshalJSON accepts null as "no reference" and rejects any other payload
// that does not resolve to an identifier.
func (r *Ref) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*r = Ref{}
		return nil
	}
	var v any
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	ref := Parse(v)
	if ref.IsZero() {
		return ErrUnrecognized
	}
	*r = ref
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if id, ok := r.ID(); ok {
		return sonic.Marshal(id)
	}
	return []byte("null"), nil
}

// FieldID resolves a named relation (e.g. "company", "subcontractor") off a
// project-like record, trying the field itself, then under "attributes", then under "relations".
func FieldID(record map[string]any, field string) (string, bool) {
	if record == nil {
		return "", false
	}
	if id, ok := Parse(record[field]).ID(); ok {
		return id, true
	}
	for _, wrapper := range []string{"attributes", "relations"} {
		inner, ok := record[wrapper].(map[string]any)
		if !ok {
			continue
		}
		if id, ok := Parse(inner[field]).ID(); ok {
			return id, true
		}
	}
	return "", false
}

func idField(m map[string]any) (string, bool) {
	for _, key := range []string{"documentId", "id"} {
		if id, ok := scalar(m[key]); ok {
			return id, true
		}
	}
	return "", false
}

func scalar(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		s = t.String()
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint64:
		s = strconv.FormatUint(t, 10)
	default:
		return "", false
	}
	return s, s != ""
}
