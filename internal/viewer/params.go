package viewer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Kind identifies the scalar type held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindNumber
)

// Value is a scalar display parameter: a string, a boolean or a number.
// Numbers keep their literal text so they render exactly as the server sent them.
type Value struct {
	kind Kind
	text string
	b    bool
}

func StringValue(s string) Value { return Value{kind: KindString, text: s} }

func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

func IntValue(i int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)} }

// NumberValue wraps a JSON number literal.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, text: n.String()} }

func (v Value) Kind() Kind { return v.kind }

// String renders the value the way it appears on the right of key=value.
func (v Value) String() string {
	if v.kind == KindBool {
		return strconv.FormatBool(v.b)
	}
	return v.text
}

// Params is an insertion-ordered mapping of display parameter names to values.
// The zero value is ready to use.
type Params struct {
	keys   []string
	values map[string]Value
}

func NewParams() *Params {
	return &Params{values: make(map[string]Value)}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position and has its value replaced.
func (p *Params) Set(key string, value Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Params) Get(key string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	v, ok := p.values[key]
	return v, ok
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// All iterates the entries in insertion order.
func (p *Params) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if p == nil {
			return
		}
		for _, key := range p.keys {
			if !yield(key, p.values[key]) {
				return
			}
		}
	}
}

func (p *Params) Clone() *Params {
	out := NewParams()
	for key, value := range p.All() {
		out.Set(key, value)
	}
	return out
}

// UnmarshalJSON decodes a flat JSON object of scalars, preserving key order.
// Null members are skipped; nested arrays or objects are rejected.
func (p *Params) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeParams(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// DecodeParams reads one JSON object from r.
func DecodeParams(r io.Reader) (*Params, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read display parameters: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("display parameters: expected JSON object, got %v", tok)
	}

	params := NewParams()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read parameter name: %w", err)
		}
		key, _ := keyTok.(string)
		if err := validateKey(key); err != nil {
			return nil, err
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read parameter %q: %w", key, err)
		}
		switch v := valTok.(type) {
		case string:
			if strings.ContainsAny(v, "\r\n") {
				return nil, fmt.Errorf("parameter %q: value spans multiple lines", key)
			}
			params.Set(key, StringValue(v))
		case bool:
			params.Set(key, BoolValue(v))
		case json.Number:
			params.Set(key, NumberValue(v))
		case nil:
		case json.Delim:
			return nil, fmt.Errorf("parameter %q: nested %s values are not supported", key, describeDelim(v))
		default:
			return nil, fmt.Errorf("parameter %q: unsupported value %v", key, v)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read display parameters: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("display parameters: unexpected data after object")
	}
	return params, nil
}

func validateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return errors.New("display parameters: empty parameter name")
	case strings.ContainsAny(key, "=\r\n"), strings.HasPrefix(key, "["):
		return fmt.Errorf("display parameters: invalid parameter name %q", key)
	}
	return nil
}

func describeDelim(d json.Delim) string {
	if d == '[' {
		return "array"
	}
	return "object"
}
