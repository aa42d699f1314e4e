package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
)

// Object is a decoded JSON object that remembers the order its keys appeared
// in. Repeated keys keep their first position and their last value.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores v under key, appending key to the key order if it is new.
func (o *Object) Set(key string, v any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the object's keys in document order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Len returns the number of distinct keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Load reads the manifest at path and decodes it.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// maxDepth matches the nesting limit of json.Unmarshal.
const maxDepth = 10000

var errTooDeep = errors.New("exceeded max nesting depth")

// Decode reads exactly one JSON value from r.
//
// Objects decode to *Object, arrays to []any, numbers to json.Number, and
// strings, booleans and null to their usual Go values. Any content after the
// first value is a ParseError, as is nesting deeper than 10000 levels.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, newParseError(dec, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, newParseError(dec, err)
		}
		return nil, &ParseError{
			Offset: dec.InputOffset(),
			Msg:    fmt.Sprintf("unexpected data after top-level value at offset %d", dec.InputOffset()),
		}
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if depth >= maxDepth {
		return nil, errTooDeep
	}
	switch delim {
	case '{':
		return decodeObject(dec, depth+1)
	case '[':
		return decodeArray(dec, depth+1)
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

func decodeObject(dec *json.Decoder, depth int) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		v, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder, depth int) ([]any, error) {
	items := []any{}
	for dec.More() {
		v, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func newParseError(dec *json.Decoder, err error) *ParseError {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return &ParseError{
			Offset: syntaxErr.Offset,
			Msg:    fmt.Sprintf("%s (offset %d)", syntaxErr.Error(), syntaxErr.Offset),
			Err:    err,
		}
	case errors.Is(err, errTooDeep):
		return &ParseError{
			Offset: dec.InputOffset(),
			Msg:    fmt.Sprintf("%s at offset %d", errTooDeep, dec.InputOffset()),
			Err:    err,
		}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &ParseError{
			Offset: dec.InputOffset(),
			Msg:    "unexpected end of JSON input",
			Err:    err,
		}
	default:
		return &ParseError{Offset: dec.InputOffset(), Msg: err.Error(), Err: err}
	}
}

// asObject reports whether v is a JSON object. Plain maps (as produced by
// json.Unmarshal into any) are accepted and iterated in sorted key order.
func asObject(v any) (*Object, bool) {
	switch obj := v.(type) {
	case *Object:
		return obj, obj != nil
	case map[string]any:
		if obj == nil {
			return nil, false
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := &Object{keys: keys, values: obj}
		return out, true
	default:
		return nil, false
	}
}

func asArray(v any) ([]any, bool) {
	items, ok := v.([]any)
	return items, ok
}
