package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type integer interface {
	~int16 | ~int32 | ~int64
}

// enumTable maps a closed set of integer codes to their human readable tags. The numeric
// codes are a wire contract shared with the database and other services; never renumber.
type enumTable[T integer] struct {
	kind   string
	names  map[T]string
	values map[string]T
}

func newEnumTable[T integer](kind string, names map[T]string) enumTable[T] {
	values := make(map[string]T, len(names))
	for v, name := range names {
		values[name] = v
	}
	return enumTable[T]{kind: kind, names: names, values: values}
}

func (t enumTable[T]) name(v T) (string, bool) {
	name, ok := t.names[v]
	return name, ok
}

func (t enumTable[T]) valid(v T) bool {
	_, ok := t.names[v]
	return ok
}

// known reports whether n is a code of the table without narrowing it first.
func (t enumTable[T]) known(n int64) bool {
	return int64(T(n)) == n && t.valid(T(n))
}

// decode accepts a JSON number, a quoted number or one of the tags.
func (t enumTable[T]) decode(data []byte) (T, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		if v, ok := t.values[s]; ok {
			return v, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && t.known(n) {
			return T(n), nil
		}
		return 0, fmt.Errorf("invalid %s %q: expected an integer or string", t.kind, s)
	}

	var n int64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return 0, fmt.Errorf("invalid %s %s: expected an integer or string", t.kind, trimmed)
	}
	if !t.known(n) {
		return 0, fmt.Errorf("invalid %s %d", t.kind, n)
	}
	return T(n), nil
}

func encodeCode[T integer](v T) []byte {
	return strconv.AppendInt(nil, int64(v), 10)
}
