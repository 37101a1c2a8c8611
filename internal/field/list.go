package field

import "github.com/tidwall/gjson"

// List is an ordered attribute record. Fields keep the order in which they
// were first set. A List is never modified in place, Set returns a copy.
type List struct {
	entries []Field
}

// NewList returns a list of the provided fields. Later duplicates replace
// the value of earlier ones.
func NewList(fields ...Field) List {
	var list List
	for _, f := range fields {
		list = list.Set(f)
	}
	return list
}

func (fields List) index(name string) int {
	for i := range fields.entries {
		if fields.entries[i].name == name {
			return i
		}
	}
	return -1
}

// Set returns a copy of the list with the field set. An existing field
// keeps its position.
func (fields List) Set(field Field) List {
	var updated List
	if i := fields.index(field.name); i >= 0 {
		if fields.entries[i].value.Equals(field.value) {
			return fields
		}
		updated.entries = make([]Field, len(fields.entries))
		copy(updated.entries, fields.entries)
		updated.entries[i].value = field.value
		return updated
	}
	updated.entries = make([]Field, len(fields.entries)+1)
	copy(updated.entries, fields.entries)
	updated.entries[len(fields.entries)] = field
	return updated
}

// Get returns the named field. Missing fields have a null value.
func (fields List) Get(name string) Field {
	if i := fields.index(name); i >= 0 {
		return fields.entries[i]
	}
	return Field{name: name, value: NullValue}
}

func (fields List) Scan(iter func(field Field) bool) {
	for _, f := range fields.entries {
		if !iter(f) {
			return
		}
	}
}

func (fields List) Len() int {
	return len(fields.entries)
}

// Equals returns true when both lists hold the same fields in the same
// order.
func (fields List) Equals(other List) bool {
	if len(fields.entries) != len(other.entries) {
		return false
	}
	for i := range fields.entries {
		a, b := fields.entries[i], other.entries[i]
		if a.name != b.name || !a.value.Equals(b.value) {
			return false
		}
	}
	return true
}

// String returns the list as a JSON object.
func (fields List) String() string {
	return string(fields.AppendJSON(nil))
}

// AppendJSON appends the list as a JSON object.
func (fields List) AppendJSON(dst []byte) []byte {
	dst = append(dst, '{')
	for i, f := range fields.entries {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = gjson.AppendJSONString(dst, f.name)
		dst = append(dst, ':')
		dst = append(dst, f.value.JSON()...)
	}
	return append(dst, '}')
}

// ParseJSON reads a JSON object, such as GeoJSON "properties", into a list.
// Anything other than an object yields an empty list.
func ParseJSON(json string) List {
	var list List
	res := gjson.Parse(json)
	if !res.IsObject() {
		return list
	}
	res.ForEach(func(key, value gjson.Result) bool {
		list = list.Set(New(key.String(), FromJSON(value)))
		return true
	})
	return list
}
