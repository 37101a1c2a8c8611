package field

// Descriptor describes one attribute of a layer.
type Descriptor struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of attribute descriptors of a layer.
type Schema []Descriptor

// Index returns the position of the named attribute, or -1.
func (schema Schema) Index(name string) int {
	for i := range schema {
		if schema[i].Name == name {
			return i
		}
	}
	return -1
}

// Merge returns the schema extended with the fields of list that it does
// not know yet. The kind of a known attribute is upgraded from Null when
// the list carries a typed value.
func (schema Schema) Merge(list List) Schema {
	list.Scan(func(f Field) bool {
		i := schema.Index(f.Name())
		if i < 0 {
			schema = append(schema, Descriptor{Name: f.Name(), Kind: f.Value().Kind()})
		} else if schema[i].Kind == Null {
			schema[i].Kind = f.Value().Kind()
		}
		return true
	})
	return schema
}

// Names returns the attribute names in order.
func (schema Schema) Names() []string {
	names := make([]string, len(schema))
	for i := range schema {
		names[i] = schema[i].Name
	}
	return names
}
