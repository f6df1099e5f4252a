package host

import "strings"

// FieldResolver finds schedule fields by name.
type FieldResolver interface {
	// FindByName returns the field named name. When tolerantOfPrefix is
	// set, a known name prefix such as "Material: " is ignored on both
	// sides if no exact match exists.
	FindByName(name string, tolerantOfPrefix bool) (Field, bool)
}

// FieldIndex is a FieldResolver over one schedule's fields. Build it once
// per view.
type FieldIndex struct {
	exact    map[string]Field
	bare     map[string]Field
	prefixes []string
}

// NewFieldIndex indexes fields by name. On duplicate names the first field
// wins.
func NewFieldIndex(fields []Field, prefixes []string) *FieldIndex {
	idx := &FieldIndex{
		exact:    make(map[string]Field, len(fields)),
		bare:     make(map[string]Field, len(fields)),
		prefixes: prefixes,
	}
	for _, f := range fields {
		if _, ok := idx.exact[f.Name]; !ok {
			idx.exact[f.Name] = f
		}
		b := idx.strip(f.Name)
		if _, ok := idx.bare[b]; !ok {
			idx.bare[b] = f
		}
	}
	return idx
}

func (idx *FieldIndex) FindByName(name string, tolerantOfPrefix bool) (Field, bool) {
	if f, ok := idx.exact[name]; ok {
		return f, true
	}
	if !tolerantOfPrefix {
		return Field{}, false
	}
	f, ok := idx.bare[idx.strip(name)]
	return f, ok
}

// Has reports whether an exact field name exists.
func (idx *FieldIndex) Has(name string) bool {
	_, ok := idx.exact[name]
	return ok
}

func (idx *FieldIndex) strip(name string) string {
	for _, p := range idx.prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return strings.TrimPrefix(name, p)
		}
	}
	return name
}
